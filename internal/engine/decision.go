package engine

import "math"

// Label is the summary classification of the triage run.
type Label string

const (
	LabelFocal        Label = "focal"
	LabelGeneralized  Label = "generalized"
	LabelNonEpileptic Label = "non_epileptic"
	LabelUnknown      Label = "unknown"
)

// Probabilities is the softmax-normalized distribution over the three raw
// scores. The components always sum to 1 within floating-point tolerance.
type Probabilities struct {
	Focal       float64 `json:"focal"`
	Generalized float64 `json:"generalized"`
	PNES        float64 `json:"pnes"`
}

// Decision is the output of the margin-based decision policy.
type Decision struct {
	Label         Label         `json:"label"`
	Probabilities Probabilities `json:"probabilities"`
	Confidence    float64       `json:"confidence"`
	Borderline    bool          `json:"borderline"`
}

// softmax3 normalizes three raw scores into a probability distribution,
// subtracting the max before exponentiating for numerical stability.
func softmax3(a, b, c float64) (float64, float64, float64) {
	m := math.Max(a, math.Max(b, c))
	ea := math.Exp(a - m)
	eb := math.Exp(b - m)
	ec := math.Exp(c - m)
	sum := ea + eb + ec
	return ea / sum, eb / sum, ec / sum
}

// Decide applies the decision policy to a scoring pass:
//
//  1. the hard PNES gate short-circuits everything,
//  2. generalized wins only with the configured margin over focal and a
//     minimum absolute score,
//  3. focal symmetrically,
//  4. otherwise the label stays unknown.
//
// Ambiguity never fails: an unknown label is a first-class outcome.
func Decide(scores ScoreSet, th Thresholds) Decision {
	pf, pg, pp := softmax3(scores.Focal, scores.Generalized, scores.PNES)
	probs := Probabilities{Focal: pf, Generalized: pg, PNES: pp}
	confidence := math.Max(pf, math.Max(pg, pp))

	var label Label
	switch {
	case scores.HighPNES:
		label = LabelNonEpileptic
	case scores.Generalized >= scores.Focal+th.DecisionMargin && scores.Generalized >= th.MinWinningScore:
		label = LabelGeneralized
	case scores.Focal >= scores.Generalized+th.DecisionMargin && scores.Focal >= th.MinWinningScore:
		label = LabelFocal
	default:
		label = LabelUnknown
	}

	gap := math.Abs(pf - pg)
	borderline := scores.UnusualPattern ||
		(gap < th.BorderlineGap && confidence < th.BorderlineConfidence)

	return Decision{
		Label:         label,
		Probabilities: probs,
		Confidence:    confidence,
		Borderline:    borderline,
	}
}
