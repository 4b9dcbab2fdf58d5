package engine

// Target names one of the running classifier scores.
type Target string

const (
	TargetFocal       Target = "focal"
	TargetGeneralized Target = "generalized"
	TargetPNES        Target = "pnes"
)

// Thresholds collects the calibration constants of the scoring and decision
// policy. The margin and gate values come from the source calibration and
// are deliberately not re-derived; override only with a clinically reviewed
// replacement.
type Thresholds struct {
	PNESGate             float64
	DecisionMargin       float64
	MinWinningScore      float64
	AgePriorCutoffYears  int
	ProlongedEventSec    float64
	StatusEpilepticusSec float64
	BorderlineGap        float64
	BorderlineConfidence float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PNESGate:             4,
		DecisionMargin:       2,
		MinWinningScore:      2,
		AgePriorCutoffYears:  25,
		ProlongedEventSec:    120,
		StatusEpilepticusSec: 300,
		BorderlineGap:        0.15,
		BorderlineConfidence: 0.75,
	}
}

// Contributor records a single rule's effect on a score, kept for the
// explanation section of the final result.
type Contributor struct {
	Feature      string  `json:"feature"`
	Target       Target  `json:"target"`
	Contribution float64 `json:"contribution"`
}

// ScoreSet is the accumulator produced by one scoring pass: the three raw
// scores, the contributor trail, and the auxiliary boolean signals the
// decision policy and mapper read.
type ScoreSet struct {
	Focal       float64
	Generalized float64
	PNES        float64

	Contributors []Contributor

	// GateScore sums only the primary non-epileptic indicator rules; the
	// hard PNES gate compares it against Thresholds.PNESGate.
	GateScore float64

	HighPNES           bool
	SyncopeSuspected   bool
	UnusualPattern     bool
	PossibleOverlap    bool
	HighRiskStructural bool
}

func (s *ScoreSet) add(feature string, target Target, weight float64) {
	switch target {
	case TargetFocal:
		s.Focal += weight
	case TargetGeneralized:
		s.Generalized += weight
	case TargetPNES:
		s.PNES += weight
	}
	s.Contributors = append(s.Contributors, Contributor{
		Feature:      feature,
		Target:       target,
		Contribution: weight,
	})
}

func (s *ScoreSet) score(target Target) float64 {
	switch target {
	case TargetFocal:
		return s.Focal
	case TargetGeneralized:
		return s.Generalized
	default:
		return s.PNES
	}
}

// responseView wraps the raw responses with the typed accessors the rule
// predicates need. All lookups tolerate missing answers.
type responseView struct {
	responses  map[string]Answer
	ageAtOnset int
	th         Thresholds
}

func (v *responseView) has(questionID, value string) bool {
	a, ok := v.responses[questionID]
	return ok && a.contains(value)
}

func (v *responseView) answered(questionID string) bool {
	_, ok := v.responses[questionID]
	return ok
}

func (v *responseView) number(questionID string) (float64, bool) {
	a, ok := v.responses[questionID]
	if !ok || a.Kind != KindNumber {
		return 0, false
	}
	return a.Number, true
}

// values returns the normalized multi-select values for questionID,
// dropping the "none" placeholder.
func (v *responseView) values(questionID string) []string {
	a, ok := v.responses[questionID]
	if !ok {
		return nil
	}
	var out []string
	for _, val := range a.normalized() {
		if val != "none" {
			out = append(out, val)
		}
	}
	return out
}

func (v *responseView) seizureType(types ...string) bool {
	for _, t := range types {
		if v.has(QSeizureType, t) {
			return true
		}
	}
	return false
}

// ===== Composite evidence predicates =====
//
// Several observations arrive on two routes: the dedicated checklist of a
// suspected dissociative event (pnes_features) or the step-by-step
// semiology questions of the convulsive path. Predicates accept either.

func (v *responseView) eyesClosed() bool {
	return v.has(QEyesState, "closed") || v.has(QPNESFeatures, "eyes_closed")
}

func (v *responseView) prolongedEvent() bool {
	if d, ok := v.number(QDuration); ok && d >= v.th.ProlongedEventSec {
		return true
	}
	return v.has(QPNESFeatures, "long_duration")
}

func (v *responseView) chaoticMotor() bool {
	return v.has(QMotorPattern, "chaotic_thrashing") || v.has(QPNESFeatures, "chaotic_movements")
}

func (v *responseView) responsiveDuring() bool {
	return v.has(QResponsiveness, "yes") || v.has(QPNESFeatures, "responsive_during")
}

// incongruentRecovery: instant recovery despite a prolonged event, or the
// equivalent checklist feature. Immediate recovery from a brief event is
// unremarkable and must not count toward the gate (syncope mimics depend
// on it staying clean).
func (v *responseView) incongruentRecovery() bool {
	if v.has(QPNESFeatures, "immediate_recovery") {
		return true
	}
	return v.has(QRecovery, "immediate") && v.prolongedEvent()
}

func (v *responseView) structuralHistory() bool {
	return v.has(QStructural, "head_injury") || v.has(QStructural, "stroke") || v.has(QStructural, "cns_infection")
}

func (v *responseView) situationalTriggers() []string {
	situational := map[string]bool{
		"stress":             true,
		"pain":               true,
		"prolonged_standing": true,
		"lightheadedness":    true,
	}
	var out []string
	for _, t := range v.values(QTriggers) {
		if situational[t] {
			out = append(out, t)
		}
	}
	return out
}

func (v *responseView) statusDuration() bool {
	d, ok := v.number(QDuration)
	return ok && d >= v.th.StatusEpilepticusSec
}

// Score runs the ordered rule table over the responses and returns the
// accumulator. Pure: identical inputs yield an identical ScoreSet,
// contributor order included.
func Score(responses map[string]Answer, ageAtOnsetYears int, th Thresholds) ScoreSet {
	v := &responseView{responses: responses, ageAtOnset: ageAtOnsetYears, th: th}
	acc := ScoreSet{}
	for _, r := range scoringRules {
		r.apply(v, &acc)
	}
	acc.HighPNES = acc.GateScore >= th.PNESGate
	return acc
}
