package engine

// Onset is the clinical onset classification of the final result.
type Onset string

const (
	OnsetFocal        Onset = "focal"
	OnsetGeneralized  Onset = "generalized"
	OnsetNonEpileptic Onset = "non_epileptic"
	OnsetUnknown      Onset = "unknown"
)

// Awareness describes awareness during the event.
type Awareness string

const (
	AwarenessRetained Awareness = "retained"
	AwarenessImpaired Awareness = "impaired"
	AwarenessUnknown  Awareness = "unknown"
)

// Profile names the clinical pattern selected by the mapper.
type Profile string

const (
	ProfileTypicalAbsence    Profile = "typical_absence"
	ProfileAtypicalAbsence   Profile = "atypical_absence"
	ProfileJuvenileMyoclonic Profile = "juvenile_myoclonic_pattern"
	ProfileAtonic            Profile = "atonic"
	ProfileGeneralizedTC     Profile = "generalized_tonic_clonic"
	ProfileFocalToBilateral  Profile = "focal_to_bilateral"
	ProfileFocalAware        Profile = "focal_aware"
	ProfileFocalImpaired     Profile = "focal_impaired_awareness"
	ProfileStatusEpilepticus Profile = "status_epilepticus"
	ProfileNonEpileptic      Profile = "non_epileptic_event"
	ProfileSyncope           Profile = "suspected_syncope"
	ProfileUnclassified      Profile = "unclassified"
)

// Result is the immutable output of a completed triage run and the only
// artifact exposed to collaborators. SessionContext is the caller's opaque
// handle, echoed back untouched.
type Result struct {
	SessionContext string `json:"session_context,omitempty"`

	Label         Label         `json:"label"`
	Onset         Onset         `json:"onset"`
	Awareness     Awareness     `json:"awareness"`
	MotorFeatures string        `json:"motor_features"`
	Profile       Profile       `json:"profile"`
	Probabilities Probabilities `json:"probabilities"`
	Confidence    float64       `json:"confidence"`

	RedFlag          bool `json:"red_flag"`
	PossibleOverlap  bool `json:"possible_overlap"`
	SyncopeSuspected bool `json:"syncope_suspected"`
	Borderline       bool `json:"borderline"`

	Recommendations []string      `json:"recommendations"`
	Explanation     []Contributor `json:"explanation"`
}
