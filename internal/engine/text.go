package engine

// TextResolver turns prompt and option label keys into display text. The
// catalog itself never embeds prose; hosts inject a resolver so that
// localization and formatting stay outside the graph.
type TextResolver interface {
	Resolve(key string, context map[string]string) string
}

// ResolverFunc adapts a plain function to the TextResolver interface.
type ResolverFunc func(key string, context map[string]string) string

func (f ResolverFunc) Resolve(key string, context map[string]string) string {
	return f(key, context)
}

// mapResolver resolves keys from a static table, falling back to the key
// itself so a missing entry degrades visibly instead of panicking.
type mapResolver map[string]string

func (m mapResolver) Resolve(key string, _ map[string]string) string {
	if text, ok := m[key]; ok {
		return text
	}
	return key
}

// DefaultTextResolver returns the built-in English text table for the
// seizure triage catalog.
func DefaultTextResolver() TextResolver {
	return defaultEnglish
}

var defaultEnglish = mapResolver{
	"question.seizure_type":       "Which description best matches the event?",
	"question.staring_recovery":   "After a staring episode, how quickly did full awareness return?",
	"question.automatisms":        "Were there automatic movements such as lip smacking or fumbling?",
	"question.morning_myoclonus":  "Do the jerks cluster in the first hour after waking?",
	"question.pnes_features":      "Which of the following were observed during the event?",
	"question.aura":               "Was there a warning sensation before the event?",
	"question.eyes_state":         "Were the eyes open or closed during the event?",
	"question.motor_pattern":      "Which movement pattern best describes the event?",
	"question.responsiveness":     "Could the person respond during the event?",
	"question.duration_seconds":   "Roughly how long did the event last, in seconds?",
	"question.recovery":           "How quickly did the person recover afterwards?",
	"question.post_ictal":         "Was there confusion or drowsiness after the event?",
	"question.tongue_bite":        "Was the tongue bitten during the event?",
	"question.todd_paralysis":     "Was there weakness on one side of the body after the event?",
	"question.triggers":           "Did anything appear to trigger the event?",
	"question.sleep_related":      "Do the events arise from sleep?",
	"question.stereotyped":        "Are the events brief and nearly identical each time?",
	"question.structural_history": "Is there a history of significant head injury, stroke, or brain infection?",

	"option.yes": "Yes",
	"option.no":  "No",

	"option.seizure_type.absence":                "Brief staring spell",
	"option.seizure_type.myoclonic":              "Sudden brief jerks",
	"option.seizure_type.atonic":                 "Sudden loss of muscle tone",
	"option.seizure_type.bilateral_tonic_clonic": "Whole-body convulsion",
	"option.seizure_type.focal_aware":            "Localized symptoms, awareness kept",
	"option.seizure_type.focal_impaired":         "Localized onset with impaired awareness",
	"option.seizure_type.possible_dissociative":  "Possibly stress-related / dissociative event",
	"option.seizure_type.unknown":                "Hard to say",

	"option.staring_recovery.immediate": "Immediately, as if nothing happened",
	"option.staring_recovery.confused":  "After a short period of confusion",
	"option.staring_recovery.prolonged": "Slowly, over many minutes",

	"option.pnes_features.eyes_closed":        "Eyes were forcefully closed",
	"option.pnes_features.long_duration":      "The event lasted several minutes or longer",
	"option.pnes_features.chaotic_movements":  "Irregular, thrashing movements",
	"option.pnes_features.responsive_during":  "Could respond during the event",
	"option.pnes_features.immediate_recovery": "Recovered immediately afterwards",
	"option.pnes_features.none":               "None of these",

	"option.eyes_state.open":   "Open",
	"option.eyes_state.closed": "Closed",
	"option.eyes_state.unsure": "Not sure",

	"option.motor_pattern.rhythmic_jerking":  "Rhythmic jerking",
	"option.motor_pattern.chaotic_thrashing": "Chaotic thrashing",
	"option.motor_pattern.stiffening":        "Stiffening",
	"option.motor_pattern.none":              "No prominent movements",

	"option.responsiveness.yes":     "Yes",
	"option.responsiveness.partial": "Partially",
	"option.responsiveness.no":      "No",

	"option.recovery.immediate":           "Immediately",
	"option.recovery.minutes":             "Within a few minutes",
	"option.recovery.prolonged_confusion": "Prolonged confusion or sleepiness",

	"option.triggers.stress":             "Emotional stress",
	"option.triggers.pain":               "Pain",
	"option.triggers.prolonged_standing": "Prolonged standing",
	"option.triggers.lightheadedness":    "Light-headedness beforehand",
	"option.triggers.sleep_deprivation":  "Sleep deprivation",
	"option.triggers.flashing_lights":    "Flashing lights",
	"option.triggers.none":               "Nothing identifiable",

	"option.structural_history.no":            "No",
	"option.structural_history.head_injury":   "Significant head injury",
	"option.structural_history.stroke":        "Stroke",
	"option.structural_history.cns_infection": "Brain or meningeal infection",
}
