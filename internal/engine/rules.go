package engine

// rule is one entry of the ordered scoring table. Most rules are plain
// "predicate holds → add weight to target" entries; the corrective rules at
// the end of the table read the flags and gate score accumulated by earlier
// entries, so the table order is part of the calibration.
type rule struct {
	name  string
	apply func(v *responseView, acc *ScoreSet)
}

// weighted builds the common single-target rule shape.
func weighted(name string, target Target, weight float64, when func(*responseView) bool) rule {
	return rule{name: name, apply: func(v *responseView, acc *ScoreSet) {
		if when(v) {
			acc.add(name, target, weight)
		}
	}}
}

// gate builds a primary non-epileptic indicator rule: it raises the PNES
// score and counts toward the hard gate total.
func gate(name string, weight float64, when func(*responseView) bool) rule {
	return rule{name: name, apply: func(v *responseView, acc *ScoreSet) {
		if when(v) {
			acc.add(name, TargetPNES, weight)
			acc.GateScore += weight
		}
	}}
}

var scoringRules = []rule{
	// --- primary non-epileptic indicators (the gate) ---
	gate("reported_dissociative_event", 1, func(v *responseView) bool {
		return v.seizureType(TypeDissociative)
	}),
	gate("eyes_closed_during_event", 2, (*responseView).eyesClosed),
	gate("prolonged_event_duration", 2, (*responseView).prolongedEvent),
	gate("chaotic_motor_pattern", 1, (*responseView).chaoticMotor),
	gate("responsive_during_event", 1, (*responseView).responsiveDuring),
	gate("incongruent_rapid_recovery", 1, (*responseView).incongruentRecovery),

	// --- lateralizing and focal-vs-generalized evidence ---
	weighted("warning_aura_present", TargetFocal, 2, func(v *responseView) bool {
		return v.has(QAura, "yes")
	}),
	{name: "structural_brain_history", apply: func(v *responseView, acc *ScoreSet) {
		if v.structuralHistory() {
			acc.add("structural_brain_history", TargetFocal, 2)
			acc.HighRiskStructural = true
		}
	}},
	weighted("absence_presentation", TargetGeneralized, 3, func(v *responseView) bool {
		return v.seizureType(TypeAbsence)
	}),
	weighted("myoclonic_presentation", TargetGeneralized, 2, func(v *responseView) bool {
		return v.seizureType(TypeMyoclonic)
	}),
	weighted("atonic_presentation", TargetGeneralized, 2, func(v *responseView) bool {
		return v.seizureType(TypeAtonic)
	}),
	weighted("bilateral_convulsive_presentation", TargetGeneralized, 2, func(v *responseView) bool {
		return v.seizureType(TypeBilateralTC)
	}),
	weighted("focal_onset_presentation", TargetFocal, 3, func(v *responseView) bool {
		return v.seizureType(TypeFocalAware, TypeFocalImpaired)
	}),
	{name: "todd_phenomenon", apply: func(v *responseView, acc *ScoreSet) {
		if v.has(QToddParalysis, "yes") {
			acc.add("todd_phenomenon", TargetFocal, 3)
			acc.HighRiskStructural = true
		}
	}},
	weighted("morning_myoclonus_clustering", TargetGeneralized, 2, func(v *responseView) bool {
		return v.has(QMorningMyoclonus, "yes")
	}),
	weighted("typical_absence_recovery", TargetGeneralized, 2, func(v *responseView) bool {
		return v.seizureType(TypeAbsence) && v.has(QStaringRecovery, "immediate")
	}),
	weighted("slow_absence_recovery", TargetFocal, 1, func(v *responseView) bool {
		return v.seizureType(TypeAbsence) && v.has(QStaringRecovery, "prolonged")
	}),
	weighted("automatisms_present", TargetFocal, 1, func(v *responseView) bool {
		return v.has(QAutomatisms, "yes")
	}),

	// --- age-at-onset prior ---
	{name: "age_at_onset_prior", apply: func(v *responseView, acc *ScoreSet) {
		if v.ageAtOnset <= 0 {
			return
		}
		if v.ageAtOnset < v.th.AgePriorCutoffYears {
			acc.add("age_at_onset_prior", TargetGeneralized, 1)
		} else {
			acc.add("age_at_onset_prior", TargetFocal, 1)
		}
	}},

	// --- contextual mimics (syncope) ---
	{name: "situational_trigger_rapid_recovery", apply: func(v *responseView, acc *ScoreSet) {
		if len(v.situationalTriggers()) == 0 || !v.rapidRecovery() {
			return
		}
		acc.add("situational_trigger_rapid_recovery", TargetFocal, -1)
		acc.add("situational_trigger_rapid_recovery", TargetGeneralized, -1)
		acc.add("situational_trigger_rapid_recovery", TargetPNES, -1)

		// Exclusively stress/pain triggers with a clean non-epileptic
		// checklist points at syncope rather than either seizure class.
		if acc.GateScore == 0 && onlyStressOrPain(v.situationalTriggers()) && len(v.values(QTriggers)) == len(v.situationalTriggers()) {
			acc.SyncopeSuspected = true
		}
	}},

	// --- contradiction detectors (red flags) ---
	{name: "convulsion_without_postictal_state", apply: func(v *responseView, acc *ScoreSet) {
		if v.seizureType(TypeBilateralTC) && v.has(QTongueBite, "yes") && v.has(QPostIctal, "no") {
			acc.add("convulsion_without_postictal_state", TargetGeneralized, -2)
			acc.add("convulsion_without_postictal_state", TargetPNES, 2)
			acc.UnusualPattern = true
		}
	}},
	{name: "prolonged_convulsion_without_sequelae", apply: func(v *responseView, acc *ScoreSet) {
		if v.seizureType(TypeBilateralTC) && v.statusDuration() &&
			v.has(QTongueBite, "no") && v.has(QPostIctal, "no") {
			acc.add("prolonged_convulsion_without_sequelae", TargetGeneralized, -2)
			acc.add("prolonged_convulsion_without_sequelae", TargetPNES, 2)
			acc.UnusualPattern = true
		}
	}},

	// --- sleep-related hypermotor epilepsy vs. functional overlap ---
	{name: "sleep_hypermotor_overlap", apply: func(v *responseView, acc *ScoreSet) {
		brief := false
		if d, ok := v.number(QDuration); ok && d < v.th.ProlongedEventSec {
			brief = true
		}
		if v.has(QStereotyped, "yes") && v.has(QSleepRelated, "yes") && brief && acc.GateScore >= 1 {
			acc.add("sleep_hypermotor_overlap", TargetFocal, 2)
			acc.add("sleep_hypermotor_overlap", TargetPNES, -2)
			acc.PossibleOverlap = true
		}
	}},
}

func (v *responseView) rapidRecovery() bool {
	return v.has(QRecovery, "immediate") ||
		v.has(QStaringRecovery, "immediate") ||
		v.has(QPNESFeatures, "immediate_recovery")
}

func onlyStressOrPain(triggers []string) bool {
	if len(triggers) == 0 {
		return false
	}
	for _, t := range triggers {
		if t != "stress" && t != "pain" {
			return false
		}
	}
	return true
}
