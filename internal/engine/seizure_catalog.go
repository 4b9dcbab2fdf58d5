package engine

// Question identifiers for the seizure triage questionnaire. Exported so
// callers can reference specific answers in the audit snapshot without
// string literals.
const (
	QSeizureType      = "seizure_type"
	QStaringRecovery  = "staring_recovery"
	QAutomatisms      = "automatisms"
	QMorningMyoclonus = "morning_myoclonus"
	QPNESFeatures     = "pnes_features"
	QAura             = "aura"
	QEyesState        = "eyes_state"
	QMotorPattern     = "motor_pattern"
	QResponsiveness   = "responsiveness"
	QDuration         = "duration_seconds"
	QRecovery         = "recovery"
	QPostIctal        = "post_ictal"
	QTongueBite       = "tongue_bite"
	QToddParalysis    = "todd_paralysis"
	QTriggers         = "triggers"
	QSleepRelated     = "sleep_related"
	QStereotyped      = "stereotyped"
	QStructural       = "structural_history"
)

// Seizure type option values.
const (
	TypeAbsence       = "absence"
	TypeMyoclonic     = "myoclonic"
	TypeAtonic        = "atonic"
	TypeBilateralTC   = "bilateral_tonic_clonic"
	TypeFocalAware    = "focal_aware"
	TypeFocalImpaired = "focal_impaired"
	TypeDissociative  = "possible_dissociative"
	TypeUnknown       = "unknown"
)

var convulsiveTypes = []string{TypeBilateralTC, TypeFocalAware, TypeFocalImpaired, TypeUnknown}

func yesNo(next string) []Option {
	return []Option{
		{Value: "yes", LabelKey: "option.yes", Next: next},
		{Value: "no", LabelKey: "option.no", Next: next},
	}
}

// DefaultCatalog builds the seizure triage question graph. The graph
// branches on the root seizure-type answer: absence and myoclonic
// presentations take short generalized-pattern paths, convulsive and focal
// presentations walk the full semiology chain, and a suspected dissociative
// event goes straight to the non-epileptic feature checklist. All paths
// converge on the shared trigger / sleep / structural tail.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog([]*Question{
		{
			ID:        QSeizureType,
			PromptKey: "question.seizure_type",
			Type:      SingleSelect,
			Options: []Option{
				{Value: TypeAbsence, LabelKey: "option.seizure_type.absence", Next: QStaringRecovery},
				{Value: TypeMyoclonic, LabelKey: "option.seizure_type.myoclonic", Next: QMorningMyoclonus},
				{Value: TypeAtonic, LabelKey: "option.seizure_type.atonic", Next: QStructural},
				{Value: TypeBilateralTC, LabelKey: "option.seizure_type.bilateral_tonic_clonic", Next: QAura},
				{Value: TypeFocalAware, LabelKey: "option.seizure_type.focal_aware", Next: QAura},
				{Value: TypeFocalImpaired, LabelKey: "option.seizure_type.focal_impaired", Next: QAura},
				{Value: TypeDissociative, LabelKey: "option.seizure_type.possible_dissociative", Next: QPNESFeatures},
				{Value: TypeUnknown, LabelKey: "option.seizure_type.unknown", Next: QAura},
			},
		},
		{
			ID:        QStaringRecovery,
			PromptKey: "question.staring_recovery",
			Type:      SingleSelect,
			Options: []Option{
				{Value: "immediate", LabelKey: "option.staring_recovery.immediate"},
				{Value: "confused", LabelKey: "option.staring_recovery.confused"},
				{Value: "prolonged", LabelKey: "option.staring_recovery.prolonged"},
			},
			Next:        QAutomatisms,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: []string{TypeAbsence}}},
			SkipTarget:  QStructural,
		},
		{
			ID:          QAutomatisms,
			PromptKey:   "question.automatisms",
			Type:        SingleSelect,
			Options:     yesNo(""),
			Next:        QStructural,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: []string{TypeAbsence}}},
			SkipTarget:  QStructural,
		},
		{
			ID:          QMorningMyoclonus,
			PromptKey:   "question.morning_myoclonus",
			Type:        SingleSelect,
			Options:     yesNo(""),
			Next:        QTriggers,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: []string{TypeMyoclonic}}},
			SkipTarget:  QStructural,
		},
		{
			ID:        QPNESFeatures,
			PromptKey: "question.pnes_features",
			Type:      MultiSelect,
			Options: []Option{
				{Value: "eyes_closed", LabelKey: "option.pnes_features.eyes_closed"},
				{Value: "long_duration", LabelKey: "option.pnes_features.long_duration"},
				{Value: "chaotic_movements", LabelKey: "option.pnes_features.chaotic_movements"},
				{Value: "responsive_during", LabelKey: "option.pnes_features.responsive_during"},
				{Value: "immediate_recovery", LabelKey: "option.pnes_features.immediate_recovery"},
				{Value: "none", LabelKey: "option.pnes_features.none"},
			},
			Next:        QStructural,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: []string{TypeDissociative}}},
			SkipTarget:  QStructural,
		},
		{
			ID:          QAura,
			PromptKey:   "question.aura",
			Type:        SingleSelect,
			Options:     yesNo(""),
			Next:        QEyesState,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QStructural,
		},
		{
			ID:        QEyesState,
			PromptKey: "question.eyes_state",
			Type:      SingleSelect,
			Options: []Option{
				{Value: "open", LabelKey: "option.eyes_state.open"},
				{Value: "closed", LabelKey: "option.eyes_state.closed"},
				{Value: "unsure", LabelKey: "option.eyes_state.unsure"},
			},
			Next:        QMotorPattern,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QStructural,
		},
		{
			ID:        QMotorPattern,
			PromptKey: "question.motor_pattern",
			Type:      SingleSelect,
			Options: []Option{
				{Value: "rhythmic_jerking", LabelKey: "option.motor_pattern.rhythmic_jerking"},
				{Value: "chaotic_thrashing", LabelKey: "option.motor_pattern.chaotic_thrashing"},
				{Value: "stiffening", LabelKey: "option.motor_pattern.stiffening"},
				{Value: "none", LabelKey: "option.motor_pattern.none"},
			},
			Next:        QResponsiveness,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QStructural,
		},
		{
			ID:        QResponsiveness,
			PromptKey: "question.responsiveness",
			Type:      SingleSelect,
			Options: []Option{
				{Value: "yes", LabelKey: "option.responsiveness.yes"},
				{Value: "partial", LabelKey: "option.responsiveness.partial"},
				{Value: "no", LabelKey: "option.responsiveness.no"},
			},
			Next:        QDuration,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QStructural,
		},
		{
			ID:          QDuration,
			PromptKey:   "question.duration_seconds",
			Type:        NumericInput,
			Min:         1,
			Max:         86400,
			Next:        QRecovery,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QStructural,
		},
		{
			ID:        QRecovery,
			PromptKey: "question.recovery",
			Type:      SingleSelect,
			Options: []Option{
				{Value: "immediate", LabelKey: "option.recovery.immediate"},
				{Value: "minutes", LabelKey: "option.recovery.minutes"},
				{Value: "prolonged_confusion", LabelKey: "option.recovery.prolonged_confusion"},
			},
			Next:        QPostIctal,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QStructural,
		},
		{
			ID:          QPostIctal,
			PromptKey:   "question.post_ictal",
			Type:        SingleSelect,
			Options:     yesNo(""),
			Next:        QTongueBite,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QStructural,
		},
		{
			ID:        QTongueBite,
			PromptKey: "question.tongue_bite",
			Type:      SingleSelect,
			Options:   yesNo(""),
			Next:      QToddParalysis,
			VisibleWhen: []VisibilityClause{
				{DependsOn: QSeizureType, AnyOf: []string{TypeBilateralTC, TypeFocalImpaired, TypeUnknown}},
			},
			SkipTarget: QToddParalysis,
		},
		{
			ID:          QToddParalysis,
			PromptKey:   "question.todd_paralysis",
			Type:        SingleSelect,
			Options:     yesNo(""),
			Next:        QTriggers,
			VisibleWhen: []VisibilityClause{{DependsOn: QSeizureType, AnyOf: convulsiveTypes}},
			SkipTarget:  QTriggers,
		},
		{
			ID:        QTriggers,
			PromptKey: "question.triggers",
			Type:      MultiSelect,
			Options: []Option{
				{Value: "stress", LabelKey: "option.triggers.stress"},
				{Value: "pain", LabelKey: "option.triggers.pain"},
				{Value: "prolonged_standing", LabelKey: "option.triggers.prolonged_standing"},
				{Value: "lightheadedness", LabelKey: "option.triggers.lightheadedness"},
				{Value: "sleep_deprivation", LabelKey: "option.triggers.sleep_deprivation"},
				{Value: "flashing_lights", LabelKey: "option.triggers.flashing_lights"},
				{Value: "none", LabelKey: "option.triggers.none"},
			},
			Next: QSleepRelated,
		},
		{
			ID:        QSleepRelated,
			PromptKey: "question.sleep_related",
			Type:      SingleSelect,
			Options:   yesNo(""),
			Next:      QStereotyped,
		},
		{
			ID:          QStereotyped,
			PromptKey:   "question.stereotyped",
			Type:        SingleSelect,
			Options:     yesNo(""),
			Next:        QStructural,
			VisibleWhen: []VisibilityClause{{DependsOn: QSleepRelated, AnyOf: []string{"yes"}}},
			SkipTarget:  QStructural,
		},
		{
			ID:        QStructural,
			PromptKey: "question.structural_history",
			Type:      SingleSelect,
			Options: []Option{
				{Value: "no", LabelKey: "option.structural_history.no"},
				{Value: "head_injury", LabelKey: "option.structural_history.head_injury"},
				{Value: "stroke", LabelKey: "option.structural_history.stroke"},
				{Value: "cns_infection", LabelKey: "option.structural_history.cns_infection"},
			},
			Next: EndOfFlow,
		},
	})
}
