package engine

import "sort"

// Advisory texts prefixed before any profile-specific guidance.
const (
	advisoryRedFlag = "Red flag: the event description is internally inconsistent for the reported seizure type. Obtain specialist review before acting on this classification."

	advisoryOverlap = "The pattern is compatible with sleep-related hypermotor epilepsy as well as a functional event. Arrange video-EEG including sleep before settling on either diagnosis."

	advisoryStructural = "History of structural brain insult or post-event focal weakness: confirm with epilepsy-protocol MRI and refer to a neurologist regardless of the pattern below."
)

var profileRecommendations = map[Profile][]string{
	ProfileTypicalAbsence: {
		"Avoid sodium-channel blocking agents such as carbamazepine or oxcarbazepine; they can aggravate absence seizures.",
		"Ethosuximide or valproate are the usual first-line options for typical absence epilepsy.",
		"Obtain a routine EEG with hyperventilation to look for 3 Hz spike-wave discharges.",
	},
	ProfileAtypicalAbsence: {
		"Atypical absence pattern: obtain a prolonged EEG looking for slow spike-wave activity.",
		"Assess for an underlying epileptic encephalopathy; refer to a pediatric neurologist.",
	},
	ProfileJuvenileMyoclonic: {
		"Avoid carbamazepine and phenytoin; sodium-channel blockers can worsen myoclonic seizures.",
		"Valproate or levetiracetam are the usual first-line options for a juvenile myoclonic pattern.",
		"Counsel on sleep regularity and alcohol moderation; jerks cluster after sleep deprivation.",
		"Ask about photosensitivity and consider photic stimulation during EEG.",
	},
	ProfileAtonic: {
		"Atonic events carry a high injury risk; consider protective headgear until controlled.",
		"Assess for a generalized epilepsy syndrome with drop attacks; refer to an epilepsy specialist.",
	},
	ProfileGeneralizedTC: {
		"Obtain an EEG and first-seizure workup including electrolytes and glucose.",
		"Counsel on seizure first aid and on driving restrictions applicable to convulsive seizures.",
	},
	ProfileFocalToBilateral: {
		"The convulsion likely has a focal onset: obtain epilepsy-protocol MRI.",
		"An EEG focusing on the suspected onset region is recommended.",
		"Sodium-channel agents such as lamotrigine are reasonable first-line options for focal epilepsy.",
	},
	ProfileFocalAware: {
		"Focal aware events: obtain epilepsy-protocol MRI to look for a structural correlate.",
		"A routine EEG may miss brief focal discharges; consider a sleep-deprived recording.",
	},
	ProfileFocalImpaired: {
		"Focal onset with impaired awareness: obtain epilepsy-protocol MRI.",
		"Counsel on driving restrictions and situational safety while awareness is impaired.",
		"Refer for EEG; temporal lobe onset is the most common correlate of this pattern.",
	},
	ProfileStatusEpilepticus: {
		"Reported duration of five minutes or longer: treat further events as status epilepticus and seek emergency care.",
		"Prescribe a rescue benzodiazepine and train caregivers in its use.",
		"Expedite specialist review; do not wait for a routine appointment.",
	},
	ProfileNonEpileptic: {
		"The pattern favors a functional (dissociative) non-epileptic event.",
		"Confirm with video-EEG capture of a typical event before escalating antiseizure medication.",
		"Refer to psychology or psychiatry for assessment and communication of the diagnosis.",
	},
	ProfileSyncope: {
		"The trigger and recovery pattern favors syncope over seizure.",
		"Obtain a 12-lead ECG and orthostatic vital signs; refer to cardiology if abnormal.",
		"Counsel on trigger avoidance, hydration, and counter-pressure maneuvers.",
	},
	ProfileUnclassified: {
		"The evidence does not separate focal from generalized onset with enough margin.",
		"Ask a witness to video a typical event and keep an event diary.",
		"Obtain a routine EEG and review in a first-seizure clinic.",
	},
}

// MapResult combines the decision with fine-grained answer patterns into the
// final immutable result. Deterministic: identical inputs produce an
// identical result, recommendation order included.
func MapResult(sessionContext string, responses map[string]Answer, scores ScoreSet, decision Decision, th Thresholds) *Result {
	v := &responseView{responses: responses, th: th}
	profile := selectProfile(v, scores, decision)

	recs := make([]string, 0, 8)
	if scores.UnusualPattern {
		recs = append(recs, advisoryRedFlag)
	}
	if scores.PossibleOverlap {
		recs = append(recs, advisoryOverlap)
	}
	if scores.HighRiskStructural {
		recs = append(recs, advisoryStructural)
	}
	recs = append(recs, profileRecommendations[profile]...)

	return &Result{
		SessionContext:   sessionContext,
		Label:            decision.Label,
		Onset:            onsetFor(decision.Label),
		Awareness:        awarenessFor(v),
		MotorFeatures:    motorFeaturesFor(v, scores),
		Profile:          profile,
		Probabilities:    decision.Probabilities,
		Confidence:       decision.Confidence,
		RedFlag:          scores.UnusualPattern,
		PossibleOverlap:  scores.PossibleOverlap,
		SyncopeSuspected: scores.SyncopeSuspected,
		Borderline:       decision.Borderline,
		Recommendations:  recs,
		Explanation:      topContributors(scores.Contributors, 5),
	}
}

func selectProfile(v *responseView, scores ScoreSet, decision Decision) Profile {
	switch decision.Label {
	case LabelNonEpileptic:
		return ProfileNonEpileptic

	case LabelGeneralized:
		switch {
		case v.seizureType(TypeAbsence) && v.has(QStaringRecovery, "immediate"):
			return ProfileTypicalAbsence
		case v.seizureType(TypeAbsence):
			return ProfileAtypicalAbsence
		case v.seizureType(TypeMyoclonic) || v.has(QMorningMyoclonus, "yes"):
			return ProfileJuvenileMyoclonic
		case v.seizureType(TypeAtonic):
			return ProfileAtonic
		case v.statusDuration():
			return ProfileStatusEpilepticus
		default:
			return ProfileGeneralizedTC
		}

	case LabelFocal:
		switch {
		case v.statusDuration():
			return ProfileStatusEpilepticus
		case v.seizureType(TypeBilateralTC):
			return ProfileFocalToBilateral
		case v.seizureType(TypeFocalAware) || v.has(QResponsiveness, "yes"):
			return ProfileFocalAware
		default:
			return ProfileFocalImpaired
		}

	default:
		if scores.SyncopeSuspected {
			return ProfileSyncope
		}
		return ProfileUnclassified
	}
}

func onsetFor(label Label) Onset {
	switch label {
	case LabelFocal:
		return OnsetFocal
	case LabelGeneralized:
		return OnsetGeneralized
	case LabelNonEpileptic:
		return OnsetNonEpileptic
	default:
		return OnsetUnknown
	}
}

func awarenessFor(v *responseView) Awareness {
	switch {
	case v.seizureType(TypeFocalAware) || v.has(QResponsiveness, "yes"):
		return AwarenessRetained
	case v.seizureType(TypeAbsence, TypeFocalImpaired) ||
		v.has(QResponsiveness, "no") || v.has(QResponsiveness, "partial"):
		return AwarenessImpaired
	default:
		return AwarenessUnknown
	}
}

func motorFeaturesFor(v *responseView, scores ScoreSet) string {
	switch {
	case scores.PossibleOverlap:
		return "hypermotor"
	case v.seizureType(TypeBilateralTC):
		return "tonic_clonic"
	case v.seizureType(TypeMyoclonic):
		return "myoclonic"
	case v.seizureType(TypeAtonic):
		return "atonic"
	case v.has(QMotorPattern, "rhythmic_jerking"):
		return "clonic"
	case v.has(QMotorPattern, "stiffening"):
		return "tonic"
	case v.has(QMotorPattern, "chaotic_thrashing"):
		return "irregular"
	case v.seizureType(TypeAbsence) || v.has(QMotorPattern, "none"):
		return "non_motor"
	default:
		return "unknown"
	}
}

// topContributors returns the n largest contributions by absolute weight,
// ties resolved by rule evaluation order so the output stays deterministic.
func topContributors(contributors []Contributor, n int) []Contributor {
	ranked := make([]Contributor, len(contributors))
	copy(ranked, contributors)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai, aj := ranked[i].Contribution, ranked[j].Contribution
		if ai < 0 {
			ai = -ai
		}
		if aj < 0 {
			aj = -aj
		}
		return ai > aj
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
