package hunger

// RulesVersion returns the static ruleset metadata for pool rolls under rules.
func RulesVersion(rules Rules) RulesMetadata {
	critRule := "standard critical on a pair of 10s with at least one in the standard pool; messy when a hunger 10 completes the pair"
	if rules.CriticalRequiresPairOfStandardTens {
		critRule = "standard critical on two 10s in the standard pool; messy when a hunger 10 completes the pair"
	}
	return RulesMetadata{
		System:         "Narrative pool",
		Module:         "Hunger",
		RulesVersion:   "1.0.0",
		DiceModel:      "Nd10 split into standard and hunger pools",
		SuccessFormula: "dice >= 6 + 4 per pair of 10s + prior successes",
		CritRule:       critRule,
		DifficultyRule: "successes >= difficulty wins; on a failure a hunger 1 is bestial, a standard 1 is total",
		Outcomes: []Outcome{
			OutcomeStandardCritical,
			OutcomeMessyCritical,
			OutcomeStandardWin,
			OutcomeBestialFailure,
			OutcomeTotalFailure,
			OutcomeStandardFailure,
		},
	}
}
