package hunger

// Explain classifies request and returns the ordered steps that produced the
// outcome.
func Explain(request Request, rules Rules) (ExplainResult, error) {
	result, err := Classify(request, rules)
	if err != nil {
		return ExplainResult{}, err
	}

	steps := []ExplainStep{
		{
			Code:    "COUNT_SUCCESSES",
			Message: "Count dice showing 6 or more in both pools",
			Data: map[string]any{
				"standard":       result.Standard,
				"hunger":         result.Special,
				"base_successes": result.BaseSuccesses,
			},
		},
		{
			Code:    "COUNT_CRITICALS",
			Message: "Count 10s in each pool",
			Data: map[string]any{
				"standard_criticals": result.StandardCriticals,
				"hunger_criticals":   result.SpecialCriticals,
				"critical_pairs":     result.CriticalPairs,
			},
		},
		{
			Code:    "APPLY_CRITICAL_BONUS",
			Message: "Add 4 successes per pair of 10s and prior successes",
			Data: map[string]any{
				"base_successes":  result.BaseSuccesses,
				"critical_bonus":  criticalBonus * result.CriticalPairs,
				"prior_successes": result.PriorSuccesses,
				"successes":       result.Successes,
			},
		},
		{
			Code:    "CHECK_DIFFICULTY",
			Message: "Compare successes to difficulty",
			Data: map[string]any{
				"successes":        result.Successes,
				"difficulty":       result.Difficulty,
				"meets_difficulty": result.MeetsDifficulty,
				"margin":           result.Margin,
			},
		},
		{
			Code:    "SELECT_OUTCOME",
			Message: "Select outcome from criticals and failures",
			Data: map[string]any{
				"outcome_code":                   int(result.Outcome),
				"outcome_label":                  result.Outcome.String(),
				"bestial_failures":               result.BestialFailures,
				"total_failures":                 result.TotalFailures,
				"critical_requires_pair_of_tens": rules.CriticalRequiresPairOfStandardTens,
			},
		},
	}

	return ExplainResult{
		Result:       result,
		RulesVersion: RulesVersion(rules).RulesVersion,
		Steps:        steps,
	}, nil
}
