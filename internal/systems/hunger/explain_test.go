package hunger

import "testing"

func TestExplainSteps(t *testing.T) {
	result, err := Explain(Request{Standard: []int{10, 6}, Special: []int{10}, Difficulty: 5}, Rules{})
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}
	wantCodes := []string{"COUNT_SUCCESSES", "COUNT_CRITICALS", "APPLY_CRITICAL_BONUS", "CHECK_DIFFICULTY", "SELECT_OUTCOME"}
	if len(result.Steps) != len(wantCodes) {
		t.Fatalf("steps = %d, want %d", len(result.Steps), len(wantCodes))
	}
	for i, code := range wantCodes {
		if result.Steps[i].Code != code {
			t.Fatalf("step %d = %s, want %s", i, result.Steps[i].Code, code)
		}
	}
	if result.RulesVersion != RulesVersion(Rules{}).RulesVersion {
		t.Fatalf("rules version = %q", result.RulesVersion)
	}
	bonus := result.Steps[2].Data["critical_bonus"]
	if bonus != 4 {
		t.Fatalf("critical_bonus = %v, want 4", bonus)
	}
	if result.Steps[4].Data["outcome_label"] != "Standard critical" {
		t.Fatalf("outcome_label = %v", result.Steps[4].Data["outcome_label"])
	}
}

func TestExplainPropagatesErrors(t *testing.T) {
	if _, err := Explain(Request{Difficulty: -1}, Rules{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRulesVersionMetadata(t *testing.T) {
	canonical := RulesVersion(Rules{})
	if canonical.System == "" || canonical.RulesVersion == "" {
		t.Fatal("expected system and rules version")
	}
	if len(canonical.Outcomes) != 6 {
		t.Fatalf("outcomes = %d, want 6", len(canonical.Outcomes))
	}
	pair := RulesVersion(Rules{CriticalRequiresPairOfStandardTens: true})
	if pair.CritRule == canonical.CritRule {
		t.Fatal("expected crit rule to reflect the pair variant")
	}
}
