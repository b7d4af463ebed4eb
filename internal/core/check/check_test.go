package check

import "testing"

func TestAgainst(t *testing.T) {
	tests := []struct {
		name        string
		successes   int
		difficulty  int
		want        Result
		wantDeficit int
	}{
		{"no difficulty", 0, 0, Result{Success: true, Margin: 0}, 0},
		{"exact", 4, 4, Result{Success: true, Margin: 0}, 0},
		{"over", 9, 4, Result{Success: true, Margin: 5}, 0},
		{"short by two", 2, 4, Result{Success: false, Margin: -2}, 2},
		{"nothing rolled", 0, 3, Result{Success: false, Margin: -3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Against(tt.successes, tt.difficulty)
			if got != tt.want {
				t.Errorf("Against(%d, %d) = %+v, want %+v", tt.successes, tt.difficulty, got, tt.want)
			}
			if got.Deficit() != tt.wantDeficit {
				t.Errorf("Deficit() = %d, want %d", got.Deficit(), tt.wantDeficit)
			}
			if Meets(tt.successes, tt.difficulty) != tt.want.Success {
				t.Errorf("Meets(%d, %d) disagrees with Against", tt.successes, tt.difficulty)
			}
		})
	}
}
