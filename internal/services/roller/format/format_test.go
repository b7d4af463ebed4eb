package format

import (
	"strings"
	"testing"

	"github.com/louisbranch/rollkeeper/internal/core/arith"
	"github.com/louisbranch/rollkeeper/internal/core/dice"
	"github.com/louisbranch/rollkeeper/internal/sheet"
	"github.com/louisbranch/rollkeeper/internal/sheet/alias"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
)

func TestFace(t *testing.T) {
	tests := map[int]string{
		10: "**10**",
		9:  "9",
		6:  "6",
		5:  "~~5~~",
		2:  "~~2~~",
		1:  "~~**1**~~",
	}
	for value, want := range tests {
		if got := Face(value); got != want {
			t.Errorf("Face(%d) = %q, want %q", value, got, want)
		}
	}
	if got := Faces([]int{10, 1}); got != "**10**, ~~**1**~~" {
		t.Fatalf("Faces = %q", got)
	}
}

func TestDice(t *testing.T) {
	result := dice.ExpressionResult{
		Input:      "4d6kh3+1d4+2",
		Expression: "(6+5+3)+(2)+2",
		Value:      arith.IntValue(18),
		Terms: []dice.TermResult{
			{Text: "4d6kh3", Count: 4, Faces: 6, KeepApplied: true, Raw: []int{6, 1, 5, 3}, Kept: []int{6, 5, 3}, Dropped: []int{1}, Total: arith.IntValue(14)},
			{Text: "1d4", Count: 1, Faces: 4, Raw: []int{2}, Kept: []int{2}, Total: arith.IntValue(2)},
		},
	}

	tests := []struct {
		locale string
		want   string
	}{
		{
			locale: "en-US",
			want: "> **Final result: 18**\n" +
				"    Result of 4d6kh3 = 14 (6, 5, 3, ~~1~~)\n" +
				"    Result of 1d4 = 2 (2)\n" +
				"Final evaluation: `(6+5+3)+(2)+2`",
		},
		{
			locale: "pt-BR",
			want: "> **Resultado final: 18**\n" +
				"    Resultado de 4d6kh3 = 14 (6, 5, 3, ~~1~~)\n" +
				"    Resultado de 1d4 = 2 (2)\n" +
				"Avaliação final: `(6+5+3)+(2)+2`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := Dice(tt.locale, result); got != tt.want {
				t.Fatalf("Dice =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestEval(t *testing.T) {
	value, err := arith.Eval("7/2")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got := Eval("pt-BR", value); got != "> **Resultado final: 3.5**" {
		t.Fatalf("Eval = %q", got)
	}
}

func TestPool(t *testing.T) {
	tests := []struct {
		name    string
		locale  string
		request hunger.Request
		status  string
	}{
		{
			name:    "standard critical",
			locale:  "en-US",
			request: hunger.Request{Standard: []int{10, 7, 3}, Special: []int{10, 1}, Difficulty: 2},
			status:  "Standard critical with 5 margin",
		},
		{
			name:    "messy critical pt-BR",
			locale:  "pt-BR",
			request: hunger.Request{Standard: []int{4}, Special: []int{10, 10}, Difficulty: 3},
			status:  "Crítico bagunçado com 3 de margem",
		},
		{
			name:    "bestial failure",
			locale:  "en-US",
			request: hunger.Request{Standard: []int{3, 2}, Special: []int{1}, Difficulty: 1},
			status:  "Bestial failure with 1 hunger failure",
		},
		{
			name:    "total failure",
			locale:  "pt-BR",
			request: hunger.Request{Standard: []int{1, 1}, Difficulty: 1},
			status:  "Falha total com 2 de falha",
		},
		{
			name:    "standard failure",
			locale:  "en-US",
			request: hunger.Request{Standard: []int{4}, Difficulty: 1},
			status:  "Standard failure",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := hunger.Classify(tt.request, hunger.Rules{})
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if got := Status(tt.locale, result); got != tt.status {
				t.Fatalf("Status = %q, want %q", got, tt.status)
			}
			if got := Pool(tt.locale, result); !strings.HasPrefix(got, "> **"+tt.status+"**\n") {
				t.Fatalf("Pool = %q", got)
			}
		})
	}
}

func TestPoolListsBothPools(t *testing.T) {
	result, err := hunger.Classify(hunger.Request{Standard: []int{10, 6}, Special: []int{2}}, hunger.Rules{})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	got := Pool("en-US", result)
	for _, want := range []string{"Successes: 2", "Standard rolls: **10**, 6", "Hunger rolls: ~~2~~"} {
		if !strings.Contains(got, want) {
			t.Errorf("Pool missing %q:\n%s", want, got)
		}
	}
}

func TestSheetOutputs(t *testing.T) {
	previous := 2
	update := Update("en-US", sheet.UpdateResult{
		Resolution: alias.Resolution{Expression: "2+1"},
		Attribute:  "força",
		Previous:   &previous,
		Value:      3,
	})
	if update != "> **força = 3**\nPrevious value: 2\nEvaluated as `2+1`" {
		t.Fatalf("Update = %q", update)
	}

	query := Query("pt-BR", sheet.QueryResult{Resolution: alias.Resolution{
		Display:    "força+2",
		Expression: "(3)+2",
		Value:      arith.IntValue(5),
	}})
	if query != "> **força+2 = 5**\nAvaliado como `(3)+2`" {
		t.Fatalf("Query = %q", query)
	}

	view := Sheet("en-US", sheet.View{
		Profile:    storage.Profile{Name: "main"},
		Attributes: []storage.Attribute{{Name: "destreza", Value: 2}, {Name: "força", Value: 3}},
	})
	if view != "Profile **main**\n    destreza: 2\n    força: 3" {
		t.Fatalf("Sheet = %q", view)
	}
	if empty := Sheet("pt-BR", sheet.View{Profile: storage.Profile{Name: "alt"}}); !strings.HasSuffix(empty, "Nenhum atributo registrado") {
		t.Fatalf("empty Sheet = %q", empty)
	}
	profiles := Profiles("pt-BR", []storage.Profile{{Name: "ana", IsDefault: true}, {Name: "bruno"}})
	if profiles != "Perfil **ana** (padrão)\nPerfil **bruno**" {
		t.Fatalf("Profiles = %q", profiles)
	}
	if got := Profiles("en-US", nil); got != "No profiles yet" {
		t.Fatalf("empty Profiles = %q", got)
	}
	if got := Imported("en-US", 3, "ana"); got != "Imported 3 attributes into **ana**" {
		t.Fatalf("Imported = %q", got)
	}
	if got := ProfileCreated("en-US", "alt"); got != "Profile **alt** created" {
		t.Fatalf("ProfileCreated = %q", got)
	}
	if got := DefaultChanged("pt-BR", "alt"); got != "Perfil **alt** agora é o padrão" {
		t.Fatalf("DefaultChanged = %q", got)
	}
}

func TestError(t *testing.T) {
	got := Error("en-US", dice.ErrInvalidDiceCount, "0d6")
	if got != "Invalid roll: Invalid dice count in `0d6`" {
		t.Fatalf("Error = %q", got)
	}
	got = Error("pt-BR", alias.ErrUnknownAlias, "xyz+1")
	if got != "Rolagem inválida: Atributo desconhecido em `xyz+1`" {
		t.Fatalf("Error = %q", got)
	}
}
