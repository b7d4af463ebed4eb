// Package alias resolves free-form attribute names inside arithmetic
// expressions into values read from a character sheet.
package alias

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrAmbiguousSynonym indicates a synonym listed for more than one name.
	ErrAmbiguousSynonym = errors.New("synonym is assigned more than once")
	// ErrTableSize indicates a table whose synonym count differs from the declared count.
	ErrTableSize = errors.New("alias table size mismatch")
)

//go:embed aliases.yaml
var embeddedTable []byte

var defaultTable = mustLoadEmbedded()

// Group lists the synonyms of one canonical name.
type Group struct {
	Canonical string   `yaml:"canonical"`
	Synonyms  []string `yaml:"synonyms"`
}

type tableFile struct {
	ExpectedSynonyms int     `yaml:"expected_synonyms"`
	Groups           []Group `yaml:"groups"`
}

// Table maps normalized synonyms to canonical names. It is immutable once
// built and safe for concurrent use.
type Table struct {
	keys       map[string]string
	canonicals []string
	maxWords   int
}

// Default returns the process-wide embedded table.
func Default() *Table {
	return defaultTable
}

// LoadTable parses a YAML table definition and builds it.
func LoadTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}
	return NewTable(file.Groups, file.ExpectedSynonyms)
}

// NewTable builds a table from groups. Each canonical name matches itself in
// addition to its synonyms. Building fails when a normalized synonym belongs
// to two entries or when the number of distinct keys differs from expected.
func NewTable(groups []Group, expected int) (*Table, error) {
	t := &Table{keys: map[string]string{}}
	for _, group := range groups {
		canonical := strings.TrimSpace(group.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("alias group: canonical name is required")
		}
		t.canonicals = append(t.canonicals, canonical)
		for _, synonym := range append([]string{canonical}, group.Synonyms...) {
			key := Normalize(synonym)
			if key == "" {
				return nil, fmt.Errorf("alias group %q: blank synonym", canonical)
			}
			if owner, exists := t.keys[key]; exists {
				return nil, fmt.Errorf("synonym %q for %q and %q: %w", synonym, owner, canonical, ErrAmbiguousSynonym)
			}
			t.keys[key] = canonical
			if words := strings.Count(key, " ") + 1; words > t.maxWords {
				t.maxWords = words
			}
		}
	}
	if len(t.keys) != expected {
		return nil, fmt.Errorf("%d synonyms, want %d: %w", len(t.keys), expected, ErrTableSize)
	}
	sort.Strings(t.canonicals)
	return t, nil
}

// Canonical returns the canonical name a phrase refers to.
func (t *Table) Canonical(phrase string) (string, bool) {
	if t == nil {
		return "", false
	}
	canonical, ok := t.keys[Normalize(phrase)]
	return canonical, ok
}

// Canonicals returns every canonical name, sorted.
func (t *Table) Canonicals() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.canonicals...)
}

// Len returns the number of distinct synonym keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Normalize folds case, strips diacritics and collapses whitespace so that
// "Força", "forca" and "FORÇA" compare equal.
func Normalize(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.Join(strings.Fields(stripped), " "))
}

func mustLoadEmbedded() *Table {
	table, err := LoadTable(embeddedTable)
	if err != nil {
		panic(err)
	}
	return table
}
