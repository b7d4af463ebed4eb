package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{BaseLocale, "pt-BR"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
		for _, namespace := range []string{"errors", "format"} {
			if got := len(bundle.NamespaceMessages(locale, namespace)); got == 0 {
				t.Fatalf("expected %s %s namespace messages", locale, namespace)
			}
		}
	}
}

func TestEmbeddedLocalesDefineSameKeys(t *testing.T) {
	bundle := Default()
	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Errorf("%s is missing %q", locale, key)
			}
		}
		for key := range messages {
			if _, ok := base[key]; !ok {
				t.Errorf("%s defines %q that the base locale lacks", locale, key)
			}
		}
	}
}

func TestMatch(t *testing.T) {
	bundle := Default()
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: BaseLocale},
		{in: "en-US", want: "en-US"},
		{in: "pt-BR", want: "pt-BR"},
		{in: "pt", want: "pt-BR"},
		{in: " pt-BR ", want: "pt-BR"},
		{in: "not a locale", want: BaseLocale},
	}
	for _, tt := range tests {
		if got := bundle.Match(tt.in); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrinterUsesRegisteredMessages(t *testing.T) {
	bundle := Default()
	if got := bundle.Printer("pt-BR").Sprintf("format.pool.successes", 3); got != "Acertos: 3" {
		t.Fatalf("pt-BR = %q", got)
	}
	if got := bundle.Printer("en-US").Sprintf("format.pool.successes", 3); got != "Successes: 3" {
		t.Fatalf("en-US = %q", got)
	}
}

func TestMessageFallsBackToBase(t *testing.T) {
	bundle := Default()
	got, ok := bundle.Message("fr-FR", "format.pool.successes")
	if !ok || got != "Successes: %d" {
		t.Fatalf("Message = %q, %v", got, ok)
	}
	if _, ok := bundle.Message("en-US", "missing.key"); ok {
		t.Fatal("expected missing key")
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/errors.yaml"), `locale: "en-US"
namespace: "errors"
messages:
  "a.key": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/format.yaml"), `locale: "en-US"
namespace: "format"
messages:
  "a.key": "b"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRejectsMismatchedHeaders(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{
			name:    "locale mismatch",
			path:    "locales/en-US/errors.yaml",
			content: "locale: \"pt-BR\"\nnamespace: \"errors\"\nmessages:\n  k: v\n",
		},
		{
			name:    "namespace mismatch",
			path:    "locales/en-US/errors.yaml",
			content: "locale: \"en-US\"\nnamespace: \"format\"\nmessages:\n  k: v\n",
		},
		{
			name:    "no messages",
			path:    "locales/en-US/errors.yaml",
			content: "locale: \"en-US\"\nnamespace: \"errors\"\n",
		},
		{
			name:    "missing base locale",
			path:    "locales/pt-BR/errors.yaml",
			content: "locale: \"pt-BR\"\nnamespace: \"errors\"\nmessages:\n  k: v\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			mustWriteFile(t, filepath.Join(tempDir, tt.path), tt.content)
			if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNamespaceMessagesWithFallback(t *testing.T) {
	bundle := Default()
	resolved, messages := bundle.NamespaceMessagesWithFallback("fr-FR", "errors")
	if resolved != BaseLocale {
		t.Fatalf("resolved locale = %q, want %s", resolved, BaseLocale)
	}
	if len(messages) == 0 {
		t.Fatal("expected fallback errors namespace messages")
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
