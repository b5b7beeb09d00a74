package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{Settings: DefaultSettings()}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Default loader should succeed: %v", err)
	}
	if comp.Tokenizer == nil {
		t.Error("Should have tokenizer")
	}
	if comp.Scorer == nil {
		t.Error("Should have scorer")
	}
	if len(comp.Exclude) != 0 {
		t.Errorf("Exclude list should be empty, got %v", comp.Exclude)
	}
}

func TestLoaderInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.OutputType = "bogus"
	loader := Loader{Settings: s}

	_, err := loader.Load()
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoaderNonExistentExclude(t *testing.T) {
	s := DefaultSettings()
	s.ExcludePath = "/nonexistent/exclude.yaml"
	loader := Loader{Settings: s}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent exclude list")
	}
}

func TestLoaderMalformedExclude(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	os.WriteFile(path, []byte("invalid: {yaml content\n"), 0644)

	s := DefaultSettings()
	s.ExcludePath = path
	loader := Loader{Settings: s}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on malformed YAML")
	}
}

func TestLoaderWiresComponents(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "exclude.yaml")
	os.WriteFile(path, []byte("terms:\n  - the\n"), 0644)

	s := DefaultSettings()
	s.ExcludePath = path
	s.MaxLength = 100
	s.StripHTML = true
	loader := Loader{Settings: s}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Valid files should load: %v", err)
	}

	if comp.Tokenizer.MaxLength() != 100 {
		t.Errorf("Expected max length 100, got %d", comp.Tokenizer.MaxLength())
	}

	doc, err := comp.Tokenizer.Tokenize("page", "<p>The cat</p><p>sat</p>")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(doc.Tokens, " ") != "the cat sat" {
		t.Errorf("HTML should be stripped, got %v", doc.Tokens)
	}

	rs, err := comp.Scorer.Score(doc, "cat", 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rs.Records {
		if r.Collocate == "the" {
			t.Error("Excluded term 'the' should not be reported")
		}
	}
	if len(rs.Records) != 1 || rs.Records[0].Collocate != "sat" {
		t.Errorf("Expected only 'sat', got %+v", rs.Records)
	}
}
