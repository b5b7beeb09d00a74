package config

import (
	"fmt"

	"github.com/cognicore/colloc/pkg/colloc/ingest"
	"github.com/cognicore/colloc/pkg/colloc/pmi"
)

// Loader builds components from settings
type Loader struct {
	Settings Settings
}

// Components holds all initialized components
type Components struct {
	Tokenizer *ingest.Tokenizer
	Scorer    *pmi.Scorer
	Exclude   []string
}

// Load validates the settings, reads the exclusion list and returns
// initialized components
func (l *Loader) Load() (*Components, error) {
	if err := l.Settings.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{
		Tokenizer: ingest.NewTokenizer(ingest.Options{
			MaxLength:    l.Settings.MaxLength,
			StripHTML:    l.Settings.StripHTML,
			UnicodeWords: l.Settings.UnicodeWords,
		}),
	}

	if l.Settings.ExcludePath != "" {
		sl, err := LoadStoplist(l.Settings.ExcludePath)
		if err != nil {
			return nil, fmt.Errorf("load exclude list: %w", err)
		}
		comp.Exclude = sl.Terms
	}
	comp.Scorer = pmi.NewScorer(comp.Exclude)

	return comp, nil
}
