package ingest

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

// DefaultMaxLength is the largest normalized document, in characters,
// accepted by a Tokenizer built with a zero MaxLength.
const DefaultMaxLength = 1700000

// Options configures a Tokenizer.
type Options struct {
	// MaxLength caps the normalized text length in characters.
	// Values <= 0 select DefaultMaxLength.
	MaxLength int
	// StripHTML extracts text nodes from HTML markup before normalizing.
	StripHTML bool
	// UnicodeWords treats any Unicode letter or digit as a word character.
	// When false only [a-z0-9_] survive normalization.
	UnicodeWords bool
}

// Tokenizer handles text normalization and tokenization
type Tokenizer struct {
	maxLength    int
	stripHTML    bool
	unicodeWords bool
}

// NewTokenizer creates a tokenizer with the given options
func NewTokenizer(opts Options) *Tokenizer {
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Tokenizer{
		maxLength:    maxLength,
		stripHTML:    opts.StripHTML,
		unicodeWords: opts.UnicodeWords,
	}
}

// MaxLength returns the configured length cap.
func (t *Tokenizer) MaxLength() int {
	return t.maxLength
}

// Normalize lowercases text and deletes every run of characters that are
// neither word characters nor whitespace.
// Example: "Don't stop, Cat!" → "dont stop cat"
func (t *Tokenizer) Normalize(text string) string {
	lower := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if t.isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize normalizes text and splits it on whitespace.
// It fails with internalerr.ErrInputTooLarge when the normalized text is
// longer than the configured cap. Empty text yields an empty Document.
func (t *Tokenizer) Tokenize(name, text string) (Document, error) {
	if t.stripHTML {
		text = ExtractText(text)
	}

	normalized := t.Normalize(text)
	if n := utf8.RuneCountInString(normalized); n > t.maxLength {
		return Document{}, fmt.Errorf("%s: %d characters exceeds limit of %d: %w",
			name, n, t.maxLength, internalerr.ErrInputTooLarge)
	}

	return Document{
		Name:   name,
		Tokens: strings.Fields(normalized),
	}, nil
}

func (t *Tokenizer) isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case t.unicodeWords:
		return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
	}
	return false
}
