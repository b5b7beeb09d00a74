package ingest

// Document is a tokenized text. Tokens are lowercase and stripped of
// punctuation; a token's index is its position in the document.
type Document struct {
	Name   string
	Tokens []string
}

// Len returns the corpus size (token count).
func (d Document) Len() int {
	return len(d.Tokens)
}

// Empty reports whether the document has no tokens.
func (d Document) Empty() bool {
	return len(d.Tokens) == 0
}
