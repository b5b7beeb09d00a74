package pmi

// WindowCounter maintains the frequency tables for one
// (document, keyword, window) scoring pass.
type WindowCounter struct {
	N          int64            // corpus size
	A          int64            // keyword frequency
	WordFreq   map[string]int64 // frequency of every token in the document
	Collocates map[string]int64 // frequency of every token inside a keyword window

	order []string // collocates in first-occurrence order
}

// NewWindowCounter creates an empty counter
func NewWindowCounter() *WindowCounter {
	return &WindowCounter{
		WordFreq:   make(map[string]int64),
		Collocates: make(map[string]int64),
	}
}

// AddToken counts one document token.
func (c *WindowCounter) AddToken(t string) {
	c.N++
	c.WordFreq[t]++
}

// AddKeyword records one keyword occurrence.
func (c *WindowCounter) AddKeyword() {
	c.A++
}

// AddCollocate counts one token found inside a keyword window.
func (c *WindowCounter) AddCollocate(t string) {
	if _, ok := c.Collocates[t]; !ok {
		c.order = append(c.order, t)
	}
	c.Collocates[t]++
}

// CollocateOrder returns collocates in the order they were first seen.
func (c *WindowCounter) CollocateOrder() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// GetTokenCount returns the document frequency for a token
func (c *WindowCounter) GetTokenCount(t string) (int64, bool) {
	n, ok := c.WordFreq[t]
	return n, ok
}

// GetCollocateCount returns how often a token appeared inside windows
func (c *WindowCounter) GetCollocateCount(t string) int64 {
	return c.Collocates[t]
}

// UniqueTokens returns the number of distinct document tokens
func (c *WindowCounter) UniqueTokens() int {
	return len(c.WordFreq)
}

// UniqueCollocates returns the number of distinct collocates
func (c *WindowCounter) UniqueCollocates() int {
	return len(c.Collocates)
}
