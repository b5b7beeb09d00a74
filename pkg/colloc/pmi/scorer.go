package pmi

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/colloc/pkg/colloc/ingest"
	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

// MaxWindow is the largest window whose span 2*window fits in an int.
const MaxWindow = math.MaxInt / 2

// Record is one scored collocate of a (document, keyword, window) triple.
type Record struct {
	FileName      string
	Keyword       string
	Window        int
	Collocate     string
	CollocateFreq int64 // AB
	TextFreq      int64 // B
	MI            float64
}

// ResultSet holds the ranked collocates of one document.
type ResultSet struct {
	FileName    string
	Keyword     string
	Window      int
	CorpusSize  int64 // N
	KeywordFreq int64 // A; zero when the keyword never occurs
	Span        int
	Records     []Record // MI descending, ties in first-occurrence order
}

// Found reports whether the keyword occurred in the document.
func (rs ResultSet) Found() bool {
	return rs.KeywordFreq > 0
}

// Scorer computes collocation statistics for a keyword.
type Scorer struct {
	calc    *Calculator
	exclude map[string]struct{}
}

// NewScorer creates a scorer. Collocates listed in exclude are dropped
// from results after scoring; they still count toward every frequency.
func NewScorer(exclude []string) *Scorer {
	ex := make(map[string]struct{}, len(exclude))
	for _, w := range exclude {
		ex[strings.ToLower(w)] = struct{}{}
	}
	return &Scorer{
		calc:    NewCalculator(),
		exclude: ex,
	}
}

// Excluded reports whether a collocate is filtered from results.
func (s *Scorer) Excluded(token string) bool {
	_, ok := s.exclude[token]
	return ok
}

// Score pools the windows around every occurrence of keyword in doc and
// ranks the collocates found there.
//
// An empty document, or one without the keyword, yields a ResultSet with no
// records and a nil error. The span used in the score is always 2*window,
// also for occurrences whose window is clipped by the document edges.
func (s *Scorer) Score(doc ingest.Document, keyword string, window int) (ResultSet, error) {
	if keyword == "" {
		return ResultSet{}, fmt.Errorf("empty keyword: %w", internalerr.ErrInvalidInput)
	}
	if window < 0 {
		return ResultSet{}, fmt.Errorf("window %d is negative: %w", window, internalerr.ErrInvalidInput)
	}
	if window > MaxWindow {
		return ResultSet{}, fmt.Errorf("window %d exceeds %d: %w", window, MaxWindow, internalerr.ErrInvalidInput)
	}

	rs := ResultSet{
		FileName: doc.Name,
		Keyword:  keyword,
		Window:   window,
		Span:     2 * window,
	}

	tokens := doc.Tokens
	if len(tokens) == 0 {
		return rs, nil
	}

	counter := NewWindowCounter()
	for _, tok := range tokens {
		counter.AddToken(tok)
	}
	rs.CorpusSize = counter.N

	last := len(tokens) - 1
	reach := min(window, last)
	for i, tok := range tokens {
		if tok != keyword {
			continue
		}
		counter.AddKeyword()

		for j := max(0, i-reach); j < i; j++ {
			counter.AddCollocate(tokens[j])
		}
		for j := i + 1; j <= min(last, i+reach); j++ {
			counter.AddCollocate(tokens[j])
		}
	}

	rs.KeywordFreq = counter.A
	if counter.A == 0 {
		return rs, nil
	}

	records := make([]Record, 0, counter.UniqueCollocates())
	for _, k := range counter.CollocateOrder() {
		b, ok := counter.GetTokenCount(k)
		if !ok {
			continue
		}
		ab := counter.GetCollocateCount(k)

		mi, ok := s.calc.MI(counter.A, b, ab, rs.Span, counter.N)
		if !ok {
			continue
		}
		if s.Excluded(k) {
			continue
		}

		records = append(records, Record{
			FileName:      doc.Name,
			Keyword:       keyword,
			Window:        window,
			Collocate:     k,
			CollocateFreq: ab,
			TextFreq:      b,
			MI:            mi,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MI > records[j].MI
	})
	rs.Records = records

	return rs, nil
}
