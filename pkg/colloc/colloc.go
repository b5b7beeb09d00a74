package colloc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/colloc/pkg/colloc/config"
	"github.com/cognicore/colloc/pkg/colloc/corpus"
	"github.com/cognicore/colloc/pkg/colloc/ingest"
	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/output"
	"github.com/cognicore/colloc/pkg/colloc/pmi"
	"github.com/cognicore/colloc/pkg/colloc/store"
)

// LockName is the lock file taken inside the output directory for the
// duration of a run.
const LockName = ".colloc.lock"

var (
	// ErrPartialFailure is returned by Run when at least one file failed.
	ErrPartialFailure = errors.New("one or more files failed")
	// ErrOutputLocked is returned when another run holds the output directory.
	ErrOutputLocked = errors.New("output directory is locked by another run")
)

// Colloc runs collocation analyses over files and directories
type Colloc struct {
	tokenizer    *ingest.Tokenizer
	scorer       *pmi.Scorer
	outputDir    string
	maxFileBytes int64
	store        store.Store
	reporter     Reporter
	logger       *slog.Logger
	entropy      *ulid.MonotonicEntropy
	now          func() time.Time
}

// Options configures a Colloc instance
type Options struct {
	Tokenizer *ingest.Tokenizer
	Scorer    *pmi.Scorer
	OutputDir string
	// MaxFileBytes caps the size of each input file; 0 means no cap.
	MaxFileBytes int64
	// Store archives every written table when non-nil.
	Store    store.Store
	Reporter Reporter
	Logger   *slog.Logger
}

// New creates a Colloc instance with the given dependencies
func New(opts Options) *Colloc {
	c := &Colloc{
		tokenizer:    opts.Tokenizer,
		scorer:       opts.Scorer,
		outputDir:    opts.OutputDir,
		maxFileBytes: opts.MaxFileBytes,
		store:        opts.Store,
		reporter:     opts.Reporter,
		logger:       opts.Logger,
		entropy:      ulid.Monotonic(rand.Reader, 0),
		now:          time.Now,
	}
	if c.tokenizer == nil {
		c.tokenizer = ingest.NewTokenizer(ingest.Options{})
	}
	if c.scorer == nil {
		c.scorer = pmi.NewScorer(nil)
	}
	if c.outputDir == "" {
		c.outputDir = config.DefaultOutputDir
	}
	if c.reporter == nil {
		c.reporter = nopReporter{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Close releases the archive, if any
func (c *Colloc) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Request describes one run
type Request struct {
	Input      string // file or directory
	Keyword    string
	Window     int
	OutputType string // config.OutputSeparate or config.OutputGathered
}

// FileSummary reports the outcome for one input file
type FileSummary struct {
	Path        string
	Name        string
	Tokens      int64
	KeywordFreq int64
	Rows        int
	Output      string // empty in gathered mode
	Err         error
}

// Summary reports the outcome of a run
type Summary struct {
	RunID   string
	Kind    corpus.Kind
	Files   []FileSummary
	Outputs []string
}

// Failed returns the number of files that could not be processed.
func (s Summary) Failed() int {
	n := 0
	for _, f := range s.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Rows returns the total number of rows over all successful files.
func (s Summary) Rows() int {
	n := 0
	for _, f := range s.Files {
		n += f.Rows
	}
	return n
}

// Analyze tokenizes text and scores keyword collocates within window.
func (c *Colloc) Analyze(name, text, keyword string, window int) (pmi.ResultSet, error) {
	doc, err := c.tokenizer.Tokenize(name, text)
	if err != nil {
		return pmi.ResultSet{}, err
	}
	return c.scorer.Score(doc, keyword, window)
}

// Run processes every file of the request sequentially and writes the
// result tables. A failing file is logged and skipped; if any file failed
// the returned error wraps ErrPartialFailure.
func (c *Colloc) Run(ctx context.Context, req Request) (Summary, error) {
	if err := validate(req); err != nil {
		return Summary{}, err
	}

	in, err := corpus.Resolve(req.Input)
	if err != nil {
		return Summary{}, err
	}
	gathered := in.Kind == corpus.KindDir && req.OutputType == config.OutputGathered

	unlock, err := c.lockOutput()
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	startedAt := c.now()
	summary := Summary{
		RunID: ulid.MustNew(ulid.Timestamp(startedAt), c.entropy).String(),
		Kind:  in.Kind,
	}
	if err := c.beginRun(ctx, summary.RunID, req, startedAt); err != nil {
		return summary, err
	}
	// A cancelled run is still closed in the archive.
	defer c.finishRun(context.WithoutCancel(ctx), summary.RunID)

	var all []pmi.Record
	total := len(in.Files)
	for i, path := range in.Files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		c.reporter.Started(i+1, total, path)
		fs, rs, err := c.processFile(ctx, summary.RunID, path, req, gathered)
		if err != nil {
			fs.Err = err
			summary.Files = append(summary.Files, fs)
			c.logger.Error("file failed", slog.String("file", path), slog.Any("error", err))
			c.reporter.Failed(i+1, total, path, err)
			continue
		}

		if gathered {
			all = append(all, rs.Records...)
		} else {
			summary.Outputs = append(summary.Outputs, fs.Output)
		}
		summary.Files = append(summary.Files, fs)
		c.reporter.Finished(i+1, total, fs)
	}

	if gathered {
		name := output.GatheredName(req.Keyword)
		path, err := output.WriteFile(c.outputDir, name, all)
		if err != nil {
			return summary, err
		}
		summary.Outputs = append(summary.Outputs, path)
		if err := c.archive(ctx, summary.RunID, name, all); err != nil {
			return summary, err
		}
	}

	if failed := summary.Failed(); failed > 0 {
		return summary, fmt.Errorf("%d of %d files: %w", failed, total, ErrPartialFailure)
	}
	return summary, nil
}

func (c *Colloc) processFile(ctx context.Context, runID, path string, req Request, gathered bool) (FileSummary, pmi.ResultSet, error) {
	fs := FileSummary{Path: path, Name: corpus.Stem(path)}

	text, err := corpus.ReadFile(path, c.maxFileBytes)
	if err != nil {
		return fs, pmi.ResultSet{}, err
	}

	rs, err := c.Analyze(fs.Name, text, req.Keyword, req.Window)
	if err != nil {
		return fs, pmi.ResultSet{}, err
	}
	fs.Tokens = rs.CorpusSize
	fs.KeywordFreq = rs.KeywordFreq
	fs.Rows = len(rs.Records)

	if !rs.Found() {
		c.logger.Info("keyword not found",
			slog.String("file", path),
			slog.String("keyword", req.Keyword),
			slog.Int64("tokens", rs.CorpusSize))
	}

	if gathered {
		return fs, rs, nil
	}

	name := output.SeparateName(fs.Name, req.Keyword)
	fs.Output, err = output.WriteFile(c.outputDir, name, rs.Records)
	if err != nil {
		return fs, rs, err
	}
	if err := c.archive(ctx, runID, name, rs.Records); err != nil {
		return fs, rs, err
	}

	c.logger.Debug("file scored",
		slog.String("file", path),
		slog.Int64("tokens", rs.CorpusSize),
		slog.Int("rows", fs.Rows))

	return fs, rs, nil
}

// lockOutput takes an exclusive lock on the output directory.
func (c *Colloc) lockOutput() (func(), error) {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(filepath.Join(c.outputDir, LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", c.outputDir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", c.outputDir, ErrOutputLocked)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			c.logger.Warn("unlock output dir", slog.String("dir", c.outputDir), slog.Any("error", err))
		}
	}, nil
}

func (c *Colloc) beginRun(ctx context.Context, runID string, req Request, startedAt time.Time) error {
	if c.store == nil {
		return nil
	}
	outputType := req.OutputType
	if outputType == "" {
		outputType = config.OutputSeparate
	}
	err := c.store.BeginRun(ctx, store.Run{
		ID:         runID,
		Input:      req.Input,
		Keyword:    req.Keyword,
		Window:     req.Window,
		OutputType: outputType,
		StartedAt:  startedAt,
	})
	if err != nil {
		return fmt.Errorf("archive run %s: %w", runID, err)
	}
	return nil
}

func (c *Colloc) finishRun(ctx context.Context, runID string) {
	if c.store == nil {
		return
	}
	if err := c.store.FinishRun(ctx, runID, c.now()); err != nil {
		c.logger.Warn("archive run", slog.String("run", runID), slog.Any("error", err))
	}
}

func (c *Colloc) archive(ctx context.Context, runID, table string, records []pmi.Record) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.SaveResult(ctx, runID, table, records); err != nil {
		return fmt.Errorf("archive %s: %w", table, err)
	}
	return nil
}

func validate(req Request) error {
	if req.Input == "" {
		return fmt.Errorf("input path is required: %w", internalerr.ErrInvalidInput)
	}
	if req.Keyword == "" {
		return fmt.Errorf("search term is required: %w", internalerr.ErrInvalidInput)
	}
	if req.Window < 0 {
		return fmt.Errorf("window must be >= 0, got %d: %w", req.Window, internalerr.ErrInvalidInput)
	}
	if req.Window > pmi.MaxWindow {
		return fmt.Errorf("window must be <= %d, got %d: %w", pmi.MaxWindow, req.Window, internalerr.ErrInvalidInput)
	}
	// The keyword becomes part of every output file name.
	if strings.ContainsAny(req.Keyword, `/\`) {
		return fmt.Errorf("search term %q contains a path separator: %w", req.Keyword, internalerr.ErrInvalidInput)
	}
	switch req.OutputType {
	case "", config.OutputSeparate, config.OutputGathered:
		return nil
	default:
		return fmt.Errorf("unknown output type %q: %w", req.OutputType, internalerr.ErrInvalidInput)
	}
}
