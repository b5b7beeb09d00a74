package store

import (
	"context"
	"time"

	"github.com/cognicore/colloc/pkg/colloc/pmi"
)

// Store archives the tables produced by collocation runs
type Store interface {
	Close() error

	// Runs
	BeginRun(ctx context.Context, r Run) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time) error
	GetRun(ctx context.Context, runID string) (Run, error)

	// Results
	SaveResult(ctx context.Context, runID, table string, records []pmi.Record) error
	RunRecords(ctx context.Context, runID, table string) ([]pmi.Record, error)
	RunTables(ctx context.Context, runID string) ([]string, error)
}

// Run describes one invocation over a file or directory
type Run struct {
	ID         string
	Input      string
	Keyword    string
	Window     int
	OutputType string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
}
