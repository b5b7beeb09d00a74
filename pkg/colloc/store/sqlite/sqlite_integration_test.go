package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/pmi"
	"github.com/cognicore/colloc/pkg/colloc/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRecords() []pmi.Record {
	return []pmi.Record{
		{FileName: "cats", Keyword: "cat", Window: 2, Collocate: "sat", CollocateFreq: 1, TextFreq: 1, MI: 0.16992500144231237},
		{FileName: "cats", Keyword: "cat", Window: 2, Collocate: "on", CollocateFreq: 1, TextFreq: 1, MI: 0.16992500144231237},
		{FileName: "cats", Keyword: "cat", Window: 2, Collocate: "the", CollocateFreq: 2, TextFreq: 3, MI: -0.41503749927884376},
	}
}

func TestSQLiteRunLifecycle(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	started := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	run := store.Run{
		ID:         "01JABCDEF0000000000000000",
		Input:      "corpus",
		Keyword:    "cat",
		Window:     2,
		OutputType: "separate",
		StartedAt:  started,
	}
	if err := st.BeginRun(ctx, run); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	got, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Keyword != "cat" || got.Window != 2 || got.Input != "corpus" {
		t.Errorf("Run mismatch: %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt mismatch: got %v, want %v", got.StartedAt, started)
	}
	if !got.FinishedAt.IsZero() {
		t.Error("Run should not be finished yet")
	}

	finished := started.Add(time.Minute)
	if err := st.FinishRun(ctx, run.ID, finished); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	got, err = st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt mismatch: got %v, want %v", got.FinishedAt, finished)
	}
}

func TestSQLiteSaveResultPreservesOrder(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.BeginRun(ctx, store.Run{ID: "run-1", Input: "cats.txt", Keyword: "cat", Window: 2, OutputType: "separate", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	records := sampleRecords()
	if err := st.SaveResult(ctx, "run-1", "MI_cats_cat.csv", records); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	got, err := st.RunRecords(ctx, "run-1", "MI_cats_cat.csv")
	if err != nil {
		t.Fatalf("RunRecords: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("Record %d mismatch: got %+v, want %+v", i, got[i], records[i])
		}
	}

	tables, err := st.RunTables(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 || tables[0] != "MI_cats_cat.csv" {
		t.Errorf("Unexpected tables %v", tables)
	}
}

func TestSQLiteSaveResultReplacesTable(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.BeginRun(ctx, store.Run{ID: "run-2", Input: "x", Keyword: "cat", OutputType: "separate", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	if err := st.SaveResult(ctx, "run-2", "t", sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveResult(ctx, "run-2", "t", sampleRecords()[:1]); err != nil {
		t.Fatal(err)
	}

	got, err := st.RunRecords(ctx, "run-2", "t")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("Second save should replace the table, got %d rows", len(got))
	}
}

func TestSQLiteUnknownRun(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.GetRun(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := st.FinishRun(ctx, "missing", time.Now()); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := st.SaveResult(ctx, "missing", "t", sampleRecords()); err == nil {
		t.Error("Saving rows for an unknown run should violate the foreign key")
	}
	if err := st.BeginRun(ctx, store.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run id, got %v", err)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	st, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.BeginRun(ctx, store.Run{ID: "r", Input: "x", Keyword: "k", OutputType: "gathered", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveResult(ctx, "r", "MI_all_k.csv", sampleRecords()); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer st.Close()

	got, err := st.RunRecords(ctx, "r", "MI_all_k.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 persisted records, got %d", len(got))
	}
}
