package output

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/colloc/pkg/colloc/ingest"
	"github.com/cognicore/colloc/pkg/colloc/pmi"
)

func scored(t *testing.T) []pmi.Record {
	t.Helper()
	d := ingest.Document{Name: "cats", Tokens: strings.Fields("the cat sat on the mat the cat ran")}
	rs, err := pmi.NewScorer(nil).Score(d, "cat", 2)
	if err != nil {
		t.Fatal(err)
	}
	return rs.Records
}

func TestCSVRoundTrip(t *testing.T) {
	records := scored(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	parsed, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if len(parsed) != len(records) {
		t.Fatalf("Expected %d rows, got %d", len(records), len(parsed))
	}
	for i := range records {
		if parsed[i] != records[i] {
			t.Errorf("Row %d differs: %+v vs %+v", i, parsed[i], records[i])
		}
		if math.Float64bits(parsed[i].MI) != math.Float64bits(records[i].MI) {
			t.Errorf("Row %d: MI not bit-identical after round trip", i)
		}
	}
}

func TestCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}

	want := strings.Join(Columns, ",") + "\n"
	if buf.String() != want {
		t.Errorf("Expected header only %q, got %q", want, buf.String())
	}

	parsed, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 0 {
		t.Errorf("Expected no rows, got %d", len(parsed))
	}
}

func TestCSVQuotedFields(t *testing.T) {
	records := []pmi.Record{{
		FileName:      "a,b",
		Keyword:       "cat",
		Window:        5,
		Collocate:     `say "hi"`,
		CollocateFreq: 1,
		TextFreq:      2,
		MI:            -0.5,
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatal(err)
	}
	parsed, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 1 || parsed[0] != records[0] {
		t.Errorf("Quoted fields should survive round trip, got %+v", parsed)
	}
}

func TestReadCSVBadHeader(t *testing.T) {
	in := "a,b,c,d,e,f,g\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Error("Should reject unexpected header")
	}
}

func TestReadCSVBadNumber(t *testing.T) {
	in := strings.Join(Columns, ",") + "\nf,k,five,c,1,1,0.5\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Error("Should reject non-numeric window")
	}
}

func TestNames(t *testing.T) {
	if got := SeparateName("moby", "whale"); got != "MI_moby_whale.csv" {
		t.Errorf("Unexpected separate name %q", got)
	}
	if got := GatheredName("whale"); got != "MI_all_whale.csv" {
		t.Errorf("Unexpected gathered name %q", got)
	}
}

func TestWriteFileCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	records := scored(t)

	path, err := WriteFile(dir, SeparateName("cats", "cat"), records)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if path != filepath.Join(dir, "MI_cats_cat.csv") {
		t.Errorf("Unexpected path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Output file missing: %v", err)
	}

	parsed, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != len(records) {
		t.Errorf("Expected %d rows, got %d", len(records), len(parsed))
	}
}
