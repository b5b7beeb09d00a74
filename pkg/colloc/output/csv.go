package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cognicore/colloc/pkg/colloc/pmi"
)

// Columns is the header row of every result table.
var Columns = []string{
	"file_name",
	"key_word",
	"window",
	"collocate_term",
	"collocate_frequency",
	"text_frequency",
	"MI_score",
}

// SeparateName is the table name for one input file.
func SeparateName(stem, keyword string) string {
	return fmt.Sprintf("MI_%s_%s.csv", stem, keyword)
}

// GatheredName is the table name for a combined directory run.
func GatheredName(keyword string) string {
	return fmt.Sprintf("MI_all_%s.csv", keyword)
}

// WriteCSV writes a header row followed by one row per record, in order.
func WriteCSV(w io.Writer, records []pmi.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.FileName,
			r.Keyword,
			strconv.Itoa(r.Window),
			r.Collocate,
			strconv.FormatInt(r.CollocateFreq, 10),
			strconv.FormatInt(r.TextFreq, 10),
			strconv.FormatFloat(r.MI, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) ([]pmi.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i, col, header[i])
		}
	}

	var records []pmi.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string) (pmi.Record, error) {
	window, err := strconv.Atoi(row[2])
	if err != nil {
		return pmi.Record{}, fmt.Errorf("window: %w", err)
	}
	ab, err := strconv.ParseInt(row[4], 10, 64)
	if err != nil {
		return pmi.Record{}, fmt.Errorf("collocate_frequency: %w", err)
	}
	b, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return pmi.Record{}, fmt.Errorf("text_frequency: %w", err)
	}
	mi, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return pmi.Record{}, fmt.Errorf("MI_score: %w", err)
	}

	return pmi.Record{
		FileName:      row[0],
		Keyword:       row[1],
		Window:        window,
		Collocate:     row[3],
		CollocateFreq: ab,
		TextFreq:      b,
		MI:            mi,
	}, nil
}

// WriteFile writes records as a CSV table named name inside dir, creating
// dir if needed, and returns the path written.
func WriteFile(dir, name string, records []pmi.Record) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path = filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := WriteCSV(f, records); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// ReadFile parses the CSV table at path.
func ReadFile(path string) ([]pmi.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}
