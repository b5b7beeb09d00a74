package corpus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

// Kind tells whether an input path names a single file or a directory.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// Input is a resolved input path and the files it covers.
type Input struct {
	Kind  Kind
	Path  string
	Files []string
}

// Resolve inspects path. A regular file resolves to itself; a directory
// resolves to the *.txt files directly inside it, sorted by name.
func Resolve(path string) (Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Input{}, fmt.Errorf("%s: %w", path, internalerr.ErrInputNotFound)
		}
		return Input{}, fmt.Errorf("stat %s: %w", path, err)
	}

	switch {
	case info.Mode().IsRegular():
		return Input{Kind: KindFile, Path: path, Files: []string{path}}, nil
	case info.IsDir():
		files, err := Discover(path)
		if err != nil {
			return Input{}, err
		}
		return Input{Kind: KindDir, Path: path, Files: files}, nil
	default:
		return Input{}, fmt.Errorf("%s is neither a file nor a directory: %w", path, internalerr.ErrInputNotFound)
	}
}

// Discover lists the *.txt files in dir without descending into
// subdirectories.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// ReadFile reads a whole file. If maxBytes > 0 and the file is larger,
// reading stops and an error wrapping ErrInputTooLarge is returned.
func ReadFile(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%s: larger than %d bytes: %w", path, maxBytes, internalerr.ErrInputTooLarge)
	}

	return string(data), nil
}

// Stem returns the base name of path up to its first dot.
// Example: "corpus/moby.dick.txt" → "moby"
func Stem(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}
