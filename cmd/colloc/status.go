package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/cognicore/colloc/pkg/colloc"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusError
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

func renderStatusLine(kind statusKind, message string, colorize bool) string {
	line := fmt.Sprintf("[%s] %s", statusKindLabel(kind), message)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusReporter prints progress lines for a run.
type statusReporter struct {
	out      io.Writer
	colorize bool
}

var _ colloc.Reporter = (*statusReporter)(nil)

func newStatusReporter(out io.Writer, colorize bool) *statusReporter {
	return &statusReporter{out: out, colorize: colorize}
}

func (s *statusReporter) print(kind statusKind, message string) {
	fmt.Fprintln(s.out, renderStatusLine(kind, message, s.colorize))
}

func (s *statusReporter) info(message string) {
	s.print(statusInfo, message)
}

func (s *statusReporter) ok(message string) {
	s.print(statusOK, message)
}

func (s *statusReporter) Started(index, total int, path string) {
	s.info(fmt.Sprintf("Processing file %d of %d", index, total))
}

func (s *statusReporter) Finished(index, total int, fs colloc.FileSummary) {}

func (s *statusReporter) Failed(index, total int, path string, err error) {
	s.print(statusError, fmt.Sprintf("File %d of %d (%s): %v", index, total, path, err))
}
