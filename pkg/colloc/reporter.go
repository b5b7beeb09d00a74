package colloc

// Reporter receives progress events while a run walks its files.
// Indices are 1-based.
type Reporter interface {
	Started(index, total int, path string)
	Finished(index, total int, fs FileSummary)
	Failed(index, total int, path string, err error)
}

type nopReporter struct{}

func (nopReporter) Started(int, int, string) {}
func (nopReporter) Finished(int, int, FileSummary) {}
func (nopReporter) Failed(int, int, string, error) {}
