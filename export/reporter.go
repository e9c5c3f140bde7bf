package export

// Reporter receives structured progress and log events from a batch run. The
// orchestrator has no opinion on presentation; the CLI or a surrounding UI
// renders these however it likes.
type Reporter interface {
	// Progress is emitted after every step. total is fixed at batch start
	// as len(records) times the number of language passes.
	Progress(step, total int, recordID string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Success(msg string)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Progress(step, total int, recordID string) {}
func (NopReporter) Info(msg string)                           {}
func (NopReporter) Warning(msg string)                        {}
func (NopReporter) Error(msg string)                          {}
func (NopReporter) Success(msg string)                        {}
