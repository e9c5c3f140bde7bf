// Package export orchestrates batch certificate rendering: it walks an
// ordered recipient sequence, composes one page per language pass and
// assembles the captured pages into a single paginated PDF. One batch runs
// at a time; cancellation is cooperative and all-or-nothing.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tdewolff/canvas"

	"github.com/aikaryashala/patram/compose"
	"github.com/aikaryashala/patram/langpack"
	"github.com/aikaryashala/patram/photos"
	"github.com/aikaryashala/patram/records"
)

// ErrBusy is returned when a run is requested while another is in flight.
var ErrBusy = errors.New("an export batch is already running")

// State is the orchestrator's lifecycle state. Terminal run outcomes are
// reported in the Summary; the runner itself returns to Idle after each run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PageComposer renders one page per job. *compose.Composer implements it.
type PageComposer interface {
	Compose(job compose.Job) (*canvas.Canvas, []compose.Warning, error)
}

// Options are the per-batch policies.
type Options struct {
	// DualLanguage renders a second, secondary-language page for records
	// that carry a secondary name. The two pages stay contiguous, primary
	// first.
	DualLanguage bool
	// SkipOnMissingPhoto skips records whose photo cannot be resolved
	// instead of failing the whole run.
	SkipOnMissingPhoto bool
}

// Batch is one orchestrated run over an ordered recipient sequence.
type Batch struct {
	Records []records.Recipient
	Options Options
}

// Summary reports the outcome of one run. Counts are per record, not per
// page; invalid records are counted separately from photo skips.
type Summary struct {
	State        State
	SuccessCount int
	SkipCount    int
	InvalidCount int
	Skipped      []string // ids skipped for missing photos, in record order
	Pages        int
}

// RunnerOptions wires a Runner's collaborators.
type RunnerOptions struct {
	Composer  PageComposer
	Photos    photos.Resolver
	Primary   *langpack.Pack
	Secondary *langpack.Pack // required only for dual-language batches
	Reporter  Reporter
	Meta      Meta
}

// Runner owns the run state. RequestCancel is the only external mutator; it
// is observed at record boundaries and before a second language pass, never
// mid-composition.
type Runner struct {
	composer  PageComposer
	photos    photos.Resolver
	primary   *langpack.Pack
	secondary *langpack.Pack
	reporter  Reporter
	meta      Meta

	mu     sync.Mutex
	state  State
	cancel atomic.Bool
}

// NewRunner validates the collaborators and returns an idle Runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Composer == nil {
		return nil, fmt.Errorf("export: a composer is required")
	}
	if opts.Photos == nil {
		return nil, fmt.Errorf("export: a photo resolver is required")
	}
	if opts.Primary == nil {
		return nil, fmt.Errorf("export: a primary language pack is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	return &Runner{
		composer:  opts.Composer,
		photos:    opts.Photos,
		primary:   opts.Primary,
		secondary: opts.Secondary,
		reporter:  opts.Reporter,
		meta:      opts.Meta,
		state:     StateIdle,
	}, nil
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// RequestCancel asks the in-flight run to stop at the next step boundary.
// A cancelled run discards every page it already produced.
func (r *Runner) RequestCancel() {
	r.cancel.Store(true)
}

// Run executes one batch. It returns the assembled PDF bytes, or nil when
// the run was cancelled or produced no pages. Failures per the error policy
// (missing photo with skipping disabled, composition or assembly errors)
// abort the run; nothing partial is ever returned.
func (r *Runner) Run(batch Batch) ([]byte, Summary, error) {
	if err := r.begin(); err != nil {
		return nil, Summary{State: r.State()}, err
	}
	doc, summary, err := r.run(batch)
	r.finish()
	return doc, summary, err
}

func (r *Runner) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		return ErrBusy
	}
	r.state = StateRunning
	r.cancel.Store(false)
	return nil
}

func (r *Runner) finish() {
	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()
}

func (r *Runner) run(batch Batch) ([]byte, Summary, error) {
	passes := 1
	if batch.Options.DualLanguage {
		if r.secondary == nil {
			return nil, Summary{State: StateFailed}, fmt.Errorf("dual-language batch without a secondary pack")
		}
		passes = 2
	}
	total := len(batch.Records) * passes

	var (
		summary Summary
		pages   []*canvas.Canvas
		step    int
	)
	advance := func(id string, n int) {
		for i := 0; i < n; i++ {
			step++
			r.reporter.Progress(step, total, id)
		}
	}

	for _, rec := range batch.Records {
		if r.cancel.Load() {
			return r.cancelled(&summary)
		}

		if err := rec.Validate(); err != nil {
			summary.InvalidCount++
			r.reporter.Warning(fmt.Sprintf("skipping invalid record: %v", err))
			advance(rec.ID, passes)
			continue
		}

		photo, err := r.photos.Resolve(rec.ID, rec.PhotoRef)
		if err != nil {
			if batch.Options.SkipOnMissingPhoto {
				summary.SkipCount++
				summary.Skipped = append(summary.Skipped, rec.ID)
				r.reporter.Warning(fmt.Sprintf("skipping %s: %v", rec.ID, err))
				advance(rec.ID, passes)
				continue
			}
			summary.State = StateFailed
			r.reporter.Error(fmt.Sprintf("photo required for %s: %v", rec.ID, err))
			return nil, summary, fmt.Errorf("resolving photo for %s: %w", rec.ID, err)
		}

		page, err := r.composePage(compose.Job{Recipient: rec, Pack: r.primary, PhotoBytes: photo})
		if err != nil {
			summary.State = StateFailed
			r.reporter.Error(err.Error())
			return nil, summary, err
		}
		pages = append(pages, page)
		summary.SuccessCount++
		advance(rec.ID, 1)

		if passes == 2 {
			if rec.SecondaryName == "" {
				advance(rec.ID, 1)
				continue
			}
			if r.cancel.Load() {
				return r.cancelled(&summary)
			}
			page, err := r.composePage(compose.Job{Recipient: rec, Pack: r.secondary, PhotoBytes: photo})
			if err != nil {
				summary.State = StateFailed
				r.reporter.Error(err.Error())
				return nil, summary, err
			}
			pages = append(pages, page)
			advance(rec.ID, 1)
		}
	}

	if r.cancel.Load() {
		return r.cancelled(&summary)
	}

	summary.State = StateCompleted
	if len(pages) == 0 {
		r.reporter.Info("no pages produced")
		return nil, summary, nil
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, pages, r.meta); err != nil {
		summary.State = StateFailed
		summary.Pages = 0
		r.reporter.Error(err.Error())
		return nil, summary, fmt.Errorf("assembling document: %w", err)
	}
	summary.Pages = len(pages)
	r.reporter.Success(fmt.Sprintf("exported %d pages (%d records, %d skipped, %d invalid)",
		summary.Pages, summary.SuccessCount, summary.SkipCount, summary.InvalidCount))
	return buf.Bytes(), summary, nil
}

func (r *Runner) composePage(job compose.Job) (*canvas.Canvas, error) {
	page, warnings, err := r.composer.Compose(job)
	if err != nil {
		return nil, fmt.Errorf("composing %s (%s): %w", job.Recipient.ID, job.Pack.Code, err)
	}
	for _, w := range warnings {
		r.reporter.Warning(fmt.Sprintf("%s (%s): %s", job.Recipient.ID, job.Pack.Code, w.String()))
	}
	return page, nil
}

// cancelled finalizes a cancelled run: every produced page is discarded and
// no document is assembled.
func (r *Runner) cancelled(summary *Summary) ([]byte, Summary, error) {
	summary.State = StateCancelled
	summary.Pages = 0
	r.reporter.Warning("export cancelled; discarding all produced pages")
	return nil, *summary, nil
}
