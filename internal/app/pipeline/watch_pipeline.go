package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/ghalamif/FaultWatch/internal/domain"
	"github.com/ghalamif/FaultWatch/internal/ports"
)

// State is a step of the watch cycle.
type State string

const (
	StateWaitingForInput State = "waiting_for_input"
	StateLoading         State = "loading"
	StateClassifying     State = "classifying"
	StateWriting         State = "writing"
	StateSleeping        State = "sleeping"
)

// Watcher drives the load, classify, write, sleep cycle over one input file.
// Cycles run strictly one after another.
type Watcher struct {
	source     ports.Source
	out        ports.Sink
	mirrors    []ports.Sink
	classifier *domain.Classifier
	pol        ports.Policy
	obs        ports.Observability
	clock      ports.Clock
	onState    func(State)
	newCycleID func() string
}

type WatcherOption func(*Watcher)

// WithMirrors adds sinks that receive every dataset after the primary
// output has been written.
func WithMirrors(sinks ...ports.Sink) WatcherOption {
	return func(w *Watcher) {
		for _, s := range sinks {
			if s != nil {
				w.mirrors = append(w.mirrors, s)
			}
		}
	}
}

// WithStateHook observes every state the watcher enters.
func WithStateHook(fn func(State)) WatcherOption {
	return func(w *Watcher) { w.onState = fn }
}

// WithCycleIDs overrides how cycle identifiers are generated.
func WithCycleIDs(fn func() string) WatcherOption {
	return func(w *Watcher) {
		if fn != nil {
			w.newCycleID = fn
		}
	}
}

func NewWatcher(src ports.Source, out ports.Sink, classifier *domain.Classifier, pol ports.Policy, obs ports.Observability, clock ports.Clock, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		source:     src,
		out:        out,
		classifier: classifier,
		pol:        pol,
		obs:        obs,
		clock:      clock,
		newCycleID: func() string { return "" },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run repeats cycles until ctx is cancelled. Cycle failures are reported and
// retried after the poll interval; they never end the loop.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		res := w.RunOnce(ctx)

		w.enter(nextState(res.Outcome))
		if err := w.clock.Sleep(ctx, w.pol.PollInterval); err != nil {
			return err
		}
	}
}

// nextState is the retry policy: every outcome, success or failure, waits
// for the next poll.
func nextState(domain.Outcome) State {
	return StateSleeping
}

// RunOnce runs one cycle and emits its status line and metrics. A cycle
// that failed because ctx was cancelled is returned but not reported.
func (w *Watcher) RunOnce(ctx context.Context) domain.CycleResult {
	res := w.RunCycle(ctx)
	if res.Outcome.Failed() && ctx.Err() != nil {
		return res
	}
	w.report(res)
	return res
}

// RunCycle performs a single load, classify, write pass without reporting it.
func (w *Watcher) RunCycle(ctx context.Context) domain.CycleResult {
	start := w.clock.Now()
	res := w.cycle(ctx, start)
	res.Duration = w.clock.Now().Sub(start)
	return res
}

func (w *Watcher) cycle(ctx context.Context, start time.Time) domain.CycleResult {
	id := w.newCycleID()

	w.enter(StateWaitingForInput)
	ok, err := w.source.Available()
	if err != nil {
		return w.loadFailure(id, err)
	}
	if !ok {
		return domain.CycleResult{ID: id, Outcome: domain.OutcomeInputMissing, Err: domain.ErrInputMissing}
	}

	w.enter(StateLoading)
	ds, err := w.source.Load(ctx)
	if errors.Is(err, domain.ErrInputMissing) {
		return domain.CycleResult{ID: id, Outcome: domain.OutcomeInputMissing, Err: err}
	}
	if err != nil {
		return w.loadFailure(id, err)
	}
	if ds.Len() == 0 {
		return domain.CycleResult{ID: id, Outcome: domain.OutcomeEmptyDataset}
	}

	w.enter(StateClassifying)
	annotated, err := w.classifier.Annotate(ds)
	if err != nil {
		return domain.CycleResult{ID: id, Outcome: domain.OutcomeMalformedRow, Rows: ds.Len(), Err: err}
	}
	annotated.CycleID = id
	annotated.GeneratedAt = start.UTC()

	w.enter(StateWriting)
	if err := w.out.WriteDataset(ctx, annotated); err != nil {
		return domain.CycleResult{
			ID:      id,
			Outcome: domain.OutcomeWriteFailure,
			Rows:    annotated.Len(),
			Err:     &domain.WriteError{Sink: w.out.Name(), Err: err},
		}
	}
	w.writeMirrors(ctx, annotated)

	return domain.CycleResult{
		ID:      id,
		Outcome: domain.OutcomeWritten,
		Rows:    annotated.Len(),
		Faulty:  annotated.Faulty(),
		Labels:  annotated.LabelCounts(),
	}
}

func (w *Watcher) loadFailure(id string, err error) domain.CycleResult {
	return domain.CycleResult{
		ID:      id,
		Outcome: domain.OutcomeLoadFailure,
		Err:     &domain.LoadError{Path: w.source.Name(), Err: err},
	}
}

func (w *Watcher) writeMirrors(ctx context.Context, ds *domain.AnnotatedDataset) {
	for _, m := range w.mirrors {
		if err := m.WriteDataset(ctx, ds); err != nil {
			w.obs.LogError("mirror_write_failed", err, ports.Field{Key: "sink", Value: m.Name()})
			w.obs.IncCounter("faultwatch_mirror_failures_total", 1)
		}
	}
}

func (w *Watcher) report(res domain.CycleResult) {
	w.obs.RecordCycle(res)

	switch res.Outcome {
	case domain.OutcomeWritten:
		w.obs.SetGauge("faultwatch_last_success_timestamp_seconds", float64(w.clock.Now().Unix()))
		w.obs.LogInfo("fault_detection_updated",
			ports.Field{Key: "output", Value: w.out.Name()},
			ports.Field{Key: "rows", Value: res.Rows},
			ports.Field{Key: "faulty", Value: res.Faulty})
	case domain.OutcomeInputMissing:
		w.obs.LogInfo("waiting_for_input", ports.Field{Key: "input", Value: w.source.Name()})
	case domain.OutcomeEmptyDataset:
		// nothing to write
	default:
		w.obs.LogWarn("cycle_abandoned", res.Err,
			ports.Field{Key: "outcome", Value: res.Outcome},
			ports.Field{Key: "input", Value: w.source.Name()})
	}
}

func (w *Watcher) enter(s State) {
	if w.onState != nil {
		w.onState(s)
	}
}
