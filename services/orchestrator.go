package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgchrksv/designnewshub/metrics"
	"github.com/srgchrksv/designnewshub/models"
)

// ErrorLabel prefixes every message shown for a failed cycle.
const ErrorLabel = "Error al procesar las noticias: "

const subscriberBuffer = 8

// Recorder receives cycle measurements. *metrics.Metrics implements it.
type Recorder interface {
	CycleFinished(outcome string)
	ObserveStage(stage string, d time.Duration)
	SetStatus(status models.GenerationStatus)
}

type noopRecorder struct{}

func (noopRecorder) CycleFinished(string) {}
func (noopRecorder) ObserveStage(string, time.Duration) {}
func (noopRecorder) SetStatus(models.GenerationStatus) {}

// Orchestrator runs report cycles: news search, then speech synthesis, and
// keeps the resulting status, report and audio. Only the orchestrator mutates
// its fields; readers get copies through Snapshot.
type Orchestrator struct {
	gateway  Gateway
	recorder Recorder

	mu          sync.RWMutex
	status      models.GenerationStatus
	cycleID     string
	report      *models.NewsReport
	audio       *models.AudioResult
	errMsg      string
	startedAt   time.Time
	finishedAt  time.Time
	subscribers map[chan models.Snapshot]struct{}
}

func NewOrchestrator(gateway Gateway, recorder Recorder) *Orchestrator {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Orchestrator{
		gateway:     gateway,
		recorder:    recorder,
		status:      models.StatusIdle,
		subscribers: make(map[chan models.Snapshot]struct{}),
	}
}

func (o *Orchestrator) Status() models.GenerationStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

func (o *Orchestrator) Snapshot() models.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Status:     o.status,
		CycleID:    o.cycleID,
		Error:      o.errMsg,
		StartedAt:  o.startedAt,
		FinishedAt: o.finishedAt,
	}
	if o.status == models.StatusCompleted {
		snap.Report = o.report
		snap.Audio = o.audio
	}
	return snap
}

// Start begins a new cycle from Idle. It returns as soon as the cycle is in
// Searching; done is closed once the cycle reaches Completed or Error.
func (o *Orchestrator) Start(ctx context.Context) (<-chan struct{}, error) {
	return o.launch(ctx, models.StatusIdle)
}

// Retry re-runs the whole cycle after an Error. Nothing from the failed cycle
// is kept.
func (o *Orchestrator) Retry(ctx context.Context) (<-chan struct{}, error) {
	return o.launch(ctx, models.StatusError)
}

// Reset returns a Completed orchestrator to Idle and drops the report and audio.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.InFlight() {
		return ErrCycleInFlight
	}
	if o.status != models.StatusCompleted {
		return ErrInvalidTransition
	}

	o.status = models.StatusIdle
	o.cycleID = ""
	o.report = nil
	o.audio = nil
	o.errMsg = ""
	o.startedAt = time.Time{}
	o.finishedAt = time.Time{}
	o.publishLocked()
	return nil
}

func (o *Orchestrator) launch(ctx context.Context, from models.GenerationStatus) (<-chan struct{}, error) {
	o.mu.Lock()
	if o.status.InFlight() {
		o.mu.Unlock()
		return nil, ErrCycleInFlight
	}
	if o.status != from {
		o.mu.Unlock()
		return nil, ErrInvalidTransition
	}

	cycleID := uuid.New().String()
	o.status = models.StatusSearching
	o.cycleID = cycleID
	o.report = nil
	o.audio = nil
	o.errMsg = ""
	o.startedAt = time.Now()
	o.finishedAt = time.Time{}
	o.publishLocked()
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		o.run(ctx, cycleID)
	}()
	return done, nil
}

func (o *Orchestrator) run(ctx context.Context, cycleID string) {
	log := slog.With("cycle_id", cycleID)
	log.Info("report cycle started")

	start := time.Now()
	report, err := o.gateway.FetchNews(ctx)
	o.recorder.ObserveStage("search", time.Since(start))
	if err == nil && report == nil {
		err = &DeserializationError{Err: errors.New("empty news report")}
	}
	if err != nil {
		o.fail(log, err)
		return
	}
	log.Info("news fetched", "date", report.Date, "items", len(report.Items))

	o.setStatus(models.StatusGeneratingAudio)

	start = time.Now()
	audio, err := o.gateway.SynthesizeSpeech(ctx, report.FullText)
	o.recorder.ObserveStage("speech", time.Since(start))
	if err == nil && audio == nil {
		err = &AudioExtractionError{Err: ErrNoAudio}
	}
	if err != nil {
		o.fail(log, err)
		return
	}

	o.mu.Lock()
	o.status = models.StatusCompleted
	o.report = report
	o.audio = audio
	o.finishedAt = time.Now()
	o.publishLocked()
	o.mu.Unlock()

	o.recorder.CycleFinished(metrics.OutcomeCompleted)
	log.Info("report cycle completed", "audio_bytes", len(audio.Data), "mime_type", audio.MIMEType)
}

func (o *Orchestrator) setStatus(status models.GenerationStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = status
	o.publishLocked()
}

// fail collapses any gateway error into the Error state and its message.
func (o *Orchestrator) fail(log *slog.Logger, err error) {
	o.mu.Lock()
	o.status = models.StatusError
	o.report = nil
	o.audio = nil
	o.errMsg = ErrorLabel + displayMessage(err)
	o.finishedAt = time.Now()
	o.publishLocked()
	o.mu.Unlock()

	o.recorder.CycleFinished(metrics.OutcomeError)
	log.Error("report cycle failed", "kind", errorKind(err), "error", err)
}

// Subscribe returns a channel that receives a Snapshot after every status
// change. When the reader falls behind, older snapshots are dropped so the
// newest one is always delivered.
func (o *Orchestrator) Subscribe() <-chan models.Snapshot {
	ch := make(chan models.Snapshot, subscriberBuffer)
	o.mu.Lock()
	o.subscribers[ch] = struct{}{}
	o.mu.Unlock()
	return ch
}

func (o *Orchestrator) Unsubscribe(sub <-chan models.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for ch := range o.subscribers {
		if ch == sub {
			delete(o.subscribers, ch)
			close(ch)
			return
		}
	}
}

func (o *Orchestrator) publishLocked() {
	o.recorder.SetStatus(o.status)
	snap := o.snapshotLocked()
	for ch := range o.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
