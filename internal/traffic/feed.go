package traffic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"eve-render/internal/logger"
)

// Stream names.
const (
	StreamJumps = "jumps"
	StreamKills = "kills"
)

// ErrStopped is returned by Refresh once the feed has been stopped.
var ErrStopped = errors.New("traffic feed stopped")

// Streamer delivers the lines of a remote feed. *Client implements it.
type Streamer interface {
	Stream(ctx context.Context, url string, fn func(line string) bool) error
}

// Sink receives traffic counters. Both setters report whether the id was known.
type Sink interface {
	SetKillsPerHour(id, n int32) bool
	SetJumpsPerHour(id, n int32) bool
}

// Recorder persists finished stream results.
type Recorder interface {
	RecordCycle(CycleResult) error
}

// FeedOptions configures a Feed.
type FeedOptions struct {
	JumpsURL string
	KillsURL string
	// Interval between cycles. Zero or negative runs a single cycle.
	Interval time.Duration
	Recorder Recorder
}

// CycleResult describes one stream drained during a cycle. Both streams of a
// cycle share a RunID.
type CycleResult struct {
	RunID     uuid.UUID     `json:"run_id"`
	Stream    string        `json:"stream"`
	Applied   int           `json:"applied"`
	Skipped   int           `json:"skipped"`
	Unknown   int           `json:"unknown"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}

// Feed periodically drains the jump and kill streams into a Sink. It runs on
// its own goroutine and never blocks the caller of the sink's readers.
type Feed struct {
	client  Streamer
	sink    Sink
	opts    FeedOptions
	limiter *rate.Limiter
	group   singleflight.Group

	running  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
	stopCtx  context.Context
	stop     context.CancelFunc

	mu   sync.Mutex
	done chan struct{}
	last []CycleResult
}

// NewFeed creates a stopped feed. Call Start to begin cycling.
func NewFeed(client Streamer, sink Sink, opts FeedOptions) *Feed {
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	stopCtx, stop := context.WithCancel(context.Background())
	return &Feed{
		client:  client,
		sink:    sink,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		stopCtx: stopCtx,
		stop:    stop,
	}
}

// Start launches the background loop. It is a no-op if the feed is already
// running or has been stopped. The loop ends when ctx is done, Stop is
// called, or after the single cycle of a feed without an interval.
func (f *Feed) Start(ctx context.Context) {
	if f.stopped.Load() || !f.running.CompareAndSwap(false, true) {
		return
	}
	done := make(chan struct{})
	f.mu.Lock()
	f.done = done
	f.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	unlink := context.AfterFunc(f.stopCtx, cancel)
	go func() {
		defer close(done)
		defer f.running.Store(false)
		defer unlink()
		defer cancel()
		f.loop(ctx)
	}()
}

func (f *Feed) loop(ctx context.Context) {
	logger.Info("Feed", "Traffic feed started")
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			break
		}
		if _, err := f.Refresh(ctx); err != nil {
			break
		}
		if f.opts.Interval <= 0 || ctx.Err() != nil {
			break
		}
	}
	logger.Info("Feed", "Traffic feed stopped")
}

// Stop signals the feed to exit. The stream being read finishes its current
// line and no further counters are written. Safe to call more than once.
func (f *Feed) Stop() {
	f.stopOnce.Do(func() {
		f.stopped.Store(true)
		f.stop()
	})
}

// Wait blocks until the background loop has exited. It returns immediately
// if Start was never called.
func (f *Feed) Wait() {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	if done != nil {
		<-done
	}
}

// IsRunning reports whether the background loop is active.
func (f *Feed) IsRunning() bool { return f.running.Load() }

// Refresh runs one cycle now: jumps are drained first, then kills. Calls that
// overlap an in-flight cycle wait for it and share its results.
func (f *Feed) Refresh(ctx context.Context) ([]CycleResult, error) {
	if f.stopped.Load() {
		return nil, ErrStopped
	}
	v, err, _ := f.group.Do("cycle", func() (interface{}, error) {
		return f.cycle(ctx), nil
	})
	if err != nil {
		return nil, err
	}
	if f.stopped.Load() {
		return v.([]CycleResult), ErrStopped
	}
	return v.([]CycleResult), nil
}

// LastCycle returns the results of the most recent completed cycle.
func (f *Feed) LastCycle() []CycleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CycleResult(nil), f.last...)
}

func (f *Feed) cycle(ctx context.Context) []CycleResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(f.stopCtx, cancel)()

	streams := []struct {
		name string
		url  string
		set  func(id, n int32) bool
	}{
		{StreamJumps, f.opts.JumpsURL, f.sink.SetJumpsPerHour},
		{StreamKills, f.opts.KillsURL, f.sink.SetKillsPerHour},
	}

	runID := uuid.New()
	results := make([]CycleResult, 0, len(streams))
	for _, s := range streams {
		if f.stopped.Load() {
			break
		}
		if s.url == "" {
			continue
		}
		res := f.drain(ctx, runID, s.name, s.url, s.set)
		results = append(results, res)
		if f.opts.Recorder != nil {
			if err := f.opts.Recorder.RecordCycle(res); err != nil {
				logger.Warn("Feed", fmt.Sprintf("Record %s cycle: %v", s.name, err))
			}
		}
	}

	f.mu.Lock()
	f.last = results
	f.mu.Unlock()
	return results
}

func (f *Feed) drain(ctx context.Context, runID uuid.UUID, stream, url string, set func(id, n int32) bool) CycleResult {
	res := CycleResult{RunID: runID, Stream: stream, StartedAt: time.Now()}
	err := f.client.Stream(ctx, url, func(line string) bool {
		if f.stopped.Load() {
			return false
		}
		id, n, ok, err := ParseRow(line)
		if err != nil {
			res.Skipped++
			logger.Warn("Feed", fmt.Sprintf("%s: skipping %v", stream, err))
			return true
		}
		if !ok {
			return true
		}
		if set(id, n) {
			res.Applied++
		} else {
			res.Unknown++
		}
		return true
	})
	res.Duration = time.Since(res.StartedAt)

	switch {
	case err != nil && f.stopped.Load():
		res.Error = "stopped"
	case err != nil:
		res.Error = err.Error()
		logger.Error("Feed", fmt.Sprintf("%s feed: %v", stream, err))
	default:
		logger.Info("Feed", fmt.Sprintf("%s: %s systems updated, %d unknown, %d skipped in %s",
			stream, humanize.Comma(int64(res.Applied)), res.Unknown, res.Skipped,
			res.Duration.Round(time.Millisecond)))
	}
	return res
}
