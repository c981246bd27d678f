package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/scene"
)

// ErrWorkersFailed is wrapped by Pool.Err once no worker is able to render
var ErrWorkersFailed = errors.New("every worker failed")

// Pool manages the workers of one render. They share one accumulator and
// one photon counter slot each.
type Pool struct {
	ID      string
	globals Globals
	buffers SharedBuffers
	workers []*Worker
	logger  core.Logger

	workerEvents chan Event
	events       chan Event
	acks         chan int

	cancel context.CancelFunc
	wg     sync.WaitGroup
	fanIn  sync.WaitGroup

	mu      sync.Mutex
	stats   RenderStats
	started time.Time
	failed  map[int]error // by worker index, cleared when the worker renders again
}

// NewPool creates a pool for globals. The worker count is globals.Workers,
// or one per CPU when that is 0.
func NewPool(globals Globals, build scene.Builder, logger core.Logger) (*Pool, error) {
	if err := globals.Validate(); err != nil {
		return nil, err
	}
	if build == nil {
		return nil, fmt.Errorf("no scene builder")
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}

	numWorkers := globals.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	p := &Pool{
		ID:           uuid.NewString(),
		globals:      globals,
		buffers:      NewSharedBuffers(globals.CanvasWidth, globals.CanvasHeight, numWorkers),
		logger:       logger,
		workerEvents: make(chan Event, numWorkers*4),
		events:       make(chan Event, numWorkers*4),
		acks:         make(chan int, numWorkers),
		failed:       make(map[int]error),
	}
	for i := 0; i < numWorkers; i++ {
		p.workers = append(p.workers, NewWorker(build, p.workerEvents, logger))
	}
	return p, nil
}

// Start launches every worker and begins rendering
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.mu.Lock()
	p.started = time.Now()
	p.mu.Unlock()

	p.fanIn.Add(1)
	go p.collect()

	for i, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			_ = w.Run(ctx)
		}(w)
		w.Send(Start{Globals: p.globals, Buffers: p.buffers, WorkerIndex: i})
	}
	p.logger.Infof("render %s: started %d workers on a %dx%d canvas",
		p.ID, len(p.workers), p.globals.CanvasWidth, p.globals.CanvasHeight)
}

// collect fans in worker events, tracks stats and forwards to Events
func (p *Pool) collect() {
	defer p.fanIn.Done()
	defer close(p.events)

	for e := range p.workerEvents {
		switch ev := e.(type) {
		case PhotonsFiredUpdate:
			p.mu.Lock()
			p.stats.Updates++
			p.stats.ColoredPixels += uint64(ev.ColoredPixels)
			delete(p.failed, ev.WorkerIndex)
			p.mu.Unlock()
		case WorkerFailed:
			p.mu.Lock()
			p.failed[ev.WorkerIndex] = ev.Err
			p.mu.Unlock()
		case StopRenderAcknowledge:
			select {
			case p.acks <- ev.WorkerIndex:
			default:
				p.logger.Warnf("render %s: unexpected stop acknowledgment from worker %d", p.ID, ev.WorkerIndex)
			}
		}

		// Forwarding is best effort; a slow reader only misses progress ticks
		select {
		case p.events <- e:
		default:
		}
	}
}

// Events returns worker events. It is closed by Close.
func (p *Pool) Events() <-chan Event {
	return p.events
}

// NextFrame starts video frame n on every worker
func (p *Pool) NextFrame(n int) {
	for _, w := range p.workers {
		w.Send(ComputeNextVideoFrame{Frame: n})
	}
}

// BeginFrame zeroes the shared buffers and statistics, then starts video
// frame n. The pool must be stopped so no worker is writing.
func (p *Pool) BeginFrame(n int) {
	p.buffers.Accumulator.Reset()
	p.buffers.Photons.Reset()

	p.mu.Lock()
	p.stats = RenderStats{}
	p.started = time.Now()
	p.mu.Unlock()

	p.logger.Debugf("render %s: frame %d", p.ID, n)
	p.NextFrame(n)
}

// UpdateGlobals sends new settings to every worker
func (p *Pool) UpdateGlobals(globals Globals) error {
	if err := globals.Validate(); err != nil {
		return err
	}
	if globals.CanvasWidth != p.buffers.Accumulator.Width || globals.CanvasHeight != p.buffers.Accumulator.Height {
		return fmt.Errorf("cannot resize a running render from %dx%d to %dx%d",
			p.buffers.Accumulator.Width, p.buffers.Accumulator.Height, globals.CanvasWidth, globals.CanvasHeight)
	}
	p.mu.Lock()
	p.globals = globals
	p.mu.Unlock()
	for _, w := range p.workers {
		w.Send(GlobalsUpdate{Globals: globals})
	}
	return nil
}

// Stop asks every worker to stop and waits until all have acknowledged
func (p *Pool) Stop(ctx context.Context) error {
	for _, w := range p.workers {
		w.Send(StopRendering{})
	}
	for remaining := len(p.workers); remaining > 0; remaining-- {
		select {
		case <-p.acks:
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d workers to stop: %w", remaining, ctx.Err())
		}
	}
	return nil
}

// Close terminates the workers and closes Events
func (p *Pool) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	close(p.workerEvents)
	p.fanIn.Wait()
}

// Err returns an error wrapping ErrWorkersFailed when every worker has
// reported a failure and none has rendered since
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.workers) == 0 || len(p.failed) < len(p.workers) {
		return nil
	}
	errs := make([]error, 0, len(p.failed))
	for i := range p.workers {
		if err, ok := p.failed[i]; ok {
			errs = append(errs, fmt.Errorf("worker %d: %w", i, err))
		}
	}
	return fmt.Errorf("render %s: %w: %w", p.ID, ErrWorkersFailed, errors.Join(errs...))
}

// Buffers returns the shared accumulation buffers
func (p *Pool) Buffers() SharedBuffers {
	return p.buffers
}

// Globals returns the current settings
func (p *Pool) Globals() Globals {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.globals
}

// NumWorkers returns the number of workers in the pool
func (p *Pool) NumWorkers() int {
	return len(p.workers)
}

// Stats returns a snapshot of render statistics
func (p *Pool) Stats() RenderStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := p.stats
	stats.PhotonsFired = p.buffers.Photons.Total()
	if !p.started.IsZero() {
		stats.Elapsed = time.Since(p.started)
	}
	if seconds := stats.Elapsed.Seconds(); seconds > 0 {
		stats.PhotonsPerSecond = float64(stats.PhotonsFired) / seconds
	}
	return stats
}
