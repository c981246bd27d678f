package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/loaders"
	"github.com/df07/go-lumen2d/pkg/scene"
)

// Command is a message sent to a Worker
type Command interface{ isCommand() }

// Start configures the worker and begins rendering
type Start struct {
	Globals     Globals
	Buffers     SharedBuffers
	WorkerIndex int
}

// ComputeNextVideoFrame rebuilds the scene for Frame and resumes rendering
type ComputeNextVideoFrame struct {
	Frame int
}

// StopRendering asks the worker to finish its batch, acknowledge, and idle
type StopRendering struct{}

// GlobalsUpdate replaces the worker's settings. The canvas size must not change.
type GlobalsUpdate struct {
	Globals Globals
}

func (Start) isCommand()                 {}
func (ComputeNextVideoFrame) isCommand() {}
func (StopRendering) isCommand()         {}
func (GlobalsUpdate) isCommand()         {}

// Event is a message emitted by a Worker
type Event interface{ isEvent() }

// PhotonsFiredUpdate is emitted after every batch
type PhotonsFiredUpdate struct {
	WorkerIndex   int
	PhotonsFired  int
	ColoredPixels int
}

// StopRenderAcknowledge is emitted once per honored StopRendering
type StopRenderAcknowledge struct {
	WorkerIndex int
}

// WorkerFailed is emitted when the worker cannot render and has gone idle.
// A later ComputeNextVideoFrame may bring it back.
type WorkerFailed struct {
	WorkerIndex int
	Err         error
}

func (PhotonsFiredUpdate) isEvent()    {}
func (StopRenderAcknowledge) isEvent() {}
func (WorkerFailed) isEvent()          {}

var errNoEmitters = errors.New("scene has no emitters")

// Worker fires photons into shared buffers on its own goroutine. Its scene,
// spatial index and random state are private; only the buffers are shared.
type Worker struct {
	build    scene.Builder
	commands chan Command
	events   chan<- Event
	logger   core.Logger

	// owned by the Run goroutine
	globals   Globals
	buffers   SharedBuffers
	index     int
	scene     *scene.Scene
	context   *RenderContext
	random    *rand.Rand
	sampler   *core.RandomSampler
	frame     int
	rendering bool
	stopping  bool
	sinceBlur int
	failure   error // reported after the current command or batch
}

// NewWorker creates a worker that builds its scene with build and reports on events
func NewWorker(build scene.Builder, events chan<- Event, logger core.Logger) *Worker {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Worker{
		build:    build,
		commands: make(chan Command, 8),
		events:   events,
		logger:   logger,
	}
}

// Send queues a command. It blocks only when the command queue is full.
func (w *Worker) Send(cmd Command) {
	w.commands <- cmd
}

// Run processes commands and renders until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	for {
		if !w.rendering && !w.stopping {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd := <-w.commands:
				w.handle(cmd)
			}
			if !w.reportFailure(ctx) {
				return ctx.Err()
			}
			continue
		}

		// Drain pending commands between batches
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-w.commands:
			w.handle(cmd)
			if !w.reportFailure(ctx) {
				return ctx.Err()
			}
			continue
		default:
		}

		if w.stopping {
			w.stopping = false
			w.rendering = false
			if !w.emit(ctx, StopRenderAcknowledge{WorkerIndex: w.index}) {
				return ctx.Err()
			}
			continue
		}

		fired, colored := w.renderBatch()
		if !w.emit(ctx, PhotonsFiredUpdate{WorkerIndex: w.index, PhotonsFired: fired, ColoredPixels: colored}) {
			return ctx.Err()
		}
		if !w.reportFailure(ctx) {
			return ctx.Err()
		}
	}
}

// fail logs err and idles the worker until a command brings it back
func (w *Worker) fail(err error) {
	w.logger.Errorf("worker %d: %v", w.index, err)
	w.rendering = false
	w.failure = err
}

func (w *Worker) reportFailure(ctx context.Context) bool {
	if w.failure == nil {
		return true
	}
	err := w.failure
	w.failure = nil
	return w.emit(ctx, WorkerFailed{WorkerIndex: w.index, Err: err})
}

func (w *Worker) handle(cmd Command) {
	switch c := cmd.(type) {
	case Start:
		w.globals = c.Globals
		w.buffers = c.Buffers
		w.index = c.WorkerIndex
		w.frame = 0
		w.stopping = false
		w.seed()
		if err := w.setup(); err != nil {
			w.fail(fmt.Errorf("start failed: %w", err))
			return
		}
		w.rendering = true

	case ComputeNextVideoFrame:
		if w.scene == nil {
			w.logger.Warnf("worker %d: frame %d requested before start", w.index, c.Frame)
			return
		}
		w.frame = c.Frame
		w.stopping = false
		if err := w.rebuildScene(); err != nil {
			w.fail(fmt.Errorf("frame %d: %w", c.Frame, err))
			return
		}
		// a worker whose start failed has no context yet
		if w.context == nil {
			if err := w.newContext(); err != nil {
				w.fail(fmt.Errorf("frame %d: %w", c.Frame, err))
				return
			}
		}
		w.rendering = true

	case StopRendering:
		w.stopping = true

	case GlobalsUpdate:
		if c.Globals.CanvasWidth != w.globals.CanvasWidth || c.Globals.CanvasHeight != w.globals.CanvasHeight {
			w.logger.Warnf("worker %d: ignoring globals update that resizes the canvas to %dx%d",
				w.index, c.Globals.CanvasWidth, c.Globals.CanvasHeight)
			return
		}
		w.globals = c.Globals
		if w.scene == nil {
			return
		}
		if err := w.newContext(); err != nil {
			w.fail(fmt.Errorf("globals update: %w", err))
		}
	}
}

func (w *Worker) seed() {
	seed := w.globals.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w.random = rand.New(rand.NewSource(seed + int64(w.index)*7919))
	w.sampler = core.NewRandomSampler(w.random)
}

func (w *Worker) setup() error {
	w.scene = scene.New(w.logger)
	if err := w.rebuildScene(); err != nil {
		return err
	}
	return w.newContext()
}

// rebuildScene rebuilds the scene at a random point of the shutter interval
func (w *Worker) rebuildScene() error {
	w.scene.Reset()
	w.sinceBlur = 0
	if err := w.build(w.scene, w.random.Float64(), w.frame); err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	if w.scene.EmitterCount() == 0 {
		return errNoEmitters
	}
	return nil
}

func (w *Worker) newContext() error {
	var modulation *Modulation
	if w.globals.BackgroundEnabled() {
		img, err := loaders.LoadBackground(w.globals.BackgroundImage, w.globals.CanvasWidth, w.globals.CanvasHeight)
		if err != nil {
			return fmt.Errorf("loading background: %w", err)
		}
		modulation = NewModulation(img, w.globals.CanvasWidth, w.globals.CanvasHeight, w.globals.BackgroundPower)
	}

	rc, err := NewRenderContext(w.globals, w.scene, w.buffers.Accumulator, modulation, w.sampler)
	if err != nil {
		return err
	}
	w.context = rc
	return nil
}

// renderBatch fires PhotonsPerUpdate photons
func (w *Worker) renderBatch() (fired, colored int) {
	n := w.globals.PhotonsPerUpdate
	for i := 0; i < n; i++ {
		if w.globals.MotionBlur && w.sinceBlur >= w.globals.MotionBlurFramePhotons {
			if err := w.rebuildScene(); err != nil {
				w.fail(fmt.Errorf("motion blur rebuild: %w", err))
				break
			}
		}
		w.context.EmitPhoton()
		w.sinceBlur++
		fired++
	}
	w.buffers.Photons.Add(w.index, uint64(fired))
	return fired, w.context.TakeColoredPixels()
}

func (w *Worker) emit(ctx context.Context, e Event) bool {
	select {
	case w.events <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
