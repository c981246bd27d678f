package renderer

import (
	"context"
	"image"
	"time"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TargetPhotons  uint64        // Stop once this many photons have been fired (0 = until cancelled)
	UpdateInterval time.Duration // Time between intermediate images
	Exposure       float64       // Tonemap exposure
	Gamma          float64       // Tonemap gamma
	StopTimeout    time.Duration // Upper bound on waiting for workers to acknowledge a stop
	Frames         int           // Video frames to render, each to TargetPhotons (0 or 1 = a still)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TargetPhotons:  5_000_000,
		UpdateInterval: 500 * time.Millisecond,
		Exposure:       0.6,
		Gamma:          2.2,
		StopTimeout:    10 * time.Second,
	}
}

// PassResult is one intermediate or final image of a progressive render
type PassResult struct {
	PassNumber    int
	Frame         int
	Image         *image.RGBA
	Stats         RenderStats
	FrameComplete bool // Frame reached TargetPhotons; the next pass belongs to Frame+1
	IsLast        bool
}

// RenderProgressive starts pool and emits an image every UpdateInterval
// until TargetPhotons is reached, ctx is cancelled or every worker has
// failed. With Frames > 1 each frame renders to TargetPhotons from cleared
// buffers and the render ends after the last one. The pool is closed before
// the channels are.
func RenderProgressive(ctx context.Context, pool *Pool, config ProgressiveConfig) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pool.Close()

		pool.Start(ctx)

		ticker := time.NewTicker(config.UpdateInterval)
		defer ticker.Stop()

		frames := config.Frames
		if frames < 1 || config.TargetPhotons == 0 {
			frames = 1
		}
		frame := 0

		for pass := 1; ; pass++ {
			select {
			case <-ctx.Done():
				pool.logger.Infof("render %s: cancelled after %d photons", pool.ID, pool.Stats().PhotonsFired)
				errChan <- ctx.Err()
				return
			case <-ticker.C:
			}

			if err := pool.Err(); err != nil {
				pool.logger.Errorf("%v", err)
				errChan <- err
				return
			}

			stats := pool.Stats()
			frameComplete := config.TargetPhotons > 0 && stats.PhotonsFired >= config.TargetPhotons
			isLast := frameComplete && frame == frames-1
			if frameComplete {
				stopCtx, cancel := context.WithTimeout(ctx, config.StopTimeout)
				err := pool.Stop(stopCtx)
				cancel()
				if err != nil {
					errChan <- err
					return
				}
				stats = pool.Stats()
				pool.logger.Infof("render %s: frame %d: %d photons in %v (%.0f photons/s)",
					pool.ID, frame, stats.PhotonsFired, stats.Elapsed.Round(time.Millisecond), stats.PhotonsPerSecond)
			}

			img := pool.Image(config.Exposure, config.Gamma)
			stats.AverageLuminance = CalculateAverageLuminance(img)
			result := PassResult{
				PassNumber:    pass,
				Frame:         frame,
				Image:         img,
				Stats:         stats,
				FrameComplete: frameComplete,
				IsLast:        isLast,
			}
			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
			if isLast {
				return
			}
			if frameComplete {
				frame++
				pool.BeginFrame(frame)
			}
		}
	}()

	return passChan, errChan
}

// Image tonemaps the current accumulator contents
func (p *Pool) Image(exposure, gamma float64) *image.RGBA {
	a := p.buffers.Accumulator
	return Tonemap(a.Snapshot(), a.Width, a.Height, exposure, gamma)
}
