package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/loaders"
	"github.com/df07/go-lumen2d/pkg/renderer"
	"github.com/df07/go-lumen2d/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "nested-squares", "Built-in scene name (see -help)")
	configPath := flag.String("config", "", "YAML or JSON file overriding the default render settings")
	photons := flag.Uint64("photons", 5_000_000, "Total photons to fire before saving (per frame)")
	frames := flag.Int("frames", 1, "Number of video frames to render, each saved separately")
	workers := flag.Int("workers", 0, "Number of workers (0 = one per CPU, overrides config)")
	exposure := flag.Float64("exposure", 0.6, "Tonemap exposure")
	format := flag.String("format", "png", "Output format: png, tiff or bmp")
	label := flag.Bool("label", false, "Stamp scene name and photon count onto the image")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("2D Photon Renderer")
		fmt.Println("Usage: lumen2d [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.List() {
			fmt.Printf("  %-16s %s\n", info.Name, info.Description)
		}
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
		fmt.Println("With -frames, each frame is saved to output/<scene>/render_<timestamp>_<frame>.<format>")
		return
	}

	logger := core.NewDefaultLogger("lumen2d", *debug)

	build, err := scene.Lookup(*sceneType)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	globals, err := loadGlobals(*configPath)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *workers > 0 {
		globals.Workers = *workers
	}

	pool, err := renderer.NewPool(globals, build, logger)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	config := renderer.DefaultProgressiveConfig()
	config.TargetPhotons = *photons
	config.Exposure = *exposure
	config.Frames = *frames

	// Ctrl-C saves whatever has accumulated so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Infof("rendering %s with %d workers, %d photons", *sceneType, pool.NumWorkers(), *photons)
	startTime := time.Now()
	video := *frames > 1

	save := func(img *image.RGBA, photonsFired uint64, filename string) {
		if *label {
			text := fmt.Sprintf("%s  %d photons", *sceneType, photonsFired)
			if err := loaders.DrawLabel(img, text, 14); err != nil {
				logger.Warnf("label: %v", err)
			}
		}
		if err := loaders.SaveImage(filename, img); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		logger.Infof("render saved as %s", filename)
	}

	passes, errs := renderer.RenderProgressive(ctx, pool, config)
	lastPass := 0
	finished := false
	for pass := range passes {
		lastPass = pass.PassNumber
		logger.Debugf("frame %d pass %d: %d photons, average luminance %.3f",
			pass.Frame, pass.PassNumber, pass.Stats.PhotonsFired, pass.Stats.AverageLuminance)
		if video && pass.FrameComplete {
			save(pass.Image, pass.Stats.PhotonsFired, frameFilename("output", *sceneType, *format, startTime, pass.Frame))
		}
		finished = pass.IsLast
	}
	for err := range errs {
		logger.Warnf("render ended early: %v", err)
	}

	stats := pool.Stats()
	logger.Infof("render completed in %v after %d updates (%d photons, %.0f photons/s)",
		time.Since(startTime).Round(time.Millisecond), lastPass, stats.PhotonsFired, stats.PhotonsPerSecond)

	// Video frames are saved as they complete; a still is saved even when interrupted
	if video && finished {
		return
	}
	save(pool.Image(config.Exposure, config.Gamma), stats.PhotonsFired, outputFilename("output", *sceneType, *format, time.Now()))
}

// loadGlobals returns the default settings, overridden by the file at path if set
func loadGlobals(path string) (renderer.Globals, error) {
	globals := renderer.DefaultGlobals()
	if path != "" {
		if err := loaders.LoadConfig(path, &globals); err != nil {
			return renderer.Globals{}, err
		}
	}
	if err := globals.Validate(); err != nil {
		return renderer.Globals{}, err
	}
	return globals, nil
}

// outputFilename builds output/<scene>/render_<timestamp>.<format>
func outputFilename(dir, sceneType, format string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join(dir, sceneType, fmt.Sprintf("render_%s.%s", timestamp, format))
}

// frameFilename builds output/<scene>/render_<timestamp>_<frame>.<format>
// for one frame of a video render started at start
func frameFilename(dir, sceneType, format string, start time.Time, frame int) string {
	timestamp := start.Format("20060102_150405")
	return filepath.Join(dir, sceneType, fmt.Sprintf("render_%s_%04d.%s", timestamp, frame, format))
}
