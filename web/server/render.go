package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-lumen2d/pkg/renderer"
	"github.com/df07/go-lumen2d/pkg/scene"
	"github.com/google/uuid"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate is sent after every intermediate image
type ProgressUpdate struct {
	RenderID         string  `json:"renderId"`
	PassNumber       int     `json:"passNumber"`
	ImageData        string  `json:"imageData"` // Base64 encoded PNG
	PhotonsFired     uint64  `json:"photonsFired"`
	TargetPhotons    uint64  `json:"targetPhotons"`
	ColoredPixels    uint64  `json:"coloredPixels"`
	PhotonsPerSecond float64 `json:"photonsPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
	ElapsedMs        int64   `json:"elapsedMs"`
	PrimitiveCount   int     `json:"primitiveCount"`
	IsComplete       bool    `json:"isComplete"`
}

// handleRender runs a progressive render and streams images via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		writer.Wait()
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	renderID := uuid.NewString()
	consoleChan := make(chan ConsoleMessage, 50)
	logger := s.newLogger(renderID, consoleChan)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	session, err := s.newSession(renderID, req, logger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	config := renderer.DefaultProgressiveConfig()
	config.TargetPhotons = req.Photons
	config.Exposure = req.Exposure
	config.UpdateInterval = time.Duration(req.UpdateMs) * time.Millisecond

	startTime := time.Now()
	passChan, errChan := renderer.RenderProgressive(ctx, session.pool, config)

	for pass := range passChan {
		s.handlePass(ctx, sseEventChan, session, pass, req.Photons, startTime)
	}
	for err := range errChan {
		if errors.Is(err, context.Canceled) {
			// Client disconnected
			return
		}
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	// Send completion event
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// newSession creates the pool for req and records it as the latest render
func (s *Server) newSession(renderID string, req *RenderRequest, logger *WebLogger) (*renderSession, error) {
	build, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, err
	}

	globals := req.globals()
	pool, err := renderer.NewPool(globals, build, logger)
	if err != nil {
		return nil, err
	}
	pool.ID = renderID

	// A static copy of the scene for inspection requests
	preview := scene.New(nil)
	if err := build(preview, 0, 0); err != nil {
		return nil, fmt.Errorf("building scene %s: %w", req.Scene, err)
	}

	session := &renderSession{
		id:        renderID,
		sceneName: req.Scene,
		scene:     preview,
		pool:      pool,
		canvas:    renderer.NewCanvas(globals),
	}

	s.mu.Lock()
	s.last = session
	s.mu.Unlock()

	logger.Infof("render %s: scene %s, %dx%d canvas, %d photons",
		renderID, req.Scene, req.Width, req.Height, req.Photons)
	return session, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages to the SSE channel until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handlePass encodes one progressive image and sends it
func (s *Server) handlePass(ctx context.Context, sseEventChan chan SSEEvent, session *renderSession, pass renderer.PassResult, target uint64, startTime time.Time) {
	imageData, err := s.imageToBase64PNG(pass.Image)
	if err != nil {
		log.Printf("Error encoding pass %d: %v", pass.PassNumber, err)
		return
	}

	update := ProgressUpdate{
		RenderID:         session.id,
		PassNumber:       pass.PassNumber,
		ImageData:        imageData,
		PhotonsFired:     pass.Stats.PhotonsFired,
		TargetPhotons:    target,
		ColoredPixels:    pass.Stats.ColoredPixels,
		PhotonsPerSecond: pass.Stats.PhotonsPerSecond,
		AverageLuminance: pass.Stats.AverageLuminance,
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		PrimitiveCount:   len(session.scene.Primitives()),
		IsComplete:       pass.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling progress update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "progress", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
