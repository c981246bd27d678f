package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/df07/go-lumen2d/pkg/renderer"
	"github.com/df07/go-lumen2d/pkg/scene"
)

// Server handles web requests for the photon renderer
type Server struct {
	port  int
	debug bool // forwarded to every render's console logger

	mu   sync.Mutex
	last *renderSession // most recent render, for inspection
}

// renderSession remembers what one render drew into
type renderSession struct {
	id        string
	sceneName string
	scene     *scene.Scene
	pool      *renderer.Pool
	canvas    renderer.Canvas
}

// NewServer creates a new web server
func NewServer(port int, debug bool) *Server {
	return &Server{port: port, debug: debug}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene         string  `json:"scene"`         // Built-in scene name
	Width         int     `json:"width"`         // Canvas width
	Height        int     `json:"height"`        // Canvas height
	WorldSize     float64 `json:"worldSize"`     // Visible world height
	Photons       uint64  `json:"photons"`       // Photon budget
	LightBounces  int     `json:"lightBounces"`  // Bounces per photon
	SamplingRatio float64 `json:"samplingRatio"` // Deposit samples per pixel covered
	Exposure      float64 `json:"exposure"`      // Tonemap exposure
	MotionBlur    bool    `json:"motionBlur"`    // Rebuild moving scenes during the render
	UpdateMs      int     `json:"updateMs"`      // Milliseconds between progress images
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.List())
}

// parseRenderRequest parses and validates request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	defaults := renderer.DefaultGlobals()

	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "nested-squares" // Default scene
	}
	if _, err := scene.Lookup(req.Scene); err != nil {
		return nil, err
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", defaults.CanvasWidth, 16, 4096); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaults.CanvasHeight, 16, 4096); err != nil {
		return nil, err
	}
	if req.WorldSize, err = parseFloatParam(query, "worldSize", defaults.WorldSize, 0.1, 1000); err != nil {
		return nil, err
	}
	photons, err := parseIntParam(query, "photons", 2_000_000, 1000, 1_000_000_000)
	if err != nil {
		return nil, err
	}
	req.Photons = uint64(photons)
	if req.LightBounces, err = parseIntParam(query, "lightBounces", defaults.LightBounces, 1, 100); err != nil {
		return nil, err
	}
	if req.SamplingRatio, err = parseFloatParam(query, "samplingRatio", defaults.SamplingRatioPerPixelCovered, 0.01, 10); err != nil {
		return nil, err
	}
	if req.Exposure, err = parseFloatParam(query, "exposure", renderer.DefaultProgressiveConfig().Exposure, 0.01, 100); err != nil {
		return nil, err
	}
	if req.UpdateMs, err = parseIntParam(query, "updateMs", 500, 50, 60_000); err != nil {
		return nil, err
	}
	req.MotionBlur = query.Get("motionBlur") == "true"

	// Performance warning
	if req.Width*req.Height > 1920*1080 {
		log.Printf("Render warning: %dx%d canvas may render slowly", req.Width, req.Height)
	}

	return req, nil
}

// globals applies a request on top of the default settings
func (req *RenderRequest) globals() renderer.Globals {
	g := renderer.DefaultGlobals()
	g.CanvasWidth = req.Width
	g.CanvasHeight = req.Height
	g.WorldSize = req.WorldSize
	g.LightBounces = req.LightBounces
	g.SamplingRatioPerPixelCovered = req.SamplingRatio
	g.MotionBlur = req.MotionBlur
	return g
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
