package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
	"github.com/df07/go-voxel-raymarcher/pkg/scene"
)

// Config contains the server settings
type Config struct {
	Port      int          // Port to listen on
	StaticDir string       // Directory of static files served at /
	ScenesDir string       // Directory scanned for voxel files
	Scene     scene.Config // Base configuration for every scene load
	Workers   int          // Render workers (0 = number of CPUs)
}

// DefaultConfig returns the settings used by the web command
func DefaultConfig() Config {
	return Config{
		Port:      8080,
		StaticDir: "static",
		ScenesDir: "scenes",
		Scene:     scene.DefaultConfig(),
	}
}

// Server handles web requests for the voxel ray marcher. Frames are rendered
// one at a time on a single shared worker pool.
type Server struct {
	config  Config
	marcher *renderer.Raymarcher

	renderMu sync.Mutex // Serializes frames on the shared pool

	scenesMu sync.Mutex
	scenes   map[string]*scene.Scene // Loaded scenes by ID
}

// NewServer creates a web server; call Open or Start before serving frames
func NewServer(config Config) *Server {
	return &Server{
		config:  config,
		marcher: renderer.NewRaymarcher(renderer.NewDefaultLogger()),
		scenes:  make(map[string]*scene.Scene),
	}
}

// Open starts the render workers
func (s *Server) Open() error {
	return s.marcher.Start(s.config.Workers)
}

// Close stops the render workers
func (s *Server) Close() error {
	return s.marcher.Stop()
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	if info, err := os.Stat(s.config.StaticDir); err == nil && info.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/orbit", s.handleOrbit)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the render workers and serves until the listener fails
func (s *Server) Start() error {
	if err := s.Open(); err != nil {
		return err
	}
	defer s.Close()

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"workers": s.marcher.NumWorkers(),
	})
}

// handleScenes lists the built-in presets and discovered voxel files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// loadScene returns the scene with the given ID, loading it on first use
func (s *Server) loadScene(id string, logger core.Logger) (*scene.Scene, error) {
	s.scenesMu.Lock()
	defer s.scenesMu.Unlock()

	if loaded, ok := s.scenes[id]; ok {
		return loaded, nil
	}

	info, err := scene.FindScene(id, s.config.ScenesDir)
	if err != nil {
		return nil, err
	}
	loaded, err := scene.Load(scene.ConfigFor(info, s.config.Scene), logger)
	if err != nil {
		return nil, err
	}
	s.scenes[id] = loaded
	return loaded, nil
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

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
