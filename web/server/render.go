package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-voxel-raymarcher/pkg/core"
	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
	"github.com/df07/go-voxel-raymarcher/pkg/scene"
)

// ViewRequest is the scene and camera requested by the client
type ViewRequest struct {
	Scene  string  `json:"scene"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FOV    float64 `json:"fov"`
	Yaw    float64 `json:"yaw"`
	Pitch  float64 `json:"pitch"`
	Zoom   int     `json:"zoom"`
	Frames int     `json:"frames"` // Orbit only
}

// FrameUpdate is a single orbit frame sent via SSE
type FrameUpdate struct {
	Frame       int     `json:"frame"`
	TotalFrames int     `json:"totalFrames"`
	Yaw         float64 `json:"yaw"`
	ImageData   string  `json:"imageData"` // Base64 encoded PNG
	Stats       Stats   `json:"stats"`
	RenderMs    float64 `json:"renderMs"`
	ElapsedMs   int64   `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels  int     `json:"totalPixels"`
	Hits         int     `json:"hits"`
	Misses       int     `json:"misses"`
	Escaped      int     `json:"escaped"`
	Exhausted    int     `json:"exhausted"`
	AverageSteps float64 `json:"averageSteps"`
	MaxSteps     int     `json:"maxSteps"`
}

func statsFrom(s renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:  s.TotalPixels,
		Hits:         s.Hits,
		Misses:       s.Misses,
		Escaped:      s.Escaped,
		Exhausted:    s.Exhausted,
		AverageSteps: s.AverageSteps,
		MaxSteps:     s.MaxSteps,
	}
}

// parseViewRequest parses request parameters
func parseViewRequest(r *http.Request) (*ViewRequest, error) {
	query := r.URL.Query()
	req := &ViewRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "torus" // Default scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 350, 16, 2000); err != nil {
		return nil, err
	}
	if req.FOV, err = parseFloatParam(query, "fov", 60, 1, 179); err != nil {
		return nil, err
	}
	if req.Yaw, err = parseFloatParam(query, "yaw", 0, -100, 100); err != nil {
		return nil, err
	}
	if req.Pitch, err = parseFloatParam(query, "pitch", -0.35, -math.Pi/2, math.Pi/2); err != nil {
		return nil, err
	}
	if req.Zoom, err = parseIntParam(query, "zoom", 0, 0, 40); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(query, "frames", 36, 1, 720); err != nil {
		return nil, err
	}
	return req, nil
}

// newCamera creates the requested camera already orbited into place
func newCamera(req *ViewRequest) (*renderer.Camera, error) {
	camera, err := renderer.NewCamera(renderer.CameraConfig{Width: req.Width, Height: req.Height, FOV: req.FOV})
	if err != nil {
		return nil, err
	}
	camera.Orbit(req.Yaw, req.Pitch, req.Zoom)
	return camera, nil
}

// renderFrame renders a frame on the shared pool
func (s *Server) renderFrame(camera *renderer.Camera, sceneObj *scene.Scene, out *renderer.FrameBuffer) (renderer.RenderStats, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return s.marcher.RenderFrame(camera, sceneObj.Render, out)
}

// handleFrame renders a single frame and returns it as a PNG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	req, err := parseViewRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	sceneObj, err := s.loadScene(req.Scene, renderer.NewDefaultLogger())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	camera, err := newCamera(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	out := renderer.NewFrameBuffer(req.Width, req.Height)
	startTime := time.Now()
	stats, err := s.renderFrame(camera, sceneObj, out)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	renderTime := time.Since(startTime)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out.ToRGBA()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatFloat(float64(renderTime.Microseconds())/1000, 'f', 3, 64))
	w.Header().Set("X-Render-Hits", strconv.Itoa(stats.Hits))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleOrbit renders a full orbit around the scene and streams every frame
// and console message via SSE
func (s *Server) handleOrbit(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	setSSEHeaders(w)
	ctx := r.Context()

	req, err := parseViewRequest(r)
	if err != nil {
		sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Console messages are flushed between frames by this goroutine only
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger("orbit", consoleChan)
	flushConsole := func() {
		for {
			select {
			case msg := <-consoleChan:
				data, err := json.Marshal(msg)
				if err != nil {
					log.Printf("Error marshaling console message: %v", err)
					continue
				}
				sendSSEEvent(w, "console", string(data))
			default:
				return
			}
		}
	}

	sceneObj, err := s.loadScene(req.Scene, webLogger)
	flushConsole()
	if err != nil {
		sendSSEEvent(w, "error", err.Error())
		return
	}
	camera, err := newCamera(req)
	if err != nil {
		sendSSEEvent(w, "error", err.Error())
		return
	}

	out := renderer.NewFrameBuffer(req.Width, req.Height)
	startTime := time.Now()
	for i := 0; i < req.Frames; i++ {
		// Stop when the client disconnects
		select {
		case <-ctx.Done():
			return
		default:
		}

		yaw := req.Yaw + 2*math.Pi*float64(i)/float64(req.Frames)
		camera.Orbit(yaw, req.Pitch, req.Zoom)

		frameStart := time.Now()
		stats, err := s.renderFrame(camera, sceneObj, out)
		if err != nil {
			sendSSEEvent(w, "error", fmt.Sprintf("Rendering failed: %v", err))
			return
		}
		renderTime := time.Since(frameStart)

		imageData, err := frameToBase64PNG(out)
		if err != nil {
			sendSSEEvent(w, "error", fmt.Sprintf("Failed to encode frame: %v", err))
			return
		}
		webLogger.Printf("Frame %d/%d: %d hits, %.1f steps/pixel, %v\n",
			i+1, req.Frames, stats.Hits, stats.AverageSteps, renderTime)
		flushConsole()

		update := FrameUpdate{
			Frame:       i + 1,
			TotalFrames: req.Frames,
			Yaw:         yaw,
			ImageData:   imageData,
			Stats:       statsFrom(stats),
			RenderMs:    float64(renderTime.Microseconds()) / 1000,
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		}
		data, err := json.Marshal(update)
		if err != nil {
			sendSSEEvent(w, "error", err.Error())
			return
		}
		if err := sendSSEEvent(w, "frame", string(data)); err != nil {
			return
		}
	}

	sendSSEEvent(w, "complete", "Orbit completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEEvent writes a single SSE event and flushes it
func sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// frameToBase64PNG converts a frame to base64-encoded PNG
func frameToBase64PNG(fb *renderer.FrameBuffer) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, fb.ToRGBA()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// colorHex formats a packed pixel for JSON responses
func colorHex(c uint32) string {
	r, g, b := core.UnpackRGB(c)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
