package server

import (
	"net/http"
	"strconv"

	"github.com/df07/go-voxel-raymarcher/pkg/renderer"
)

// InspectResponse describes what one pixel of a view sees
type InspectResponse struct {
	Outcome   string     `json:"outcome"`
	Steps     int        `json:"steps"`
	Color     string     `json:"color"`
	Direction [3]float64 `json:"direction"`
	Cell      *[3]int    `json:"cell,omitempty"`
	Distance  float64    `json:"distance"`
	Normal    [3]float64 `json:"normal"`
}

// handleInspect marches the ray through a single pixel and reports the cell
// it stopped in
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseViewRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
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

	probe, err := sceneObj.Render.Probe(camera, pixelX, pixelY)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	response := InspectResponse{
		Outcome:   probe.Outcome,
		Steps:     probe.Steps,
		Color:     colorHex(probe.Color),
		Direction: [3]float64{probe.Direction.X, probe.Direction.Y, probe.Direction.Z},
		Distance:  probe.Distance,
		Normal:    [3]float64{probe.Normal.X, probe.Normal.Y, probe.Normal.Z},
	}
	if probe.HasCell {
		cell := probe.Cell
		response.Cell = &cell
	}
	writeJSON(w, http.StatusOK, response)
}
