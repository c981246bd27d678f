package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
	"github.com/df07/go-lumen2d/pkg/material"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	RenderID   string           `json:"renderId"`
	Scene      string           `json:"scene"`
	Pixel      [2]int           `json:"pixel"`
	Point      [2]float64       `json:"point"` // World position of the pixel center
	Radiance   [3]float32       `json:"radiance"`
	Primitives []InspectedShape `json:"primitives"` // Primitives whose bounds cover the pixel
}

// InspectedShape describes one primitive near the inspected pixel
type InspectedShape struct {
	Index        int            `json:"index"`
	GeometryType string         `json:"geometryType"`
	MaterialType string         `json:"materialType"`
	Properties   map[string]any `json:"properties"`
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := mat.(type) {
	case *material.Emitter:
		properties["color"] = colorArray(m.Color)
		properties["sampleValue"] = m.SampleValue()
		properties["opacity"] = m.Opacity
		if m.Wavelength > 0 {
			properties["wavelength"] = m.Wavelength
		}
		if m.Blackbody != nil {
			properties["temperature"] = m.Blackbody.Temperature
		}
		return "emitter", properties

	case *material.Lambert:
		properties["opacity"] = m.Opacity
		properties["albedo"] = colorArray(m.Albedo)
		return "lambert", properties

	case *material.Dielectric:
		properties["opacity"] = m.Opacity
		properties["ior"] = m.IOR
		properties["roughness"] = m.Roughness
		properties["dispersion"] = m.Dispersion
		properties["absorption"] = m.Absorption
		return "dielectric", properties

	case *material.ContributionModifier:
		properties["modifier"] = m.Modifier
		return "modifier", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(p geometry.Primitive) (string, map[string]any) {
	properties := make(map[string]any)

	switch g := p.(type) {
	case *geometry.Edge:
		properties["a"] = [2]float64{g.A.X(), g.A.Y()}
		properties["b"] = [2]float64{g.B.X(), g.B.Y()}
		properties["normal"] = [2]float64{g.Normal().X(), g.Normal().Y()}
		return "edge", properties

	case *geometry.Circle:
		properties["center"] = [2]float64{g.Center.X(), g.Center.Y()}
		properties["radius"] = g.Radius
		return "circle", properties

	default:
		return "unknown", properties
	}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.X(), c.Y(), c.Z()}
}

// handleInspect reports the accumulated radiance of one pixel of the latest
// render and the primitives around it
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session := s.last
	s.mu.Unlock()

	if session == nil {
		writeError(w, http.StatusNotFound, "No render to inspect")
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	// Validate pixel coordinates
	canvas := session.canvas
	if pixelX < 0 || pixelX >= canvas.Width || pixelY < 0 || pixelY >= canvas.Height {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Pixel coordinates out of bounds for %dx%d canvas", canvas.Width, canvas.Height))
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(session, pixelX, pixelY))
}

// inspectPixel gathers the radiance and nearby primitives of pixel (x, y)
func inspectPixel(session *renderSession, x, y int) InspectResponse {
	point := session.canvas.PixelCenter(x, y)
	r, g, b := session.pool.Buffers().Accumulator.Pixel(x, y)

	response := InspectResponse{
		RenderID:   session.id,
		Scene:      session.sceneName,
		Pixel:      [2]int{x, y},
		Point:      [2]float64{point.X(), point.Y()},
		Radiance:   [3]float32{r, g, b},
		Primitives: []InspectedShape{},
	}

	// One pixel of slack so thin edges along the pixel are found
	slack := session.canvas.PixelWorldSize
	for i, p := range session.scene.Primitives() {
		if !p.BoundingBox().Expand(slack).Contains(point) {
			continue
		}
		geometryType, geometryProps := extractGeometryInfo(p)
		materialType, materialProps := extractMaterialInfo(p.Material())
		response.Primitives = append(response.Primitives, InspectedShape{
			Index:        i,
			GeometryType: geometryType,
			MaterialType: materialType,
			Properties: map[string]any{
				"geometry": geometryProps,
				"material": materialProps,
			},
		})
	}
	return response
}
