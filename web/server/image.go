package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/imageio"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// handleImage renders a scene in a single pass and returns the encoded image.
// The format query parameter selects png (default), webp, tga or ppm.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = imageio.FormatPNG
	}
	if !isSupportedFormat(format) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unsupported format: %s", format)})
		return
	}

	sceneObj, err := s.createScene(req, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := renderer.ProgressiveConfig{
		TileSize:       req.TileSize,
		InitialSamples: 1,
		MaxPasses:      1,
		Seed:           req.Seed,
	}

	startTime := time.Now()
	img, stats, err := renderer.NewProgressiveRaytracer(sceneObj, config, core.NopLogger{}).Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil && errors.Is(err, r.Context().Err()) {
			// Client went away; nobody reads the response
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Rendering failed: " + err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, format); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", imageio.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(time.Since(startTime).Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func isSupportedFormat(format string) bool {
	for _, f := range imageio.Formats {
		if f == format {
			return true
		}
	}
	return false
}
