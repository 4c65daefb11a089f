package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Parameter limits shared by request parsing and /api/scene-config
const (
	DefaultScene    = "cover"
	DefaultTileSize = renderer.DefaultTileSize

	minWidth      = 16
	maxWidth      = 2000
	minSamples    = 1
	maxSamples    = 10000
	minPasses     = 1
	maxPasses     = 100
	minDepth      = 1
	maxDepth      = 200
	maxVFov       = 179.0
	maxSeed       = 1<<31 - 1
	minTileSize   = 8
	maxTileSize   = 256
	defaultPasses = 5
)

// Server handles web requests for the path tracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server with all routes registered
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	// Serve static files
	s.mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/image", s.handleImage)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string  `json:"scene"`      // Scene ID (e.g., "cover" or "file:sunset-glass")
	Width      int     `json:"width"`      // Image width, 0 keeps the scene's width
	VFov       float64 `json:"vfov"`       // Vertical field of view, 0 keeps the scene's
	MaxSamples int     `json:"maxSamples"` // Samples per pixel after the last pass, 0 keeps the scene's
	MaxDepth   int     `json:"maxDepth"`   // Maximum bounces, 0 keeps the scene's
	MaxPasses  int     `json:"maxPasses"`  // Number of progressive passes
	Seed       int64   `json:"seed"`       // Base seed for tile samplers
	TileSize   int     `json:"tileSize"`   // Tile edge length in pixels
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes grouped for the scene picker
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene together with
// the parameter limits the render endpoints enforce
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	sceneObj, err := scene.New(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"maxPasses":       defaultPasses,
			"vfov":            sceneObj.CameraConfig.VFov,
			"tileSize":        DefaultTileSize,
			"seed":            renderer.DefaultSeed,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minWidth, "max": maxWidth},
			"maxSamples": map[string]int{"min": minSamples, "max": maxSamples},
			"maxDepth":   map[string]int{"min": minDepth, "max": maxDepth},
			"maxPasses":  map[string]int{"min": minPasses, "max": maxPasses},
			"tileSize":   map[string]int{"min": minTileSize, "max": maxTileSize},
			"vfov":       map[string]float64{"min": 0, "max": maxVFov},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams parses the parameters that select and frame a scene
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return err
	}
	if req.VFov, err = parseFloatParam(query, "vfov", 0, 1, maxVFov); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 0, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, minDepth, maxDepth); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", defaultPasses, minPasses, maxPasses); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", DefaultTileSize, minTileSize, maxTileSize); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", renderer.DefaultSeed, 0, maxSeed)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	return req, nil
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

// createScene builds the requested scene with the request's framing and sampling overrides
func (s *Server) createScene(req *RenderRequest, logger core.Logger) (*scene.Scene, error) {
	sceneObj, err := scene.New(req.Scene, geometry.CameraConfig{Width: req.Width, VFov: req.VFov})
	if err != nil {
		return nil, err
	}

	sceneObj.SamplingConfig = scene.MergeSamplingConfig(sceneObj.SamplingConfig, scene.SamplingConfig{
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
	})

	if logger != nil {
		logger.Printf("Scene %s: %d spheres, %dx%d, %d samples/pixel, max depth %d\n",
			req.Scene, sceneObj.GetPrimitiveCount(), sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height,
			sceneObj.SamplingConfig.SamplesPerPixel, sceneObj.SamplingConfig.MaxDepth)
	}
	return sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeJSON writes v as a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
