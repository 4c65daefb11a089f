package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// ErrUnknownScene is returned when a scene ID matches neither a built-in nor a scene file
var ErrUnknownScene = errors.New("unknown scene")

// fileScenePrefix marks IDs that refer to JSON files in the scenes directory
const fileScenePrefix = "file:"

type builtinScene struct {
	info   SceneInfo
	create func(cameraOverrides ...geometry.CameraConfig) *Scene
}

// builtins is ordered as scenes are presented to users; the first entry is the default
var builtins = []builtinScene{
	{
		info: SceneInfo{
			ID:          "cover",
			Name:        "Cover",
			DisplayName: "Cover",
			Description: "Field of random small spheres around three large ones",
		},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewCoverScene(DefaultCoverSeed, overrides...)
		},
	},
	{
		info: SceneInfo{
			ID:          "three-spheres",
			Name:        "Three Spheres",
			DisplayName: "Three Spheres",
			Description: "Hollow glass, diffuse and gold spheres on a ground sphere",
		},
		create: NewThreeSpheresScene,
	},
	{
		info: SceneInfo{
			ID:          "metals",
			Name:        "Metals",
			DisplayName: "Metals",
			Description: "Two rows of metal spheres from mirror to fully rough",
		},
		create: NewMetalsScene,
	},
}

// Names returns the IDs of the built-in scenes
func Names() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.info.ID
	}
	return names
}

// New creates the scene with the given ID: a built-in name or "file:<name>" for a JSON
// file discovered in the scenes directory
func New(id string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.create(cameraOverrides...), nil
		}
	}

	if strings.HasPrefix(id, fileScenePrefix) {
		files, err := ListFileScenes()
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == id {
				return LoadFile(info.FilePath, cameraOverrides...)
			}
		}
	}

	return nil, fmt.Errorf("scene: %w: %q", ErrUnknownScene, id)
}
