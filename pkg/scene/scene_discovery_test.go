package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withScenesDir points discovery at dir for the duration of the test
func withScenesDir(t *testing.T, dir string) {
	t.Helper()
	old := ScenesDir
	ScenesDir = dir
	t.Cleanup(func() { ScenesDir = old })
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return path
}

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"three-spheres", "Three Spheres"},
		{"glass_row", "Glass Row"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseFileMetadata(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name:    "complete_metadata.json",
			content: `{"name": "Glass Garden", "description": "Many glass spheres", "group": "Glass", "spheres": []}`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Glass Garden",
				DisplayName: "Glass Garden",
				Description: "Many glass spheres",
				Group:       "Glass",
				Type:        TypeFile,
			},
		},
		{
			name:    "no_metadata.json",
			content: `{"spheres": []}`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        TypeFile,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSceneFile(t, dir, tc.name, tc.content)

			result, err := ParseFileMetadata(path)
			if err != nil {
				t.Fatalf("ParseFileMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseFileMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseFileMetadata_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ParseFileMetadata(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := writeSceneFile(t, dir, "broken.json", `{"name": `)
	result, err := ParseFileMetadata(path)
	if err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if result.ID != "file:broken" {
		t.Errorf("Fallback ID = %q, want file:broken", result.ID)
	}
}

func TestListFileScenes(t *testing.T) {
	dir := t.TempDir()
	withScenesDir(t, dir)

	writeSceneFile(t, dir, "b.json", `{"name": "Beta"}`)
	writeSceneFile(t, dir, "a.json", `{"name": "Alpha"}`)
	writeSceneFile(t, dir, "broken.json", `not json`)
	writeSceneFile(t, dir, "notes.txt", `ignored`)

	scenes, err := ListFileScenes()
	if err != nil {
		t.Fatalf("ListFileScenes() error: %v", err)
	}

	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d: %+v", len(scenes), scenes)
	}
	if scenes[0].DisplayName != "Alpha" || scenes[1].DisplayName != "Beta" {
		t.Errorf("Scenes not sorted by display name: %+v", scenes)
	}
}

func TestListFileScenes_MissingDirectory(t *testing.T) {
	withScenesDir(t, filepath.Join(t.TempDir(), "does-not-exist"))

	scenes, err := ListFileScenes()
	if err != nil {
		t.Errorf("ListFileScenes() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	withScenesDir(t, dir)
	writeSceneFile(t, dir, "extra.json", `{"name": "Extra", "group": "Examples"}`)

	response, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	if len(response.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(response.Groups))
	}

	builtInGroup := response.Groups[0]
	if builtInGroup.Name != "Built-in Scenes" {
		t.Errorf("First group = %q, want Built-in Scenes", builtInGroup.Name)
	}

	expectedScenes := Names()
	if len(builtInGroup.Scenes) != len(expectedScenes) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtInGroup.Scenes), len(expectedScenes))
	}
	for i, s := range builtInGroup.Scenes {
		if s.ID != expectedScenes[i] {
			t.Errorf("Built-in scene %d = %q, want %q", i, s.ID, expectedScenes[i])
		}
		if s.Type != TypeBuiltin {
			t.Errorf("Built-in scene %q has type %q", s.ID, s.Type)
		}
	}

	fileGroup := response.Groups[1]
	if fileGroup.Name != "Examples" || len(fileGroup.Scenes) != 1 {
		t.Fatalf("Unexpected file group: %+v", fileGroup)
	}
	if !strings.HasPrefix(fileGroup.Scenes[0].ID, "file:") {
		t.Errorf("File scene ID should start with 'file:': %s", fileGroup.Scenes[0].ID)
	}
}
