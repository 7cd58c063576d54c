package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"teacup-blue", "Teacup Blue"},
		{"horse_low", "Horse Low"},
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

func TestParseVoxelFileName(t *testing.T) {
	testCases := []struct {
		file     string
		ok       bool
		id       string
		size     int
		material string
	}{
		{"skull_330x.bin", true, "voxel:skull", 330, "skull"},
		{"horse_128x.bin.zst", true, "voxel:horse", 128, "horse"},
		{"teacup_64x.txt", true, "voxel:teacup", 64, "teacup"},
		{"my_model_32x.bin", true, "voxel:my_model", 32, ""},
		{"skull.bin", false, "", 0, ""},
		{"skull_330.bin", false, "", 0, ""},
		{"skull_330x.png", false, "", 0, ""},
		{"skull_0x.bin", false, "", 0, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			info, ok := ParseVoxelFileName(filepath.Join("scenes", tc.file))
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if info.ID != tc.id || info.Size != tc.size || info.Material != tc.material {
				t.Errorf("got id=%q size=%d material=%q, want id=%q size=%d material=%q",
					info.ID, info.Size, info.Material, tc.id, tc.size, tc.material)
			}
			if info.Type != "voxel" || info.FilePath != filepath.Join("scenes", tc.file) {
				t.Errorf("unexpected type %q or path %q", info.Type, info.FilePath)
			}
		})
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"teacup_64x.bin", "horse_32x.bin.zst", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested_16x.bin"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes failed: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(response.Groups))
	}

	builtin := response.Groups[0]
	if builtin.Name != "Built-in Scenes" || len(builtin.Scenes) != len(PresetNames()) {
		t.Errorf("Unexpected built-in group: %+v", builtin)
	}

	files := response.Groups[1]
	if len(files.Scenes) != 2 {
		t.Fatalf("Expected 2 voxel scenes, got %+v", files.Scenes)
	}
	// Sorted by display name
	if files.Scenes[0].ID != "voxel:horse" || files.Scenes[1].ID != "voxel:teacup" {
		t.Errorf("Unexpected order: %s, %s", files.Scenes[0].ID, files.Scenes[1].ID)
	}
}

func TestListVoxelScenes_MissingDir(t *testing.T) {
	scenes, err := ListVoxelScenes(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected no error for missing directory, got %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("Expected no scenes, got %d", len(scenes))
	}
}

func TestFindSceneAndConfigFor(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "horse_40x.bin"), nil, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	info, err := FindScene("voxel:horse", dir)
	if err != nil {
		t.Fatalf("FindScene failed: %v", err)
	}
	config := ConfigFor(info, DefaultConfig())
	if config.Voxels.Path != filepath.Join(dir, "horse_40x.bin") {
		t.Errorf("Voxels.Path = %q", config.Voxels.Path)
	}
	if config.Voxels.Width != 40 || config.Voxels.Height != 40 || config.Voxels.Depth != 40 {
		t.Errorf("Unexpected dimensions %+v", config.Voxels)
	}
	if config.Material != "horse" {
		t.Errorf("Material = %q, want horse", config.Material)
	}

	info, err = FindScene("sphere", dir)
	if err != nil {
		t.Fatalf("FindScene failed: %v", err)
	}
	config = ConfigFor(info, config)
	if config.Preset != "sphere" || config.Voxels.Path != "" {
		t.Errorf("Preset config = %+v", config)
	}

	if _, err := FindScene("nope", dir); err == nil {
		t.Error("Expected error for unknown scene")
	}
}
