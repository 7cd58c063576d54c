package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "voxel"
	FilePath    string `json:"filePath"`    // Path to voxel file (voxel type only)
	Size        int    `json:"size"`        // Stored cube side (voxel type only)
	Material    string `json:"material"`    // Suggested material preset
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtinGroup = "Built-in Scenes"

// voxelFilePattern matches cube files named like skull_330x.bin or
// horse_128x.bin.zst
var voxelFilePattern = regexp.MustCompile(`^([A-Za-z0-9-]+(?:_[A-Za-z0-9-]+)*?)_(\d+)x\.(bin|bin\.zst|txt)$`)

// ListVoxelScenes scans dir for cube voxel files. A missing directory yields
// an empty list.
func ListVoxelScenes(dir string) ([]SceneInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := ParseVoxelFileName(filepath.Join(dir, entry.Name()))
		if ok {
			scenes = append(scenes, info)
		}
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseVoxelFileName extracts scene metadata from a voxel file name. The
// boolean is false when the name does not follow the <name>_<size>x.<ext>
// convention.
func ParseVoxelFileName(filePath string) (SceneInfo, bool) {
	m := voxelFilePattern.FindStringSubmatch(filepath.Base(filePath))
	if m == nil {
		return SceneInfo{}, false
	}
	size, err := strconv.Atoi(m[2])
	if err != nil || size <= 0 {
		return SceneInfo{}, false
	}

	name := m[1]
	material := ""
	for _, candidate := range MaterialNames() {
		if strings.HasPrefix(strings.ToLower(name), candidate) {
			material = candidate
			break
		}
	}

	return SceneInfo{
		ID:          fmt.Sprintf("voxel:%s", name),
		Name:        titleCase(name),
		DisplayName: fmt.Sprintf("%s (%d³)", titleCase(name), size),
		Group:       "Voxel Files",
		Type:        "voxel",
		FilePath:    filePath,
		Size:        size,
		Material:    material,
	}, true
}

// ListAllScenes returns both built-in presets and voxel files found in dir,
// grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	descriptions := map[string]string{
		"sphere": "Solid ball",
		"torus":  "Ring lying flat around the grid center",
		"shell":  "Hollow ball with a window into its cavity",
	}
	var builtInScenes []SceneInfo
	for _, name := range PresetNames() {
		builtInScenes = append(builtInScenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			DisplayName: titleCase(name),
			Description: descriptions[name],
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	voxelScenes, err := ListVoxelScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list voxel scenes: %w", err)
	}

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range append(builtInScenes, voxelScenes...) {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// ConfigFor returns a load configuration for a discovered scene, starting
// from base for everything the scene does not determine
func ConfigFor(info SceneInfo, base Config) Config {
	config := base
	switch info.Type {
	case "voxel":
		config.Voxels.Path = info.FilePath
		config.Voxels.Width = info.Size
		config.Voxels.Height = info.Size
		config.Voxels.Depth = info.Size
		if info.Material != "" {
			config.Material = info.Material
		}
	default:
		config.Voxels.Path = ""
		config.Preset = info.ID
	}
	return config
}

// FindScene looks up a scene by ID among the presets and the voxel files in
// dir
func FindScene(id, dir string) (SceneInfo, error) {
	response, err := ListAllScenes(dir)
	if err != nil {
		return SceneInfo{}, err
	}
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.ID == id {
				return info, nil
			}
		}
	}
	return SceneInfo{}, fmt.Errorf("unknown scene %q", id)
}

// titleCase converts a filename-style string to title case
// e.g., "teacup-blue" -> "Teacup Blue"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
