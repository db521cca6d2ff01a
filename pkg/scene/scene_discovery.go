package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier, accepted by Load
	Name        string // Scene name
	DisplayName string // Name shown in listings
	Description string // Optional description
	Group       string // Grouping category
	Type        string // "builtin" or "yaml"
	FilePath    string // Path to the description file (yaml type only)
	Variant     string // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

func builtin(id, name, description string, build func() (*Scene, error)) builtinScene {
	return builtinScene{
		info:  SceneInfo{ID: id, Name: name, DisplayName: name, Description: description, Group: builtinGroup, Type: "builtin"},
		build: build,
	}
}

// builtinScenes is in listing order
var builtinScenes = []builtinScene{
	builtin("cornell-box", "Cornell Box", "Cornell box with a metal and a glass sphere",
		func() (*Scene, error) { return NewCornellScene(CornellSpheres), nil }),
	builtin("cornell-boxes", "Cornell Box - Boxes", "Cornell box with the classic rotated boxes",
		func() (*Scene, error) { return NewCornellScene(CornellBoxes), nil }),
	builtin("cornell-empty", "Cornell Box - Empty", "Empty Cornell box",
		func() (*Scene, error) { return NewCornellScene(CornellEmpty), nil }),
	builtin("default", "Default Scene", "Spheres of every material on a ground plane under a sky",
		func() (*Scene, error) { return NewDefaultScene(), nil }),
	builtin("sphere-grid", "Sphere Grid", "20x20 grid of rainbow-colored plastic spheres",
		func() (*Scene, error) { return NewSphereGridScene(20), nil }),
	builtin("triangle-mesh", "Triangle Mesh", "Scene showcasing triangle mesh geometry",
		func() (*Scene, error) { return NewTriangleMeshScene(), nil }),
	builtin("point-lit-sphere", "Point Lit Sphere", "Diffuse sphere lit by a single point light",
		func() (*Scene, error) { return NewPointLitSphereScene(10, 2), nil }),
	builtin("cornell-yaml", "Cornell Box - YAML", "Cornell box read from the embedded scene description",
		LoadBuiltinDescription),
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		infos[i] = b.info
	}
	return infos
}

// Load creates a scene from a builtin ID, a YAML description or a mesh file
func Load(id string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build()
		}
	}
	path := strings.TrimPrefix(id, "yaml:")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadDescriptionFile(path)
	case ".ply", ".gltf", ".glb":
		return NewMeshFileScene(path)
	}
	return nil, fmt.Errorf("unknown scene %q", id)
}

// ListFileScenes scans dir for YAML scene descriptions. A missing directory yields no scenes.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("while scanning scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("while reading metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the header comments of a scene description.
// An unreadable file keeps the values derived from its name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          "yaml:" + filePath,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "yaml",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, nil
	}
	defer file.Close()

	return parseHeaderComments(file, sceneInfo)
}

// parseHeaderComments fills info from "# Key: value" lines before the first non-comment line
func parseHeaderComments(r io.Reader, sceneInfo SceneInfo) (SceneInfo, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}
	return sceneInfo, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the descriptions found in dir,
// grouped by category
func ListAllScenes(dir string) ([]SceneGroup, error) {
	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("while listing scene files: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, s := range append(BuiltinScenes(), fileScenes...) {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtinGroup, Scenes: groupMap[builtinGroup]}}
	for _, groupName := range groupNames {
		groups = append(groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}
	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
