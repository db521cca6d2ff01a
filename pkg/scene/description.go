package scene

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/cornell.yaml
var builtinCornell []byte

// Description is the YAML form of a scene
type Description struct {
	Camera    CameraDescription              `yaml:"camera"`
	Sampling  SamplingConfig                 `yaml:"sampling"`
	Materials map[string]MaterialDescription `yaml:"materials"`
	Shapes    []ShapeDescription             `yaml:"shapes"`
	Lights    []LightDescription             `yaml:"lights"`
}

// CameraDescription mirrors camera.CameraConfig with YAML friendly vectors
type CameraDescription struct {
	Center        [3]float64 `yaml:"center"`
	LookAt        [3]float64 `yaml:"lookAt"`
	Up            [3]float64 `yaml:"up"`
	Width         int        `yaml:"width"`
	AspectRatio   float64    `yaml:"aspectRatio"`
	VFov          float64    `yaml:"vfov"`
	Aperture      float64    `yaml:"aperture"`
	FocusDistance float64    `yaml:"focusDistance"`
}

// MaterialDescription names a material type and its parameters.
// Unused parameters are ignored.
type MaterialDescription struct {
	Type      string     `yaml:"type"` // matte, plastic, metal, glass or mirror
	Kd        [3]float64 `yaml:"kd"`
	Ks        [3]float64 `yaml:"ks"`
	Kr        [3]float64 `yaml:"kr"`
	Sigma     float64    `yaml:"sigma"`
	Roughness float64    `yaml:"roughness"`
	Eta       float64    `yaml:"eta"`
	Metal     string     `yaml:"metal"` // copper, gold or silver
}

// ShapeDescription is one shape, or one mesh file, with its material. A shape with a
// non-zero emission becomes an area light.
type ShapeDescription struct {
	Type     string     `yaml:"type"` // sphere, quad, box, disc or mesh
	Material string     `yaml:"material"`
	Center   [3]float64 `yaml:"center"`
	Radius   float64    `yaml:"radius"`
	Corner   [3]float64 `yaml:"corner"`
	U        [3]float64 `yaml:"u"`
	V        [3]float64 `yaml:"v"`
	HalfSize [3]float64 `yaml:"halfSize"`
	Rotation [3]float64 `yaml:"rotation"` // Degrees about X, Y, Z
	Normal   [3]float64 `yaml:"normal"`
	File     string     `yaml:"file"` // .ply, .gltf or .glb, relative to the description
	Emission [3]float64 `yaml:"emission"`
	TwoSided bool       `yaml:"twoSided"`
}

// LightDescription is a light that is not attached to a shape
type LightDescription struct {
	Type      string     `yaml:"type"` // point, spot, distant, infinite or gradient
	Position  [3]float64 `yaml:"position"`
	From      [3]float64 `yaml:"from"`
	To        [3]float64 `yaml:"to"`
	Direction [3]float64 `yaml:"direction"`
	Intensity [3]float64 `yaml:"intensity"`
	Radiance  [3]float64 `yaml:"radiance"`
	Top       [3]float64 `yaml:"top"`
	Bottom    [3]float64 `yaml:"bottom"`
	ConeAngle float64    `yaml:"coneAngle"`
	ConeDelta float64    `yaml:"coneDelta"`
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

// ParseDescription decodes a YAML scene description. Unknown fields are errors.
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("while decoding scene description: %w", err)
	}
	return &desc, nil
}

// LoadDescription reads and decodes a YAML scene description file
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("while reading scene description: %w", err)
	}
	return ParseDescription(data)
}

// LoadDescriptionFile reads a YAML scene description and builds it. Mesh files are
// resolved relative to the description.
func LoadDescriptionFile(path string) (*Scene, error) {
	desc, err := LoadDescription(path)
	if err != nil {
		return nil, err
	}
	return desc.Build(filepath.Dir(path))
}

// LoadBuiltinDescription builds the Cornell box description compiled into the binary
func LoadBuiltinDescription() (*Scene, error) {
	desc, err := ParseDescription(builtinCornell)
	if err != nil {
		return nil, err
	}
	return desc.Build(".")
}

// Build creates the scene. Relative mesh file paths are joined to baseDir.
func (d *Description) Build(baseDir string) (*Scene, error) {
	defaultCamera := camera.CameraConfig{
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1,
		VFov:        40,
	}
	cameraConfig := camera.MergeCameraConfig(defaultCamera, camera.CameraConfig{
		Center:        vec(d.Camera.Center),
		LookAt:        vec(d.Camera.LookAt),
		Up:            vec(d.Camera.Up),
		Width:         d.Camera.Width,
		AspectRatio:   d.Camera.AspectRatio,
		VFov:          d.Camera.VFov,
		Aperture:      d.Camera.Aperture,
		FocusDistance: d.Camera.FocusDistance,
	})
	if cameraConfig.Center == cameraConfig.LookAt {
		return nil, fmt.Errorf("camera center and lookAt coincide at %v", cameraConfig.Center)
	}

	s := New(cameraConfig, DefaultSamplingConfig().Merge(d.Sampling))

	materials := make(map[string]material.Material, len(d.Materials))
	for name, md := range d.Materials {
		m, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("while building material %q: %w", name, err)
		}
		materials[name] = m
	}
	defaultMaterial := material.NewMatte(core.NewVec3(0.5, 0.5, 0.5))

	for i, sd := range d.Shapes {
		mat := material.Material(defaultMaterial)
		if sd.Material != "" {
			m, ok := materials[sd.Material]
			if !ok {
				return nil, fmt.Errorf("shape %d: unknown material %q", i, sd.Material)
			}
			mat = m
		}
		shapes, err := sd.build(baseDir)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		if emission := vec(sd.Emission); !emission.IsBlack() {
			s.AddAreaLight(mat, emission, sd.TwoSided, shapes...)
		} else {
			s.Add(mat, shapes...)
		}
	}

	for i, ld := range d.Lights {
		if err := ld.addTo(s); err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
	}
	return s, nil
}

func (md MaterialDescription) build() (material.Material, error) {
	switch strings.ToLower(md.Type) {
	case "", "matte":
		m := material.NewMatte(vec(md.Kd))
		m.Sigma = md.Sigma
		return m, nil
	case "plastic":
		return material.NewPlastic(vec(md.Kd), vec(md.Ks), md.Roughness), nil
	case "mirror":
		return material.NewMirror(vec(md.Kr)), nil
	case "glass":
		eta := md.Eta
		if eta == 0 {
			eta = 1.5
		}
		return material.NewGlass(eta), nil
	case "metal":
		switch strings.ToLower(md.Metal) {
		case "copper":
			return material.NewMetal(material.CopperEta, material.CopperK, md.Roughness), nil
		case "gold":
			return material.NewMetal(material.GoldEta, material.GoldK, md.Roughness), nil
		case "", "silver":
			return material.NewMetal(material.SilverEta, material.SilverK, md.Roughness), nil
		}
		return nil, fmt.Errorf("unknown metal %q", md.Metal)
	}
	return nil, fmt.Errorf("unknown material type %q", md.Type)
}

func (sd ShapeDescription) build(baseDir string) ([]geometry.Shape, error) {
	switch strings.ToLower(sd.Type) {
	case "sphere":
		if sd.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius must be positive, got %g", sd.Radius)
		}
		return []geometry.Shape{geometry.NewSphere(vec(sd.Center), sd.Radius)}, nil
	case "quad":
		return geometry.NewQuadMesh(vec(sd.Corner), vec(sd.U), vec(sd.V)).Triangles(), nil
	case "box":
		rotation := core.NewVec3(core.Radians(sd.Rotation[0]), core.Radians(sd.Rotation[1]), core.Radians(sd.Rotation[2]))
		return geometry.NewBoxMesh(vec(sd.Center), vec(sd.HalfSize), rotation).Triangles(), nil
	case "disc":
		normal := vec(sd.Normal)
		if normal.IsBlack() || sd.Radius <= 0 {
			return nil, fmt.Errorf("disc needs a normal and a positive radius")
		}
		return []geometry.Shape{geometry.NewDisc(vec(sd.Center), normal.Normalize(), sd.Radius)}, nil
	case "mesh":
		path := sd.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		meshes, err := LoadMeshFile(path)
		if err != nil {
			return nil, err
		}
		var shapes []geometry.Shape
		for _, m := range meshes {
			shapes = append(shapes, m.Triangles()...)
		}
		return shapes, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", sd.Type)
}

func (ld LightDescription) addTo(s *Scene) error {
	switch strings.ToLower(ld.Type) {
	case "point":
		s.AddPointLight(vec(ld.Position), vec(ld.Intensity))
	case "spot":
		if ld.ConeAngle <= 0 {
			return fmt.Errorf("spot light cone angle must be positive, got %g", ld.ConeAngle)
		}
		s.AddSpotLight(vec(ld.From), vec(ld.To), vec(ld.Intensity), ld.ConeAngle, ld.ConeDelta)
	case "distant":
		if vec(ld.Direction).IsBlack() {
			return fmt.Errorf("distant light needs a direction")
		}
		s.AddDistantLight(vec(ld.Direction), vec(ld.Radiance))
	case "infinite":
		s.AddUniformInfiniteLight(vec(ld.Radiance))
	case "gradient":
		s.AddGradientInfiniteLight(vec(ld.Top), vec(ld.Bottom))
	default:
		return fmt.Errorf("unknown light type %q", ld.Type)
	}
	return nil
}
