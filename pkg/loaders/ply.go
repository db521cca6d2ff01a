package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
}

type plyElement struct {
	Name  string
	Count int
	Props []plyProperty
}

// plyHeader represents the parsed header information from a PLY file
type plyHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Elements []plyElement
}

// plyValueReader reads one scalar of a PLY type
type plyValueReader interface {
	read(dataType string) (float64, error)
}

// LoadPLY loads a PLY file as a triangle mesh. Polygons are fan triangulated.
func LoadPLY(filename string) (*geometry.TriangleMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("while opening PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("while reading %s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY parses ascii and binary PLY data
func ReadPLY(r io.Reader) (*geometry.TriangleMesh, error) {
	br := bufio.NewReaderSize(r, 1024*1024)
	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("while parsing PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &asciiReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryReader{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	var (
		vertices []core.Vec3
		normals  []core.Vec3
		uvs      []core.Vec2
		indices  []int
	)
	for _, elem := range header.Elements {
		switch elem.Name {
		case "vertex":
			vertices, normals, uvs, err = readPLYVertices(values, elem)
		case "face":
			indices, err = readPLYFaces(values, elem)
		default:
			err = skipPLYElement(values, elem)
		}
		if err != nil {
			return nil, fmt.Errorf("while reading element %q: %w", elem.Name, err)
		}
	}

	return geometry.NewTriangleMesh(vertices, indices, normals, uvs)
}

// parsePLYHeader reads up to and including end_header
func parsePLYHeader(r *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{}
	first := true
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unexpected end of header: %w", err)
		}
		parts := strings.Fields(line)
		if first {
			if len(parts) != 1 || parts[0] != "ply" {
				return nil, fmt.Errorf("missing ply magic number")
			}
			first = false
			continue
		}
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			elem := &header.Elements[len(header.Elements)-1]
			elem.Props = append(elem.Props, prop)
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition")
	}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition")
		}
		return plyProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

func readPLYVertices(values plyValueReader, elem plyElement) ([]core.Vec3, []core.Vec3, []core.Vec2, error) {
	hasNormals, hasUVs := false, false
	for _, p := range elem.Props {
		switch p.Name {
		case "nx":
			hasNormals = true
		case "u", "s", "texture_u":
			hasUVs = true
		}
	}

	vertices := make([]core.Vec3, elem.Count)
	var normals []core.Vec3
	var uvs []core.Vec2
	if hasNormals {
		normals = make([]core.Vec3, elem.Count)
	}
	if hasUVs {
		uvs = make([]core.Vec2, elem.Count)
	}

	for i := 0; i < elem.Count; i++ {
		for _, p := range elem.Props {
			if p.IsList {
				if err := skipPLYList(values, p); err != nil {
					return nil, nil, nil, err
				}
				continue
			}
			v, err := values.read(p.Type)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("vertex %d property %s: %w", i, p.Name, err)
			}
			switch p.Name {
			case "x":
				vertices[i].X = v
			case "y":
				vertices[i].Y = v
			case "z":
				vertices[i].Z = v
			case "nx":
				normals[i].X = v
			case "ny":
				if hasNormals {
					normals[i].Y = v
				}
			case "nz":
				if hasNormals {
					normals[i].Z = v
				}
			case "u", "s", "texture_u":
				uvs[i].X = v
			case "v", "t", "texture_v":
				if hasUVs {
					uvs[i].Y = v
				}
			}
		}
	}
	return vertices, normals, uvs, nil
}

func readPLYFaces(values plyValueReader, elem plyElement) ([]int, error) {
	indices := make([]int, 0, elem.Count*3)
	for i := 0; i < elem.Count; i++ {
		for _, p := range elem.Props {
			if !p.IsList || (p.Name != "vertex_indices" && p.Name != "vertex_index") {
				if err := skipPLYProperty(values, p); err != nil {
					return nil, err
				}
				continue
			}
			count, err := values.read(p.ListType)
			if err != nil {
				return nil, fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if count < 3 {
				return nil, fmt.Errorf("face %d has %d vertices", i, int(count))
			}
			face := make([]int, int(count))
			for j := range face {
				idx, err := values.read(p.Type)
				if err != nil {
					return nil, fmt.Errorf("face %d index %d: %w", i, j, err)
				}
				face[j] = int(idx)
			}
			for j := 1; j+1 < len(face); j++ {
				indices = append(indices, face[0], face[j], face[j+1])
			}
		}
	}
	return indices, nil
}

func skipPLYElement(values plyValueReader, elem plyElement) error {
	for i := 0; i < elem.Count; i++ {
		for _, p := range elem.Props {
			if err := skipPLYProperty(values, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, p plyProperty) error {
	if p.IsList {
		return skipPLYList(values, p)
	}
	_, err := values.read(p.Type)
	return err
}

func skipPLYList(values plyValueReader, p plyProperty) error {
	count, err := values.read(p.ListType)
	if err != nil {
		return err
	}
	for j := 0; j < int(count); j++ {
		if _, err := values.read(p.Type); err != nil {
			return err
		}
	}
	return nil
}

type asciiReader struct {
	scanner *bufio.Scanner
}

func (a *asciiReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type binaryReader struct {
	r     io.Reader
	order binary.ByteOrder
}

func (b *binaryReader) read(dataType string) (float64, error) {
	switch dataType {
	case "char", "int8":
		var v int8
		err := binary.Read(b.r, b.order, &v)
		return float64(v), err
	case "uchar", "uint8":
		var v uint8
		err := binary.Read(b.r, b.order, &v)
		return float64(v), err
	case "short", "int16":
		var v int16
		err := binary.Read(b.r, b.order, &v)
		return float64(v), err
	case "ushort", "uint16":
		var v uint16
		err := binary.Read(b.r, b.order, &v)
		return float64(v), err
	case "int", "int32":
		var v int32
		err := binary.Read(b.r, b.order, &v)
		return float64(v), err
	case "uint", "uint32":
		var v uint32
		err := binary.Read(b.r, b.order, &v)
		return float64(v), err
	case "float", "float32":
		var v float32
		err := binary.Read(b.r, b.order, &v)
		return float64(v), err
	case "double", "float64":
		var v float64
		err := binary.Read(b.r, b.order, &v)
		return v, err
	}
	return 0, fmt.Errorf("unsupported data type: %s", dataType)
}
