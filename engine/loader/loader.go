package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/Carmen-Shannon/glowgrid/engine/mesh"
)

// Common errors returned by the parser
var (
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errMissingBINChunk    = errors.New("GLB file missing BIN chunk")
	errNoMeshes           = errors.New("glTF document contains no meshes")
	errMissingPosition    = errors.New("mesh primitive has no POSITION attribute")
	errMissingNormal      = errors.New("mesh primitive has no NORMAL attribute")
	errMissingIndices     = errors.New("mesh primitive has no indices")
)

// GLB chunk layout constants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"
)

// Accessor component types
const (
	componentTypeUnsignedShort = 5123
	componentTypeUnsignedInt   = 5125
	componentTypeFloat         = 5126
)

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type glbChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

// Minimal glTF 2.0 document model, limited to what mesh extraction needs.
type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Meshes []struct {
		Primitives []struct {
			Attributes map[string]int `json:"attributes"`
			Indices    *int           `json:"indices"`
		} `json:"primitives"`
	} `json:"meshes"`
	Accessors []struct {
		BufferView    *int   `json:"bufferView"`
		ByteOffset    int    `json:"byteOffset"`
		ComponentType int    `json:"componentType"`
		Count         int    `json:"count"`
		Type          string `json:"type"`
	} `json:"accessors"`
	BufferViews []struct {
		Buffer     int `json:"buffer"`
		ByteOffset int `json:"byteOffset"`
		ByteLength int `json:"byteLength"`
		ByteStride int `json:"byteStride"`
	} `json:"bufferViews"`
}

// LoadGLB loads the first mesh primitive of a binary glTF file.
//
// Parameters:
//   - path: path to the .glb file
//
// Returns:
//   - mesh.Data: the extracted positions, normals, and indices
//   - error: error if the file cannot be read or parsed
func LoadGLB(path string) (mesh.Data, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mesh.Data{}, fmt.Errorf("failed to read GLB file: %w", err)
	}
	return LoadGLBBytes(data)
}

// LoadGLBBytes parses GLB data and extracts the first mesh primitive.
// Only the POSITION and NORMAL attributes are read; other attributes are
// ignored.
//
// Parameters:
//   - data: the raw GLB bytes
//
// Returns:
//   - mesh.Data: the extracted positions, normals, and indices
//   - error: error if the data is not valid GLB or lacks required attributes
func LoadGLBBytes(data []byte) (mesh.Data, error) {
	doc, bin, err := parseGLB(data)
	if err != nil {
		return mesh.Data{}, err
	}
	return extractMesh(doc, bin)
}

// parseGLB splits GLB data into its JSON document and binary chunk.
func parseGLB(data []byte) (*gltfDocument, []byte, error) {
	if len(data) < 12 {
		return nil, nil, errors.New("GLB file too small")
	}

	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != glbMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if header.Version != glbVersion {
		return nil, nil, errInvalidGLBVersion
	}

	var jsonData []byte
	var binData []byte

	for {
		var chunkHeader glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, nil, fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case glbChunkJSON:
			jsonData = chunkData
		case glbChunkBIN:
			binData = chunkData
		}
	}

	if jsonData == nil {
		return nil, nil, errMissingJSONChunk
	}
	if binData == nil {
		return nil, nil, errMissingBINChunk
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, nil, errInvalidGLTFVersion
	}

	return &doc, binData, nil
}

// extractMesh builds mesh.Data from the first primitive of the first mesh.
func extractMesh(doc *gltfDocument, bin []byte) (mesh.Data, error) {
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return mesh.Data{}, errNoMeshes
	}
	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return mesh.Data{}, errMissingPosition
	}
	normIdx, ok := prim.Attributes["NORMAL"]
	if !ok {
		return mesh.Data{}, errMissingNormal
	}
	if prim.Indices == nil {
		return mesh.Data{}, errMissingIndices
	}

	positions, err := readVec3Accessor(doc, bin, posIdx)
	if err != nil {
		return mesh.Data{}, fmt.Errorf("failed to read POSITION accessor: %w", err)
	}
	normals, err := readVec3Accessor(doc, bin, normIdx)
	if err != nil {
		return mesh.Data{}, fmt.Errorf("failed to read NORMAL accessor: %w", err)
	}
	if len(normals) != len(positions) {
		return mesh.Data{}, fmt.Errorf("attribute count mismatch: %d positions, %d normals", len(positions), len(normals))
	}
	indices, err := readIndexAccessor(doc, bin, *prim.Indices)
	if err != nil {
		return mesh.Data{}, fmt.Errorf("failed to read index accessor: %w", err)
	}

	d := mesh.Data{
		Vertices: make([]mesh.Vertex, len(positions)),
		Indices:  indices,
	}
	for i := range positions {
		d.Vertices[i] = mesh.Vertex{
			Position: positions[i],
			Normal:   normals[i],
		}
	}
	d.ComputeBoundingRadius()
	return d, nil
}

// accessorBytes resolves an accessor's backing byte range within the binary
// chunk and returns the data alongside the view's byte stride (0 = tight).
func accessorBytes(doc *gltfDocument, bin []byte, accessorIndex int) ([]byte, int, error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, 0, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := doc.Accessors[accessorIndex]
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor %d has no buffer view", accessorIndex)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view index %d out of range", *acc.BufferView)
	}
	view := doc.BufferViews[*acc.BufferView]

	start := view.ByteOffset + acc.ByteOffset
	end := view.ByteOffset + view.ByteLength
	if start < 0 || end > len(bin) || start > end {
		return nil, 0, fmt.Errorf("buffer view %d exceeds binary chunk bounds", *acc.BufferView)
	}
	return bin[start:end], view.ByteStride, nil
}

func readVec3Accessor(doc *gltfDocument, bin []byte, accessorIndex int) ([][3]float32, error) {
	acc := doc.Accessors[accessorIndex]
	if acc.Type != "VEC3" || acc.ComponentType != componentTypeFloat {
		return nil, fmt.Errorf("accessor %d is not a float VEC3", accessorIndex)
	}

	data, stride, err := accessorBytes(doc, bin, accessorIndex)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12
	}

	out := make([][3]float32, acc.Count)
	for i := 0; i < acc.Count; i++ {
		off := i * stride
		if off+12 > len(data) {
			return nil, fmt.Errorf("accessor %d data truncated at element %d", accessorIndex, i)
		}
		for c := 0; c < 3; c++ {
			out[i][c] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+c*4:]))
		}
	}
	return out, nil
}

func readIndexAccessor(doc *gltfDocument, bin []byte, accessorIndex int) ([]uint32, error) {
	acc := doc.Accessors[accessorIndex]
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("index accessor %d is not SCALAR", accessorIndex)
	}

	data, _, err := accessorBytes(doc, bin, accessorIndex)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case componentTypeUnsignedShort:
		if acc.Count*2 > len(data) {
			return nil, fmt.Errorf("index accessor %d data truncated", accessorIndex)
		}
		for i := 0; i < acc.Count; i++ {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case componentTypeUnsignedInt:
		if acc.Count*4 > len(data) {
			return nil, fmt.Errorf("index accessor %d data truncated", accessorIndex)
		}
		for i := 0; i < acc.Count; i++ {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type %d", acc.ComponentType)
	}
	return out, nil
}
