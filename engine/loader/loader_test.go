package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// buildGLB assembles a GLB file from a JSON document and a binary chunk,
// applying the 4-byte padding rules from the GLB spec.
func buildGLB(t *testing.T, doc any, bin []byte) []byte {
	t.Helper()

	jsonData, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal document: %v", err)
	}
	for len(jsonData)%4 != 0 {
		jsonData = append(jsonData, ' ')
	}
	binPadded := append([]byte(nil), bin...)
	for len(binPadded)%4 != 0 {
		binPadded = append(binPadded, 0)
	}

	var buf bytes.Buffer
	total := 12 + 8 + len(jsonData) + 8 + len(binPadded)
	binary.Write(&buf, binary.LittleEndian, glbHeader{Magic: glbMagic, Version: glbVersion, Length: uint32(total)})
	binary.Write(&buf, binary.LittleEndian, glbChunkHeader{ChunkLength: uint32(len(jsonData)), ChunkType: glbChunkJSON})
	buf.Write(jsonData)
	binary.Write(&buf, binary.LittleEndian, glbChunkHeader{ChunkLength: uint32(len(binPadded)), ChunkType: glbChunkBIN})
	buf.Write(binPadded)
	return buf.Bytes()
}

// triangleGLB builds a single-triangle GLB with positions, normals, and
// unsigned short indices.
func triangleGLB(t *testing.T) []byte {
	t.Helper()

	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	normals := [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	indices := []uint16{0, 1, 2}

	var bin bytes.Buffer
	for _, p := range positions {
		binary.Write(&bin, binary.LittleEndian, p)
	}
	normOffset := bin.Len()
	for _, n := range normals {
		binary.Write(&bin, binary.LittleEndian, n)
	}
	idxOffset := bin.Len()
	binary.Write(&bin, binary.LittleEndian, indices)

	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"meshes": []map[string]any{
			{
				"primitives": []map[string]any{
					{
						"attributes": map[string]int{"POSITION": 0, "NORMAL": 1},
						"indices":    2,
					},
				},
			},
		},
		"accessors": []map[string]any{
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 2, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []map[string]any{
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": normOffset, "byteLength": 36},
			{"buffer": 0, "byteOffset": idxOffset, "byteLength": 6},
		},
		"buffers": []map[string]any{
			{"byteLength": bin.Len()},
		},
	}

	return buildGLB(t, doc, bin.Bytes())
}

func TestLoadGLBBytesTriangle(t *testing.T) {
	d, err := LoadGLBBytes(triangleGLB(t))
	if err != nil {
		t.Fatalf("LoadGLBBytes failed: %v", err)
	}

	if len(d.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(d.Vertices))
	}
	if len(d.Indices) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(d.Indices))
	}
	if d.Vertices[1].Position != [3]float32{1, 0, 0} {
		t.Fatalf("unexpected vertex 1 position: %v", d.Vertices[1].Position)
	}
	for i, v := range d.Vertices {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Fatalf("unexpected normal at vertex %d: %v", i, v.Normal)
		}
	}
	if d.Indices[0] != 0 || d.Indices[1] != 1 || d.Indices[2] != 2 {
		t.Fatalf("unexpected indices: %v", d.Indices)
	}

	// Farthest vertex is at distance 1 from the origin.
	if math.Abs(float64(d.BoundingRadius)-1) > 1e-6 {
		t.Fatalf("expected bounding radius 1, got %v", d.BoundingRadius)
	}
}

func TestLoadGLBBytesUint32Indices(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}
	normals := [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}}
	indices := []uint32{2, 1, 0}

	var bin bytes.Buffer
	for _, p := range positions {
		binary.Write(&bin, binary.LittleEndian, p)
	}
	normOffset := bin.Len()
	for _, n := range normals {
		binary.Write(&bin, binary.LittleEndian, n)
	}
	idxOffset := bin.Len()
	binary.Write(&bin, binary.LittleEndian, indices)

	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"meshes": []map[string]any{
			{
				"primitives": []map[string]any{
					{
						"attributes": map[string]int{"POSITION": 0, "NORMAL": 1},
						"indices":    2,
					},
				},
			},
		},
		"accessors": []map[string]any{
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 2, "componentType": 5125, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []map[string]any{
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": normOffset, "byteLength": 36},
			{"buffer": 0, "byteOffset": idxOffset, "byteLength": 12},
		},
		"buffers": []map[string]any{
			{"byteLength": bin.Len()},
		},
	}

	d, err := LoadGLBBytes(buildGLB(t, doc, bin.Bytes()))
	if err != nil {
		t.Fatalf("LoadGLBBytes failed: %v", err)
	}
	if d.Indices[0] != 2 || d.Indices[1] != 1 || d.Indices[2] != 0 {
		t.Fatalf("unexpected indices: %v", d.Indices)
	}
}

func TestLoadGLBBytesBadMagic(t *testing.T) {
	data := triangleGLB(t)
	data[0] = 'X'
	if _, err := LoadGLBBytes(data); !errors.Is(err, errInvalidGLBMagic) {
		t.Fatalf("expected errInvalidGLBMagic, got %v", err)
	}
}

func TestLoadGLBBytesBadVersion(t *testing.T) {
	data := triangleGLB(t)
	binary.LittleEndian.PutUint32(data[4:], 1)
	if _, err := LoadGLBBytes(data); !errors.Is(err, errInvalidGLBVersion) {
		t.Fatalf("expected errInvalidGLBVersion, got %v", err)
	}
}

func TestLoadGLBBytesTooSmall(t *testing.T) {
	if _, err := LoadGLBBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated data")
	}
}

func TestLoadGLBBytesMissingNormal(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	indices := []uint16{0, 1, 2}

	var bin bytes.Buffer
	for _, p := range positions {
		binary.Write(&bin, binary.LittleEndian, p)
	}
	idxOffset := bin.Len()
	binary.Write(&bin, binary.LittleEndian, indices)

	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"meshes": []map[string]any{
			{
				"primitives": []map[string]any{
					{
						"attributes": map[string]int{"POSITION": 0},
						"indices":    1,
					},
				},
			},
		},
		"accessors": []map[string]any{
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []map[string]any{
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": idxOffset, "byteLength": 6},
		},
		"buffers": []map[string]any{
			{"byteLength": bin.Len()},
		},
	}

	if _, err := LoadGLBBytes(buildGLB(t, doc, bin.Bytes())); !errors.Is(err, errMissingNormal) {
		t.Fatalf("expected errMissingNormal, got %v", err)
	}
}
