package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/walkview/engine/light"
)

// testTriangleBin is the binary payload shared by the fixtures: three vec3
// float positions followed by three uint16 indices.
func testTriangleBin() []byte {
	var buf bytes.Buffer
	positions := []float32{-1, 0, 0, 1, 0, 0, 0, 1, 0}
	binary.Write(&buf, binary.LittleEndian, positions)
	binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2})
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// testDocument builds a venue document with one selectable table holding a
// translated triangle, a spot light node, and a camera anchor node.
func testDocument(binLen int, bufferURI string) gltfDocument {
	zero, one, mesh0, cam0 := 0, 1, 0, 0
	intensity := float32(10)
	return gltfDocument{
		Asset: gltfAsset{Version: "2.0"},
		Scene: &zero,
		Scenes: []gltfScene{
			{Name: "venue", Nodes: []int{0, 2, 3}},
		},
		Nodes: []gltfNode{
			{Name: "VIP_Table_A", Children: []int{1}},
			{Name: "A_top", Mesh: &mesh0, Translation: &[3]float32{5, 0, 0}},
			{
				Name:        "Spot_purple_01",
				Translation: &[3]float32{0, 4, 0},
				Extensions:  &gltfNodeExtensions{KHRLightsPunctual: &gltfNodeLightRef{Light: 0}},
			},
			{Name: "top view", Camera: &cam0, Translation: &[3]float32{0, 10, 0}},
		},
		Meshes: []gltfMesh{
			{Name: "tri", Primitives: []gltfPrimitive{
				{Attributes: map[string]int{"POSITION": 0}, Indices: &one},
			}},
		},
		Accessors: []gltfAccessor{
			{BufferView: &zero, ComponentType: gltfComponentTypeFloat, Count: 3, Type: gltfAccessorTypeVec3},
			{BufferView: &one, ComponentType: gltfComponentTypeUnsignedShort, Count: 3, Type: gltfAccessorTypeScalar},
		},
		BufferViews: []gltfBufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 36},
			{Buffer: 0, ByteOffset: 36, ByteLength: 6},
		},
		Buffers: []gltfBuffer{
			{URI: bufferURI, ByteLength: binLen},
		},
		Cameras: []gltfCamera{
			{Name: "top view", Type: "perspective"},
		},
		Extensions: &gltfDocumentExtensions{
			KHRLightsPunctual: &gltfLightsPunctual{Lights: []gltfPunctualLight{
				{Name: "Spot_purple_01", Type: "spot", Intensity: &intensity, Color: &[3]float32{1, 0, 1}},
			}},
		},
		ExtensionsUsed: []string{gltfKHRLightsPunctual},
	}
}

// buildGLB assembles a GLB container around the given document and binary
// payload.
func buildGLB(t *testing.T, doc gltfDocument, bin []byte) []byte {
	t.Helper()

	jsonChunk, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}

	var buf bytes.Buffer
	total := 12 + 8 + len(jsonChunk) + 8 + len(bin)
	binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON})
	buf.Write(jsonChunk)
	binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	buf.Write(bin)
	return buf.Bytes()
}

// buildTestGLB assembles a GLB container around the test document.
func buildTestGLB(t *testing.T) []byte {
	t.Helper()
	bin := testTriangleBin()
	return buildGLB(t, testDocument(len(bin), ""), bin)
}

func assertVenueResult(t *testing.T, res *Result) {
	t.Helper()
	require.NotNil(t, res)
	require.NotNil(t, res.Root)

	// The mesh node bakes its +5 x translation into world-space positions.
	top := res.Root.FindByName("A_top")
	require.NotNil(t, top)
	require.NotNil(t, top.Mesh)
	require.Len(t, top.Mesh.Positions, 3)
	assert.InDelta(t, 5.0, top.Mesh.Centroid[0], 1e-4)
	assert.InDelta(t, 4.0, top.Mesh.Min[0], 1e-4)
	assert.InDelta(t, 6.0, top.Mesh.Max[0], 1e-4)
	assert.Equal(t, []uint32{0, 1, 2}, top.Mesh.Indices)

	require.Len(t, res.Lights, 1)
	lt := res.Lights[0]
	assert.Equal(t, light.LightTypeSpot, lt.Type())
	assert.Equal(t, "Spot_purple_01", lt.Name())
	assert.InDelta(t, 4.0, lt.Position()[1], 1e-4)
	assert.InDelta(t, 10.0, lt.Intensity(), 1e-4)

	anchor, ok := res.Anchors["top view"]
	require.True(t, ok)
	assert.InDelta(t, 10.0, anchor.Position[1], 1e-4)
	assert.InDelta(t, -anchorLookDistance, anchor.Target[2], 1e-4)
}

func TestLoadGLBFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venue.glb")
	require.NoError(t, os.WriteFile(path, buildTestGLB(t), 0o644))

	var stages []Stage
	l := NewLoader(
		WithWorkers(2),
		WithProgress(func(stage Stage, _ string) {
			stages = append(stages, stage)
		}),
	)

	res, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assertVenueResult(t, res)
	assert.Equal(t, []Stage{StageFetched, StageParsed, StageMeshes, StageReady}, stages)

	// Second load serves from cache.
	again, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, res, again)
	assert.Same(t, res, l.Get(path))
}

func TestLoadOverHTTP(t *testing.T) {
	glb := buildTestGLB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/venue.glb" {
			http.NotFound(w, r)
			return
		}
		w.Write(glb)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	res, err := l.Load(context.Background(), srv.URL+"/assets/venue.glb")
	require.NoError(t, err)
	assertVenueResult(t, res)
}

func TestLoadGLTFWithExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	bin := testTriangleBin()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "venue.bin"), bin, 0o644))

	doc, err := json.Marshal(testDocument(len(bin), "venue.bin"))
	require.NoError(t, err)
	path := filepath.Join(dir, "venue.gltf")
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	res, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assertVenueResult(t, res)
}

func TestParseGLTFWithDataURI(t *testing.T) {
	bin := testTriangleBin()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	doc, err := json.Marshal(testDocument(len(bin), uri))
	require.NoError(t, err)

	p := newGLTFParser(nil)
	require.NoError(t, p.Parse(context.Background(), doc))

	positions, err := p.ReadVec3Accessor(0)
	require.NoError(t, err)
	require.Len(t, positions, 3)
	assert.InDelta(t, -1.0, positions[0][0], 1e-6)

	indices, err := p.ReadIndicesAccessor(1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, indices)
}

func TestParseRejectsWrongGLBVersion(t *testing.T) {
	glb := buildTestGLB(t)
	binary.LittleEndian.PutUint32(glb[4:8], 1)

	p := newGLTFParser(nil)
	err := p.Parse(context.Background(), glb)
	assert.ErrorIs(t, err, errInvalidGLBVersion)
}

func TestParseRejectsWrongAssetVersion(t *testing.T) {
	doc, err := json.Marshal(gltfDocument{Asset: gltfAsset{Version: "1.0"}})
	require.NoError(t, err)

	p := newGLTFParser(nil)
	err = p.Parse(context.Background(), doc)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestLoadRejectsIndexBeyondPositionCount(t *testing.T) {
	// Three positions but an index of 7: loading must fail instead of
	// leaving a mesh that panics on the first ray intersection.
	var bin bytes.Buffer
	binary.Write(&bin, binary.LittleEndian, []float32{-1, 0, 0, 1, 0, 0, 0, 1, 0})
	binary.Write(&bin, binary.LittleEndian, []uint16{7, 1, 2})
	for bin.Len()%4 != 0 {
		bin.WriteByte(0)
	}
	payload := bin.Bytes()

	path := filepath.Join(t.TempDir(), "venue.glb")
	require.NoError(t, os.WriteFile(path, buildGLB(t, testDocument(len(payload), ""), payload), 0o644))

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 7")
}

func TestReadAccessorRejectsOutOfRangeOffset(t *testing.T) {
	bin := testTriangleBin()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	doc := testDocument(len(bin), uri)
	doc.Accessors[0].ByteOffset = 1 << 20
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	p := newGLTFParser(nil)
	require.NoError(t, p.Parse(context.Background(), raw))

	_, err = p.ReadVec3Accessor(0)
	assert.ErrorIs(t, err, errBufferSizeMismatch)

	// Accessor indices outside the document fail the same way reads do.
	_, err = p.ReadVec3Accessor(5)
	assert.Error(t, err)
	_, err = p.ReadIndicesAccessor(-1)
	assert.Error(t, err)
}

func TestParseRejectsTruncatedBuffer(t *testing.T) {
	bin := testTriangleBin()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin[:8])
	doc, err := json.Marshal(testDocument(len(bin), uri))
	require.NoError(t, err)

	p := newGLTFParser(nil)
	err = p.Parse(context.Background(), doc)
	assert.ErrorIs(t, err, errBufferSizeMismatch)
}
