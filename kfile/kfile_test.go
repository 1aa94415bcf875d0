package kfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/mesh"
)

func sampleMesh() *mesh.Mesh {
	m := mesh.NewMesh()
	m.Name = "sample"
	corners := [8][3]float64{
		{0, 0, 0}, {10, 0, 0}, {10, 5.25, 0}, {0, 5.25, 0},
		{0, 0, 2.5}, {10, 0, 2.5}, {10, 5.25, 2.5}, {0, 5.25, 2.5},
	}
	for i, c := range corners {
		m.AddNode(i+1, c[0], c[1], c[2])
	}
	m.AddElement(1, 2, [8]int{1, 2, 3, 4, 5, 6, 7, 8})
	m.AddPart(2, "bracket")
	return m
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.k")
	m := sampleMesh()

	w := Writer{}
	require.NoError(t, w.Write(path, m))

	got, err := Read(path)
	require.NoError(t, err)

	require.Equal(t, len(m.Nodes), len(got.Nodes))
	for _, id := range m.SortedNodeIDs() {
		assert.InDelta(t, 0., m.Node(id).Position.Dist(got.Node(id).Position), 1e-7)
	}

	require.Equal(t, 1, len(got.Elements))
	assert.Equal(t, m.Element(1).NodeIDs, got.Element(1).NodeIDs)
	assert.Equal(t, 2, got.Element(1).PartID)
	assert.Equal(t, mesh.Hex8, got.Element(1).Type)

	require.Contains(t, got.Parts, 2)
	assert.Equal(t, "bracket", got.Parts[2].Name)
}

func TestWriterUsesMappedPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapped.k")
	m := sampleMesh()
	m.Node(1).SetMapped(geom.Vec{X: -3, Y: 4, Z: 5})

	w := Writer{UseMapped: true}
	require.NoError(t, w.Write(path, m))

	got, err := Read(path)
	require.NoError(t, err)
	assert.InDelta(t, 0., geom.Vec{X: -3, Y: 4, Z: 5}.Dist(got.Node(1).Position), 1e-7)
	// Unmapped nodes keep their original coordinates
	assert.InDelta(t, 0., m.Node(2).Position.Dist(got.Node(2).Position), 1e-7)
}

func TestReadCommaSeparatedAndComments(t *testing.T) {
	content := `$ generated by a preprocessor
*KEYWORD
$ node block
*NODE
1, 0.0, 0.0, 0.0
2, 1.0, 0.0, 0.0
3, 1.0, 1.0, 0.0
4, 0.0, 1.0, 0.0
5, 0.0, 0.0, 1.0
6, 1.0, 0.0, 1.0
7, 1.0, 1.0, 1.0
8, 0.0, 1.0, 1.0
*ELEMENT_SOLID_ORTHO
1, 1, 1, 2, 3, 4, 5, 6, 7, 8
*PART
lower flange
         1
*END
this trailing text must be ignored
`
	path := filepath.Join(t.TempDir(), "comma.k")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 8, len(m.Nodes))
	assert.Equal(t, 1, len(m.Elements))
	assert.Equal(t, geom.Vec{X: 1, Y: 1, Z: 1}, m.Node(7).Position)
	require.Contains(t, m.Parts, 1)
	assert.Equal(t, "lower flange", m.Parts[1].Name)
}

func TestReadDegenerateTet(t *testing.T) {
	content := `*KEYWORD
*NODE
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
*ELEMENT_SOLID
1 1 1 2 3 4 4 4 4 4
*END
`
	path := filepath.Join(t.TempDir(), "tet.k")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 1, len(m.Elements))
	assert.Equal(t, mesh.Tet4, m.Element(1).Type)
}

func TestReadErrors(t *testing.T) {
	{ // Missing file
		_, err := Read(filepath.Join(t.TempDir(), "absent.k"))
		assert.Error(t, err)
	}
	{ // Bad coordinate reports the line
		content := "*NODE\n1 0 oops 0\n"
		path := filepath.Join(t.TempDir(), "bad.k")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := Read(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	}
	{ // Short element line
		content := "*ELEMENT_SOLID\n1 1 1 2 3\n"
		path := filepath.Join(t.TempDir(), "short.k")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := Read(path)
		assert.Error(t, err)
	}
}
