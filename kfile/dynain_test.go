package kfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koremap/koremap/analysis"
	"github.com/koremap/koremap/generator"
	"github.com/koremap/koremap/geom"
)

func stretchedReport(t *testing.T) *analysis.Report {
	t.Helper()
	cfg := generator.DefaultConfig()
	cfg.DimI, cfg.DimJ, cfg.DimK = 2, 2, 2
	ref, err := generator.Flat(cfg)
	require.NoError(t, err)

	def := ref.Clone()
	for _, n := range def.Nodes {
		n.SetMapped(geom.Vec{X: 1.02 * n.Position.X, Y: n.Position.Y, Z: n.Position.Z})
	}

	rep, err := analysis.Analyze(ref, def)
	require.NoError(t, err)
	return rep
}

func TestDynainWriter(t *testing.T) {
	rep := stretchedReport(t)

	w := DynainWriter{LargeDeformation: true}
	path := filepath.Join(t.TempDir(), "prestress.dynain")

	// Stress cards need a material
	assert.Error(t, w.Write(path, rep))

	mtl, err := analysis.IsotropicElastic(210000, 0.3)
	require.NoError(t, err)
	require.NoError(t, rep.ApplyMaterial(mtl))
	require.NoError(t, w.Write(path, rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "*KEYWORD")
	assert.Contains(t, text, "*INITIAL_STRESS_SOLID")
	assert.Contains(t, text, "*END")
	// One header line and one stress line per element
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(t, 4+2*len(rep.Elements), len(lines))
}

func TestWriteStrainCSV(t *testing.T) {
	rep := stretchedReport(t)
	w := DynainWriter{}
	path := filepath.Join(t.TempDir(), "strain.csv")
	require.NoError(t, w.WriteStrainCSV(path, rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, 1+len(rep.Elements), len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "element,exx"))
	// No stress column without a material
	assert.NotContains(t, lines[0], "von_mises_stress")

	mtl, err := analysis.IsotropicElastic(210000, 0.3)
	require.NoError(t, err)
	require.NoError(t, rep.ApplyMaterial(mtl))
	require.NoError(t, w.WriteStrainCSV(path, rep))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, strings.Split(string(data), "\n")[0], "von_mises_stress")
}
