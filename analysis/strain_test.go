package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koremap/koremap/generator"
	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/mesh"
)

func box(dimI, dimJ, dimK int) *mesh.Mesh {
	cfg := generator.DefaultConfig()
	cfg.DimI, cfg.DimJ, cfg.DimK = dimI, dimJ, dimK
	m, err := generator.Flat(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

func TestAnalyzeIdentity(t *testing.T) {
	ref := box(3, 2, 2)
	def := ref.Clone()

	rep, err := Analyze(ref, def)
	require.NoError(t, err)
	require.Equal(t, len(ref.Elements), len(rep.Elements))

	assert.InDelta(t, 1., rep.MinVolumeRatio, 1e-12)
	assert.InDelta(t, 1., rep.MaxVolumeRatio, 1e-12)
	assert.InDelta(t, 1., rep.AvgVolumeRatio, 1e-12)
	for _, es := range rep.Elements {
		for _, p := range es.Principal {
			assert.InDelta(t, 0., p, 1e-12)
		}
		assert.InDelta(t, 0., es.MaxShear, 1e-12)
	}
}

func TestAnalyzeUniaxialStretch(t *testing.T) {
	ref := box(3, 2, 2)
	def := ref.Clone()
	for _, n := range def.Nodes {
		n.SetMapped(geom.Vec{X: 2 * n.Position.X, Y: n.Position.Y, Z: n.Position.Z})
	}

	rep, err := Analyze(ref, def)
	require.NoError(t, err)

	for _, es := range rep.Elements {
		assert.InDelta(t, 2., es.VolumeRatio, 1e-9)
		assert.InDelta(t, 2., es.F.At(0, 0), 1e-9)
		assert.InDelta(t, 1., es.F.At(1, 1), 1e-9)
		// Green-Lagrange strain for a stretch of 2 is (4-1)/2
		assert.InDelta(t, 1.5, es.Principal[2], 1e-9)
		assert.InDelta(t, 0., es.Principal[0], 1e-9)
		assert.InDelta(t, 0.75, es.MaxShear, 1e-9)
	}
	assert.InDelta(t, 2., rep.AvgVolumeRatio, 1e-9)
}

func TestAnalyzeSimpleShear(t *testing.T) {
	ref := box(2, 2, 2)
	def := ref.Clone()
	const gamma = 0.3
	for _, n := range def.Nodes {
		n.SetMapped(geom.Vec{
			X: n.Position.X + gamma*n.Position.Y,
			Y: n.Position.Y,
			Z: n.Position.Z,
		})
	}

	rep, err := Analyze(ref, def)
	require.NoError(t, err)

	// Simple shear preserves volume
	for _, es := range rep.Elements {
		assert.InDelta(t, 1., es.VolumeRatio, 1e-9)
		assert.InDelta(t, gamma, es.F.At(0, 1), 1e-9)
		assert.True(t, es.MaxShear > 0)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	ref := box(2, 2, 2)

	_, err := Analyze(ref, nil)
	assert.Error(t, err)

	short := box(2, 2, 1)
	_, err = Analyze(ref, short)
	assert.Error(t, err)

	// Degenerate reference geometry is reported, not ignored
	flatRef := ref.Clone()
	for _, n := range flatRef.Nodes {
		n.Position.Z = 0
	}
	_, err = Analyze(flatRef, ref)
	assert.Error(t, err)
}
