package generator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DimI, cfg.DimJ, cfg.DimK = 4, 3, 2
	cfg.LengthI, cfg.LengthJ, cfg.LengthK = 40, 15, 10

	m, err := Flat(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, (4+1)*(3+1)*(2+1), len(m.Nodes))
	assert.Equal(t, 4*3*2, len(m.Elements))

	min, max := m.BoundingBox()
	assert.InDelta(t, 0., min.X, 1e-12)
	assert.InDelta(t, 40., max.X, 1e-12)
	// The cross section is centered on the centerline
	assert.InDelta(t, -7.5, min.Y, 1e-12)
	assert.InDelta(t, 7.5, max.Y, 1e-12)
	assert.InDelta(t, -5., min.Z, 1e-12)
	assert.InDelta(t, 5., max.Z, 1e-12)
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DimI = 0
	_, err := Flat(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.LengthJ = -1
	_, err = Flat(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Shape = "pretzel"
	_, err = Bent(cfg)
	assert.Error(t, err)
}

func TestConfigYAML(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Parse([]byte("DimI: 7\nShape: arc\nArcAngle: 45\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DimI)
	assert.Equal(t, "arc", cfg.Shape)
	assert.Equal(t, 45., cfg.ArcAngleDeg)
	// Untouched fields keep their defaults
	assert.Equal(t, 5, cfg.DimJ)
}

func TestBentShapes(t *testing.T) {
	for _, shape := range []string{"arc", "scurve", "helix", "wave", "twist", "bulge", "taper", "teardrop"} {
		cfg := DefaultConfig()
		cfg.Shape = shape
		m, err := Bent(cfg)
		require.NoError(t, err, shape)
		require.NoError(t, m.Validate(), shape)
		assert.Equal(t, cfg.DimI*cfg.DimJ*cfg.DimK, len(m.Elements), shape)
	}
}

func TestArcEndpoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shape = "arc"
	cfg.ArcAngleDeg = 90
	cfg.ArcRadius = 50
	m, err := Bent(cfg)
	require.NoError(t, err)

	// A 90 degree arc of radius 50 ends at (50, 50) on the centerline; the
	// mesh bounding box must bracket it.
	_, max := m.BoundingBox()
	assert.True(t, max.X >= 50-cfg.LengthJ)
	assert.True(t, max.Y >= 50-cfg.LengthJ)
}

func TestRefinedAndTets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DimI, cfg.DimJ, cfg.DimK = 2, 2, 2

	fine, err := Refined(cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, 6*6*6, len(fine.Elements))

	_, err = Refined(cfg, 0)
	assert.Error(t, err)

	tets, err := TetMesh(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5*8, len(tets.Elements))
	for _, e := range tets.Elements {
		assert.Equal(t, e.NodeIDs[4], e.NodeIDs[7])
	}
}

func TestVarDensity(t *testing.T) {
	cfg := DefaultVarDensityConfig()
	m, err := VarDensity(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	dimI := cfg.DimI()
	assert.Equal(t, 30, dimI)
	assert.Equal(t, (dimI+1)*(cfg.DimJ+1)*(cfg.DimK+1), len(m.Nodes))

	// Total length is the sum of the zone lengths
	min, max := m.BoundingBox()
	total := 0.0
	for _, z := range cfg.Zones {
		total += z.Length
	}
	assert.InDelta(t, total, max.X-min.X, 1e-9)
}

func TestZoneSpacings(t *testing.T) {
	sum := func(xs []float64) (s float64) {
		for _, x := range xs {
			s += x
		}
		return
	}

	{ // Uniform
		s := zoneSpacings(Zone{Elements: 4, Length: 10})
		require.Len(t, s, 4)
		for _, v := range s {
			assert.InDelta(t, 2.5, v, 1e-12)
		}
	}
	{ // Geometric spacing halves across the zone and still sums to length
		s := zoneSpacings(Zone{Elements: 5, Length: 10, Growth: "geometric", Ratio: 0.5})
		assert.InDelta(t, 10., sum(s), 1e-9)
		assert.InDelta(t, 0.5, s[4]/s[0], 1e-9)
		for i := 1; i < len(s); i++ {
			assert.True(t, s[i] < s[i-1])
		}
	}
	{ // Linear spacing doubles across the zone
		s := zoneSpacings(Zone{Elements: 6, Length: 12, Growth: "linear", Ratio: 2})
		assert.InDelta(t, 12., sum(s), 1e-9)
		assert.InDelta(t, 2., s[5]/s[0], 1e-9)
	}
}

func TestVarDensityValidation(t *testing.T) {
	cfg := DefaultVarDensityConfig()
	cfg.Zones = nil
	_, err := VarDensity(cfg)
	assert.Error(t, err)

	cfg = DefaultVarDensityConfig()
	cfg.Zones[1].Growth = "quadratic"
	_, err = VarDensity(cfg)
	assert.Error(t, err)

	cfg = DefaultVarDensityConfig()
	cfg.Zones[0].Elements = 0
	_, err = VarDensity(cfg)
	assert.Error(t, err)
}

func TestTwistKeepsCenterline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shape = "twist"
	cfg.TwistDeg = 90
	m, err := Bent(cfg)
	require.NoError(t, err)

	// Twisting is a pure rotation of the cross section, so every node keeps
	// its distance to the x axis.
	maxR := 0.0
	for _, n := range m.Nodes {
		r := math.Hypot(n.Position.Y, n.Position.Z)
		if r > maxR {
			maxR = r
		}
	}
	half := math.Hypot(cfg.LengthJ/2, cfg.LengthK/2)
	assert.InDelta(t, half, maxR, 1e-9)
}
