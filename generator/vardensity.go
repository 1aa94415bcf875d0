package generator

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"

	"github.com/koremap/koremap/mesh"
)

// Zone is one segment of a variable-density bar along the i axis.
type Zone struct {
	// Elements in this zone.
	Elements int `json:"Elements"`
	// Physical length of the zone.
	Length float64 `json:"Length"`
	// Growth selects the spacing law: uniform, linear or geometric.
	Growth string `json:"Growth"`
	// Ratio of last to first element size within the zone. Ignored for
	// uniform growth.
	Ratio float64 `json:"Ratio"`
}

// VarDensityConfig describes a flat bar whose element size varies along i,
// built from consecutive zones. The j and k axes stay uniform.
type VarDensityConfig struct {
	Zones []Zone `json:"Zones"`

	DimJ    int     `json:"DimJ"`
	DimK    int     `json:"DimK"`
	LengthJ float64 `json:"LengthJ"`
	LengthK float64 `json:"LengthK"`

	PartID         int `json:"PartID"`
	StartNodeID    int `json:"StartNodeID"`
	StartElementID int `json:"StartElementID"`
}

// DefaultVarDensityConfig returns a five-zone bar that refines toward the
// middle, the usual layout for a part with a localized bend.
func DefaultVarDensityConfig() VarDensityConfig {
	return VarDensityConfig{
		Zones: []Zone{
			{Elements: 4, Length: 30, Growth: "uniform"},
			{Elements: 6, Length: 15, Growth: "geometric", Ratio: 0.5},
			{Elements: 10, Length: 10, Growth: "uniform"},
			{Elements: 6, Length: 15, Growth: "geometric", Ratio: 2},
			{Elements: 4, Length: 30, Growth: "uniform"},
		},
		DimJ: 5, DimK: 5,
		LengthJ: 20, LengthK: 20,
		PartID: 1, StartNodeID: 1, StartElementID: 1,
	}
}

// Parse overlays YAML data onto the config.
func (c *VarDensityConfig) Parse(data []byte) error {
	return yaml.Unmarshal(data, c)
}

// Validate checks the zones and cross-section parameters.
func (c *VarDensityConfig) Validate() error {
	if len(c.Zones) == 0 {
		return fmt.Errorf("at least one zone is required")
	}
	for i, z := range c.Zones {
		if z.Elements < 1 {
			return fmt.Errorf("zone %d: element count must be at least 1, got %d", i, z.Elements)
		}
		if z.Length <= 0 {
			return fmt.Errorf("zone %d: length must be positive, got %g", i, z.Length)
		}
		switch z.Growth {
		case "", "uniform":
		case "linear", "geometric":
			if z.Ratio <= 0 {
				return fmt.Errorf("zone %d: %s growth needs a positive ratio, got %g", i, z.Growth, z.Ratio)
			}
		default:
			return fmt.Errorf("zone %d: unknown growth %q", i, z.Growth)
		}
	}
	if c.DimJ < 1 || c.DimK < 1 {
		return fmt.Errorf("cross-section dimensions must be at least 1, got %dx%d", c.DimJ, c.DimK)
	}
	if c.LengthJ <= 0 || c.LengthK <= 0 {
		return fmt.Errorf("cross-section lengths must be positive")
	}
	return nil
}

// DimI returns the total element count along i.
func (c *VarDensityConfig) DimI() int {
	n := 0
	for _, z := range c.Zones {
		n += z.Elements
	}
	return n
}

// VarDensity generates the flat bar described by cfg. Node ordering matches
// Flat: k then j then i, with i innermost.
func VarDensity(cfg VarDensityConfig) (*mesh.Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	xs := []float64{0}
	for _, z := range cfg.Zones {
		base := xs[len(xs)-1]
		for _, s := range zoneSpacings(z) {
			xs = append(xs, xs[len(xs)-1]+s)
		}
		// Snap the zone end so rounding in the spacing law cannot drift
		// the total length.
		xs[len(xs)-1] = base + z.Length
	}

	dimI := cfg.DimI()
	m := mesh.NewMesh()
	m.Name = "vardensity"

	nodesPerRow := dimI + 1
	nodesPerSlice := nodesPerRow * (cfg.DimJ + 1)

	nodeID := cfg.StartNodeID
	for k := 0; k <= cfg.DimK; k++ {
		z := (float64(k)/float64(cfg.DimK) - 0.5) * cfg.LengthK
		for j := 0; j <= cfg.DimJ; j++ {
			y := (float64(j)/float64(cfg.DimJ) - 0.5) * cfg.LengthJ
			for i := 0; i <= dimI; i++ {
				m.AddNode(nodeID, xs[i], y, z)
				nodeID++
			}
		}
	}

	elemID := cfg.StartElementID
	for k := 0; k < cfg.DimK; k++ {
		for j := 0; j < cfg.DimJ; j++ {
			for i := 0; i < dimI; i++ {
				base := cfg.StartNodeID + i + j*nodesPerRow + k*nodesPerSlice
				m.AddElement(elemID, cfg.PartID, [mesh.NumNodes]int{
					base,
					base + 1,
					base + 1 + nodesPerRow,
					base + nodesPerRow,
					base + nodesPerSlice,
					base + 1 + nodesPerSlice,
					base + 1 + nodesPerRow + nodesPerSlice,
					base + nodesPerRow + nodesPerSlice,
				})
				elemID++
			}
		}
	}

	m.AddPart(cfg.PartID, m.Name)
	return m, nil
}

// zoneSpacings returns the n element sizes of a zone, summing to its length.
func zoneSpacings(z Zone) []float64 {
	n := z.Elements
	out := make([]float64, n)

	switch z.Growth {
	case "", "uniform":
		for i := range out {
			out[i] = z.Length / float64(n)
		}
	case "linear":
		// Sizes grow linearly from s0 to s0*Ratio across the zone.
		if n == 1 {
			out[0] = z.Length
			break
		}
		s0 := 2 * z.Length / (float64(n) * (1 + z.Ratio))
		for i := range out {
			f := float64(i) / float64(n-1)
			out[i] = s0 * (1 + (z.Ratio-1)*f)
		}
	case "geometric":
		if z.Ratio == 1 || n == 1 {
			for i := range out {
				out[i] = z.Length / float64(n)
			}
			break
		}
		// Per-element growth factor r with r^(n-1) = Ratio.
		r := math.Pow(z.Ratio, 1/float64(n-1))
		s0 := z.Length * (1 - r) / (1 - math.Pow(r, float64(n)))
		s := s0
		for i := range out {
			out[i] = s
			s *= r
		}
	}
	return out
}
