package generator

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Config describes an example mesh to generate. Parameters not used by the
// selected shape are ignored.
type Config struct {
	// Grid dimensions in elements.
	DimI int `json:"DimI"`
	DimJ int `json:"DimJ"`
	DimK int `json:"DimK"`

	// Physical extents of the undeformed part.
	LengthI float64 `json:"LengthI"`
	LengthJ float64 `json:"LengthJ"`
	LengthK float64 `json:"LengthK"`

	// Shape selects the centerline: flat, arc, scurve, helix, twist, wave,
	// bulge, taper, teardrop.
	Shape string `json:"Shape"`

	ArcAngleDeg  float64 `json:"ArcAngle"`
	ArcRadius    float64 `json:"ArcRadius"`
	SCurveAmp    float64 `json:"SCurveAmplitude"`
	SCurveFreq   float64 `json:"SCurveFrequency"`
	HelixPitch   float64 `json:"HelixPitch"`
	HelixRadius  float64 `json:"HelixRadius"`
	TwistDeg     float64 `json:"TwistAngle"`
	WaveAmp      float64 `json:"WaveAmplitude"`
	WaveFreq     float64 `json:"WaveFrequency"`
	BulgePos     float64 `json:"BulgePosition"`
	BulgeWidth   float64 `json:"BulgeWidth"`
	BulgeFactor  float64 `json:"BulgeFactor"`
	TaperRatio   float64 `json:"TaperRatio"`
	TeardropRad  float64 `json:"TeardropRadius"`
	TeardropFlat float64 `json:"TeardropFlatRatio"`

	PartID         int `json:"PartID"`
	StartNodeID    int `json:"StartNodeID"`
	StartElementID int `json:"StartElementID"`
}

// DefaultConfig returns a 10x5x5 flat bar of 100x20x20.
func DefaultConfig() Config {
	return Config{
		DimI: 10, DimJ: 5, DimK: 5,
		LengthI: 100, LengthJ: 20, LengthK: 20,
		Shape:       "flat",
		ArcAngleDeg: 90, ArcRadius: 50,
		SCurveAmp: 30, SCurveFreq: 1,
		HelixPitch: 20, HelixRadius: 20,
		TwistDeg: 90,
		WaveAmp:  10, WaveFreq: 2,
		BulgePos: 0.5, BulgeWidth: 0.3, BulgeFactor: 1.5,
		TaperRatio:  0.5,
		TeardropRad: 30, TeardropFlat: 0.4,
		PartID: 1, StartNodeID: 1, StartElementID: 1,
	}
}

// Parse overlays YAML data onto the config.
func (c *Config) Parse(data []byte) error {
	return yaml.Unmarshal(data, c)
}

// Validate checks that the grid and extents are usable.
func (c *Config) Validate() error {
	if c.DimI < 1 || c.DimJ < 1 || c.DimK < 1 {
		return fmt.Errorf("grid dimensions must be at least 1, got %dx%dx%d", c.DimI, c.DimJ, c.DimK)
	}
	if c.LengthI <= 0 || c.LengthJ <= 0 || c.LengthK <= 0 {
		return fmt.Errorf("physical lengths must be positive")
	}
	return nil
}

func (c *Config) Print() {
	fmt.Printf("[%s]\t\t= Shape\n", c.Shape)
	fmt.Printf("%d x %d x %d\t= Elements\n", c.DimI, c.DimJ, c.DimK)
	fmt.Printf("%.4g x %.4g x %.4g\t= Extents\n", c.LengthI, c.LengthJ, c.LengthK)
}
