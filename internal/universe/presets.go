package universe

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Range is an inclusive-exclusive sampling interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SpectralPreset holds the per-class generation parameters. The table is
// sampled by cumulative weight, so entry order is part of the contract.
type SpectralPreset struct {
	Class      SpectralClass `yaml:"class"`
	Weight     float64       `yaml:"weight"`
	Isolation  float64       `yaml:"isolation"`
	PlanetMean float64       `yaml:"planet_mean"`
	Luminosity Range         `yaml:"luminosity"`
	SolarRadii Range         `yaml:"solar_radii"`
}

// PlanetTypePreset holds the per-type physical attribute ranges.
type PlanetTypePreset struct {
	Radius        Range    `yaml:"radius"`
	Mass          Range    `yaml:"mass"`
	Gravity       Range    `yaml:"gravity"`
	DayLength     Range    `yaml:"day_length"`
	RingChance    float64  `yaml:"ring_chance"`
	MoonBias      int      `yaml:"moon_bias"`
	MoonCapFactor float64  `yaml:"moon_cap_factor"`
	Atmospheres   []string `yaml:"atmospheres"`
}

// Presets are the generation tuning tables. They are part of the
// deterministic input: same presets + same settings + same coordinates
// give the same chunk.
type Presets struct {
	StarBasePerChunk  float64 `yaml:"star_base_per_chunk"`
	PlacementAttempts int     `yaml:"placement_attempts"`
	SpacingFactor     float64 `yaml:"spacing_factor"`
	ExtentBuffer      float64 `yaml:"extent_buffer"`
	OrbitSafetyMargin float64 `yaml:"orbit_safety_margin"`
	MoonSafetyMargin  float64 `yaml:"moon_safety_margin"`
	AUWorldUnits      float64 `yaml:"au_world_units"`

	Spectral    []SpectralPreset                `yaml:"spectral"`
	PlanetTypes map[PlanetType]PlanetTypePreset `yaml:"planet_types"`
}

// DefaultPresets parses the embedded tables. The embedded document is
// validated at build time by the test suite, so a parse failure here is a
// broken binary and panics.
func DefaultPresets() *Presets {
	p, err := parsePresets(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded generation presets are invalid: %v", err))
	}
	return p
}

// LoadPresets reads a preset override file, starting from the embedded
// defaults so partial files are allowed.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	p, err := parsePresets(defaultsYAML)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid presets in %s: %w", path, err)
	}
	return p, nil
}

func parsePresets(data []byte) (*Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Presets) validate() error {
	if len(p.Spectral) != 7 {
		return fmt.Errorf("spectral table must have 7 entries, got %d", len(p.Spectral))
	}
	total := 0.0
	for _, sp := range p.Spectral {
		if sp.Weight <= 0 {
			return fmt.Errorf("spectral class %s has non-positive weight", sp.Class)
		}
		total += sp.Weight
	}
	if total < 0.999 || total > 1.001 {
		return fmt.Errorf("spectral weights must sum to 1, got %v", total)
	}
	for _, pt := range []PlanetType{PlanetTypeRock, PlanetTypeOcean, PlanetTypeIce, PlanetTypeGasGiant} {
		tp, ok := p.PlanetTypes[pt]
		if !ok {
			return fmt.Errorf("missing planet type preset %q", pt)
		}
		if len(tp.Atmospheres) == 0 {
			return fmt.Errorf("planet type %q has no atmospheres", pt)
		}
	}
	if p.PlacementAttempts <= 0 {
		return fmt.Errorf("placement_attempts must be positive")
	}
	return nil
}

// spectral returns the preset for a class. Classes come from the table
// itself, so a miss is a programming error.
func (p *Presets) spectral(c SpectralClass) SpectralPreset {
	for _, sp := range p.Spectral {
		if sp.Class == c {
			return sp
		}
	}
	panic(fmt.Sprintf("unknown spectral class %q", c))
}
