package universe

import (
	"fmt"
	"math"
	"time"
)

// ChunkSize is the edge length of one chunk cell in world units. It is a
// fixed constant of the world grid: entity ids embed chunk coordinates, so
// changing it invalidates every deep link ever handed out.
const ChunkSize = 2000.0

// ChunkCoord maps a world coordinate to its chunk index.
func ChunkCoord(w float64) int {
	return int(math.Floor(w / ChunkSize))
}

// Vec2 is a point in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) DistanceTo(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Settings are the sole generation inputs besides chunk coordinates.
// Identical settings produce identical chunk content.
type Settings struct {
	Seed          string  `json:"seed"`
	StarDensity   float64 `json:"star_density"`
	PlanetDensity float64 `json:"planet_density"`
}

// Clamp bounds the density knobs. Clamping happens at the settings
// boundary, never inside the generator, so every (seed, ix, iy)
// combination generates without panicking.
func (s Settings) Clamp() Settings {
	s.StarDensity = clamp(s.StarDensity, 0, 10)
	s.PlanetDensity = clamp(s.PlanetDensity, 0, 10)
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// SpectralClass is the Morgan-Keenan letter code of a star.
type SpectralClass string

const (
	ClassO SpectralClass = "O"
	ClassB SpectralClass = "B"
	ClassA SpectralClass = "A"
	ClassF SpectralClass = "F"
	ClassG SpectralClass = "G"
	ClassK SpectralClass = "K"
	ClassM SpectralClass = "M"
)

type PlanetType string

const (
	PlanetTypeRock     PlanetType = "rock"
	PlanetTypeOcean    PlanetType = "ocean"
	PlanetTypeIce      PlanetType = "ice"
	PlanetTypeGasGiant PlanetType = "gas_giant"
)

// Chunk is the unit of lazy generation. It is immutable once built.
type Chunk struct {
	IX    int     `json:"ix"`
	IY    int     `json:"iy"`
	Stars []*Star `json:"stars"`

	// Planets is the flattened list across all stars, rebuilt after
	// deserialization rather than encoded twice.
	Planets []*Planet `json:"-"`
}

// reindex rebuilds the flattened planet list from the per-star lists.
func (c *Chunk) reindex() {
	c.Planets = c.Planets[:0]
	for _, s := range c.Stars {
		c.Planets = append(c.Planets, s.Planets...)
	}
}

// Star is a placed star together with its fully generated planetary
// system. SystemExtent and Spacing exist only for placement math; the
// renderer reads Position, Size and Class.
type Star struct {
	ID     string `json:"id"`
	ChunkX int    `json:"chunk_x"`
	ChunkY int    `json:"chunk_y"`
	Index  int    `json:"index"`

	Position   Vec2          `json:"position"`
	Size       float64       `json:"size"`
	Class      SpectralClass `json:"class"`
	Luminosity float64       `json:"luminosity"`
	SolarRadii float64       `json:"solar_radii"`

	SystemExtent float64 `json:"system_extent"`
	Spacing      float64 `json:"spacing"`

	Planets []*Planet `json:"planets"`
}

// Planet is an immutable generated layout record. Its world position is
// never stored; callers derive it from the orbit at any animation time.
type Planet struct {
	ID     string     `json:"id"`
	StarID string     `json:"star_id"`
	Index  int        `json:"index"`
	Type   PlanetType `json:"type"`

	Radius      float64 `json:"radius"`
	Mass        float64 `json:"mass"`
	Gravity     float64 `json:"gravity"`
	Temperature float64 `json:"temperature"`
	DayLength   float64 `json:"day_length"`
	AxialTilt   float64 `json:"axial_tilt"`
	Atmosphere  string  `json:"atmosphere"`
	HasRings    bool    `json:"has_rings"`

	OrbitCenter  Vec2    `json:"orbit_center"`
	OrbitRadius  float64 `json:"orbit_radius"`
	OrbitPhase   float64 `json:"orbit_phase"`
	AngularSpeed float64 `json:"angular_speed"`

	Moons []*Moon `json:"moons"`
}

// PositionAt returns the planet's world position at animation time t
// (seconds). Pure function of the layout; nothing is mutated.
func (p *Planet) PositionAt(t float64) Vec2 {
	a := p.OrbitPhase + p.AngularSpeed*t
	return Vec2{
		X: p.OrbitCenter.X + p.OrbitRadius*math.Cos(a),
		Y: p.OrbitCenter.Y + p.OrbitRadius*math.Sin(a),
	}
}

// Moon orbits a planet. Distance is measured from the planet surface.
type Moon struct {
	ID    string `json:"id"`
	Index int    `json:"index"`

	Radius       float64 `json:"radius"`
	Distance     float64 `json:"distance"`
	OrbitPhase   float64 `json:"orbit_phase"`
	AngularSpeed float64 `json:"angular_speed"`
}

// PositionAt returns the moon's world position at animation time t given
// its planet's current position and radius.
func (m *Moon) PositionAt(planetPos Vec2, planetRadius, t float64) Vec2 {
	a := m.OrbitPhase + m.AngularSpeed*t
	r := planetRadius + m.Distance
	return Vec2{
		X: planetPos.X + r*math.Cos(a),
		Y: planetPos.Y + r*math.Sin(a),
	}
}

// Stable entity ids consumed by the deep-linking scheme. They survive for
// the lifetime of a seed.

func StarID(ix, iy, star int) string {
	return fmt.Sprintf("s:%d,%d:%d", ix, iy, star)
}

func PlanetID(ix, iy, star, planet int) string {
	return fmt.Sprintf("p:%d,%d:%d:%d", ix, iy, star, planet)
}

func MoonID(ix, iy, star, planet, moon int) string {
	return fmt.Sprintf("m:%d,%d:%d:%d:%d", ix, iy, star, planet, moon)
}

// Universe is a registry row: a named seed plus density knobs. Chunks are
// generated on demand and never persisted; only this record is stored.
type Universe struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Seed          string    `json:"seed"`
	StarDensity   float64   `json:"star_density"`
	PlanetDensity float64   `json:"planet_density"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Settings derives the clamped generation settings for this universe.
func (u *Universe) Settings() Settings {
	return Settings{
		Seed:          u.Seed,
		StarDensity:   u.StarDensity,
		PlanetDensity: u.PlanetDensity,
	}.Clamp()
}
