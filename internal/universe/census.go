package universe

import (
	"gonum.org/v1/gonum/stat"
)

// Census summarizes the generated content of the (2×radius+1)² chunk
// block centered on the origin. It exists for diagnostics and balancing:
// tuning the presets against the mean/spread reported here is how the
// density knobs were calibrated.
type Census struct {
	ChunkRadius int `json:"chunk_radius"`
	ChunkCount  int `json:"chunk_count"`
	StarCount   int `json:"star_count"`
	PlanetCount int `json:"planet_count"`
	MoonCount   int `json:"moon_count"`

	StarsPerChunkMean    float64 `json:"stars_per_chunk_mean"`
	StarsPerChunkStdDev  float64 `json:"stars_per_chunk_std_dev"`
	PlanetsPerStarMean   float64 `json:"planets_per_star_mean"`
	PlanetsPerStarStdDev float64 `json:"planets_per_star_std_dev"`

	SpectralCounts map[SpectralClass]int `json:"spectral_counts"`
	TypeCounts     map[PlanetType]int    `json:"type_counts"`
}

// Census generates (or reads back) every chunk in the block and computes
// the summary. Radius is clamped to keep a single request from generating
// an unbounded area.
func (m *Manager) Census(radius int) *Census {
	if radius < 0 {
		radius = 0
	}
	if radius > 8 {
		radius = 8
	}

	c := &Census{
		ChunkRadius:    radius,
		SpectralCounts: make(map[SpectralClass]int),
		TypeCounts:     make(map[PlanetType]int),
	}

	var starsPerChunk, planetsPerStar []float64
	for iy := -radius; iy <= radius; iy++ {
		for ix := -radius; ix <= radius; ix++ {
			chunk := m.GetChunk(ix, iy)
			c.ChunkCount++
			c.StarCount += len(chunk.Stars)
			starsPerChunk = append(starsPerChunk, float64(len(chunk.Stars)))

			for _, s := range chunk.Stars {
				c.SpectralCounts[s.Class]++
				planetsPerStar = append(planetsPerStar, float64(len(s.Planets)))
				for _, p := range s.Planets {
					c.PlanetCount++
					c.MoonCount += len(p.Moons)
					c.TypeCounts[p.Type]++
				}
			}
		}
	}

	c.StarsPerChunkMean = stat.Mean(starsPerChunk, nil)
	c.StarsPerChunkStdDev = stat.StdDev(starsPerChunk, nil)
	if len(planetsPerStar) > 0 {
		c.PlanetsPerStarMean = stat.Mean(planetsPerStar, nil)
		c.PlanetsPerStarStdDev = stat.StdDev(planetsPerStar, nil)
	}
	return c
}

// CatalogRow is one star in the CSV catalog export.
type CatalogRow struct {
	ID           string  `csv:"id"`
	Class        string  `csv:"class"`
	X            float64 `csv:"x"`
	Y            float64 `csv:"y"`
	Size         float64 `csv:"size"`
	Luminosity   float64 `csv:"luminosity"`
	SystemExtent float64 `csv:"system_extent"`
	PlanetCount  int     `csv:"planet_count"`
	MoonCount    int     `csv:"moon_count"`
}

// Catalog collects every star of the chunk block around the origin as
// flat rows for CSV export.
func (m *Manager) Catalog(radius int) []CatalogRow {
	if radius < 0 {
		radius = 0
	}
	if radius > 8 {
		radius = 8
	}

	var rows []CatalogRow
	for iy := -radius; iy <= radius; iy++ {
		for ix := -radius; ix <= radius; ix++ {
			for _, s := range m.GetChunk(ix, iy).Stars {
				moons := 0
				for _, p := range s.Planets {
					moons += len(p.Moons)
				}
				rows = append(rows, CatalogRow{
					ID:           s.ID,
					Class:        string(s.Class),
					X:            s.Position.X,
					Y:            s.Position.Y,
					Size:         s.Size,
					Luminosity:   s.Luminosity,
					SystemExtent: s.SystemExtent,
					PlanetCount:  len(s.Planets),
					MoonCount:    moons,
				})
			}
		}
	}
	return rows
}
