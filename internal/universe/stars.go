package universe

import (
	"fmt"
	"math"

	"starfield-server/internal/rng"
)

// neighborQuery returns the stars of all currently cached chunks within
// the given Chebyshev radius of (ix, iy), excluding (ix, iy) itself.
type neighborQuery func(ix, iy, radius int) []*Star

// generator produces chunk content. It is stateless between chunks: all
// randomness comes from namespaced sub-seeds, so a chunk's content is a
// pure function of (seed, presets, settings, ix, iy). Only placement
// success additionally depends on which neighbors are cached.
type generator struct {
	settings  Settings
	presets   *Presets
	neighbors neighborQuery
}

func (g *generator) chunkSeed(ix, iy int) string {
	return fmt.Sprintf("%s|chunk:%d,%d", g.settings.Seed, ix, iy)
}

func (g *generator) systemSeed(ix, iy, star int) string {
	return fmt.Sprintf("%s|system:%d,%d:%d", g.settings.Seed, ix, iy, star)
}

// baseSpacing is the density-scaled isolation buffer shared by all stars.
// Lower densities push stars further apart; the floor keeps the divisor
// sane for near-zero densities.
func (g *generator) baseSpacing() float64 {
	return ChunkSize * g.presets.SpacingFactor / math.Sqrt(math.Max(0.2, g.settings.StarDensity))
}

func (g *generator) spectralChoices() []rng.Weighted[SpectralPreset] {
	choices := make([]rng.Weighted[SpectralPreset], len(g.presets.Spectral))
	for i, sp := range g.presets.Spectral {
		choices[i] = rng.Weighted[SpectralPreset]{Value: sp, Weight: sp.Weight}
	}
	return choices
}

// starSize derives the visual radius in world units from luminosity and
// the physical radius. Luminosity dominates so bright giants read as
// bright even at low zoom.
func starSize(luminosity, solarRadii float64) float64 {
	return 6*math.Pow(luminosity, 0.25) + 3*math.Sqrt(solarRadii)
}

// generateChunk builds the full content of one chunk: star candidates in
// index order, each with a preview pass, placement attempts and, on
// success, its final planetary system.
//
// Candidates that exhaust their placement attempts are dropped silently;
// their index is skipped, which is why star indices are dense except for
// placement failures.
func (g *generator) generateChunk(ix, iy int) *Chunk {
	src := rng.New(g.chunkSeed(ix, iy))
	chunk := &Chunk{IX: ix, IY: iy}

	base := g.presets.StarBasePerChunk * g.settings.StarDensity
	target := int(math.Floor(src.Float(0.8, 1.2) * base))

	for i := 0; i < target; i++ {
		star := g.rollStar(src, ix, iy, i)

		// Preview pass: run the system generation that the placed star
		// would get, from the exact sub-seed the real pass will use, and
		// keep only its outer edge. System layout is independent of the
		// star's absolute position, so the second run reproduces it.
		star.SystemExtent = g.buildSystem(rng.New(g.systemSeed(ix, iy, i)), star, true) + g.presets.ExtentBuffer

		if !g.place(src, chunk, star) {
			continue
		}

		g.buildSystem(rng.New(g.systemSeed(ix, iy, i)), star, false)
		chunk.Stars = append(chunk.Stars, star)
		chunk.Planets = append(chunk.Planets, star.Planets...)
	}

	return chunk
}

// rollStar draws the position-independent attributes of candidate i from
// the chunk stream.
func (g *generator) rollStar(src *rng.Source, ix, iy, i int) *Star {
	sp := rng.PickWeighted(src, g.spectralChoices())
	lum := src.Float(sp.Luminosity.Min, sp.Luminosity.Max)
	solar := src.Float(sp.SolarRadii.Min, sp.SolarRadii.Max)
	jitter := src.Float(0.85, 1.15)

	return &Star{
		ID:         StarID(ix, iy, i),
		ChunkX:     ix,
		ChunkY:     iy,
		Index:      i,
		Class:      sp.Class,
		Luminosity: lum,
		SolarRadii: solar,
		Size:       starSize(lum, solar),
		Spacing:    g.baseSpacing() * sp.Isolation * jitter,
	}
}

// place tries up to PlacementAttempts uniform samples inside the chunk
// cell and commits the first position whose envelope clears every star it
// is compared against. Returns false if the budget is exhausted.
func (g *generator) place(src *rng.Source, chunk *Chunk, star *Star) bool {
	minX := float64(chunk.IX) * ChunkSize
	minY := float64(chunk.IY) * ChunkSize

	envelope := star.SystemExtent + star.Spacing
	searchRadius := int(math.Ceil(envelope/ChunkSize)) + 1
	nearby := g.neighbors(chunk.IX, chunk.IY, searchRadius)

	for attempt := 0; attempt < g.presets.PlacementAttempts; attempt++ {
		pos := Vec2{
			X: src.Float(minX, minX+ChunkSize),
			Y: src.Float(minY, minY+ChunkSize),
		}
		if g.collides(pos, envelope, chunk.Stars) || g.collides(pos, envelope, nearby) {
			continue
		}
		star.Position = pos
		return true
	}
	return false
}

// collides reports whether the candidate envelope overlaps any existing
// star's envelope. Two stars are clear of each other when their distance
// is at least the sum of both (systemExtent + spacing) envelopes.
func (g *generator) collides(pos Vec2, envelope float64, stars []*Star) bool {
	for _, o := range stars {
		if pos.DistanceTo(o.Position) < envelope+o.SystemExtent+o.Spacing {
			return true
		}
	}
	return false
}
