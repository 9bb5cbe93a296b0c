package universe

import (
	"math"

	"starfield-server/internal/rng"
)

// buildMoons lays out the moon shells of a planet at strictly increasing
// distances from its surface. Generation stops early once the next shell
// would cross the type-dependent cap, so planets can end up with fewer
// moons than targeted.
//
// Runs identically during the preview and final system passes; the draws
// of a shell that breaks the cap are consumed either way, which keeps the
// two passes in lockstep.
func (g *generator) buildMoons(src *rng.Source, star *Star, planet *Planet, tp PlanetTypePreset) {
	target := src.Int(0, tp.MoonBias+2)
	if target > 6 {
		target = 6
	}

	maxReach := planet.Radius * tp.MoonCapFactor
	prevDist, prevRadius := 0.0, 0.0

	for m := 0; m < target; m++ {
		radius := planet.Radius * src.Float(0.1, 0.28)
		dist := planet.Radius * (0.9 + 1.1*float64(m)) * src.Float(0.95, 1.25)
		if min := prevDist + prevRadius + radius + g.presets.MoonSafetyMargin; dist < min {
			dist = min
		}
		if dist+radius > maxReach {
			break
		}

		phase := src.Float(0, 2*math.Pi)
		speed := src.Float(0.4, 1.6) / math.Sqrt(dist/planet.Radius)
		if src.Bool(0.5) {
			speed = -speed
		}

		planet.Moons = append(planet.Moons, &Moon{
			ID:           MoonID(star.ChunkX, star.ChunkY, star.Index, planet.Index, m),
			Index:        m,
			Radius:       radius,
			Distance:     dist,
			OrbitPhase:   phase,
			AngularSpeed: speed,
		})
		prevDist, prevRadius = dist, radius
	}
}
