package universe

import (
	"math"

	"starfield-server/internal/rng"
)

// buildSystem generates the planetary system for a star and returns the
// outer edge of the furthest orbit (before the extent buffer).
//
// The same function serves the preview pass and the final pass: it draws
// the exact same sequence from src either way, and only the preview flag
// decides whether the planets are kept. Nothing here may read the star's
// absolute position except the orbit center, which is attached last.
func (g *generator) buildSystem(src *rng.Source, star *Star, preview bool) float64 {
	sp := g.presets.spectral(star.Class)

	mean := sp.PlanetMean * g.settings.PlanetDensity
	count := int(math.Round(mean + src.Float(-0.8, 0.8)*math.Sqrt(mean+1)))
	if count < 0 {
		count = 0
	}
	if count > 12 {
		count = 12
	}

	a0 := star.Size*3 + src.Float(40, 80)
	ratio := src.Float(1.35, 1.75)

	extent := star.Size * 4
	prevOrbit, prevRadius := 0.0, 0.0
	var planets []*Planet

	for p := 0; p < count; p++ {
		jitter := src.Float(0.9, 1.1)
		orbit := a0 * math.Pow(ratio, float64(p)) * jitter

		// All rolls feeding the type decision are drawn up front so the
		// decision can be re-evaluated at a corrected orbit without
		// disturbing the draw order.
		typeRoll := src.Next()
		splitRoll := src.Next()
		radiusRoll := src.Next()

		ptype := g.decideType(orbit, star.Luminosity, typeRoll, splitRoll)
		tp := g.presets.PlanetTypes[ptype]
		radius := lerp(tp.Radius, radiusRoll)

		// Enforce minimum orbital separation. A pushed orbit crosses a
		// different part of the temperature curve, so the type decision
		// is redone at the corrected distance; borderline planets may
		// legitimately change type here.
		minOrbit := prevOrbit + prevRadius + radius + g.presets.OrbitSafetyMargin
		if orbit < minOrbit {
			orbit = minOrbit
			ptype = g.decideType(orbit, star.Luminosity, typeRoll, splitRoll)
			tp = g.presets.PlanetTypes[ptype]
			radius = lerp(tp.Radius, radiusRoll)
			if again := prevOrbit + prevRadius + radius + g.presets.OrbitSafetyMargin; orbit < again {
				orbit = again
			}
		}

		planet := &Planet{
			ID:          PlanetID(star.ChunkX, star.ChunkY, star.Index, p),
			StarID:      star.ID,
			Index:       p,
			Type:        ptype,
			Radius:      radius,
			OrbitRadius: orbit,
		}

		planet.Mass = src.Float(tp.Mass.Min, tp.Mass.Max)
		planet.Gravity = src.Float(tp.Gravity.Min, tp.Gravity.Max)
		planet.Temperature = g.equilibriumTemp(orbit, star.Luminosity) * src.Float(0.92, 1.08)
		planet.DayLength = src.Float(tp.DayLength.Min, tp.DayLength.Max)
		planet.AxialTilt = src.Float(0, 35)
		planet.Atmosphere = rng.Pick(src, tp.Atmospheres)
		planet.HasRings = src.Bool(tp.RingChance)
		planet.OrbitPhase = src.Float(0, 2*math.Pi)
		planet.AngularSpeed = src.Float(0.7, 1.3) * 40 / math.Pow(orbit, 0.8)

		g.buildMoons(src, star, planet, tp)

		planets = append(planets, planet)
		prevOrbit, prevRadius = orbit, radius
		extent = orbit + radius
	}

	if !preview {
		for _, p := range planets {
			p.OrbitCenter = star.Position
		}
		star.Planets = planets
	}
	return extent
}

// decideType picks the planet type for an orbit. The snow line splits the
// system: inside it, equilibrium temperature plus a coin choose ocean vs
// rock; outside, a tanh bias that grows with distance past the line
// favors gas giants, with ice and rock behind them.
//
// The function is pure in (orbit, luminosity, rolls); callers reuse the
// same rolls when re-deciding after an orbit push.
func (g *generator) decideType(orbit, luminosity, typeRoll, splitRoll float64) PlanetType {
	au := orbit / g.presets.AUWorldUnits
	snowAU := 2.7 * math.Sqrt(luminosity)

	if au < snowAU {
		temp := 278 * math.Pow(luminosity, 0.25) / math.Sqrt(au)
		if temp > 180 && temp < 330 && splitRoll < 0.45 {
			return PlanetTypeOcean
		}
		return PlanetTypeRock
	}

	bias := math.Tanh((au - snowAU) / (snowAU + 1))
	if typeRoll < 0.3+0.45*bias {
		return PlanetTypeGasGiant
	}
	if splitRoll < 0.5+0.3*bias {
		return PlanetTypeIce
	}
	return PlanetTypeRock
}

// equilibriumTemp is the blackbody temperature in kelvin at an orbit.
func (g *generator) equilibriumTemp(orbit, luminosity float64) float64 {
	au := orbit / g.presets.AUWorldUnits
	if au <= 0 {
		au = 1e-6
	}
	return 278 * math.Pow(luminosity, 0.25) / math.Sqrt(au)
}

func lerp(r Range, t float64) float64 {
	return r.Min + t*(r.Max-r.Min)
}
