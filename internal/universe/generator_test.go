package universe

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(seed string) *Manager {
	settings := Settings{Seed: seed, StarDensity: 1, PlanetDensity: 1}
	return NewManager(settings, DefaultPresets(), 0, nil, testLogger())
}

func TestChunkDeterminism(t *testing.T) {
	a := newTestManager("orion-7").GetChunk(3, -2)
	b := newTestManager("orion-7").GetChunk(3, -2)

	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed and coordinates produced different chunks")
	}
}

func TestChunkSeedSensitivity(t *testing.T) {
	a := newTestManager("orion-7").GetChunk(0, 0)
	b := newTestManager("orion-8").GetChunk(0, 0)

	if reflect.DeepEqual(a, b) {
		t.Fatal("different seeds produced identical chunks")
	}
}

func TestStarCountBound(t *testing.T) {
	m := newTestManager("count-bound")
	presets := DefaultPresets()

	// target = floor(jitter * base * density) with jitter < 1.2
	max := int(1.2 * presets.StarBasePerChunk * 1.0)
	for iy := -3; iy <= 3; iy++ {
		for ix := -3; ix <= 3; ix++ {
			chunk := m.GetChunk(ix, iy)
			if len(chunk.Stars) > max {
				t.Errorf("chunk %d,%d has %d stars, want at most %d", ix, iy, len(chunk.Stars), max)
			}
		}
	}
}

func TestZeroDensityYieldsEmptyChunks(t *testing.T) {
	settings := Settings{Seed: "void", StarDensity: 0, PlanetDensity: 1}
	m := NewManager(settings, DefaultPresets(), 0, nil, testLogger())

	for ix := -2; ix <= 2; ix++ {
		if chunk := m.GetChunk(ix, 0); len(chunk.Stars) != 0 {
			t.Errorf("chunk %d,0 has %d stars at zero density", ix, len(chunk.Stars))
		}
	}
}

func TestStarsStayInsideChunkCell(t *testing.T) {
	m := newTestManager("cell-bounds")
	for iy := -2; iy <= 2; iy++ {
		for ix := -2; ix <= 2; ix++ {
			for _, s := range m.GetChunk(ix, iy).Stars {
				if ChunkCoord(s.Position.X) != ix || ChunkCoord(s.Position.Y) != iy {
					t.Errorf("star %s at (%v, %v) lies outside chunk %d,%d",
						s.ID, s.Position.X, s.Position.Y, ix, iy)
				}
			}
		}
	}
}

func TestEnvelopesDoNotOverlapWithinChunk(t *testing.T) {
	m := newTestManager("overlap-check")
	for iy := -3; iy <= 3; iy++ {
		for ix := -3; ix <= 3; ix++ {
			stars := m.GetChunk(ix, iy).Stars
			for i := 0; i < len(stars); i++ {
				for j := i + 1; j < len(stars); j++ {
					a, b := stars[i], stars[j]
					minDist := a.SystemExtent + a.Spacing + b.SystemExtent + b.Spacing
					if d := a.Position.DistanceTo(b.Position); d < minDist {
						t.Errorf("stars %s and %s are %v apart, want at least %v", a.ID, b.ID, d, minDist)
					}
				}
			}
		}
	}
}

func TestEnvelopesClearCachedNeighbors(t *testing.T) {
	m := newTestManager("neighbor-check")

	// Generate in scan order so every chunk sees its already-visited
	// neighbors during placement.
	var all []*Star
	for iy := 0; iy < 4; iy++ {
		for ix := 0; ix < 4; ix++ {
			all = append(all, m.GetChunk(ix, iy).Stars...)
		}
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.ChunkX == b.ChunkX && a.ChunkY == b.ChunkY {
				continue // covered by the within-chunk test
			}
			// Placement only consults neighbors within the later
			// candidate's search radius, so only check pairs it could see.
			// b was placed after a in scan order.
			searchB := (b.SystemExtent + b.Spacing) / ChunkSize
			dx, dy := a.ChunkX-b.ChunkX, a.ChunkY-b.ChunkY
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			cheb := dx
			if dy > cheb {
				cheb = dy
			}
			if float64(cheb) > searchB+1 {
				continue
			}
			minDist := a.SystemExtent + a.Spacing + b.SystemExtent + b.Spacing
			if d := a.Position.DistanceTo(b.Position); d < minDist {
				t.Errorf("cross-chunk stars %s and %s are %v apart, want at least %v", a.ID, b.ID, d, minDist)
			}
		}
	}
}

func TestSystemExtentCoversPlanets(t *testing.T) {
	m := newTestManager("extent-check")
	for iy := -2; iy <= 2; iy++ {
		for ix := -2; ix <= 2; ix++ {
			for _, s := range m.GetChunk(ix, iy).Stars {
				for _, p := range s.Planets {
					if edge := p.OrbitRadius + p.Radius; edge > s.SystemExtent {
						t.Errorf("planet %s reaches %v beyond system extent %v", p.ID, edge, s.SystemExtent)
					}
				}
			}
		}
	}
}

func TestOrbitsIncreaseWithSeparation(t *testing.T) {
	m := newTestManager("orbit-order")
	margin := DefaultPresets().OrbitSafetyMargin
	const eps = 1e-9

	checked := 0
	for iy := -3; iy <= 3; iy++ {
		for ix := -3; ix <= 3; ix++ {
			for _, s := range m.GetChunk(ix, iy).Stars {
				prevOrbit, prevRadius := 0.0, 0.0
				for _, p := range s.Planets {
					min := prevOrbit + prevRadius + p.Radius + margin
					if p.OrbitRadius < min-eps {
						t.Errorf("planet %s orbit %v violates separation minimum %v", p.ID, p.OrbitRadius, min)
					}
					prevOrbit, prevRadius = p.OrbitRadius, p.Radius
					checked++
				}
			}
		}
	}
	if checked == 0 {
		t.Fatal("no planets generated to check")
	}
}

func TestPlanetAttributesWithinPresetRanges(t *testing.T) {
	m := newTestManager("attribute-ranges")
	presets := DefaultPresets()

	for iy := -2; iy <= 2; iy++ {
		for ix := -2; ix <= 2; ix++ {
			for _, s := range m.GetChunk(ix, iy).Stars {
				for _, p := range s.Planets {
					tp, ok := presets.PlanetTypes[p.Type]
					if !ok {
						t.Fatalf("planet %s has unknown type %q", p.ID, p.Type)
					}
					if p.Radius < tp.Radius.Min || p.Radius > tp.Radius.Max {
						t.Errorf("planet %s radius %v outside [%v, %v]", p.ID, p.Radius, tp.Radius.Min, tp.Radius.Max)
					}
					if p.Mass < tp.Mass.Min || p.Mass >= tp.Mass.Max {
						t.Errorf("planet %s mass %v outside [%v, %v)", p.ID, p.Mass, tp.Mass.Min, tp.Mass.Max)
					}
					if p.AxialTilt < 0 || p.AxialTilt >= 35 {
						t.Errorf("planet %s axial tilt %v outside [0, 35)", p.ID, p.AxialTilt)
					}
					found := false
					for _, a := range tp.Atmospheres {
						if a == p.Atmosphere {
							found = true
							break
						}
					}
					if !found {
						t.Errorf("planet %s atmosphere %q not in preset list for %q", p.ID, p.Atmosphere, p.Type)
					}
				}
			}
		}
	}
}

func TestMoonShellsIncreaseUnderCap(t *testing.T) {
	m := newTestManager("moon-shells")
	presets := DefaultPresets()
	const eps = 1e-9

	checked := 0
	for iy := -3; iy <= 3; iy++ {
		for ix := -3; ix <= 3; ix++ {
			for _, s := range m.GetChunk(ix, iy).Stars {
				for _, p := range s.Planets {
					if len(p.Moons) > 6 {
						t.Errorf("planet %s has %d moons, want at most 6", p.ID, len(p.Moons))
					}
					maxReach := p.Radius * presets.PlanetTypes[p.Type].MoonCapFactor
					prevDist, prevRadius := 0.0, 0.0
					for _, mn := range p.Moons {
						min := prevDist + prevRadius + mn.Radius + presets.MoonSafetyMargin
						if mn.Distance < min-eps {
							t.Errorf("moon %s distance %v violates separation minimum %v", mn.ID, mn.Distance, min)
						}
						if mn.Distance+mn.Radius > maxReach+eps {
							t.Errorf("moon %s reaches %v beyond cap %v", mn.ID, mn.Distance+mn.Radius, maxReach)
						}
						prevDist, prevRadius = mn.Distance, mn.Radius
						checked++
					}
				}
			}
		}
	}
	if checked == 0 {
		t.Fatal("no moons generated to check")
	}
}

func TestEntityIDsMatchIndices(t *testing.T) {
	m := newTestManager("id-check")
	for iy := -1; iy <= 1; iy++ {
		for ix := -1; ix <= 1; ix++ {
			for _, s := range m.GetChunk(ix, iy).Stars {
				if s.ID != StarID(ix, iy, s.Index) {
					t.Errorf("star id %q does not match indices %d,%d:%d", s.ID, ix, iy, s.Index)
				}
				for _, p := range s.Planets {
					if p.ID != PlanetID(ix, iy, s.Index, p.Index) {
						t.Errorf("planet id %q does not match its index path", p.ID)
					}
					if p.StarID != s.ID {
						t.Errorf("planet %s references star %q, want %q", p.ID, p.StarID, s.ID)
					}
					for _, mn := range p.Moons {
						if mn.ID != MoonID(ix, iy, s.Index, p.Index, mn.Index) {
							t.Errorf("moon id %q does not match its index path", mn.ID)
						}
					}
				}
			}
		}
	}
}

func TestFlattenedPlanetsMatchStars(t *testing.T) {
	m := newTestManager("flatten-check")
	chunk := m.GetChunk(0, 0)

	total := 0
	for _, s := range chunk.Stars {
		total += len(s.Planets)
	}
	if len(chunk.Planets) != total {
		t.Errorf("flattened list has %d planets, stars hold %d", len(chunk.Planets), total)
	}
}

func TestOrbitCentersMatchStarPositions(t *testing.T) {
	m := newTestManager("center-check")
	for _, s := range m.GetChunk(0, 0).Stars {
		for _, p := range s.Planets {
			if p.OrbitCenter != s.Position {
				t.Errorf("planet %s orbit center %v, want star position %v", p.ID, p.OrbitCenter, s.Position)
			}
		}
	}
}
