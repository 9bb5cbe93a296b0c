package universe

import (
	"flag"
	"math"
	"os"
	"testing"

	"github.com/gocarina/gocsv"
)

var updateGolden = flag.Bool("update", false, "rewrite golden fixtures instead of comparing")

const goldenFile = "testdata/golden_sol42.csv"

// goldenRow pins one star of the reference chunk, including the type and
// orbit of its innermost planet so planet-level regressions (draw order,
// snow line, separation push) surface here too.
type goldenRow struct {
	ID               string  `csv:"id"`
	Class            string  `csv:"class"`
	X                float64 `csv:"x"`
	Y                float64 `csv:"y"`
	Size             float64 `csv:"size"`
	Luminosity       float64 `csv:"luminosity"`
	SystemExtent     float64 `csv:"system_extent"`
	PlanetCount      int     `csv:"planet_count"`
	MoonCount        int     `csv:"moon_count"`
	FirstPlanetType  string  `csv:"first_planet_type"`
	FirstPlanetOrbit float64 `csv:"first_planet_orbit"`
}

func goldenRows(chunk *Chunk) []goldenRow {
	var rows []goldenRow
	for _, s := range chunk.Stars {
		row := goldenRow{
			ID:           s.ID,
			Class:        string(s.Class),
			X:            s.Position.X,
			Y:            s.Position.Y,
			Size:         s.Size,
			Luminosity:   s.Luminosity,
			SystemExtent: s.SystemExtent,
			PlanetCount:  len(s.Planets),
		}
		for _, p := range s.Planets {
			row.MoonCount += len(p.Moons)
		}
		if len(s.Planets) > 0 {
			row.FirstPlanetType = string(s.Planets[0].Type)
			row.FirstPlanetOrbit = s.Planets[0].OrbitRadius
		}
		rows = append(rows, row)
	}
	return rows
}

// TestGoldenSol42 compares the origin chunk of the reference seed against
// the committed fixture. Any change to the draw order, the hash, the
// presets or the placement logic shows up here as a diff. Re-record with
// `-update` after an intentional generation change.
func TestGoldenSol42(t *testing.T) {
	m := newTestManager("sol-42")
	rows := goldenRows(m.GetChunk(0, 0))

	if *updateGolden {
		f, err := os.Create(goldenFile)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if err := gocsv.Marshal(&rows, f); err != nil {
			t.Fatal(err)
		}
		t.Logf("recorded golden fixture with %d stars", len(rows))
		return
	}

	f, err := os.Open(goldenFile)
	if err != nil {
		t.Fatalf("missing golden fixture (re-record with -update): %v", err)
	}
	defer f.Close()

	var want []goldenRow
	if err := gocsv.Unmarshal(f, &want); err != nil {
		t.Fatal(err)
	}

	if len(rows) != len(want) {
		t.Fatalf("chunk has %d stars, fixture recorded %d", len(rows), len(want))
	}

	const eps = 1e-9
	for i, got := range rows {
		w := want[i]
		if got.ID != w.ID || got.Class != w.Class {
			t.Errorf("star %d is %s/%s, fixture recorded %s/%s", i, got.ID, got.Class, w.ID, w.Class)
			continue
		}
		if math.Abs(got.X-w.X) > eps || math.Abs(got.Y-w.Y) > eps {
			t.Errorf("star %s moved to (%v, %v) from recorded (%v, %v)", got.ID, got.X, got.Y, w.X, w.Y)
		}
		if math.Abs(got.Size-w.Size) > eps {
			t.Errorf("star %s size %v, fixture recorded %v", got.ID, got.Size, w.Size)
		}
		if math.Abs(got.Luminosity-w.Luminosity) > eps {
			t.Errorf("star %s luminosity %v, fixture recorded %v", got.ID, got.Luminosity, w.Luminosity)
		}
		if math.Abs(got.SystemExtent-w.SystemExtent) > eps {
			t.Errorf("star %s system extent %v, fixture recorded %v", got.ID, got.SystemExtent, w.SystemExtent)
		}
		if got.PlanetCount != w.PlanetCount || got.MoonCount != w.MoonCount {
			t.Errorf("star %s has %d planets / %d moons, fixture recorded %d / %d",
				got.ID, got.PlanetCount, got.MoonCount, w.PlanetCount, w.MoonCount)
		}
		if got.FirstPlanetType != w.FirstPlanetType {
			t.Errorf("star %s first planet is %q, fixture recorded %q", got.ID, got.FirstPlanetType, w.FirstPlanetType)
		}
		if math.Abs(got.FirstPlanetOrbit-w.FirstPlanetOrbit) > eps {
			t.Errorf("star %s first planet orbit %v, fixture recorded %v", got.ID, got.FirstPlanetOrbit, w.FirstPlanetOrbit)
		}
	}
}
