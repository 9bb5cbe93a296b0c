package universe

import (
	"testing"

	"starfield-server/internal/shared/errors"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), DefaultPresets(), nil, 0, testLogger())
}

func TestCreateUniverseValidation(t *testing.T) {
	s := newTestService()

	if _, err := s.CreateUniverse("", "seed", 1, 1); err == nil {
		t.Error("empty name accepted")
	}
	if _, err := s.CreateUniverse("  ", "seed", 1, 1); err == nil {
		t.Error("blank name accepted")
	}
	if _, err := s.CreateUniverse("alpha", "", 1, 1); err == nil {
		t.Error("empty seed accepted")
	}
}

func TestCreateUniverseClampsDensities(t *testing.T) {
	s := newTestService()

	u, err := s.CreateUniverse("alpha", "seed-1", 99, -5)
	if err != nil {
		t.Fatal(err)
	}
	if u.StarDensity != 10 {
		t.Errorf("star density %v, want clamped 10", u.StarDensity)
	}
	if u.PlanetDensity != 0 {
		t.Errorf("planet density %v, want clamped 0", u.PlanetDensity)
	}
}

func TestCreateUniverseRejectsDuplicateName(t *testing.T) {
	s := newTestService()

	if _, err := s.CreateUniverse("alpha", "seed-1", 1, 1); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreateUniverse("alpha", "seed-2", 1, 1)
	if err == nil {
		t.Fatal("duplicate name accepted")
	}
	if errors.GetType(err) != errors.ErrorTypeConflict {
		t.Errorf("error type %v, want conflict", errors.GetType(err))
	}
}

func TestManagerIsReusedPerUniverse(t *testing.T) {
	s := newTestService()

	u, err := s.CreateUniverse("alpha", "seed-1", 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	a, err := s.Manager(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Manager(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("repeated Manager calls returned different instances")
	}
	if a.Settings().Seed != "seed-1" {
		t.Errorf("manager seed %q, want %q", a.Settings().Seed, "seed-1")
	}
}

func TestManagerForUnknownUniverse(t *testing.T) {
	s := newTestService()
	if _, err := s.Manager(42); err == nil {
		t.Fatal("manager created for unknown universe")
	}
}

func TestDeleteUniverseDropsManager(t *testing.T) {
	s := newTestService()

	u, err := s.CreateUniverse("alpha", "seed-1", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Manager(u.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUniverse(u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Manager(u.ID); err == nil {
		t.Error("manager still available after deletion")
	}
	if err := s.DeleteUniverse(u.ID); err == nil {
		t.Error("second deletion succeeded")
	}
}

func TestEnsureDefaultIsIdempotent(t *testing.T) {
	s := newTestService()

	u, err := s.EnsureDefault("Starfield", "sol-42", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if u == nil {
		t.Fatal("default universe not created in an empty registry")
	}

	again, err := s.EnsureDefault("Starfield", "sol-42", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if again != nil {
		t.Error("EnsureDefault created a second universe")
	}

	list, err := s.ListUniverses()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("registry holds %d universes, want 1", len(list))
	}
}
