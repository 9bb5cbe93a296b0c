package universe

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"starfield-server/internal/shared/errors"
	sharedredis "starfield-server/internal/shared/redis"
)

// Repository stores universe registry rows. Chunk content is never
// stored anywhere; it is regenerated from the row's seed and densities.
type Repository interface {
	Create(u *Universe) error
	Get(id int) (*Universe, error)
	List() ([]*Universe, error)
	Delete(id int) error
	Count() (int, error)
}

// Service owns the universe registry and one chunk manager per
// registered universe. Managers are created lazily and dropped when
// their universe is deleted.
type Service struct {
	repo      Repository
	presets   *Presets
	shared    *sharedredis.Client
	maxChunks int
	logger    *slog.Logger

	mu       sync.Mutex
	managers map[int]*Manager
}

func NewService(repo Repository, presets *Presets, shared *sharedredis.Client, maxChunks int, logger *slog.Logger) *Service {
	logger.Debug("Initializing universe service")

	return &Service{
		repo:      repo,
		presets:   presets,
		shared:    shared,
		maxChunks: maxChunks,
		logger:    logger,
		managers:  make(map[int]*Manager),
	}
}

// CreateUniverse registers a universe. Density knobs are clamped here,
// at the settings boundary, so stored rows are always in range.
func (s *Service) CreateUniverse(name, seed string, starDensity, planetDensity float64) (*Universe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("universe name is required")
	}
	if seed == "" {
		return nil, errors.Validation("universe seed is required")
	}

	settings := Settings{Seed: seed, StarDensity: starDensity, PlanetDensity: planetDensity}.Clamp()

	u := &Universe{
		Name:          name,
		Seed:          seed,
		StarDensity:   settings.StarDensity,
		PlanetDensity: settings.PlanetDensity,
	}
	if err := s.repo.Create(u); err != nil {
		return nil, fmt.Errorf("failed to create universe: %w", err)
	}

	s.logger.Info("Universe created",
		"universe_id", u.ID,
		"name", u.Name,
		"star_density", u.StarDensity,
		"planet_density", u.PlanetDensity,
	)
	return u, nil
}

func (s *Service) GetUniverse(id int) (*Universe, error) {
	return s.repo.Get(id)
}

func (s *Service) ListUniverses() ([]*Universe, error) {
	return s.repo.List()
}

// DeleteUniverse removes the registry row and discards the cached chunk
// manager. Already-issued deep links into it stop resolving.
func (s *Service) DeleteUniverse(id int) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.managers, id)
	s.mu.Unlock()

	s.logger.Info("Universe deleted", "universe_id", id)
	return nil
}

// Manager returns the chunk manager for a universe, creating it on first
// use.
func (s *Service) Manager(id int) (*Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.managers[id]; ok {
		return m, nil
	}

	u, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}

	m := NewManager(u.Settings(), s.presets, s.maxChunks, s.shared, s.logger)
	s.managers[id] = m
	return m, nil
}

// EnsureDefault registers the configured default universe when the
// registry is empty, so a fresh deployment serves chunks immediately.
func (s *Service) EnsureDefault(name, seed string, starDensity, planetDensity float64) (*Universe, error) {
	count, err := s.repo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count universes: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	s.logger.Info("Registry empty, creating default universe", "name", name, "seed", seed)
	return s.CreateUniverse(name, seed, starDensity, planetDensity)
}
