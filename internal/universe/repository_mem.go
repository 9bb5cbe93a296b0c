package universe

import (
	"sync"
	"time"

	"starfield-server/internal/shared/errors"
)

// MemoryRepository keeps universe rows in memory. It backs deployments
// without a registry database and the test suite; the semantics mirror
// the Postgres repository.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*Universe
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		rows:   make(map[int]*Universe),
	}
}

func (r *MemoryRepository) Create(u *Universe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rows {
		if existing.Name == u.Name {
			return errors.Conflictf("universe name %q already exists", u.Name)
		}
	}

	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt

	stored := *u
	r.rows[u.ID] = &stored
	return nil
}

func (r *MemoryRepository) Get(id int) (*Universe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.rows[id]
	if !ok {
		return nil, errors.NotFoundf("universe %d not found", id)
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryRepository) List() ([]*Universe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	universes := make([]*Universe, 0, len(r.rows))
	for id := 1; id < r.nextID; id++ {
		if u, ok := r.rows[id]; ok {
			copied := *u
			universes = append(universes, &copied)
		}
	}
	return universes, nil
}

func (r *MemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return errors.NotFoundf("universe %d not found", id)
	}
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}
