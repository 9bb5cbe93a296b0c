package universe

import (
	"database/sql"
	"log/slog"

	"starfield-server/internal/shared/errors"
)

// PostgresRepository stores universe rows in the registry database.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	logger.Debug("Initializing universe repository")

	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresRepository) Create(u *Universe) error {
	query := `
		INSERT INTO universes (name, seed, star_density, planet_density)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		query,
		u.Name,
		u.Seed,
		u.StarDensity,
		u.PlanetDensity,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return errors.WrapInternal("failed to insert universe", err)
	}
	return nil
}

func (r *PostgresRepository) Get(id int) (*Universe, error) {
	query := `
		SELECT id, name, seed, star_density, planet_density, created_at, updated_at
		FROM universes
		WHERE id = $1`

	var u Universe
	err := r.db.QueryRow(query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Seed,
		&u.StarDensity,
		&u.PlanetDensity,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("universe %d not found", id)
	}
	if err != nil {
		return nil, errors.WrapInternal("failed to query universe", err)
	}
	return &u, nil
}

func (r *PostgresRepository) List() ([]*Universe, error) {
	query := `
		SELECT id, name, seed, star_density, planet_density, created_at, updated_at
		FROM universes
		ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, errors.WrapInternal("failed to list universes", err)
	}
	defer rows.Close()

	var universes []*Universe
	for rows.Next() {
		var u Universe
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Seed,
			&u.StarDensity,
			&u.PlanetDensity,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, errors.WrapInternal("failed to scan universe row", err)
		}
		universes = append(universes, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("failed to iterate universe rows", err)
	}
	return universes, nil
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM universes WHERE id = $1`, id)
	if err != nil {
		return errors.WrapInternal("failed to delete universe", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to read delete result", err)
	}
	if affected == 0 {
		return errors.NotFoundf("universe %d not found", id)
	}
	return nil
}

func (r *PostgresRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM universes`).Scan(&count); err != nil {
		return 0, errors.WrapInternal("failed to count universes", err)
	}
	return count, nil
}
