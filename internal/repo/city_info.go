// Package repo contains all database access logic for the City Info API.
// No business logic lives here, only SQL, type mapping, and change tracking.
package repo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/cityinfo/internal/domain"
)

// foreignKeyViolation is the SQLSTATE of an insert whose city row is gone.
const foreignKeyViolation = "23503"

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so Commit still works inside such a test transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CityInfoRepo mediates every read and write of cities and points of interest.
//
// A CityInfoRepo is a unit of work scoped to one request: reads go straight to
// the store, while adds, deletes, and in-place edits of loaded entities are
// staged in memory until Commit flushes them atomically. Implementations are
// not safe for concurrent use; create one per request.
type CityInfoRepo interface {
	// GetCities returns all cities ordered by name, without points of interest.
	GetCities(ctx context.Context) ([]domain.City, error)

	// GetCity returns a single city, optionally with its points of interest.
	// Returns domain.ErrNotFound if no city with that ID exists.
	GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (domain.City, error)

	// CityExists reports whether a city with that ID exists. No side effects.
	CityExists(ctx context.Context, cityID int) (bool, error)

	// CityNameMatchesCityID reports whether cityID names the city cityName.
	CityNameMatchesCityID(ctx context.Context, cityName string, cityID int) (bool, error)

	// GetPointsOfInterestForCity returns every point of interest owned by the
	// city, in store-defined order. The slice is empty, never nil, when there
	// are none. Returned entities are tracked: edits are persisted by Commit.
	GetPointsOfInterestForCity(ctx context.Context, cityID int) ([]*domain.PointOfInterest, error)

	// GetPointOfInterestForCity returns one point of interest scoped to the city.
	// Returns domain.ErrNotFound if it does not exist under that city.
	// The returned entity is tracked: edits are persisted by Commit.
	GetPointOfInterestForCity(ctx context.Context, cityID, pointOfInterestID int) (*domain.PointOfInterest, error)

	// AddPointOfInterestForCity sets poi.CityID and stages poi for insertion.
	// poi.ID is assigned when Commit succeeds.
	AddPointOfInterestForCity(cityID int, poi *domain.PointOfInterest)

	// DeletePointOfInterest stages poi for removal.
	DeletePointOfInterest(poi *domain.PointOfInterest)

	// Commit flushes staged inserts, edits of tracked entities, and deletes in
	// one transaction. It refuses to start on a cancelled context; once started
	// it ignores cancellation so a flush is never abandoned half way.
	// On error nothing is persisted and the staged changes are kept.
	Commit(ctx context.Context) error
}

// trackedPOI pairs a loaded entity with the values it had when loaded, so
// Commit can tell whether it was edited.
type trackedPOI struct {
	entity   *domain.PointOfInterest
	snapshot domain.PointOfInterest
}

func (t *trackedPOI) dirty() bool {
	return t.entity.Name != t.snapshot.Name || t.entity.Description != t.snapshot.Description
}

// pgCityInfoRepo is the Postgres implementation of CityInfoRepo.
type pgCityInfoRepo struct {
	db      db
	tracked map[int]*trackedPOI
	added   []*domain.PointOfInterest
	deleted []*domain.PointOfInterest
}

// NewCityInfoRepo constructs a CityInfoRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCityInfoRepo(db db) CityInfoRepo {
	return &pgCityInfoRepo{db: db, tracked: make(map[int]*trackedPOI)}
}

// GetCities returns all cities ordered by name.
func (r *pgCityInfoRepo) GetCities(ctx context.Context) ([]domain.City, error) {
	const q = `
		SELECT id, name, COALESCE(description, '')
		FROM cities
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CityInfoRepo.GetCities: %w", err)
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("repo.CityInfoRepo.GetCities: scan: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CityInfoRepo.GetCities: rows: %w", err)
	}
	return cities, nil
}

// GetCity retrieves a city by primary key.
func (r *pgCityInfoRepo) GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (domain.City, error) {
	const q = `
		SELECT id, name, COALESCE(description, '')
		FROM cities
		WHERE id = @id`

	var c domain.City
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": cityID}).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.City{}, fmt.Errorf("repo.CityInfoRepo.GetCity: %w", domain.ErrNotFound)
		}
		return domain.City{}, fmt.Errorf("repo.CityInfoRepo.GetCity: %w", err)
	}

	if includePointsOfInterest {
		pois, err := r.GetPointsOfInterestForCity(ctx, cityID)
		if err != nil {
			return domain.City{}, fmt.Errorf("repo.CityInfoRepo.GetCity: %w", err)
		}
		c.PointsOfInterest = pois
	}
	return c, nil
}

// CityExists probes for a city row.
func (r *pgCityInfoRepo) CityExists(ctx context.Context, cityID int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM cities WHERE id = @id)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": cityID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.CityInfoRepo.CityExists: %w", err)
	}
	return exists, nil
}

// CityNameMatchesCityID checks a city's name against its id.
func (r *pgCityInfoRepo) CityNameMatchesCityID(ctx context.Context, cityName string, cityID int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM cities WHERE id = @id AND name = @name)`

	var matches bool
	args := pgx.NamedArgs{"id": cityID, "name": cityName}
	if err := r.db.QueryRow(ctx, q, args).Scan(&matches); err != nil {
		return false, fmt.Errorf("repo.CityInfoRepo.CityNameMatchesCityID: %w", err)
	}
	return matches, nil
}

// GetPointsOfInterestForCity lists the points of interest of a city.
func (r *pgCityInfoRepo) GetPointsOfInterestForCity(ctx context.Context, cityID int) ([]*domain.PointOfInterest, error) {
	const q = `
		SELECT id, city_id, name, description
		FROM points_of_interest
		WHERE city_id = @city_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"city_id": cityID})
	if err != nil {
		return nil, fmt.Errorf("repo.CityInfoRepo.GetPointsOfInterestForCity: %w", err)
	}
	defer rows.Close()

	pois := []*domain.PointOfInterest{}
	for rows.Next() {
		p, err := scanPointOfInterest(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CityInfoRepo.GetPointsOfInterestForCity: scan: %w", err)
		}
		pois = append(pois, r.track(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CityInfoRepo.GetPointsOfInterestForCity: rows: %w", err)
	}
	return pois, nil
}

// GetPointOfInterestForCity retrieves a point of interest scoped to its city.
func (r *pgCityInfoRepo) GetPointOfInterestForCity(ctx context.Context, cityID, pointOfInterestID int) (*domain.PointOfInterest, error) {
	const q = `
		SELECT id, city_id, name, description
		FROM points_of_interest
		WHERE city_id = @city_id AND id = @id`

	args := pgx.NamedArgs{"city_id": cityID, "id": pointOfInterestID}
	p, err := scanPointOfInterest(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return nil, fmt.Errorf("repo.CityInfoRepo.GetPointOfInterestForCity: %w", err)
	}
	return r.track(p), nil
}

// AddPointOfInterestForCity stages an insert.
func (r *pgCityInfoRepo) AddPointOfInterestForCity(cityID int, poi *domain.PointOfInterest) {
	poi.CityID = cityID
	r.added = append(r.added, poi)
}

// DeletePointOfInterest stages a delete. Deleting an entity that was added in
// this unit of work simply un-stages the insert.
func (r *pgCityInfoRepo) DeletePointOfInterest(poi *domain.PointOfInterest) {
	if i := slices.Index(r.added, poi); i >= 0 {
		r.added = slices.Delete(r.added, i, i+1)
		return
	}
	if !slices.Contains(r.deleted, poi) {
		r.deleted = append(r.deleted, poi)
	}
}

// Commit flushes all staged changes in a single transaction.
func (r *pgCityInfoRepo) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.CityInfoRepo.Commit: %w", err)
	}
	ctx = context.WithoutCancel(ctx)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.CityInfoRepo.Commit: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	ids, err := r.flushInserts(ctx, tx)
	if err != nil {
		return err
	}
	if err := r.flushUpdates(ctx, tx); err != nil {
		return err
	}
	if err := r.flushDeletes(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.CityInfoRepo.Commit: commit: %w", err)
	}

	r.acceptChanges(ids)
	return nil
}

// flushInserts inserts staged entities and returns their generated ids.
// The ids are not written back to the entities until the transaction commits.
func (r *pgCityInfoRepo) flushInserts(ctx context.Context, tx pgx.Tx) ([]int, error) {
	const q = `
		INSERT INTO points_of_interest (city_id, name, description)
		VALUES (@city_id, @name, @description)
		RETURNING id`

	ids := make([]int, len(r.added))
	for i, p := range r.added {
		args := pgx.NamedArgs{
			"city_id":     p.CityID,
			"name":        p.Name,
			"description": p.Description,
		}
		if err := tx.QueryRow(ctx, q, args).Scan(&ids[i]); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
				return nil, fmt.Errorf("repo.CityInfoRepo.Commit: insert: city %d: %w", p.CityID, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("repo.CityInfoRepo.Commit: insert: %w", err)
		}
	}
	return ids, nil
}

// flushUpdates writes tracked entities whose fields changed since load.
// Entities staged for deletion are skipped.
func (r *pgCityInfoRepo) flushUpdates(ctx context.Context, tx pgx.Tx) error {
	const q = `
		UPDATE points_of_interest
		SET name        = @name,
		    description = @description
		WHERE id = @id AND city_id = @city_id`

	for _, id := range slices.Sorted(maps.Keys(r.tracked)) {
		t := r.tracked[id]
		if !t.dirty() || slices.Contains(r.deleted, t.entity) {
			continue
		}
		args := pgx.NamedArgs{
			"id":          t.entity.ID,
			"city_id":     t.entity.CityID,
			"name":        t.entity.Name,
			"description": t.entity.Description,
		}
		tag, err := tx.Exec(ctx, q, args)
		if err != nil {
			return fmt.Errorf("repo.CityInfoRepo.Commit: update %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("repo.CityInfoRepo.Commit: update %d: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// flushDeletes removes staged entities. A row that is already gone fails the
// whole commit with domain.ErrNotFound.
func (r *pgCityInfoRepo) flushDeletes(ctx context.Context, tx pgx.Tx) error {
	const q = `DELETE FROM points_of_interest WHERE id = @id`

	for _, p := range r.deleted {
		tag, err := tx.Exec(ctx, q, pgx.NamedArgs{"id": p.ID})
		if err != nil {
			return fmt.Errorf("repo.CityInfoRepo.Commit: delete %d: %w", p.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("repo.CityInfoRepo.Commit: delete %d: %w", p.ID, domain.ErrNotFound)
		}
	}
	return nil
}

// acceptChanges moves the unit of work to its post-commit state: inserted
// entities receive their ids and become tracked, deleted ones are forgotten,
// and every snapshot is refreshed.
func (r *pgCityInfoRepo) acceptChanges(ids []int) {
	for _, p := range r.deleted {
		delete(r.tracked, p.ID)
	}
	for i, p := range r.added {
		p.ID = ids[i]
		r.tracked[p.ID] = &trackedPOI{entity: p}
	}
	for _, t := range r.tracked {
		t.snapshot = *t.entity
	}
	r.added = nil
	r.deleted = nil
}

// track registers a freshly loaded row. If the same row is already tracked the
// existing entity is returned, so one unit of work never holds two copies.
func (r *pgCityInfoRepo) track(p domain.PointOfInterest) *domain.PointOfInterest {
	if t, ok := r.tracked[p.ID]; ok {
		return t.entity
	}
	e := &p
	r.tracked[p.ID] = &trackedPOI{entity: e, snapshot: p}
	return e
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing
// scanPointOfInterest to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPointOfInterest maps a single database row into a domain.PointOfInterest.
func scanPointOfInterest(s scanner) (domain.PointOfInterest, error) {
	var p domain.PointOfInterest
	err := s.Scan(&p.ID, &p.CityID, &p.Name, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PointOfInterest{}, domain.ErrNotFound
		}
		return domain.PointOfInterest{}, err
	}
	return p, nil
}
