package testutil

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/pkordes/cityinfo/internal/domain"
	"github.com/pkordes/cityinfo/internal/repo"
)

// MemStore is an in-memory city and point-of-interest store. Each call to
// NewRepo opens a unit of work with the same staging and commit semantics as
// the Postgres repository, so service and handler tests can run without a
// database.
type MemStore struct {
	mu        sync.Mutex
	cities    map[int]domain.City
	pois      map[int]domain.PointOfInterest
	nextID    int
	commitErr error
	commits   int
}

// NewMemStore returns a store seeded with the same three cities and six
// points of interest as the seed migration.
func NewMemStore() *MemStore {
	s := &MemStore{
		cities: map[int]domain.City{
			1: {ID: 1, Name: "New York City", Description: "The one with that big park."},
			2: {ID: 2, Name: "Antwerp", Description: "The one with the cathedral that is never really finished."},
			3: {ID: 3, Name: "Paris", Description: "The one with that big tower."},
		},
		pois: map[int]domain.PointOfInterest{
			1: {ID: 1, CityID: 1, Name: "Central Park", Description: "The most visited urban park in the United States."},
			2: {ID: 2, CityID: 1, Name: "Empire State Building", Description: "A 102-story skyscraper located in Midtown Manhattan."},
			3: {ID: 3, CityID: 2, Name: "Cathedral", Description: "A Gothic style cathedral, conceived by architects Jan and Pieter Appelmans."},
			4: {ID: 4, CityID: 2, Name: "Antwerp Central Station", Description: "The finest example of railway architecture in Belgium."},
			5: {ID: 5, CityID: 3, Name: "Eiffel Tower", Description: "A wrought iron lattice tower on the Champ de Mars, named after engineer Gustave Eiffel."},
			6: {ID: 6, CityID: 3, Name: "The Louvre", Description: "The world's largest museum."},
		},
		nextID: 7,
	}
	return s
}

// NewRepo opens a fresh unit of work against the store.
func (s *MemStore) NewRepo() repo.CityInfoRepo {
	return &memRepo{store: s, tracked: make(map[int]*memTracked)}
}

// FailCommits makes every subsequent Commit return err without applying
// anything. Pass nil to restore normal behaviour.
func (s *MemStore) FailCommits(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

// Commits returns how many commits have been applied successfully.
func (s *MemStore) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// PointOfInterestCount returns the number of stored points of interest for
// the city.
func (s *MemStore) PointOfInterestCount(cityID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.pois {
		if p.CityID == cityID {
			n++
		}
	}
	return n
}

// PointOfInterest returns a copy of the stored point of interest.
func (s *MemStore) PointOfInterest(id int) (domain.PointOfInterest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pois[id]
	return p, ok
}

// RemoveCity deletes a city and cascades to its points of interest.
func (s *MemStore) RemoveCity(cityID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cities, cityID)
	for id, p := range s.pois {
		if p.CityID == cityID {
			delete(s.pois, id)
		}
	}
}

var _ repo.CityInfoRepo = (*memRepo)(nil)

type memTracked struct {
	entity   *domain.PointOfInterest
	snapshot domain.PointOfInterest
}

type memRepo struct {
	store   *MemStore
	tracked map[int]*memTracked
	added   []*domain.PointOfInterest
	deleted []*domain.PointOfInterest
}

func (r *memRepo) GetCities(ctx context.Context) ([]domain.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cities := make([]domain.City, 0, len(r.store.cities))
	for _, c := range r.store.cities {
		cities = append(cities, c)
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })
	return cities, nil
}

func (r *memRepo) GetCity(ctx context.Context, cityID int, includePointsOfInterest bool) (domain.City, error) {
	if err := checkArgs(ctx, cityID); err != nil {
		return domain.City{}, err
	}
	r.store.mu.Lock()
	c, ok := r.store.cities[cityID]
	r.store.mu.Unlock()
	if !ok {
		return domain.City{}, fmt.Errorf("memstore.GetCity: %w", domain.ErrNotFound)
	}
	if includePointsOfInterest {
		pois, err := r.GetPointsOfInterestForCity(ctx, cityID)
		if err != nil {
			return domain.City{}, err
		}
		c.PointsOfInterest = pois
	}
	return c, nil
}

func (r *memRepo) CityExists(ctx context.Context, cityID int) (bool, error) {
	if err := checkArgs(ctx, cityID); err != nil {
		return false, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.cities[cityID]
	return ok, nil
}

func (r *memRepo) CityNameMatchesCityID(ctx context.Context, cityName string, cityID int) (bool, error) {
	if err := checkArgs(ctx, cityID); err != nil {
		return false, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.cities[cityID]
	return ok && c.Name == cityName, nil
}

func (r *memRepo) GetPointsOfInterestForCity(ctx context.Context, cityID int) ([]*domain.PointOfInterest, error) {
	if err := checkArgs(ctx, cityID); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	var rows []domain.PointOfInterest
	for _, id := range slices.Sorted(maps.Keys(r.store.pois)) {
		if p := r.store.pois[id]; p.CityID == cityID {
			rows = append(rows, p)
		}
	}
	r.store.mu.Unlock()

	pois := []*domain.PointOfInterest{}
	for _, p := range rows {
		pois = append(pois, r.track(p))
	}
	return pois, nil
}

func (r *memRepo) GetPointOfInterestForCity(ctx context.Context, cityID, pointOfInterestID int) (*domain.PointOfInterest, error) {
	if err := checkArgs(ctx, cityID, pointOfInterestID); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	p, ok := r.store.pois[pointOfInterestID]
	r.store.mu.Unlock()
	if !ok || p.CityID != cityID {
		return nil, fmt.Errorf("memstore.GetPointOfInterestForCity: %w", domain.ErrNotFound)
	}
	return r.track(p), nil
}

func (r *memRepo) AddPointOfInterestForCity(cityID int, poi *domain.PointOfInterest) {
	poi.CityID = cityID
	r.added = append(r.added, poi)
}

func (r *memRepo) DeletePointOfInterest(poi *domain.PointOfInterest) {
	if i := slices.Index(r.added, poi); i >= 0 {
		r.added = slices.Delete(r.added, i, i+1)
		return
	}
	if !slices.Contains(r.deleted, poi) {
		r.deleted = append(r.deleted, poi)
	}
}

// Commit validates every staged change before applying any of them, so a
// failing commit leaves the store untouched.
func (r *memRepo) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memstore.Commit: %w", err)
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.commitErr != nil {
		return fmt.Errorf("memstore.Commit: %w", s.commitErr)
	}

	for _, p := range r.added {
		if _, ok := s.cities[p.CityID]; !ok {
			return fmt.Errorf("memstore.Commit: insert: city %d: %w", p.CityID, domain.ErrNotFound)
		}
	}
	for id, t := range r.tracked {
		if t.dirty() && !slices.Contains(r.deleted, t.entity) {
			if _, ok := s.pois[id]; !ok {
				return fmt.Errorf("memstore.Commit: update %d: %w", id, domain.ErrNotFound)
			}
		}
	}
	for _, p := range r.deleted {
		if _, ok := s.pois[p.ID]; !ok {
			return fmt.Errorf("memstore.Commit: delete %d: %w", p.ID, domain.ErrNotFound)
		}
	}

	for _, p := range r.added {
		p.ID = s.nextID
		s.nextID++
		s.pois[p.ID] = *p
	}
	for id, t := range r.tracked {
		if t.dirty() && !slices.Contains(r.deleted, t.entity) {
			s.pois[id] = *t.entity
		}
	}
	for _, p := range r.deleted {
		delete(s.pois, p.ID)
		delete(r.tracked, p.ID)
	}
	for _, p := range r.added {
		r.tracked[p.ID] = &memTracked{entity: p}
	}
	for _, t := range r.tracked {
		t.snapshot = *t.entity
	}
	r.added = nil
	r.deleted = nil
	s.commits++
	return nil
}

// checkArgs fails like the Postgres driver does: on a cancelled context, or
// when an id cannot be encoded into an int4 column.
func checkArgs(ctx context.Context, ids ...int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if id < math.MinInt32 || id > math.MaxInt32 {
			return fmt.Errorf("memstore: unable to encode %d into int4: out of range", id)
		}
	}
	return nil
}

func (t *memTracked) dirty() bool {
	return t.entity.Name != t.snapshot.Name || t.entity.Description != t.snapshot.Description
}

func (r *memRepo) track(p domain.PointOfInterest) *domain.PointOfInterest {
	if t, ok := r.tracked[p.ID]; ok {
		return t.entity
	}
	e := &p
	r.tracked[p.ID] = &memTracked{entity: e, snapshot: p}
	return e
}
