// Package handler implements the HTTP surface of the City Info API.
// All handlers are methods on Server. Methods are split into resource files
// (cities.go, points_of_interest.go, health.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/cityinfo/internal/model"
	"github.com/pkordes/cityinfo/internal/patch"
)

// PointOfInterestServicer defines the business operations the point of
// interest handlers depend on. Defining the interface here, in the consumer
// package, lets handler tests inject a double without touching the database.
type PointOfInterestServicer interface {
	List(ctx context.Context, cityID int) (model.PointOfInterestList, error)
	Get(ctx context.Context, cityID, pointOfInterestID int) (model.PointOfInterestDto, error)
	Create(ctx context.Context, cityID int, in model.PointOfInterestForCreationDto) (model.PointOfInterestDto, error)
	Update(ctx context.Context, cityID, pointOfInterestID int, in model.PointOfInterestForUpdateDto) error
	PartiallyUpdate(ctx context.Context, cityID, pointOfInterestID int, doc patch.Document) error
	Delete(ctx context.Context, cityID, pointOfInterestID int) error
	RequireCity(ctx context.Context, cityID int) error
	RequirePointOfInterest(ctx context.Context, cityID, pointOfInterestID int) error
}

// CityServicer defines the read-only city operations.
type CityServicer interface {
	List(ctx context.Context) (model.CityList, error)
	Get(ctx context.Context, cityID int) (model.CityWithoutPointsOfInterestDto, error)
	GetWithPointsOfInterest(ctx context.Context, cityID int) (model.CityDto, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	cities CityServicer
	pois   PointOfInterestServicer
	db     Pinger
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(cities CityServicer, pois PointOfInterestServicer, db Pinger, log *slog.Logger) *Server {
	return &Server{cities: cities, pois: pois, db: db, log: log}
}

var (
	bodyContentTypes  = []string{"application/json", "application/xml", "text/xml"}
	patchContentTypes = []string{"application/json-patch+json", "application/json"}
)

// Mount registers /healthz and the /api tree on r. apiMiddleware (for example
// authentication) wraps every /api route and nothing else.
//
// Every resource is reachable both unversioned (/api/cities, version 1.0) and
// under an explicit version (/api/v2/cities).
func (s *Server) Mount(r chi.Router, apiMiddleware ...func(http.Handler) http.Handler) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(api chi.Router) {
		api.Use(advertiseVersions)
		api.Use(negotiate)
		api.Use(apiMiddleware...)

		api.Route("/v{version}", func(v chi.Router) {
			v.Use(requireSupportedVersion)
			s.resources(v)
		})
		api.Group(s.resources)
	})
}

func (s *Server) resources(r chi.Router) {
	r.Get("/cities", s.ListCities)
	r.Route("/cities/{cityId}", func(r chi.Router) {
		r.Get("/", s.GetCity)

		r.Route("/pointsofinterest", func(r chi.Router) {
			r.Get("/", s.ListPointsOfInterest)
			r.With(chimiddleware.AllowContentType(bodyContentTypes...)).Post("/", s.CreatePointOfInterest)

			r.Get("/{pointOfInterestId}", s.GetPointOfInterest)
			r.With(chimiddleware.AllowContentType(bodyContentTypes...)).Put("/{pointOfInterestId}", s.UpdatePointOfInterest)
			r.With(chimiddleware.AllowContentType(patchContentTypes...)).Patch("/{pointOfInterestId}", s.PartiallyUpdatePointOfInterest)
			r.Delete("/{pointOfInterestId}", s.DeletePointOfInterest)
		})
	})
}
