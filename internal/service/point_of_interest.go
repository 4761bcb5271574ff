package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/cityinfo/internal/domain"
	"github.com/pkordes/cityinfo/internal/mail"
	"github.com/pkordes/cityinfo/internal/mapper"
	"github.com/pkordes/cityinfo/internal/model"
	"github.com/pkordes/cityinfo/internal/patch"
	"github.com/pkordes/cityinfo/internal/validate"
)

const deletedSubject = "Point of interest deleted."

// PointOfInterestService implements the point of interest operations.
// Every operation first checks that the city exists; when it does not, the
// operation returns domain.ErrNotFound and does nothing else.
type PointOfInterestService struct {
	newRepo  RepoFactory
	mailer   mail.Sender
	validate *validate.Validator
	log      *slog.Logger
}

// NewPointOfInterestService constructs a PointOfInterestService.
func NewPointOfInterestService(newRepo RepoFactory, mailer mail.Sender, v *validate.Validator, log *slog.Logger) *PointOfInterestService {
	return &PointOfInterestService{newRepo: newRepo, mailer: mailer, validate: v, log: log}
}

// RequireCity fails exactly as the other operations would for a city that is
// out of scope or absent. Handlers call it before reporting an unreadable
// request body, so a missing city always answers not found.
func (s *PointOfInterestService) RequireCity(ctx context.Context, cityID int) error {
	if err := requireCity(ctx, s.newRepo(), s.log, cityID); err != nil {
		return fmt.Errorf("service.PointOfInterestService.RequireCity: %w", err)
	}
	return nil
}

// RequirePointOfInterest is RequireCity followed by the point of interest
// lookup.
func (s *PointOfInterestService) RequirePointOfInterest(ctx context.Context, cityID, pointOfInterestID int) error {
	r := s.newRepo()
	if err := requireCity(ctx, r, s.log, cityID); err != nil {
		return fmt.Errorf("service.PointOfInterestService.RequirePointOfInterest: %w", err)
	}
	if _, err := r.GetPointOfInterestForCity(ctx, cityID, pointOfInterestID); err != nil {
		return fmt.Errorf("service.PointOfInterestService.RequirePointOfInterest: %w", err)
	}
	return nil
}

// List returns every point of interest of the city.
func (s *PointOfInterestService) List(ctx context.Context, cityID int) (model.PointOfInterestList, error) {
	r := s.newRepo()
	if err := requireCity(ctx, r, s.log, cityID); err != nil {
		return nil, fmt.Errorf("service.PointOfInterestService.List: %w", err)
	}

	pois, err := r.GetPointsOfInterestForCity(ctx, cityID)
	if err != nil {
		return nil, fmt.Errorf("service.PointOfInterestService.List: %w", err)
	}
	return mapper.ToPointOfInterestDtos(pois), nil
}

// Get returns one point of interest of the city.
func (s *PointOfInterestService) Get(ctx context.Context, cityID, pointOfInterestID int) (model.PointOfInterestDto, error) {
	r := s.newRepo()
	if err := requireCity(ctx, r, s.log, cityID); err != nil {
		return model.PointOfInterestDto{}, fmt.Errorf("service.PointOfInterestService.Get: %w", err)
	}

	poi, err := r.GetPointOfInterestForCity(ctx, cityID, pointOfInterestID)
	if err != nil {
		return model.PointOfInterestDto{}, fmt.Errorf("service.PointOfInterestService.Get: %w", err)
	}
	return mapper.ToPointOfInterestDto(poi), nil
}

// Create validates in, stores it under the city, and returns the stored
// representation including the assigned id.
func (s *PointOfInterestService) Create(ctx context.Context, cityID int, in model.PointOfInterestForCreationDto) (model.PointOfInterestDto, error) {
	r := s.newRepo()
	if err := requireCity(ctx, r, s.log, cityID); err != nil {
		return model.PointOfInterestDto{}, fmt.Errorf("service.PointOfInterestService.Create: %w", err)
	}
	if err := s.validate.Struct(in); err != nil {
		return model.PointOfInterestDto{}, fmt.Errorf("service.PointOfInterestService.Create: %w", err)
	}

	poi := mapper.FromCreationDto(in)
	r.AddPointOfInterestForCity(cityID, poi)
	if err := r.Commit(ctx); err != nil {
		return model.PointOfInterestDto{}, fmt.Errorf("service.PointOfInterestService.Create: %w", err)
	}
	return mapper.ToPointOfInterestDto(poi), nil
}

// Update replaces the name and description of an existing point of interest.
func (s *PointOfInterestService) Update(ctx context.Context, cityID, pointOfInterestID int, in model.PointOfInterestForUpdateDto) error {
	r := s.newRepo()
	if err := requireCity(ctx, r, s.log, cityID); err != nil {
		return fmt.Errorf("service.PointOfInterestService.Update: %w", err)
	}

	poi, err := r.GetPointOfInterestForCity(ctx, cityID, pointOfInterestID)
	if err != nil {
		return fmt.Errorf("service.PointOfInterestService.Update: %w", err)
	}
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("service.PointOfInterestService.Update: %w", err)
	}

	mapper.ApplyUpdateDto(in, poi)
	if err := r.Commit(ctx); err != nil {
		return fmt.Errorf("service.PointOfInterestService.Update: %w", err)
	}
	return nil
}

// PartiallyUpdate applies doc to the update representation of the point of
// interest. The entity is only touched once the patched representation has
// passed the same rules as a full update. A document without operations is
// rejected.
func (s *PointOfInterestService) PartiallyUpdate(ctx context.Context, cityID, pointOfInterestID int, doc patch.Document) error {
	r := s.newRepo()
	if err := requireCity(ctx, r, s.log, cityID); err != nil {
		return fmt.Errorf("service.PointOfInterestService.PartiallyUpdate: %w", err)
	}

	poi, err := r.GetPointOfInterestForCity(ctx, cityID, pointOfInterestID)
	if err != nil {
		return fmt.Errorf("service.PointOfInterestService.PartiallyUpdate: %w", err)
	}
	if doc.Len() == 0 {
		return fmt.Errorf("service.PointOfInterestService.PartiallyUpdate: %w",
			domain.NewValidationError("patch", "patch document has no operations"))
	}

	dto := mapper.ToUpdateDto(poi)
	if err := patch.ApplyTo(doc, &dto); err != nil {
		return fmt.Errorf("service.PointOfInterestService.PartiallyUpdate: %w", err)
	}
	if err := s.validate.Struct(dto); err != nil {
		return fmt.Errorf("service.PointOfInterestService.PartiallyUpdate: %w", err)
	}

	mapper.ApplyUpdateDto(dto, poi)
	if err := r.Commit(ctx); err != nil {
		return fmt.Errorf("service.PointOfInterestService.PartiallyUpdate: %w", err)
	}
	return nil
}

// Delete removes the point of interest and then sends a notification.
// A notification failure is logged and never returned: the delete has
// already been committed.
func (s *PointOfInterestService) Delete(ctx context.Context, cityID, pointOfInterestID int) error {
	r := s.newRepo()
	if err := requireCity(ctx, r, s.log, cityID); err != nil {
		return fmt.Errorf("service.PointOfInterestService.Delete: %w", err)
	}

	poi, err := r.GetPointOfInterestForCity(ctx, cityID, pointOfInterestID)
	if err != nil {
		return fmt.Errorf("service.PointOfInterestService.Delete: %w", err)
	}

	r.DeletePointOfInterest(poi)
	if err := r.Commit(ctx); err != nil {
		return fmt.Errorf("service.PointOfInterestService.Delete: %w", err)
	}

	body := fmt.Sprintf("Point of interest %s with id %d was deleted", poi.Name, poi.ID)
	if err := s.mailer.Send(context.WithoutCancel(ctx), deletedSubject, body); err != nil {
		s.log.WarnContext(ctx, "delete notification failed",
			slog.Int("point_of_interest_id", poi.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}
