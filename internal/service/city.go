package service

import (
	"context"
	"fmt"

	"github.com/pkordes/cityinfo/internal/mapper"
	"github.com/pkordes/cityinfo/internal/model"
)

// CityService implements the read-only city operations.
type CityService struct {
	newRepo RepoFactory
}

// NewCityService constructs a CityService.
func NewCityService(newRepo RepoFactory) *CityService {
	return &CityService{newRepo: newRepo}
}

// List returns every city ordered by name, without points of interest.
func (s *CityService) List(ctx context.Context) (model.CityList, error) {
	cities, err := s.newRepo().GetCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CityService.List: %w", err)
	}
	return mapper.ToCityWithoutPointsOfInterestDtos(cities), nil
}

// Get returns one city without its points of interest.
func (s *CityService) Get(ctx context.Context, cityID int) (model.CityWithoutPointsOfInterestDto, error) {
	r := s.newRepo()
	if err := authorizeCity(ctx, r, cityID); err != nil {
		return model.CityWithoutPointsOfInterestDto{}, fmt.Errorf("service.CityService.Get: %w", err)
	}
	c, err := r.GetCity(ctx, cityID, false)
	if err != nil {
		return model.CityWithoutPointsOfInterestDto{}, fmt.Errorf("service.CityService.Get: %w", err)
	}
	return mapper.ToCityWithoutPointsOfInterestDto(c), nil
}

// GetWithPointsOfInterest returns one city including its points of interest.
func (s *CityService) GetWithPointsOfInterest(ctx context.Context, cityID int) (model.CityDto, error) {
	r := s.newRepo()
	if err := authorizeCity(ctx, r, cityID); err != nil {
		return model.CityDto{}, fmt.Errorf("service.CityService.GetWithPointsOfInterest: %w", err)
	}
	c, err := r.GetCity(ctx, cityID, true)
	if err != nil {
		return model.CityDto{}, fmt.Errorf("service.CityService.GetWithPointsOfInterest: %w", err)
	}
	return mapper.ToCityDto(c), nil
}
