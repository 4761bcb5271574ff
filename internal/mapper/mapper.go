// Package mapper translates between persisted domain entities and the wire DTOs
// in package model. Every function is a pure field copy: no I/O, no validation,
// no failure modes. Validation happens before anything reaches the mapper.
package mapper

import (
	"github.com/pkordes/cityinfo/internal/domain"
	"github.com/pkordes/cityinfo/internal/model"
)

// ToPointOfInterestDto copies id, name, and description verbatim.
func ToPointOfInterestDto(p *domain.PointOfInterest) model.PointOfInterestDto {
	return model.PointOfInterestDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}
}

// ToPointOfInterestDtos maps a slice, always returning a non-nil list so an
// empty result renders as [] rather than null.
func ToPointOfInterestDtos(ps []*domain.PointOfInterest) model.PointOfInterestList {
	out := make(model.PointOfInterestList, len(ps))
	for i, p := range ps {
		out[i] = ToPointOfInterestDto(p)
	}
	return out
}

// FromCreationDto builds a new, unsaved entity. ID is left for the store and
// CityID for repo.CityInfoRepo.AddPointOfInterestForCity.
func FromCreationDto(in model.PointOfInterestForCreationDto) *domain.PointOfInterest {
	return &domain.PointOfInterest{
		Name:        in.Name,
		Description: in.Description,
	}
}

// ToUpdateDto seeds the base document a patch is applied to.
func ToUpdateDto(p *domain.PointOfInterest) model.PointOfInterestForUpdateDto {
	return model.PointOfInterestForUpdateDto{
		Name:        p.Name,
		Description: p.Description,
	}
}

// ApplyUpdateDto overwrites name and description on target in place.
// ID and CityID are never touched.
func ApplyUpdateDto(in model.PointOfInterestForUpdateDto, target *domain.PointOfInterest) {
	target.Name = in.Name
	target.Description = in.Description
}

// ToCityWithoutPointsOfInterestDto maps the summary view of a city.
func ToCityWithoutPointsOfInterestDto(c domain.City) model.CityWithoutPointsOfInterestDto {
	return model.CityWithoutPointsOfInterestDto{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

// ToCityWithoutPointsOfInterestDtos maps a slice of cities.
func ToCityWithoutPointsOfInterestDtos(cs []domain.City) model.CityList {
	out := make(model.CityList, len(cs))
	for i, c := range cs {
		out[i] = ToCityWithoutPointsOfInterestDto(c)
	}
	return out
}

// ToCityDto maps the detailed view of a city with its points of interest.
func ToCityDto(c domain.City) model.CityDto {
	pois := ToPointOfInterestDtos(c.PointsOfInterest)
	return model.CityDto{
		ID:                       c.ID,
		Name:                     c.Name,
		Description:              c.Description,
		NumberOfPointsOfInterest: len(pois),
		PointsOfInterest:         pois,
	}
}
