package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/cityinfo/internal/model"
	"github.com/pkordes/cityinfo/internal/patch"
)

// poiParams binds {cityId} and {pointOfInterestId}.
func poiParams(r *http.Request) (cityID, pointOfInterestID int, err error) {
	if cityID, err = pathInt(r, "cityId"); err != nil {
		return 0, 0, err
	}
	if pointOfInterestID, err = pathInt(r, "pointOfInterestId"); err != nil {
		return 0, 0, err
	}
	return cityID, pointOfInterestID, nil
}

// ListPointsOfInterest handles GET .../cities/{cityId}/pointsofinterest.
func (s *Server) ListPointsOfInterest(w http.ResponseWriter, r *http.Request) {
	cityID, err := pathInt(r, "cityId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pois, err := s.pois.List(r.Context(), cityID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, pois)
}

// GetPointOfInterest handles GET .../pointsofinterest/{pointOfInterestId}.
func (s *Server) GetPointOfInterest(w http.ResponseWriter, r *http.Request) {
	cityID, poiID, err := poiParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	poi, err := s.pois.Get(r.Context(), cityID, poiID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, poi)
}

// CreatePointOfInterest handles POST .../cities/{cityId}/pointsofinterest.
// The Location header points at the created resource under the same prefix
// (and therefore the same API version) as the request.
func (s *Server) CreatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	cityID, err := pathInt(r, "cityId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in model.PointOfInterestForCreationDto
	if err := decodeBody(r, &in); err != nil {
		s.writeBodyError(w, r, err, func(ctx context.Context) error {
			return s.pois.RequireCity(ctx, cityID)
		})
		return
	}

	created, err := s.pois.Create(r.Context(), cityID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+strconv.Itoa(created.ID))
	render(w, r, http.StatusCreated, created)
}

// UpdatePointOfInterest handles PUT .../pointsofinterest/{pointOfInterestId}.
func (s *Server) UpdatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	cityID, poiID, err := poiParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in model.PointOfInterestForUpdateDto
	if err := decodeBody(r, &in); err != nil {
		s.writeBodyError(w, r, err, func(ctx context.Context) error {
			return s.pois.RequirePointOfInterest(ctx, cityID, poiID)
		})
		return
	}

	if err := s.pois.Update(r.Context(), cityID, poiID, in); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PartiallyUpdatePointOfInterest handles PATCH .../pointsofinterest/{pointOfInterestId}
// with an RFC 6902 JSON Patch body.
func (s *Server) PartiallyUpdatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	cityID, poiID, err := poiParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	raw, err := readBody(r)
	var doc patch.Document
	if err == nil {
		doc, err = patch.Decode(raw)
	}
	if err != nil {
		s.writeBodyError(w, r, err, func(ctx context.Context) error {
			return s.pois.RequirePointOfInterest(ctx, cityID, poiID)
		})
		return
	}

	if err := s.pois.PartiallyUpdate(r.Context(), cityID, poiID, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeBodyError answers a request whose body could not be read or decoded.
// The addressed resource is looked up first: when it is missing or out of
// scope that error wins over the body error.
func (s *Server) writeBodyError(w http.ResponseWriter, r *http.Request, bodyErr error, lookup func(context.Context) error) {
	if err := lookup(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeError(w, r, bodyErr)
}

// DeletePointOfInterest handles DELETE .../pointsofinterest/{pointOfInterestId}.
func (s *Server) DeletePointOfInterest(w http.ResponseWriter, r *http.Request) {
	cityID, poiID, err := poiParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.pois.Delete(r.Context(), cityID, poiID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
