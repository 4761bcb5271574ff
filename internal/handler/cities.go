package handler

import "net/http"

// ListCities handles GET /api/cities.
func (s *Server) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.cities.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, cities)
}

// GetCity handles GET /api/cities/{cityId}?includePointsOfInterest=bool.
func (s *Server) GetCity(w http.ResponseWriter, r *http.Request) {
	cityID, err := pathInt(r, "cityId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	include, err := queryBool(r, "includePointsOfInterest")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if include {
		city, err := s.cities.GetWithPointsOfInterest(r.Context(), cityID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		render(w, r, http.StatusOK, city)
		return
	}

	city, err := s.cities.Get(r.Context(), cityID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render(w, r, http.StatusOK, city)
}
