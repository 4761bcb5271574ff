package domain

// PointOfInterest is a place of note inside a city.
// ID is generated by the store and unique across all cities.
type PointOfInterest struct {
	ID          int
	CityID      int
	Name        string
	Description string
}
