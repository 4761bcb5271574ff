// Package domain contains the core data types for the City Info application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

// City is the top-level aggregate. It is created by seed migrations only and
// never mutated by the API. Deleting a city cascades to its points of interest.
type City struct {
	ID          int
	Name        string
	Description string

	// PointsOfInterest is populated only when explicitly requested.
	PointsOfInterest []*PointOfInterest
}
