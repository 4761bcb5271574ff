// Package model holds the wire-facing data transfer objects of the City Info API.
// DTOs carry JSON, XML and validation tags; they are never persisted.
package model

import "encoding/xml"

// PointOfInterestDto is the full, read-only representation of a point of interest.
type PointOfInterestDto struct {
	XMLName     xml.Name `json:"-" xml:"PointOfInterest"`
	ID          int      `json:"id" xml:"id"`
	Name        string   `json:"name" xml:"name"`
	Description string   `json:"description" xml:"description"`
}

// PointOfInterestForCreationDto is the body of POST .../pointsofinterest.
// The id is assigned by the store.
type PointOfInterestForCreationDto struct {
	XMLName     xml.Name `json:"-" xml:"PointOfInterestForCreation"`
	Name        string   `json:"name" xml:"name" validate:"required,notblank,max=50"`
	Description string   `json:"description" xml:"description" validate:"max=200"`
}

// PointOfInterestForUpdateDto is the body of PUT and the base document a PATCH
// is applied to. Sharing one shape keeps both paths under identical rules.
type PointOfInterestForUpdateDto struct {
	XMLName     xml.Name `json:"-" xml:"PointOfInterestForUpdate"`
	Name        string   `json:"name" xml:"name" validate:"required,notblank,max=50"`
	Description string   `json:"description" xml:"description" validate:"max=200"`
}

// PointOfInterestList renders as a JSON array and as a wrapped XML collection.
type PointOfInterestList []PointOfInterestDto

// MarshalXML wraps the items in a single root element; encoding/xml would
// otherwise emit sibling roots for a bare slice.
func (l PointOfInterestList) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "PointsOfInterest"}
	return e.EncodeElement(struct {
		Items []PointOfInterestDto `xml:"PointOfInterest"`
	}{Items: l}, start)
}
