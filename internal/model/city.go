package model

import "encoding/xml"

// CityWithoutPointsOfInterestDto is the summary representation of a city.
type CityWithoutPointsOfInterestDto struct {
	XMLName     xml.Name `json:"-" xml:"City"`
	ID          int      `json:"id" xml:"id"`
	Name        string   `json:"name" xml:"name"`
	Description string   `json:"description,omitempty" xml:"description,omitempty"`
}

// CityDto is the detailed representation of a city including its points of interest.
type CityDto struct {
	XMLName                  xml.Name             `json:"-" xml:"City"`
	ID                       int                  `json:"id" xml:"id"`
	Name                     string               `json:"name" xml:"name"`
	Description              string               `json:"description,omitempty" xml:"description,omitempty"`
	NumberOfPointsOfInterest int                  `json:"numberOfPointsOfInterest" xml:"numberOfPointsOfInterest"`
	PointsOfInterest         []PointOfInterestDto `json:"pointsOfInterest" xml:"pointsOfInterest>PointOfInterest"`
}

// CityList renders as a JSON array and as a wrapped XML collection.
type CityList []CityWithoutPointsOfInterestDto

// MarshalXML wraps the items in a single root element.
func (l CityList) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "Cities"}
	return e.EncodeElement(struct {
		Items []CityWithoutPointsOfInterestDto `xml:"City"`
	}{Items: l}, start)
}
