package facility

import "fmt"

// Canonical column labels after normalization.
const (
	ColName      = "Hospital_Name"
	ColVisits    = "Patients"
	ColRating    = "Rating"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
)

// Columns lists the recognized attributes in canonical order.
var Columns = []string{ColName, ColVisits, ColRating, ColLatitude, ColLongitude}

// Facility is one fully populated record handed to the derive and render stages.
type Facility struct {
	Row       int     `json:"row"`
	Name      string  `json:"name"`
	Visits    int     `json:"patients"`
	Rating    float64 `json:"rating"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Attribute selects a numeric attribute of a Facility.
type Attribute string

const (
	Visits    Attribute = ColVisits
	Rating    Attribute = ColRating
	Latitude  Attribute = ColLatitude
	Longitude Attribute = ColLongitude
)

// ParseAttribute maps a column label to a numeric attribute.
func ParseAttribute(s string) (Attribute, error) {
	switch Attribute(s) {
	case Visits, Rating, Latitude, Longitude:
		return Attribute(s), nil
	}
	return "", fmt.Errorf("unknown numeric attribute %q", s)
}

// Value returns the attribute of f as a float64.
func (a Attribute) Value(f Facility) float64 {
	switch a {
	case Visits:
		return float64(f.Visits)
	case Rating:
		return f.Rating
	case Latitude:
		return f.Latitude
	case Longitude:
		return f.Longitude
	}
	return 0
}

// Values extracts the attribute across fs, in order.
func (a Attribute) Values(fs []Facility) []float64 {
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = a.Value(f)
	}
	return out
}
