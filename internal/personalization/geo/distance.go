// Package geo provides great-circle distance and distance labels.
package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceTo returns the haversine distance to q in kilometers.
func (p Point) DistanceTo(q Point) float64 {
	return DistanceKm(p.Lat, p.Lng, q.Lat, q.Lng)
}

// DistanceKm returns the haversine distance between two coordinates in kilometers.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// rounding can push a slightly past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Locale selects the unit labels used by FormatDistance.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleHE Locale = "he"
)

// FormatDistance renders km for display. Under one kilometer the value is
// shown in meters rounded to the nearest 50; otherwise in kilometers with one
// decimal.
func FormatDistance(km float64, locale Locale) string {
	meterUnit, kmUnit := "m", "km"
	if locale == LocaleHE {
		meterUnit, kmUnit = "מ'", "ק\"מ"
	}

	if km < 1 {
		meters := math.Round(km*1000/50) * 50
		return fmt.Sprintf("%d %s", int(meters), meterUnit)
	}
	// Halves round away from zero; %.1f alone would round them to even.
	return fmt.Sprintf("%.1f %s", math.Round(km*10)/10, kmUnit)
}
