package geo

import (
	"github.com/golang/geo/s2"
)

const earthRadiusMeter = 6371000.0

// GeodesicDistance returns the great circle distance in meter between two points.
// this is the edge length of every graph edge (straight line between the two vertices).
func GeodesicDistance(latOne, lonOne, latTwo, lonTwo float64) float64 {
	a := s2.LatLngFromDegrees(latOne, lonOne)
	b := s2.LatLngFromDegrees(latTwo, lonTwo)
	return a.Distance(b).Radians() * earthRadiusMeter
}

// ValidCoordinate reports whether lat/lon is a normalized lat lng.
func ValidCoordinate(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}
