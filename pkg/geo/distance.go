package geo

import "math"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// PlanarDistance is the euclidean distance in (lon, lat) degree space.
// proximity radius and region areas are expressed in these units, same as the bounding box.
func PlanarDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	return math.Hypot(longTwo-longOne, latTwo-latOne)
}
