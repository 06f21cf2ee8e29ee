package datastructure

type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) *BoundingBox {
	return &BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

func (b *BoundingBox) GetMinLat() float64 {
	return b.minLat
}

func (b *BoundingBox) GetMinLon() float64 {
	return b.minLon
}

func (b *BoundingBox) GetMaxLat() float64 {
	return b.maxLat
}

func (b *BoundingBox) GetMaxLon() float64 {
	return b.maxLon
}

// Contains is inclusive on every side.
func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lon <= b.maxLon && lon >= b.minLon && lat >= b.minLat && lat <= b.maxLat
}

// Area in square degrees (lon span * lat span).
func (b *BoundingBox) Area() float64 {
	return (b.maxLon - b.minLon) * (b.maxLat - b.minLat)
}
