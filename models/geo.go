package models

import (
	"fmt"

	"github.com/paulmach/orb"
)

// BoundingBox is a rectangular geographic region defined by its south-west
// and north-east corners, named so repeated runs produce comparable output.
type BoundingBox struct {
	Name   string  `json:"name" yaml:"name"`
	SWLat  float64 `json:"sw_lat" yaml:"sw_lat"`
	SWLong float64 `json:"sw_long" yaml:"sw_long"`
	NELat  float64 `json:"ne_lat" yaml:"ne_lat"`
	NELong float64 `json:"ne_long" yaml:"ne_long"`
}

// Bound converts to an orb.Bound (Min/Max are lon-lat points).
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.SWLong, b.SWLat},
		Max: orb.Point{b.NELong, b.NELat},
	}
}

// BoxFromBound wraps an orb.Bound back into a named BoundingBox.
func BoxFromBound(bound orb.Bound, name string) BoundingBox {
	return BoundingBox{
		Name:   name,
		SWLat:  bound.Min.Lat(),
		SWLong: bound.Min.Lon(),
		NELat:  bound.Max.Lat(),
		NELong: bound.Max.Lon(),
	}
}

// Degenerate reports a zero-area or inverted box.
func (b BoundingBox) Degenerate() bool {
	return b.SWLat >= b.NELat || b.SWLong >= b.NELong
}

// Area returns the box area in squared degrees.
func (b BoundingBox) Area() float64 {
	if b.Degenerate() {
		return 0
	}
	return (b.NELat - b.SWLat) * (b.NELong - b.SWLong)
}

// Center returns the box midpoint, the map focus of a search call.
func (b BoundingBox) Center() (lat, long float64) {
	c := b.Bound().Center()
	return c.Lat(), c.Lon()
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%s [%.5f,%.5f → %.5f,%.5f]",
		b.Name, b.SWLat, b.SWLong, b.NELat, b.NELong)
}
