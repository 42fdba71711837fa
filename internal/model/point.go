// Package model defines the entities produced by the weld-count pipeline.
package model

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Point is a 3D position in millimeters, in plant coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the 3D Euclidean distance to q in millimeters.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Coord converts the point to a go-geom XYZ coordinate.
func (p Point) Coord() geom.Coord {
	return geom.Coord{p.X, p.Y, p.Z}
}

// Geom converts the point to a go-geom XYZ point geometry.
func (p Point) Geom() *geom.Point {
	return geom.NewPointFlat(geom.XYZ, []float64{p.X, p.Y, p.Z})
}

// WKT returns the point as a POINT Z well-known-text literal, used by the
// row-set exporters so positions survive round-trips through spreadsheets.
func (p Point) WKT() string {
	s, err := wkt.Marshal(p.Geom())
	if err != nil {
		// Point marshalling cannot fail for a finite XYZ coordinate; keep a
		// readable fallback for NaN/Inf inputs.
		return fmt.Sprintf("POINT Z (%g %g %g)", p.X, p.Y, p.Z)
	}
	return s
}

// String formats the point for logs.
func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)
}
