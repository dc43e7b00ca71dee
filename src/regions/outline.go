// Package regions converts shape layers to GeoJSON region files.
package regions

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"tmap-export/src/layer"
)

// Options controls ellipse tessellation.
type Options struct {
	// ArcDistance is the target length of one ellipse segment, measured on
	// a circle with the ellipse's longest semi-axis.
	ArcDistance float64
	// MinSegments is the lower bound on segments per ellipse.
	MinSegments int
}

// DefaultOptions returns the tessellation used by the viewer plugin.
func DefaultOptions() Options {
	return Options{ArcDistance: 3.0, MinSegments: 10}
}

// Outline returns the closed-ring vertices, in viewer order, that draw sh.
func Outline(sh layer.Shape, opts Options) []layer.Point {
	switch sh.Type {
	case layer.ShapeEllipse:
		return Ellipse(sh.Vertices, opts)
	case layer.ShapeLine, layer.ShapePath:
		return backtrack(sh.Vertices)
	default:
		out := make([]layer.Point, len(sh.Vertices))
		copy(out, sh.Vertices)
		return out
	}
}

// backtrack walks a polyline forward and back again so it encloses no area
// but still renders as a ring.
func backtrack(v []layer.Point) []layer.Point {
	out := make([]layer.Point, 0, 2*len(v)-1)
	out = append(out, v...)
	for i := len(v) - 2; i >= 0; i-- {
		out = append(out, v[i])
	}
	return out
}

// untrack is the inverse of backtrack.
func untrack(ring []layer.Point) []layer.Point {
	n := (len(ring) + 1) / 2
	out := make([]layer.Point, n)
	copy(out, ring[:n])
	return out
}

// Ellipse samples the ellipse inscribed in the bounding box given by the
// viewer's four control vertices. The result has Segments(...)+1 points,
// first and last coincide.
func Ellipse(v []layer.Point, opts Options) []layer.Point {
	cy := (v[0].Y + v[2].Y) / 2
	cx := (v[0].X + v[1].X) / 2
	a := v[1].Y - cy
	b := v[1].X - cx

	n := Segments(a, b, opts)
	thetas := floats.Span(make([]float64, n+1), 0, 2*math.Pi)
	out := make([]layer.Point, len(thetas))
	for i, t := range thetas {
		out[i] = layer.Point{Y: a*math.Cos(t) + cy, X: b*math.Sin(t) + cx}
	}
	return out
}

// Segments returns how many segments an ellipse with semi-axes a and b is
// drawn with, so resolution grows with size.
func Segments(a, b float64, opts Options) int {
	if opts.ArcDistance <= 0 {
		opts.ArcDistance = DefaultOptions().ArcDistance
	}
	if opts.MinSegments <= 0 {
		opts.MinSegments = DefaultOptions().MinSegments
	}
	maxAxis := math.Max(math.Abs(a), math.Abs(b))
	n := int(math.Ceil(2 * math.Pi * maxAxis / opts.ArcDistance))
	if n < opts.MinSegments {
		n = opts.MinSegments
	}
	return n
}
