package layer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"
)

// Kind is the viewer's layer type string.
type Kind string

const (
	KindImage  Kind = "image"
	KindLabels Kind = "labels"
	KindPoints Kind = "points"
	KindShapes Kind = "shapes"
)

// SupportedKinds lists the kinds the exporter can write, in manifest order.
var SupportedKinds = []Kind{KindImage, KindLabels, KindPoints, KindShapes}

// ErrUnsupportedKind is returned for any layer kind outside SupportedKinds.
var ErrUnsupportedKind = errors.New("unsupported layer kind")

// ParseKind normalizes s and returns the matching Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Supported() {
		return k, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}

// Supported reports whether k is one of SupportedKinds.
func (k Kind) Supported() bool {
	for _, s := range SupportedKinds {
		if k == s {
			return true
		}
	}
	return false
}

// Style holds the visual attributes shared by every layer kind.
type Style struct {
	// Colormap is the image colormap name (gray, red, green, ...). Ignored
	// for other kinds.
	Colormap   string
	Opacity    float64
	Visible    bool
	Brightness float64
	Contrast   float64
}

// DefaultStyle matches the viewer defaults for a freshly added layer.
func DefaultStyle() Style {
	return Style{Colormap: "gray", Opacity: 1, Visible: true, Contrast: 1}
}

// Layer is a single viewer layer. Exactly one payload field is set and it
// must agree with Kind.
type Layer struct {
	Name  string
	Kind  Kind
	Style Style

	Image  image.Image
	Labels *Labels
	Points *Points
	Shapes *Shapes
}

// NewImage returns an image layer with default style.
func NewImage(name string, img image.Image) Layer {
	return Layer{Name: name, Kind: KindImage, Style: DefaultStyle(), Image: img}
}

// NewLabels returns a labels layer with default style.
func NewLabels(name string, labels *Labels) Layer {
	st := DefaultStyle()
	st.Opacity = 0.7
	return Layer{Name: name, Kind: KindLabels, Style: st, Labels: labels}
}

// NewPoints returns a points layer with default style.
func NewPoints(name string, pts *Points) Layer {
	return Layer{Name: name, Kind: KindPoints, Style: DefaultStyle(), Points: pts}
}

// NewShapes returns a shapes layer with default style.
func NewShapes(name string, shapes *Shapes) Layer {
	return Layer{Name: name, Kind: KindShapes, Style: DefaultStyle(), Shapes: shapes}
}

// Labels is a row-major grid of label ids; 0 is background.
type Labels struct {
	Width  int
	Height int
	IDs    []uint32
	// Colors optionally pins the colour of individual label ids.
	Colors map[uint32]color.NRGBA
}

// NewLabelGrid allocates an all-background grid.
func NewLabelGrid(width, height int) *Labels {
	return &Labels{Width: width, Height: height, IDs: make([]uint32, width*height)}
}

func (l *Labels) At(x, y int) uint32 { return l.IDs[y*l.Width+x] }

func (l *Labels) Set(x, y int, id uint32) { l.IDs[y*l.Width+x] = id }

// Unique returns the distinct non-background ids in ascending order.
func (l *Labels) Unique() []uint32 {
	seen := make(map[uint32]struct{})
	for _, id := range l.IDs {
		if id != 0 {
			seen[id] = struct{}{}
		}
	}
	out := make([]uint32, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Point is a coordinate in viewer order (row, column).
type Point struct {
	Y float64
	X float64
}

// Property is a named per-item column (one value per point or shape).
type Property struct {
	Name   string
	Values []string
}

// DefaultSymbol is the marker used when a points layer has none.
const DefaultSymbol = "disc"

// Points is the payload of a points layer.
type Points struct {
	Coords []Point
	// FaceColors holds either one colour per point or a single shared one.
	FaceColors []color.NRGBA
	Symbol     string
	Properties []Property
}

// ColorAt returns the face colour of point i.
func (p *Points) ColorAt(i int) color.NRGBA {
	switch len(p.FaceColors) {
	case 0:
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	case 1:
		return p.FaceColors[0]
	default:
		return p.FaceColors[i]
	}
}

// ShapeType is the viewer's shape primitive.
type ShapeType string

const (
	ShapePolygon   ShapeType = "polygon"
	ShapeRectangle ShapeType = "rectangle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeLine      ShapeType = "line"
	ShapePath      ShapeType = "path"
)

// ParseShapeType normalizes s into a ShapeType.
func ParseShapeType(s string) (ShapeType, error) {
	t := ShapeType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case ShapePolygon, ShapeRectangle, ShapeEllipse, ShapeLine, ShapePath:
		return t, nil
	}
	return t, fmt.Errorf("unknown shape type %q", s)
}

// Shape is one primitive of a shapes layer, vertices in viewer order.
type Shape struct {
	Type      ShapeType
	Vertices  []Point
	FaceColor color.NRGBA
}

// Shapes is the payload of a shapes layer.
type Shapes struct {
	Items      []Shape
	Properties []Property
}

// Filter returns the layers whose kind is one of kinds, preserving order.
func Filter(layers []Layer, kinds ...Kind) []Layer {
	var out []Layer
	for _, l := range layers {
		for _, k := range kinds {
			if l.Kind == k {
				out = append(out, l)
				break
			}
		}
	}
	return out
}
