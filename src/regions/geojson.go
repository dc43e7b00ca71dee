package regions

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"tmap-export/src/layer"
	"tmap-export/src/style"
)

// Feature property keys.
const (
	propName           = "name"
	propClassification = "classification"
	propColor          = "color"
	propLocked         = "isLocked"
	propShapeType      = "shapeType"
	propExtra          = "extra"
	propVertices       = "vertices"
)

// FeatureName is the region name of shape i of a layer.
func FeatureName(layerName string, t layer.ShapeType, i int) string {
	return fmt.Sprintf("%s_%s_%d", layerName, t, i+1)
}

// Collection builds one MultiPolygon feature per shape. Coordinates are
// swapped from viewer order to x, y.
func Collection(layerName string, s *layer.Shapes, opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, sh := range s.Items {
		ring := toRing(Outline(sh, opts))
		mp := orb.MultiPolygon{orb.Polygon{ring}}
		f := geojson.NewFeature(mp)
		f.BBox = geojson.NewBBox(mp.Bound())
		f.Properties[propName] = FeatureName(layerName, sh.Type, i)
		f.Properties[propClassification] = map[string]any{"name": ""}
		f.Properties[propColor] = style.Triple(sh.FaceColor)
		f.Properties[propLocked] = false
		f.Properties[propShapeType] = string(sh.Type)
		extra := map[string]any{}
		for _, p := range s.Properties {
			extra[p.Name] = p.Values[i]
		}
		f.Properties[propExtra] = extra
		if sh.Type == layer.ShapeEllipse {
			f.Properties[propVertices] = xyPairs(sh.Vertices)
		}
		fc.Append(f)
	}
	return fc
}

// Write encodes the shapes of one layer as an indented FeatureCollection.
func Write(w io.Writer, layerName string, s *layer.Shapes, opts Options) error {
	data, err := json.MarshalIndent(Collection(layerName, s, opts), "", "    ")
	if err != nil {
		return fmt.Errorf("encode regions: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Read decodes a FeatureCollection written by Write back into shapes.
// Extra properties come back sorted by name.
func Read(r io.Reader) (*layer.Shapes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	out := &layer.Shapes{}
	props := map[string][]string{}
	for i, f := range fc.Features {
		sh, err := decodeShape(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out.Items = append(out.Items, sh)
		if extra, ok := f.Properties[propExtra].(map[string]any); ok {
			for k, v := range extra {
				if _, seen := props[k]; !seen {
					props[k] = make([]string, len(fc.Features))
				}
				props[k][i] = fmt.Sprint(v)
			}
		}
	}
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		out.Properties = append(out.Properties, layer.Property{Name: k, Values: props[k]})
	}
	return out, nil
}

func decodeShape(f *geojson.Feature) (layer.Shape, error) {
	var ring orb.Ring
	switch g := f.Geometry.(type) {
	case orb.MultiPolygon:
		if len(g) == 0 || len(g[0]) == 0 {
			return layer.Shape{}, errors.New("empty multipolygon")
		}
		ring = g[0][0]
	case orb.Polygon:
		if len(g) == 0 {
			return layer.Shape{}, errors.New("empty polygon")
		}
		ring = g[0]
	default:
		return layer.Shape{}, fmt.Errorf("unsupported geometry %T", f.Geometry)
	}

	sh := layer.Shape{Type: layer.ShapePolygon}
	if s, ok := f.Properties[propShapeType].(string); ok {
		t, err := layer.ParseShapeType(s)
		if err != nil {
			return layer.Shape{}, err
		}
		sh.Type = t
	}
	c, err := decodeColor(f.Properties[propColor])
	if err != nil {
		return layer.Shape{}, err
	}
	sh.FaceColor = c

	pts := fromRing(ring)
	switch sh.Type {
	case layer.ShapeEllipse:
		v, err := decodeVertices(f.Properties[propVertices])
		if err != nil {
			return layer.Shape{}, fmt.Errorf("ellipse vertices: %w", err)
		}
		sh.Vertices = v
	case layer.ShapeLine, layer.ShapePath:
		sh.Vertices = untrack(pts)
	default:
		sh.Vertices = pts
	}
	return sh, nil
}

func decodeColor(v any) (color.NRGBA, error) {
	list, ok := v.([]any)
	if !ok {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
	}
	ints := make([]int, len(list))
	for i, x := range list {
		f, ok := x.(float64)
		if !ok {
			return color.NRGBA{}, fmt.Errorf("colour component %v is not a number", x)
		}
		ints[i] = int(f)
	}
	return style.FromTriple(ints)
}

func decodeVertices(v any) ([]layer.Point, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, errors.New("missing")
	}
	out := make([]layer.Point, len(list))
	for i, item := range list {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("vertex %d malformed", i)
		}
		x, okx := pair[0].(float64)
		y, oky := pair[1].(float64)
		if !okx || !oky {
			return nil, fmt.Errorf("vertex %d malformed", i)
		}
		out[i] = layer.Point{Y: y, X: x}
	}
	return out, nil
}

func toRing(pts []layer.Point) orb.Ring {
	ring := make(orb.Ring, len(pts))
	for i, p := range pts {
		ring[i] = orb.Point{p.X, p.Y}
	}
	return ring
}

func xyPairs(pts []layer.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func fromRing(ring orb.Ring) []layer.Point {
	out := make([]layer.Point, len(ring))
	for i, p := range ring {
		out[i] = layer.Point{Y: p[1], X: p[0]}
	}
	return out
}
