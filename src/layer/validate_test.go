package layer_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"tmap-export/src/layer"
)

func TestParseKind(t *testing.T) {
	k, err := layer.ParseKind(" Points ")
	if err != nil {
		t.Fatal(err)
	}
	if k != layer.KindPoints {
		t.Fatalf("got %q want points", k)
	}
	if _, err := layer.ParseKind("surface"); !errors.Is(err, layer.ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestValidate_Valid(t *testing.T) {
	labels := layer.NewLabelGrid(2, 2)
	labels.Set(1, 1, 5)
	layers := []layer.Layer{
		layer.NewImage("img", image.NewGray(image.Rect(0, 0, 3, 2))),
		layer.NewLabels("cells", labels),
		layer.NewPoints("spots", &layer.Points{Coords: []layer.Point{{Y: 1, X: 2}}}),
		layer.NewShapes("rois", &layer.Shapes{Items: []layer.Shape{
			{Type: layer.ShapeLine, Vertices: []layer.Point{{0, 0}, {1, 1}}},
		}}),
	}
	for _, l := range layers {
		if err := l.Validate(); err != nil {
			t.Fatalf("%s: unexpected error: %v", l.Name, err)
		}
	}
}

func TestValidate_Failures(t *testing.T) {
	pts := func(p *layer.Points) layer.Layer { return layer.NewPoints("p", p) }
	cases := []struct {
		name string
		l    layer.Layer
	}{
		{"empty name", layer.NewImage(" ", image.NewGray(image.Rect(0, 0, 1, 1)))},
		{"unsupported kind", layer.Layer{Name: "v", Kind: "vectors"}},
		{"no raster", layer.Layer{Name: "i", Kind: layer.KindImage, Style: layer.DefaultStyle()}},
		{"empty raster", layer.NewImage("i", image.NewGray(image.Rect(0, 0, 0, 4)))},
		{"opacity", func() layer.Layer {
			l := layer.NewImage("i", image.NewGray(image.Rect(0, 0, 1, 1)))
			l.Style.Opacity = 1.5
			return l
		}()},
		{"short grid", layer.NewLabels("l", &layer.Labels{Width: 2, Height: 2, IDs: []uint32{1}})},
		{"color count", pts(&layer.Points{
			Coords:     []layer.Point{{0, 0}, {1, 1}, {2, 2}},
			FaceColors: make([]color.NRGBA, 2),
		})},
		{"nan coordinate", pts(&layer.Points{Coords: []layer.Point{{Y: math.NaN()}}})},
		{"property length", pts(&layer.Points{
			Coords:     []layer.Point{{0, 0}},
			Properties: []layer.Property{{Name: "gene", Values: []string{"a", "b"}}},
		})},
		{"duplicate property", pts(&layer.Points{
			Coords: []layer.Point{{0, 0}},
			Properties: []layer.Property{
				{Name: "gene", Values: []string{"a"}},
				{Name: "gene", Values: []string{"b"}},
			},
		})},
		{"rectangle vertices", layer.NewShapes("s", &layer.Shapes{Items: []layer.Shape{
			{Type: layer.ShapeRectangle, Vertices: []layer.Point{{0, 0}, {1, 1}}},
		}})},
		{"shape type", layer.NewShapes("s", &layer.Shapes{Items: []layer.Shape{
			{Type: "star", Vertices: []layer.Point{{0, 0}, {1, 1}, {2, 2}}},
		}})},
	}
	for _, c := range cases {
		err := c.l.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		var ve *layer.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected *ValidationError, got %T", c.name, err)
		}
	}
}

func TestValidate_UnsupportedKindIsWrapped(t *testing.T) {
	err := layer.Layer{Name: "tracks", Kind: "tracks"}.Validate()
	if !errors.Is(err, layer.ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestLabelsUnique(t *testing.T) {
	l := &layer.Labels{Width: 3, Height: 2, IDs: []uint32{0, 7, 2, 7, 0, 2}}
	got := l.Unique()
	if len(got) != 2 || got[0] != 2 || got[1] != 7 {
		t.Fatalf("unique: got %v", got)
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	ls := []layer.Layer{
		{Name: "a", Kind: layer.KindPoints},
		{Name: "b", Kind: layer.KindImage},
		{Name: "c", Kind: layer.KindPoints},
	}
	got := layer.Filter(ls, layer.KindPoints)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("filter: got %+v", got)
	}
}
