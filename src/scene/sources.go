package scene

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"tmap-export/src/layer"
	"tmap-export/src/points"
	"tmap-export/src/raster"
	"tmap-export/src/style"
)

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func loadLabels(path string, colors map[uint32]string) (*layer.Labels, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	lb, err := raster.LabelsFromGray(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(colors) > 0 {
		lb.Colors = make(map[uint32]color.NRGBA, len(colors))
		for id, s := range colors {
			c, err := style.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("label %d: %w", id, err)
			}
			lb.Colors[id] = c
		}
	}
	return lb, nil
}

func (s LayerSpec) buildPoints(base string) (*layer.Points, error) {
	var pts *layer.Points
	if s.Source != "" {
		f, err := os.Open(resolve(base, s.Source))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if pts, err = points.ReadViewer(f); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Source, err)
		}
	} else {
		pts = &layer.Points{}
		for i, p := range s.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("point %d: want [row, col], got %d values", i, len(p))
			}
			pts.Coords = append(pts.Coords, layer.Point{Y: p[0], X: p[1]})
		}
	}
	for _, p := range s.Properties {
		pts.Properties = append(pts.Properties, layer.Property{Name: p.Name, Values: p.Values})
	}
	colors, err := parseColors(s.FaceColor, s.FaceColors)
	if err != nil {
		return nil, err
	}
	pts.FaceColors = colors
	pts.Symbol = s.Symbol
	if pts.Symbol == "" {
		pts.Symbol = layer.DefaultSymbol
	}
	return pts, nil
}

func (s LayerSpec) buildShapes(base string) (*layer.Shapes, error) {
	out := &layer.Shapes{}
	if s.Source != "" {
		f, err := os.Open(resolve(base, s.Source))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		items, err := readShapesCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Source, err)
		}
		colors, err := parseColors(s.FaceColor, s.FaceColors)
		if err != nil {
			return nil, err
		}
		if len(colors) > 1 && len(colors) != len(items) {
			return nil, fmt.Errorf("%d face colors for %d shapes", len(colors), len(items))
		}
		for i := range items {
			if len(colors) == 1 {
				items[i].FaceColor = colors[0]
			} else {
				items[i].FaceColor = colors[i]
			}
		}
		out.Items = items
	}
	for i, sp := range s.Shapes {
		t, err := layer.ParseShapeType(sp.Type)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		sh := layer.Shape{Type: t, FaceColor: style.Named["white"]}
		if sp.FaceColor != "" {
			if sh.FaceColor, err = style.Parse(sp.FaceColor); err != nil {
				return nil, fmt.Errorf("shape %d: %w", i, err)
			}
		}
		for _, v := range sp.Vertices {
			if len(v) != 2 {
				return nil, fmt.Errorf("shape %d: vertex must be [row, col]", i)
			}
			sh.Vertices = append(sh.Vertices, layer.Point{Y: v[0], X: v[1]})
		}
		out.Items = append(out.Items, sh)
	}
	for _, p := range s.Properties {
		out.Properties = append(out.Properties, layer.Property{Name: p.Name, Values: p.Values})
	}
	return out, nil
}

// readShapesCSV parses the viewer's shapes CSV: one row per vertex with
// columns index, shape-type, vertex-index, axis-0, axis-1.
func readShapesCSV(r io.Reader) ([]layer.Shape, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, need := range []string{"index", "shape-type", "axis-0", "axis-1"} {
		if _, ok := col[need]; !ok {
			return nil, fmt.Errorf("shapes csv is missing column %q", need)
		}
	}

	var out []layer.Shape
	pos := map[string]int{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		idx := rec[col["index"]]
		y, err := strconv.ParseFloat(rec[col["axis-0"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		x, err := strconv.ParseFloat(rec[col["axis-1"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		i, seen := pos[idx]
		if !seen {
			t, err := layer.ParseShapeType(rec[col["shape-type"]])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			i = len(out)
			pos[idx] = i
			out = append(out, layer.Shape{Type: t, FaceColor: style.Named["white"]})
		}
		out[i].Vertices = append(out[i].Vertices, layer.Point{Y: y, X: x})
	}
	return out, nil
}
