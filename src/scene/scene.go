// Package scene loads a scene description file: the list of layers to
// export, with their styles and the files holding their data.
//
// A scene is YAML (JSON is accepted as well):
//
//	layers:
//	  - name: Image
//	    kind: image
//	    source: astronaut.png
//	  - name: Labels
//	    kind: labels
//	    source: labels.tif
//	    colors: {1: red, 2: green, 3: blue}
//	  - name: Points
//	    kind: points
//	    source: points.csv
//	    symbol: star
//	    face_color: "#FF8800"
//	  - name: Shapes
//	    kind: shapes
//	    shapes:
//	      - type: rectangle
//	        vertices: [[10, 10], [10, 50], [40, 50], [40, 10]]
//	        face_color: cyan
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tmap-export/src/layer"
	"tmap-export/src/style"
)

// File is the decoded scene document.
type File struct {
	Layers []LayerSpec `yaml:"layers"`
}

// LayerSpec describes one layer. Source paths are relative to the scene
// file unless absolute.
type LayerSpec struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Source     string   `yaml:"source"`
	Colormap   string   `yaml:"colormap"`
	Opacity    *float64 `yaml:"opacity"`
	Visible    *bool    `yaml:"visible"`
	Brightness *float64 `yaml:"brightness"`
	Contrast   *float64 `yaml:"contrast"`

	// labels
	Colors map[uint32]string `yaml:"colors"`

	// points
	Symbol     string         `yaml:"symbol"`
	FaceColor  string         `yaml:"face_color"`
	FaceColors []string       `yaml:"face_colors"`
	Points     [][]float64    `yaml:"points"`
	Properties []PropertySpec `yaml:"properties"`

	// shapes
	Shapes []ShapeSpec `yaml:"shapes"`
}

// PropertySpec is an inline per-item property column.
type PropertySpec struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

// ShapeSpec is one inline shape; vertices are [row, col] pairs.
type ShapeSpec struct {
	Type      string      `yaml:"type"`
	Vertices  [][]float64 `yaml:"vertices"`
	FaceColor string      `yaml:"face_color"`
}

// Parse decodes a scene document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &f, nil
}

// Read parses the scene file at path.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Load reads the scene at path and builds its layers. Layers of unknown
// kinds are returned without payload so the exporter can reject them.
func Load(path string) ([]layer.Layer, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	layers := make([]layer.Layer, 0, len(f.Layers))
	for i, spec := range f.Layers {
		l, err := spec.build(base)
		if err != nil {
			name := spec.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("scene layer %s: %w", name, err)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

// Sources returns the scene file followed by every data file it refers to.
func Sources(path string) ([]string, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	out := []string{path}
	for _, spec := range f.Layers {
		if spec.Source != "" {
			out = append(out, resolve(filepath.Dir(path), spec.Source))
		}
	}
	return out, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func (s LayerSpec) build(base string) (layer.Layer, error) {
	l := layer.Layer{Name: s.Name, Kind: layer.Kind(s.Kind), Style: layer.DefaultStyle()}
	if k, err := layer.ParseKind(s.Kind); err == nil {
		l.Kind = k
	} else {
		return l, nil
	}
	if l.Kind == layer.KindLabels {
		l.Style.Opacity = 0.7
	}
	s.applyStyle(&l.Style)

	var err error
	switch l.Kind {
	case layer.KindImage:
		if s.Source == "" {
			return l, errors.New("image layer needs a source")
		}
		l.Image, err = loadImage(resolve(base, s.Source))
	case layer.KindLabels:
		if s.Source == "" {
			return l, errors.New("labels layer needs a source")
		}
		l.Labels, err = loadLabels(resolve(base, s.Source), s.Colors)
	case layer.KindPoints:
		l.Points, err = s.buildPoints(base)
	case layer.KindShapes:
		l.Shapes, err = s.buildShapes(base)
	}
	return l, err
}

func (s LayerSpec) applyStyle(st *layer.Style) {
	if s.Colormap != "" {
		st.Colormap = s.Colormap
	}
	if s.Opacity != nil {
		st.Opacity = *s.Opacity
	}
	if s.Visible != nil {
		st.Visible = *s.Visible
	}
	if s.Brightness != nil {
		st.Brightness = *s.Brightness
	}
	if s.Contrast != nil {
		st.Contrast = *s.Contrast
	}
}

func parseColors(one string, many []string) ([]color.NRGBA, error) {
	if len(many) > 0 {
		out := make([]color.NRGBA, len(many))
		for i, s := range many {
			c, err := style.Parse(s)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}
	if one == "" {
		one = "white"
	}
	c, err := style.Parse(one)
	if err != nil {
		return nil, err
	}
	return []color.NRGBA{c}, nil
}
