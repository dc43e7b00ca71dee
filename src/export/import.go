package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"tmap-export/src/layer"
	"tmap-export/src/points"
	"tmap-export/src/project"
	"tmap-export/src/raster"
	"tmap-export/src/regions"
	"tmap-export/src/style"
	"tmap-export/src/tmap"
)

// Import reads a project written by Export back into layers. Layers come
// back in export order when export.json is present, otherwise raster layers
// first, then points, then shapes.
func Import(path string) ([]layer.Layer, error) {
	proj, err := project.Parse(path)
	if err != nil {
		return nil, err
	}
	m, err := tmap.Load(proj.Path(project.ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	type loaded struct {
		file string
		l    layer.Layer
	}
	var out []loaded

	for i, rl := range m.Layers {
		file := strings.TrimSuffix(rl.TileSource, ".dzi")
		l, err := importRaster(proj, m, i, rl, file)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", rl.Name, err)
		}
		out = append(out, loaded{file, l})
	}
	for _, mf := range m.MarkerFiles {
		l, err := importPoints(proj, mf)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", mf.Comment, err)
		}
		out = append(out, loaded{mf.Path, l})
	}
	for _, rf := range m.RegionFiles {
		l, err := importShapes(proj, rf)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", rf.Comment, err)
		}
		out = append(out, loaded{rf.Path, l})
	}

	if b, err := ReadBundle(proj.Dir); err == nil {
		rank := make(map[string]int, len(b.Layers))
		for i, bl := range b.Layers {
			rank[bl.File] = i
		}
		sort.SliceStable(out, func(i, j int) bool {
			ri, oki := rank[out[i].file]
			rj, okj := rank[out[j].file]
			if oki != okj {
				return oki
			}
			return ri < rj
		})
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	layers := make([]layer.Layer, len(out))
	for i, o := range out {
		layers[i] = o.l
	}
	return layers, nil
}

// ReadBundle loads export.json from a project directory.
func ReadBundle(dir string) (*Bundle, error) {
	data, err := os.ReadFile(filepath.Join(dir, project.BundleFile))
	if err != nil {
		return nil, err
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", project.BundleFile, err)
	}
	return &b, nil
}

func importRaster(proj project.Project, m *tmap.Manifest, idx int, rl tmap.RasterLayer, file string) (layer.Layer, error) {
	opacity, visible, filters, err := m.RasterStyle(idx)
	if err != nil {
		return layer.Layer{}, err
	}
	st := layer.DefaultStyle()
	st.Opacity = opacity
	st.Visible = visible
	if v, ok := filters[tmap.FilterBrightness]; ok {
		if st.Brightness, err = strconv.ParseFloat(v, 64); err != nil {
			return layer.Layer{}, fmt.Errorf("brightness: %w", err)
		}
	}
	if v, ok := filters[tmap.FilterContrast]; ok {
		if st.Contrast, err = strconv.ParseFloat(v, 64); err != nil {
			return layer.Layer{}, fmt.Errorf("contrast: %w", err)
		}
	}

	f, err := os.Open(proj.Path(file))
	if err != nil {
		return layer.Layer{}, err
	}
	defer f.Close()
	img, err := raster.DecodeImage(f)
	if err != nil {
		return layer.Layer{}, err
	}

	if rl.Type == tmap.TypeLabels {
		colors, err := tmap.DecodeLabelColors(rl.LabelColors)
		if err != nil {
			return layer.Layer{}, err
		}
		lb, err := raster.DecodeLabels(img, colors)
		if err != nil {
			return layer.Layer{}, err
		}
		lb.Colors = colors
		return layer.Layer{Name: rl.Name, Kind: layer.KindLabels, Style: st, Labels: lb}, nil
	}
	st.Colormap = style.ColormapFor(filters[tmap.FilterColor])
	return layer.Layer{Name: rl.Name, Kind: layer.KindImage, Style: st, Image: img}, nil
}

func importPoints(proj project.Project, mf tmap.MarkerFile) (layer.Layer, error) {
	f, err := os.Open(proj.Path(mf.Path))
	if err != nil {
		return layer.Layer{}, err
	}
	defer f.Close()
	_, pts, err := points.Read(f)
	if err != nil {
		return layer.Layer{}, err
	}
	if mf.Symbol != "" {
		pts.Symbol = mf.Symbol
	}
	if mf.FaceColor != "" {
		c, err := style.Parse(mf.FaceColor)
		if err != nil {
			return layer.Layer{}, fmt.Errorf("face colour: %w", err)
		}
		shared := true
		for _, fc := range pts.FaceColors {
			if fc != c {
				shared = false
				break
			}
		}
		if shared {
			pts.FaceColors = []color.NRGBA{c}
		}
	}
	l := layer.NewPoints(mf.Comment, pts)
	if l.Style.Opacity, err = tmap.ParseOpacity(mf.Opacity); err != nil {
		return layer.Layer{}, err
	}
	l.Style.Visible = mf.Visible
	return l, nil
}

func importShapes(proj project.Project, rf tmap.RegionFile) (layer.Layer, error) {
	f, err := os.Open(proj.Path(rf.Path))
	if err != nil {
		return layer.Layer{}, err
	}
	defer f.Close()
	shapes, err := regions.Read(f)
	if err != nil {
		return layer.Layer{}, err
	}
	l := layer.NewShapes(rf.Comment, shapes)
	if l.Style.Opacity, err = tmap.ParseOpacity(rf.Opacity); err != nil {
		return layer.Layer{}, err
	}
	l.Style.Visible = rf.Visible
	return l, nil
}
