package tmap

import (
	"fmt"
	"image/color"
	"log"
	"strconv"

	"tmap-export/src/layer"
	"tmap-export/src/style"
)

// Options tunes manifest generation.
type Options struct {
	CompositeMode string
	MarkerScale   float64
	Logger        *log.Logger
}

// DefaultOptions returns the values used when nothing is configured.
func DefaultOptions() Options {
	return Options{CompositeMode: "lighter", MarkerScale: 7.5}
}

// Entry is one exported layer: the layer itself, the artifact it was
// written to, and for labels layers the resolved id to colour table.
type Entry struct {
	Layer       layer.Layer
	Path        string
	LabelColors map[uint32]color.NRGBA
}

// Build assembles the manifest for entries. Images and labels share one
// running index across "layers", "layerFilters", "layerOpacities" and
// "layerVisibilities"; points and shapes get one marker or region file
// each. An empty entry list yields a manifest with empty collections.
func Build(filename string, entries []Entry, opts Options) (*Manifest, error) {
	if opts.CompositeMode == "" {
		opts.CompositeMode = DefaultOptions().CompositeMode
	}
	m := &Manifest{
		CompositeMode:     opts.CompositeMode,
		Filename:          filename,
		Layers:            []RasterLayer{},
		Filters:           []string{FilterBrightness, FilterContrast, FilterColor},
		LayerFilters:      map[string][]Filter{},
		LayerOpacities:    map[string]string{},
		LayerVisibilities: map[string]bool{},
		MarkerFiles:       []MarkerFile{},
		RegionFiles:       []RegionFile{},
		Regions:           map[string]any{},
		Settings: []Setting{
			{Function: "_autoLoadCSV", Module: "dataUtils", Value: true},
			{Function: "_globalMarkerScale", Module: "glUtils", Value: opts.MarkerScale},
		},
	}

	idx := 0
	for _, e := range entries {
		l := e.Layer
		switch l.Kind {
		case layer.KindImage, layer.KindLabels:
			rl := RasterLayer{Name: l.Name, TileSource: e.Path + ".dzi", Type: string(l.Kind)}
			colorFilter := style.NoColor
			if l.Kind == layer.KindImage {
				colorFilter = style.ColorFilter(l.Style.Colormap, opts.Logger)
			} else {
				rl.LabelColors = encodeLabelColors(e.LabelColors)
			}
			key := strconv.Itoa(idx)
			m.Layers = append(m.Layers, rl)
			m.LayerFilters[key] = []Filter{
				{Name: FilterBrightness, Value: formatFloat(l.Style.Brightness)},
				{Name: FilterContrast, Value: formatFloat(l.Style.Contrast)},
				{Name: FilterColor, Value: colorFilter},
			}
			m.LayerOpacities[key] = FormatOpacity(l.Style.Opacity)
			m.LayerVisibilities[key] = l.Style.Visible
			idx++
		case layer.KindPoints:
			mf := MarkerFile{
				AutoLoad: true,
				Comment:  l.Name,
				ExpectedCSV: ExpectedCSV{
					XCol:  "x",
					YCol:  "y",
					Color: "color",
					Group: "name",
					Name:  "",
					Key:   "letters",
				},
				Path:    e.Path,
				Title:   fmt.Sprintf("Download markers (%s)", l.Name),
				Opacity: FormatOpacity(l.Style.Opacity),
				Visible: l.Style.Visible,
				Symbol:  layer.DefaultSymbol,
			}
			if p := l.Points; p != nil {
				if p.Symbol != "" {
					mf.Symbol = p.Symbol
				}
				if len(p.FaceColors) == 1 {
					mf.FaceColor = style.Hex(p.FaceColors[0])
				}
			}
			m.MarkerFiles = append(m.MarkerFiles, mf)
		case layer.KindShapes:
			m.RegionFiles = append(m.RegionFiles, RegionFile{
				AutoLoad: true,
				Comment:  l.Name,
				Path:     e.Path,
				Title:    fmt.Sprintf("Download regions (%s)", l.Name),
				Opacity:  FormatOpacity(l.Style.Opacity),
				Visible:  l.Style.Visible,
			})
		default:
			return nil, &layer.ValidationError{Layer: l.Name, Err: fmt.Errorf("%w: %q", layer.ErrUnsupportedKind, string(l.Kind))}
		}
	}
	return m, nil
}

// FormatOpacity renders opacity with three decimals, as the viewer stores it,
// or with as many digits as it takes for the value to parse back unchanged.
func FormatOpacity(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if back, err := strconv.ParseFloat(s, 64); err == nil && back == v {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func encodeLabelColors(colors map[uint32]color.NRGBA) map[string]string {
	if len(colors) == 0 {
		return nil
	}
	out := make(map[string]string, len(colors))
	for id, c := range colors {
		out[strconv.FormatUint(uint64(id), 10)] = style.Hex(c)
	}
	return out
}

// DecodeLabelColors parses a labelColors table back into ids and colours.
func DecodeLabelColors(in map[string]string) (map[uint32]color.NRGBA, error) {
	out := make(map[uint32]color.NRGBA, len(in))
	for k, v := range in {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("label id %q: %w", k, err)
		}
		c, err := style.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", id, err)
		}
		out[uint32(id)] = c
	}
	return out, nil
}
