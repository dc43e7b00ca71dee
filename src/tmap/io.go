package tmap

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Save writes m to path as indented JSON.
func Save(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load reads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &m, nil
}

// RasterStyle returns the filter values recorded for the raster layer at
// index idx of m.Layers.
func (m *Manifest) RasterStyle(idx int) (opacity float64, visible bool, filters map[string]string, err error) {
	key := strconv.Itoa(idx)
	opacity = 1
	if s, ok := m.LayerOpacities[key]; ok {
		opacity, err = ParseOpacity(s)
		if err != nil {
			return 0, false, nil, err
		}
	}
	visible = true
	if v, ok := m.LayerVisibilities[key]; ok {
		visible = v
	}
	filters = make(map[string]string, len(m.LayerFilters[key]))
	for _, f := range m.LayerFilters[key] {
		filters[f.Name] = f.Value
	}
	return opacity, visible, filters, nil
}

// ParseOpacity parses an opacity written by FormatOpacity.
func ParseOpacity(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("opacity %q: %w", s, err)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("opacity %v outside [0,1]", v)
	}
	return v, nil
}

// Counts returns the number of raster, marker and region entries.
func (m *Manifest) Counts() (images, labels, points, shapes int) {
	for _, l := range m.Layers {
		if l.Type == TypeLabels {
			labels++
		} else {
			images++
		}
	}
	return images, labels, len(m.MarkerFiles), len(m.RegionFiles)
}
