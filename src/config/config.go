// Package config loads exporter defaults from a TOML settings file.
//
// Every key is optional; missing keys keep the values from Default.
//
//	[manifest]
//	composite_mode = "lighter"
//	marker_scale = 7.5
//
//	[shapes]
//	arc_distance = 3.0
//	min_segments = 10
//
//	[raster]
//	compression = "deflate"
//
//	[labels]
//	palette = ["#FF0000", "#00FF00", "#0000FF"]
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"tmap-export/src/style"
)

// Config is the root of the settings file.
type Config struct {
	Manifest ManifestConfig `toml:"manifest"`
	Shapes   ShapesConfig   `toml:"shapes"`
	Raster   RasterConfig   `toml:"raster"`
	Labels   LabelsConfig   `toml:"labels"`
}

type ManifestConfig struct {
	CompositeMode string  `toml:"composite_mode"`
	MarkerScale   float64 `toml:"marker_scale"`
}

type ShapesConfig struct {
	ArcDistance float64 `toml:"arc_distance"`
	MinSegments int     `toml:"min_segments"`
}

type RasterConfig struct {
	Compression string `toml:"compression"`
}

type LabelsConfig struct {
	// Palette overrides the colours assigned to label ids in order. Empty
	// keeps the built-in palette.
	Palette []string `toml:"palette"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Manifest: ManifestConfig{CompositeMode: "lighter", MarkerScale: 7.5},
		Shapes:   ShapesConfig{ArcDistance: 3.0, MinSegments: 10},
		Raster:   RasterConfig{Compression: "deflate"},
	}
}

// Load reads path on top of Default and validates the result. Unknown keys
// are rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown settings: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	fmt.Fprintln(w, "# tmap-export settings")
	fmt.Fprintln(w, "")
	return toml.NewEncoder(w).Encode(cfg)
}

var compositeModes = map[string]bool{
	"source-over": true, "lighter": true, "multiply": true, "screen": true,
	"darken": true, "lighten": true, "difference": true, "exclusion": true,
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if !compositeModes[c.Manifest.CompositeMode] {
		errs = append(errs, fmt.Errorf("manifest.composite_mode %q is not a canvas composite mode", c.Manifest.CompositeMode))
	}
	if c.Manifest.MarkerScale <= 0 {
		errs = append(errs, fmt.Errorf("manifest.marker_scale must be positive, got %v", c.Manifest.MarkerScale))
	}
	if c.Shapes.ArcDistance <= 0 {
		errs = append(errs, fmt.Errorf("shapes.arc_distance must be positive, got %v", c.Shapes.ArcDistance))
	}
	if c.Shapes.MinSegments < 3 {
		errs = append(errs, fmt.Errorf("shapes.min_segments must be at least 3, got %d", c.Shapes.MinSegments))
	}
	switch strings.ToLower(c.Raster.Compression) {
	case "deflate", "none":
	default:
		errs = append(errs, fmt.Errorf("raster.compression %q must be deflate or none", c.Raster.Compression))
	}
	if _, err := c.Palette(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Palette parses Labels.Palette, falling back to the built-in palette.
func (c *Config) Palette() ([]color.NRGBA, error) {
	if len(c.Labels.Palette) == 0 {
		return style.DefaultLabelPalette, nil
	}
	out := make([]color.NRGBA, len(c.Labels.Palette))
	for i, s := range c.Labels.Palette {
		col, err := style.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("labels.palette[%d]: %w", i, err)
		}
		out[i] = col
	}
	return out, nil
}
