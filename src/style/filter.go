package style

import (
	"log"
	"strings"
)

// NoColor is the colour filter value that leaves a channel uncoloured.
const NoColor = "0"

// colormapFilters maps image colormap names to the percentage triples used
// by the Color filter of the viewer.
var colormapFilters = map[string]string{
	"red":     "100,0,0",
	"green":   "0,100,0",
	"blue":    "0,0,100",
	"yellow":  "100,100,0",
	"cyan":    "0,100,100",
	"magenta": "100,0,100",
}

// ColorFilter returns the Color filter value for a colormap. Unknown
// colormaps fall back to NoColor and are reported through logger.
func ColorFilter(colormap string, logger *log.Logger) string {
	name := strings.ToLower(strings.TrimSpace(colormap))
	switch name {
	case "", "gray", "grey", "gray_r":
		return NoColor
	}
	if v, ok := colormapFilters[name]; ok {
		return v
	}
	if logger != nil {
		logger.Printf("colormap %q has no colour filter equivalent, exporting uncoloured", colormap)
	}
	return NoColor
}

// ColormapFor is the inverse of ColorFilter.
func ColormapFor(filter string) string {
	v := strings.ReplaceAll(strings.TrimSpace(filter), " ", "")
	for name, f := range colormapFilters {
		if f == v {
			return name
		}
	}
	return "gray"
}
