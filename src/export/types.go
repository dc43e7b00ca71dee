package export

import (
	"image/color"
	"io"
	"log"
	"time"

	"tmap-export/src/project"
	"tmap-export/src/raster"
	"tmap-export/src/regions"
	"tmap-export/src/style"
	"tmap-export/src/tmap"
)

// ErrNotProject is returned when the target path is not a .tmap path.
var ErrNotProject = project.ErrNotProject

// BundleType is the "type" recorded in every export.json.
const BundleType = "tmap"

// Options configures an export. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Manifest     tmap.Options
	Regions      regions.Options
	Raster       raster.Options
	LabelPalette []color.NRGBA

	// Logger receives one line per written artifact. Nil discards.
	Logger *log.Logger
	// Progress, when set, receives byte counts while artifacts are written.
	Progress io.Writer
	// Clean removes an existing project directory before writing.
	Clean bool
	// Now stamps the bundle record. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Manifest:     tmap.DefaultOptions(),
		Regions:      regions.DefaultOptions(),
		Raster:       raster.Options{Compression: "deflate"},
		LabelPalette: style.DefaultLabelPalette,
		Now:          time.Now,
	}
}

// Result describes a finished export.
type Result struct {
	// Dir is the absolute project directory.
	Dir string
	// Files lists every written file relative to Dir, manifest first.
	Files    []string
	Manifest *tmap.Manifest
	Bundle   Bundle
}

// Bundle is the exporter's own record of one export, stored as export.json.
type Bundle struct {
	Type      string        `json:"type"` // always "tmap"
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Generator string        `json:"generator"`
	CreatedAt time.Time     `json:"createdAt"`
	Layers    []BundleLayer `json:"layers"`
	Files     []string      `json:"files"`
}

// BundleLayer records which file a layer went to, in input order.
type BundleLayer struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
}
