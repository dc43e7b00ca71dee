// Package tmap models the main.tmap project manifest read by the
// downstream viewer.
package tmap

// Manifest is the JSON document stored as main.tmap.
type Manifest struct {
	CompositeMode     string              `json:"compositeMode"`
	Filename          string              `json:"filename"`
	Layers            []RasterLayer       `json:"layers"`
	Filters           []string            `json:"filters"`
	LayerFilters      map[string][]Filter `json:"layerFilters"`
	LayerOpacities    map[string]string   `json:"layerOpacities"`
	LayerVisibilities map[string]bool     `json:"layerVisibilities"`
	MarkerFiles       []MarkerFile        `json:"markerFiles"`
	RegionFiles       []RegionFile        `json:"regionFiles"`
	Regions           map[string]any      `json:"regions"`
	Settings          []Setting           `json:"settings"`
}

// RasterLayer is an entry of "layers": an image or a labels layer. The
// viewer tiles TileSource (the artifact path plus ".dzi") on load.
type RasterLayer struct {
	Name       string `json:"name"`
	TileSource string `json:"tileSource"`
	Type       string `json:"type"` // image|labels
	// LabelColors maps label ids (decimal) to #RRGGBB for labels layers.
	LabelColors map[string]string `json:"labelColors,omitempty"`
}

// Filter is one named filter value applied to a raster layer.
type Filter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MarkerFile points the viewer at a points CSV.
type MarkerFile struct {
	AutoLoad    bool        `json:"autoLoad"`
	Comment     string      `json:"comment"`
	ExpectedCSV ExpectedCSV `json:"expectedCSV"`
	Path        string      `json:"path"`
	Title       string      `json:"title"`
	Opacity     string      `json:"opacity"`
	Visible     bool        `json:"visible"`
	Symbol      string      `json:"symbol,omitempty"`
	// FaceColor is set when every marker shares one colour.
	FaceColor string `json:"faceColor,omitempty"`
}

// ExpectedCSV maps viewer roles to CSV column names.
type ExpectedCSV struct {
	XCol  string `json:"X_col"`
	YCol  string `json:"Y_col"`
	Color string `json:"color"`
	Group string `json:"group"`
	Name  string `json:"name"`
	Key   string `json:"key"`
}

// RegionFile points the viewer at a GeoJSON file of regions.
type RegionFile struct {
	AutoLoad bool   `json:"autoLoad"`
	Comment  string `json:"comment"`
	Path     string `json:"path"`
	Title    string `json:"title"`
	Opacity  string `json:"opacity"`
	Visible  bool   `json:"visible"`
}

// Setting calls a viewer module function with Value when the project loads.
type Setting struct {
	Function string `json:"function"`
	Module   string `json:"module"`
	Value    any    `json:"value"`
}

// Filter names, in the order the viewer shows them.
const (
	FilterBrightness = "Brightness"
	FilterContrast   = "Contrast"
	FilterColor      = "Color"
)

// Raster layer types.
const (
	TypeImage  = "image"
	TypeLabels = "labels"
)
