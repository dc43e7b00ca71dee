package export_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"tmap-export/src/export"
	"tmap-export/src/layer"
	"tmap-export/src/project"
	"tmap-export/src/regions"
	"tmap-export/src/tmap"
)

func sampleLayers() []layer.Layer {
	gray := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 20)
	}
	img := layer.NewImage("dapi", gray)
	img.Style.Colormap = "green"
	img.Style.Opacity = 0.8
	img.Style.Brightness = 0.25

	grid := layer.NewLabelGrid(4, 3)
	grid.Set(0, 0, 1)
	grid.Set(1, 0, 1)
	grid.Set(3, 2, 12)
	labels := layer.NewLabels("cells", grid)

	pts := layer.NewPoints("spots", &layer.Points{
		Coords:     []layer.Point{{Y: 1, X: 2}, {Y: 2.5, X: 0.5}},
		FaceColors: []color.NRGBA{{R: 255, A: 255}, {G: 255, A: 255}},
		Symbol:     "disc",
		Properties: []layer.Property{{Name: "gene", Values: []string{"ACTB", "GAPDH"}}},
	})
	pts.Style.Visible = false

	shapes := layer.NewShapes("rois", &layer.Shapes{
		Items: []layer.Shape{
			{Type: layer.ShapePolygon, Vertices: []layer.Point{{Y: 0, X: 0}, {Y: 0, X: 3}, {Y: 2, X: 3}}, FaceColor: color.NRGBA{B: 255, A: 255}},
			{Type: layer.ShapeLine, Vertices: []layer.Point{{Y: 1, X: 1}, {Y: 2, X: 2}}, FaceColor: color.NRGBA{R: 255, G: 255, A: 255}},
		},
	})
	shapes.Style.Opacity = 0.5
	return []layer.Layer{img, pts, labels, shapes}
}

func testOptions() export.Options {
	opts := export.DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return opts
}

func TestExport_WritesProject(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sample.tmap")
	res, err := export.Export(out, sampleLayers(), testOptions())
	require.NoError(t, err)

	want := []string{
		"main.tmap",
		"images/dapi.tif",
		"points/spots.csv",
		"labels/cells.tif",
		"regions/rois.geojson",
		"export.json",
		"checksums.txt",
	}
	require.Equal(t, want, res.Files)
	for _, f := range want {
		_, err := os.Stat(filepath.Join(res.Dir, filepath.FromSlash(f)))
		require.NoError(t, err, f)
	}

	m, err := tmap.Load(filepath.Join(res.Dir, "main.tmap"))
	require.NoError(t, err)
	require.Equal(t, "sample", m.Filename)
	require.Len(t, m.Layers, 2)
	require.Equal(t, "images/dapi.tif.dzi", m.Layers[0].TileSource)
	require.Equal(t, "labels", m.Layers[1].Type)
	require.Len(t, m.Layers[1].LabelColors, 2)
	require.Equal(t, "0,100,0", m.LayerFilters["0"][2].Value)
	require.Equal(t, "0.800", m.LayerOpacities["0"])
	require.Equal(t, "0.700", m.LayerOpacities["1"])
	require.Len(t, m.MarkerFiles, 1)
	require.False(t, m.MarkerFiles[0].Visible)
	require.Len(t, m.RegionFiles, 1)
	require.Equal(t, "0.500", m.RegionFiles[0].Opacity)

	b, err := export.ReadBundle(res.Dir)
	require.NoError(t, err)
	require.Equal(t, export.BundleType, b.Type)
	require.NotEmpty(t, b.ID)
	require.Equal(t, "sample", b.Name)
	require.True(t, b.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.Len(t, b.Layers, 4)
	require.Equal(t, "points/spots.csv", b.Layers[1].File)
}

func TestExport_RoundTrip(t *testing.T) {
	in := sampleLayers()
	out := filepath.Join(t.TempDir(), "round.tmap")
	_, err := export.Export(out, in, testOptions())
	require.NoError(t, err)

	got, err := export.Import(out)
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for i := range in {
		require.Equal(t, in[i].Name, got[i].Name)
		require.Equal(t, in[i].Kind, got[i].Kind)
		require.InDelta(t, in[i].Style.Opacity, got[i].Style.Opacity, 1e-9)
		require.Equal(t, in[i].Style.Visible, got[i].Style.Visible)
	}

	gotImg := got[0]
	require.Equal(t, "green", gotImg.Style.Colormap)
	require.Equal(t, 0.25, gotImg.Style.Brightness)
	require.Equal(t, in[0].Image.(*image.Gray).Pix, gotImg.Image.(*image.Gray).Pix)

	if diff := cmp.Diff(in[1].Points, got[1].Points); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, in[2].Labels.IDs, got[2].Labels.IDs)
	if diff := cmp.Diff(in[3].Shapes.Items, got[3].Shapes.Items); diff != "" {
		t.Fatalf("shapes mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_Empty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.tmap")
	res, err := export.Export(out, nil, testOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"main.tmap", "export.json", "checksums.txt"}, res.Files)
	require.Empty(t, res.Manifest.Layers)
	require.Empty(t, res.Manifest.MarkerFiles)
	require.Empty(t, res.Manifest.RegionFiles)

	got, err := export.Import(out)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestExport_UnsupportedKindWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.tmap")
	layers := append(sampleLayers(), layer.Layer{Name: "tracks", Kind: "tracks"})
	_, err := export.Export(out, layers, testOptions())
	require.True(t, errors.Is(err, layer.ErrUnsupportedKind), "got %v", err)
	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr), "project dir should not exist; stat err=%v", statErr)
}

func TestExport_NotProject(t *testing.T) {
	_, err := export.Export(filepath.Join(t.TempDir(), "out"), nil, testOptions())
	require.True(t, errors.Is(err, export.ErrNotProject), "got %v", err)
}

func TestExport_NameCollision(t *testing.T) {
	a := layer.NewPoints("Spots", &layer.Points{})
	b := layer.NewPoints("spots", &layer.Points{})
	_, err := export.Export(filepath.Join(t.TempDir(), "x.tmap"), []layer.Layer{a, b}, testOptions())
	require.True(t, errors.Is(err, project.ErrNameCollision), "got %v", err)
}

func TestExport_CleanRemovesStaleFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "re.tmap")
	_, err := export.Export(out, sampleLayers(), testOptions())
	require.NoError(t, err)

	opts := testOptions()
	opts.Clean = true
	_, err = export.Export(out, sampleLayers()[:1], opts)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "points", "spots.csv"))
	require.True(t, os.IsNotExist(err), "stale artifact survived: %v", err)
}

func TestExport_ProgressAndLogging(t *testing.T) {
	var progress, logs bytes.Buffer
	opts := testOptions()
	opts.Progress = &progress
	opts.Logger = newLogger(&logs)
	_, err := export.Export(filepath.Join(t.TempDir(), "p.tmap"), sampleLayers(), opts)
	require.NoError(t, err)
	require.Contains(t, progress.String(), "images/dapi.tif")
	require.Contains(t, logs.String(), `points layer "spots" -> points/spots.csv`)
}

func TestPlan(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.tmap")
	dir, files, err := export.Plan(out, sampleLayers(), testOptions())
	require.NoError(t, err)
	require.Equal(t, "plan.tmap", filepath.Base(dir))
	require.Equal(t, "main.tmap", files[0])
	require.Equal(t, "checksums.txt", files[len(files)-1])
	require.Len(t, files, 7)
	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err), "plan must not touch the filesystem")
}

func TestVerify(t *testing.T) {
	out := filepath.Join(t.TempDir(), "v.tmap")
	res, err := export.Export(out, sampleLayers(), testOptions())
	require.NoError(t, err)

	rep, err := export.Verify(res.Dir)
	require.NoError(t, err)
	require.True(t, rep.OK(), "report: %+v", rep)
	require.Len(t, rep.Files, 6)

	csv := filepath.Join(res.Dir, "points", "spots.csv")
	data, err := os.ReadFile(csv)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(csv, []byte(strings.Replace(string(data), "ACTB", "XXXX", 1)), 0o644))
	require.NoError(t, os.Remove(filepath.Join(res.Dir, "regions", "rois.geojson")))

	rep, err = export.Verify(res.Dir)
	require.NoError(t, err)
	require.False(t, rep.OK())
	statuses := map[string]string{}
	for _, f := range rep.Files {
		statuses[f.Name] = f.Status
	}
	require.Equal(t, export.StatusMismatch, statuses["points/spots.csv"])
	require.Equal(t, export.StatusMissing, statuses["regions/rois.geojson"])
	require.Equal(t, export.StatusOK, statuses["main.tmap"])
}

func TestVerify_NoChecksums(t *testing.T) {
	rep, err := export.Verify(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, export.StatusMissing, rep.Status)
}

func newLogger(w *bytes.Buffer) *log.Logger { return log.New(w, "", 0) }

func TestExport_RoundTripKeepsFineStyle(t *testing.T) {
	img := layer.NewImage("dapi", image.NewGray(image.Rect(0, 0, 2, 2)))
	img.Style.Opacity = 0.12345
	empty := layer.NewPoints("none", &layer.Points{
		Symbol:     "star",
		FaceColors: []color.NRGBA{{R: 255, G: 136, A: 255}},
	})
	empty.Style.Opacity = 0.3333
	shared := layer.NewPoints("shared", &layer.Points{
		Coords:     []layer.Point{{Y: 1, X: 1}, {Y: 2, X: 2}},
		FaceColors: []color.NRGBA{{B: 255, A: 255}},
		Symbol:     "cross",
	})
	shapes := layer.NewShapes("rois", &layer.Shapes{})
	shapes.Style.Opacity = 0.98765

	out := filepath.Join(t.TempDir(), "fine.tmap")
	in := []layer.Layer{img, empty, shared, shapes}
	_, err := export.Export(out, in, testOptions())
	require.NoError(t, err)
	got, err := export.Import(out)
	require.NoError(t, err)
	require.Len(t, got, 4)

	require.Equal(t, 0.12345, got[0].Style.Opacity)
	require.Equal(t, 0.3333, got[1].Style.Opacity)
	require.Equal(t, 0.98765, got[3].Style.Opacity)
	if diff := cmp.Diff(empty.Points, got[1].Points, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("empty points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(shared.Points, got[2].Points); diff != "" {
		t.Fatalf("shared colour points mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_DefaultsMinSegments(t *testing.T) {
	shapes := layer.NewShapes("rois", &layer.Shapes{Items: []layer.Shape{{
		Type:     layer.ShapeEllipse,
		Vertices: []layer.Point{{Y: 5, X: 0}, {Y: 5, X: 2}, {Y: 5, X: 2}, {Y: 5, X: 0}},
	}}})
	opts := testOptions()
	opts.Regions = regions.Options{ArcDistance: 3}
	res, err := export.Export(filepath.Join(t.TempDir(), "flat.tmap"), []layer.Layer{shapes}, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(res.Dir, "regions", "rois.geojson"))
	require.NoError(t, err)
	var doc struct {
		Features []struct {
			Geometry struct {
				Coordinates [][][][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Features[0].Geometry.Coordinates[0][0], 11)
}
