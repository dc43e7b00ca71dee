// Package export writes viewer layers into a .tmap project directory and
// reads such projects back.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"

	"github.com/google/uuid"

	"tmap-export/src/layer"
	"tmap-export/src/points"
	"tmap-export/src/project"
	"tmap-export/src/raster"
	"tmap-export/src/regions"
	"tmap-export/src/style"
	"tmap-export/src/tmap"
	"tmap-export/src/util/progress"
	"tmap-export/src/version"
)

// plan is a validated export that has not touched the filesystem yet.
type plan struct {
	proj     project.Project
	entries  []tmap.Entry
	manifest *tmap.Manifest
}

// Export writes one artifact per layer plus main.tmap, export.json and
// checksums.txt into the project directory named by path. All layers are
// validated before anything is written.
func Export(path string, layers []layer.Layer, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	p, err := prepare(path, layers, opts)
	if err != nil {
		return nil, err
	}
	dir := p.proj.Dir

	if opts.Clean {
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("remove existing project: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	files := make([]string, 0, len(p.entries)+3)
	if err := tmap.Save(p.proj.Path(project.ManifestFile), p.manifest); err != nil {
		return nil, err
	}
	files = append(files, project.ManifestFile)

	for _, e := range p.entries {
		if err := writeArtifact(p.proj, e, opts); err != nil {
			return nil, fmt.Errorf("layer %q: %w", e.Layer.Name, err)
		}
		opts.Logger.Printf("%s layer %q -> %s", e.Layer.Kind, e.Layer.Name, e.Path)
		files = append(files, e.Path)
	}

	bundle := Bundle{
		Type:      BundleType,
		ID:        uuid.NewString(),
		Name:      p.proj.Name,
		Generator: "tmap-export " + version.Version,
		CreatedAt: opts.Now().UTC(),
		Layers:    make([]BundleLayer, 0, len(p.entries)),
		Files:     append([]string{}, files...),
	}
	for _, e := range p.entries {
		bundle.Layers = append(bundle.Layers, BundleLayer{Name: e.Layer.Name, Kind: string(e.Layer.Kind), File: e.Path})
	}
	if err := writeJSON(p.proj.Path(project.BundleFile), bundle); err != nil {
		return nil, fmt.Errorf("write bundle record: %w", err)
	}
	files = append(files, project.BundleFile)

	if err := writeChecksums(dir, files); err != nil {
		return nil, fmt.Errorf("write checksums: %w", err)
	}
	files = append(files, project.ChecksumsFile)

	return &Result{Dir: dir, Files: files, Manifest: p.manifest, Bundle: bundle}, nil
}

// Plan validates an export and returns the files it would write, relative
// to the returned project directory, without touching the filesystem.
func Plan(path string, layers []layer.Layer, opts Options) (string, []string, error) {
	opts = withDefaults(opts)
	p, err := prepare(path, layers, opts)
	if err != nil {
		return "", nil, err
	}
	files := []string{project.ManifestFile}
	for _, e := range p.entries {
		files = append(files, e.Path)
	}
	files = append(files, project.BundleFile, project.ChecksumsFile)
	return p.proj.Dir, files, nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Manifest.CompositeMode == "" {
		opts.Manifest.CompositeMode = def.Manifest.CompositeMode
	}
	if opts.Manifest.MarkerScale == 0 {
		opts.Manifest.MarkerScale = def.Manifest.MarkerScale
	}
	if opts.Regions.ArcDistance <= 0 {
		opts.Regions.ArcDistance = def.Regions.ArcDistance
	}
	if opts.Regions.MinSegments <= 0 {
		opts.Regions.MinSegments = def.Regions.MinSegments
	}
	if opts.LabelPalette == nil {
		opts.LabelPalette = def.LabelPalette
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	opts.Manifest.Logger = opts.Logger
	return opts
}

func prepare(path string, layers []layer.Layer, opts Options) (*plan, error) {
	proj, err := project.Parse(path)
	if err != nil {
		return nil, err
	}
	for _, l := range layers {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}
	paths, err := project.AssignPaths(layers)
	if err != nil {
		return nil, err
	}
	entries := make([]tmap.Entry, len(layers))
	for i, l := range layers {
		entries[i] = tmap.Entry{Layer: l, Path: paths[i]}
		if l.Kind == layer.KindLabels {
			colors, err := style.LabelColors(l.Labels.Unique(), l.Labels.Colors, opts.LabelPalette)
			if err != nil {
				return nil, &layer.ValidationError{Layer: l.Name, Err: err}
			}
			entries[i].LabelColors = colors
		}
	}
	m, err := tmap.Build(proj.Name, entries, opts.Manifest)
	if err != nil {
		return nil, err
	}
	return &plan{proj: proj, entries: entries, manifest: m}, nil
}

func writeArtifact(proj project.Project, e tmap.Entry, opts Options) error {
	full := proj.Path(e.Path)
	if err := os.MkdirAll(proj.Path(path.Dir(e.Path)), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path.Dir(e.Path), err)
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	var w io.Writer = f
	var pw *progress.Writer
	if opts.Progress != nil {
		pw = progress.NewWriter(f, 0, e.Path, opts.Progress)
		w = pw
	}
	bw := bufio.NewWriter(w)
	if err := encodeLayer(bw, e, opts); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if pw != nil {
		pw.Done()
	}
	return f.Close()
}

func encodeLayer(w io.Writer, e tmap.Entry, opts Options) error {
	l := e.Layer
	switch l.Kind {
	case layer.KindImage:
		return raster.EncodeImage(w, l.Image, opts.Raster)
	case layer.KindLabels:
		img, err := raster.RenderLabels(l.Labels, e.LabelColors)
		if err != nil {
			return err
		}
		return raster.EncodeImage(w, img, opts.Raster)
	case layer.KindPoints:
		return points.Write(w, l.Name, l.Points)
	case layer.KindShapes:
		return regions.Write(w, l.Name, l.Shapes, opts.Regions)
	}
	return fmt.Errorf("%w: %q", layer.ErrUnsupportedKind, string(l.Kind))
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
