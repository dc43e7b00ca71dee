package project

import (
    "errors"
    "fmt"
    "path"
    "strings"

    "tmap-export/src/layer"
)

// Fixed files at the root of every project.
const (
    ManifestFile  = "main.tmap"
    BundleFile    = "export.json"
    ChecksumsFile = "checksums.txt"
)

// Per-kind subdirectories.
const (
    ImagesDir  = "images"
    LabelsDir  = "labels"
    PointsDir  = "points"
    RegionsDir = "regions"
)

// ErrNameCollision is returned when two layers of the same kind would be
// written to the same file.
var ErrNameCollision = errors.New("layer file names collide")

// ArtifactPath returns the slash-separated path, relative to the project
// directory, of the single file a layer is exported to.
func ArtifactPath(kind layer.Kind, name string) (string, error) {
    safe := SanitizeName(name)
    switch kind {
    case layer.KindImage:
        return path.Join(ImagesDir, safe+".tif"), nil
    case layer.KindLabels:
        return path.Join(LabelsDir, safe+".tif"), nil
    case layer.KindPoints:
        return path.Join(PointsDir, safe+".csv"), nil
    case layer.KindShapes:
        return path.Join(RegionsDir, safe+".geojson"), nil
    }
    return "", fmt.Errorf("%w: %q", layer.ErrUnsupportedKind, string(kind))
}

// AssignPaths returns the artifact path of every layer, index-aligned with
// layers. Paths are compared case-insensitively so projects stay portable.
func AssignPaths(layers []layer.Layer) ([]string, error) {
    out := make([]string, len(layers))
    owner := make(map[string]string, len(layers))
    for i, l := range layers {
        p, err := ArtifactPath(l.Kind, l.Name)
        if err != nil {
            return nil, &layer.ValidationError{Layer: l.Name, Err: err}
        }
        key := strings.ToLower(p)
        if prev, dup := owner[key]; dup {
            return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrNameCollision, prev, l.Name, p)
        }
        owner[key] = l.Name
        out[i] = p
    }
    return out, nil
}

// SanitizeName replaces characters that are unsafe in file names.
func SanitizeName(s string) string {
    s = strings.TrimSpace(s)
    var b strings.Builder
    for _, r := range s {
        switch {
        case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
            r == '"' || r == '<' || r == '>' || r == '|':
            b.WriteRune('-')
        case r < 32 || r == 127:
            b.WriteRune('-')
        default:
            b.WriteRune(r)
        }
    }
    out := b.String()
    if out == "" || out == "." || out == ".." {
        return "layer"
    }
    return out
}
