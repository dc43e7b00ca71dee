// Package catalog discovers exported projects below a directory.
package catalog

import (
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "tmap-export/src/export"
    "tmap-export/src/project"
    "tmap-export/src/tmap"
)

// Entry represents a single exported project discovered under a root.
type Entry struct {
    Name      string `json:"name"`
    Path      string `json:"path"`
    ID        string `json:"id,omitempty"`
    CreatedAt string `json:"createdAt,omitempty"`
    Images    int    `json:"images"`
    Labels    int    `json:"labels"`
    Points    int    `json:"points"`
    Shapes    int    `json:"shapes"`
    Size      int64  `json:"size"`
    // Error is set when the project could not be read; counts are zero.
    Error string `json:"error,omitempty"`
}

// Layers is the total number of exported layers.
func (e Entry) Layers() int { return e.Images + e.Labels + e.Points + e.Shapes }

// List walks root and returns every *.tmap directory holding a main.tmap,
// sorted by path. A project whose manifest cannot be read is still listed,
// with Error set. Hidden directories are skipped and projects are not
// searched for nested projects.
func List(root string) ([]Entry, error) {
    info, err := os.Stat(root)
    if err != nil {
        return nil, fmt.Errorf("stat root: %w", err)
    }
    if !info.IsDir() {
        return nil, fmt.Errorf("root is not a directory: %s", root)
    }

    var entries []Entry
    err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            return err
        }
        if !d.IsDir() {
            return nil
        }
        name := d.Name()
        if path != root && strings.HasPrefix(name, ".") {
            return filepath.SkipDir
        }
        if !project.IsProjectPath(path) {
            return nil
        }
        e, ok, err := describe(path)
        if err != nil {
            return err
        }
        if ok {
            entries = append(entries, e)
            return filepath.SkipDir
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
    return entries, nil
}

func describe(dir string) (Entry, bool, error) {
    base := filepath.Base(dir)
    e := Entry{Name: strings.TrimSuffix(base, filepath.Ext(base)), Path: dir}
    m, err := tmap.Load(filepath.Join(dir, project.ManifestFile))
    switch {
    case errors.Is(err, os.ErrNotExist):
        return Entry{}, false, nil
    case err != nil:
        e.Error = err.Error()
    default:
        e.Images, e.Labels, e.Points, e.Shapes = m.Counts()
    }
    if b, err := export.ReadBundle(dir); err == nil {
        e.ID = b.ID
        e.CreatedAt = b.CreatedAt.Format(time.RFC3339)
    }
    e.Size, err = dirSize(dir)
    if err != nil {
        return Entry{}, false, err
    }
    return e, true, nil
}

func dirSize(dir string) (int64, error) {
    var total int64
    err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
        if err != nil {
            return err
        }
        if d.IsDir() {
            return nil
        }
        info, err := d.Info()
        if err != nil {
            return err
        }
        total += info.Size()
        return nil
    })
    return total, err
}
