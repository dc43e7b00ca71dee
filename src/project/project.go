package project

import (
    "errors"
    "fmt"
    "path/filepath"
    "strings"
)

// Extension marks a directory as an exported project.
const Extension = ".tmap"

// ErrNotProject is returned when a path does not name a .tmap project.
var ErrNotProject = errors.New("path is not a .tmap project")

// Project represents a parsed project path.
// Example: /data/exports/sample.tmap
type Project struct {
    // Raw is the original input string.
    Raw string
    // Dir is the cleaned absolute project directory.
    Dir string
    // Name is the project name written into the manifest (the directory
    // name without its last suffix).
    Name string
}

// IsProjectPath reports whether the final element of path ends in .tmap.
// Compound suffixes such as "run.v2.tmap" are accepted.
func IsProjectPath(path string) bool {
    base := filepath.Base(filepath.Clean(strings.TrimSpace(path)))
    return strings.HasSuffix(base, Extension) && base != Extension
}

// Parse validates path and resolves it to an absolute project directory.
func Parse(raw string) (Project, error) {
    p := Project{Raw: raw}
    s := strings.TrimSpace(raw)
    if s == "" {
        return p, fmt.Errorf("%w: path must not be empty", ErrNotProject)
    }
    if !IsProjectPath(s) {
        return p, fmt.Errorf("%w: %q must end with %s", ErrNotProject, raw, Extension)
    }
    abs, err := filepath.Abs(filepath.Clean(s))
    if err != nil {
        return p, fmt.Errorf("resolve %q: %w", raw, err)
    }
    p.Dir = abs
    base := filepath.Base(abs)
    p.Name = strings.TrimSuffix(base, filepath.Ext(base))
    return p, nil
}

// Path joins a slash-separated relative artifact path onto the project dir.
func (p Project) Path(rel string) string {
    return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// String returns the project directory, or the raw input when unparsed.
func (p Project) String() string {
    if p.Dir != "" {
        return p.Dir
    }
    return p.Raw
}
