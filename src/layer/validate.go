package layer

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ValidationError ties a validation failure to the layer that caused it.
type ValidationError struct {
	Layer string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("layer %q: %v", e.Layer, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks that the layer is exportable: a supported kind, a
// payload matching that kind, and style values in range.
func (l Layer) Validate() error {
	if err := l.validate(); err != nil {
		return &ValidationError{Layer: l.Name, Err: err}
	}
	return nil
}

func (l Layer) validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("name must not be empty")
	}
	if !l.Kind.Supported() {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, string(l.Kind))
	}
	if math.IsNaN(l.Style.Opacity) || l.Style.Opacity < 0 || l.Style.Opacity > 1 {
		return fmt.Errorf("opacity %v outside [0,1]", l.Style.Opacity)
	}
	switch l.Kind {
	case KindImage:
		if l.Image == nil {
			return errors.New("image layer has no raster")
		}
		b := l.Image.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return errors.New("image layer is empty")
		}
	case KindLabels:
		lb := l.Labels
		if lb == nil {
			return errors.New("labels layer has no grid")
		}
		if lb.Width <= 0 || lb.Height <= 0 {
			return fmt.Errorf("labels grid %dx%d is empty", lb.Width, lb.Height)
		}
		if len(lb.IDs) != lb.Width*lb.Height {
			return fmt.Errorf("labels grid has %d ids, want %d", len(lb.IDs), lb.Width*lb.Height)
		}
	case KindPoints:
		p := l.Points
		if p == nil {
			return errors.New("points layer has no coordinates")
		}
		if n := len(p.FaceColors); n > 1 && n != len(p.Coords) {
			return fmt.Errorf("points layer has %d face colors for %d points", n, len(p.Coords))
		}
		if err := checkProperties(p.Properties, len(p.Coords)); err != nil {
			return err
		}
		for i, c := range p.Coords {
			if !finite(c.X) || !finite(c.Y) {
				return fmt.Errorf("point %d has a non-finite coordinate", i)
			}
		}
	case KindShapes:
		s := l.Shapes
		if s == nil {
			return errors.New("shapes layer has no shapes")
		}
		if err := checkProperties(s.Properties, len(s.Items)); err != nil {
			return err
		}
		for i, sh := range s.Items {
			if err := checkShape(sh); err != nil {
				return fmt.Errorf("shape %d: %w", i, err)
			}
		}
	}
	return nil
}

func checkShape(sh Shape) error {
	if _, err := ParseShapeType(string(sh.Type)); err != nil {
		return err
	}
	min := 3
	switch sh.Type {
	case ShapeLine, ShapePath:
		min = 2
	case ShapeEllipse, ShapeRectangle:
		min = 4
	}
	if len(sh.Vertices) < min {
		return fmt.Errorf("%s needs at least %d vertices, got %d", sh.Type, min, len(sh.Vertices))
	}
	for _, v := range sh.Vertices {
		if !finite(v.X) || !finite(v.Y) {
			return errors.New("non-finite vertex")
		}
	}
	return nil
}

func checkProperties(props []Property, n int) error {
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if p.Name == "" {
			return errors.New("property with empty name")
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate property %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if len(p.Values) != n {
			return fmt.Errorf("property %q has %d values for %d items", p.Name, len(p.Values), n)
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
