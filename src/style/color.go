// Package style converts between viewer colours and the encodings used in
// an exported project: hex strings, 0-255 triples, percentage filter values
// and the label palette.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Named colours accepted wherever a colour string is parsed.
var Named = map[string]color.NRGBA{
	"red":         {R: 255, A: 255},
	"green":       {G: 255, A: 255},
	"blue":        {B: 255, A: 255},
	"yellow":      {R: 255, G: 255, A: 255},
	"cyan":        {G: 255, B: 255, A: 255},
	"magenta":     {R: 255, B: 255, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"black":       {A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"orange":      {R: 255, G: 165, A: 255},
	"transparent": {},
}

// Hex formats c as #RRGGBB. Alpha is dropped.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Parse accepts a colour name, #RGB, #RRGGBB or #RRGGBBAA.
func Parse(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := Named[v]; ok {
		return c, nil
	}
	if !strings.HasPrefix(v, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	h := v[1:]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

// Triple returns the RGB components as 0-255 integers.
func Triple(c color.NRGBA) []int {
	return []int{int(c.R), int(c.G), int(c.B)}
}

// FromTriple is the inverse of Triple; the result is opaque.
func FromTriple(v []int) (color.NRGBA, error) {
	if len(v) < 3 {
		return color.NRGBA{}, fmt.Errorf("colour triple has %d components", len(v))
	}
	for _, x := range v[:3] {
		if x < 0 || x > 255 {
			return color.NRGBA{}, errors.New("colour component outside 0-255")
		}
	}
	return color.NRGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 255}, nil
}

// Opaque returns c with full alpha.
func Opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}
