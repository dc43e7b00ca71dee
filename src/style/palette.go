package style

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrDuplicateLabelColor is returned when two label ids would be painted
// with the same colour, which makes the rendered raster ambiguous.
var ErrDuplicateLabelColor = errors.New("label colours are not distinct")

// DefaultLabelPalette is cycled through before generated colours are used.
var DefaultLabelPalette = []color.NRGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{G: 255, B: 255, A: 255},
	{R: 255, B: 255, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

const maxGenerated = 1 << 20

// LabelColors assigns a distinct opaque colour to every id. Colours in
// fixed win; the rest come from palette in order, then from a golden-angle
// hue walk. An error is returned if fixed colours collide.
func LabelColors(ids []uint32, fixed map[uint32]color.NRGBA, palette []color.NRGBA) (map[uint32]color.NRGBA, error) {
	out := make(map[uint32]color.NRGBA, len(ids))
	used := make(map[color.NRGBA]uint32, len(ids))
	for _, id := range ids {
		c, ok := fixed[id]
		if !ok {
			continue
		}
		c = Opaque(c)
		if other, dup := used[c]; dup {
			return nil, fmt.Errorf("%w: %d and %d are both %s", ErrDuplicateLabelColor, other, id, Hex(c))
		}
		used[c] = id
		out[id] = c
	}

	next := 0
	gen := 0
	pick := func() (color.NRGBA, error) {
		for next < len(palette) {
			c := Opaque(palette[next])
			next++
			if _, taken := used[c]; !taken {
				return c, nil
			}
		}
		for gen < maxGenerated {
			c := generated(gen)
			gen++
			if _, taken := used[c]; !taken {
				return c, nil
			}
		}
		return color.NRGBA{}, errors.New("ran out of label colours")
	}
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		c, err := pick()
		if err != nil {
			return nil, err
		}
		used[c] = id
		out[id] = c
	}
	return out, nil
}

// generated returns the i-th colour of a golden-angle walk in HSV space.
func generated(i int) color.NRGBA {
	const golden = 0.618033988749895
	h := math.Mod(float64(i)*golden, 1) * 360
	s := 0.45 + 0.5*math.Mod(float64(i)*golden*golden, 1)
	v := 0.6 + 0.4*math.Mod(float64(i)*0.7548776662466927, 1)
	return hsv(h, s, v)
}

func hsv(h, s, v float64) color.NRGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(f float64) uint8 { return uint8(math.Round((f + m) * 255)) }
	return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}
