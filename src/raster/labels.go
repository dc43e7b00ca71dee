package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"tmap-export/src/layer"
)

// ErrUnknownLabelColor is returned when a labels raster contains a colour
// that is not in the label colour table.
var ErrUnknownLabelColor = errors.New("pixel colour has no label id")

// RenderLabels paints every non-background id with its colour. Background
// pixels stay fully transparent.
func RenderLabels(l *layer.Labels, colors map[uint32]color.NRGBA) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, l.Width, l.Height))
	for y := 0; y < l.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < l.Width; x++ {
			id := l.At(x, y)
			if id == 0 {
				continue
			}
			c, ok := colors[id]
			if !ok {
				return nil, fmt.Errorf("label %d has no colour", id)
			}
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, 255
		}
	}
	return img, nil
}

// DecodeLabels maps a rendered labels raster back to ids.
func DecodeLabels(img image.Image, colors map[uint32]color.NRGBA) (*layer.Labels, error) {
	lookup := make(map[[3]uint8]uint32, len(colors))
	for id, c := range colors {
		lookup[[3]uint8{c.R, c.G, c.B}] = id
	}
	b := img.Bounds()
	out := layer.NewLabelGrid(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			id, ok := lookup[[3]uint8{c.R, c.G, c.B}]
			if !ok {
				return nil, fmt.Errorf("%w: (%d,%d) is #%02X%02X%02X", ErrUnknownLabelColor, x-b.Min.X, y-b.Min.Y, c.R, c.G, c.B)
			}
			out.Set(x-b.Min.X, y-b.Min.Y, id)
		}
	}
	return out, nil
}

// LabelsFromGray reads label ids from a single-channel raster, as produced
// by segmentation tools.
func LabelsFromGray(img image.Image) (*layer.Labels, error) {
	var at func(x, y int) uint32
	switch src := img.(type) {
	case *image.Gray:
		at = func(x, y int) uint32 { return uint32(src.GrayAt(x, y).Y) }
	case *image.Gray16:
		at = func(x, y int) uint32 { return uint32(src.Gray16At(x, y).Y) }
	case *image.Paletted:
		at = func(x, y int) uint32 { return uint32(src.ColorIndexAt(x, y)) }
	default:
		return nil, fmt.Errorf("labels raster must be single-channel, got %T", img)
	}
	b := img.Bounds()
	out := layer.NewLabelGrid(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, at(x, y))
		}
	}
	return out, nil
}
