// Package raster writes and reads the TIFF artifacts of image and labels
// layers.
package raster

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"strings"

	"golang.org/x/image/tiff"
)

// Options selects the TIFF encoding.
type Options struct {
	// Compression is "deflate" (default) or "none".
	Compression string
}

func (o Options) tiffOptions() (*tiff.Options, error) {
	switch strings.ToLower(o.Compression) {
	case "", "deflate":
		return &tiff.Options{Compression: tiff.Deflate, Predictor: true}, nil
	case "none", "uncompressed":
		return &tiff.Options{Compression: tiff.Uncompressed}, nil
	}
	return nil, fmt.Errorf("unsupported tiff compression %q", o.Compression)
}

// EncodeImage writes img to w as a TIFF. Gray, Gray16, RGBA, NRGBA and their
// 64-bit variants are written losslessly; anything else is converted to
// NRGBA first.
func EncodeImage(w io.Writer, img image.Image, opts Options) error {
	to, err := opts.tiffOptions()
	if err != nil {
		return err
	}
	return tiff.Encode(w, normalize(img), to)
}

// DecodeImage reads a TIFF written by EncodeImage.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode tiff: %w", err)
	}
	return img, nil
}

// normalize returns an image the TIFF encoder stores without loss, with its
// origin at (0,0).
func normalize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Min == (image.Point{}) {
		switch img.(type) {
		case *image.Gray, *image.Gray16, *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
			return img
		}
	}
	switch src := img.(type) {
	case *image.NRGBA:
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[i:i+4*b.Dx()])
		}
		return dst
	case *image.Gray:
		dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	case *image.Gray16:
		dst := image.NewGray16(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	case *image.RGBA64, *image.NRGBA64:
		dst := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
