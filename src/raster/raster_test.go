package raster_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"tmap-export/src/layer"
	"tmap-export/src/raster"
)

func TestEncodeDecode_Gray(t *testing.T) {
	for _, comp := range []string{"deflate", "none"} {
		img := image.NewGray(image.Rect(0, 0, 5, 3))
		for i := range img.Pix {
			img.Pix[i] = uint8(i * 13)
		}
		var buf bytes.Buffer
		require.NoError(t, raster.EncodeImage(&buf, img, raster.Options{Compression: comp}))
		got, err := raster.DecodeImage(&buf)
		require.NoError(t, err)
		g, ok := got.(*image.Gray)
		require.True(t, ok, "decoded %T", got)
		require.Equal(t, img.Pix, g.Pix)
	}
}

func TestEncodeDecode_OffsetNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	img.SetNRGBA(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetNRGBA(12, 21, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	var buf bytes.Buffer
	require.NoError(t, raster.EncodeImage(&buf, img, raster.Options{}))
	got, err := raster.DecodeImage(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())
	require.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, color.NRGBAModel.Convert(got.At(0, 0)))
	require.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, color.NRGBAModel.Convert(got.At(2, 1)))
}

func TestEncode_BadCompression(t *testing.T) {
	err := raster.EncodeImage(&bytes.Buffer{}, image.NewGray(image.Rect(0, 0, 1, 1)), raster.Options{Compression: "lzw"})
	require.Error(t, err)
}

func TestLabels_RoundTrip(t *testing.T) {
	l := layer.NewLabelGrid(4, 3)
	l.Set(0, 0, 1)
	l.Set(3, 2, 70000)
	l.Set(1, 1, 1)
	colors := map[uint32]color.NRGBA{
		1:     {R: 255, A: 255},
		70000: {G: 128, B: 7, A: 255},
	}
	img, err := raster.RenderLabels(l, colors)
	require.NoError(t, err)
	require.Equal(t, uint8(0), img.NRGBAAt(2, 2).A)

	var buf bytes.Buffer
	require.NoError(t, raster.EncodeImage(&buf, img, raster.Options{}))
	dec, err := raster.DecodeImage(&buf)
	require.NoError(t, err)
	back, err := raster.DecodeLabels(dec, colors)
	require.NoError(t, err)
	require.Equal(t, l.IDs, back.IDs)
}

func TestRenderLabels_MissingColor(t *testing.T) {
	l := layer.NewLabelGrid(1, 1)
	l.Set(0, 0, 9)
	_, err := raster.RenderLabels(l, map[uint32]color.NRGBA{})
	require.Error(t, err)
}

func TestDecodeLabels_UnknownColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 9, A: 255})
	_, err := raster.DecodeLabels(img, map[uint32]color.NRGBA{1: {R: 255, A: 255}})
	require.True(t, errors.Is(err, raster.ErrUnknownLabelColor), "got %v", err)
}

func TestLabelsFromGray(t *testing.T) {
	g := image.NewGray16(image.Rect(0, 0, 2, 1))
	g.SetGray16(1, 0, color.Gray16{Y: 300})
	l, err := raster.LabelsFromGray(g)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 300}, l.IDs)

	_, err = raster.LabelsFromGray(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.Error(t, err)
}
