package points_test

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"tmap-export/src/layer"
	"tmap-export/src/points"
)

func TestWrite_Format(t *testing.T) {
	p := &layer.Points{
		Coords:     []layer.Point{{Y: 10, X: 2.5}, {Y: 0, X: 1}},
		FaceColors: []color.NRGBA{{R: 255, A: 255}},
		Properties: []layer.Property{{Name: "gene", Values: []string{"ACTB", "a,b"}}},
	}
	var buf bytes.Buffer
	require.NoError(t, points.Write(&buf, "spots", p))
	want := "name,x,y,color,symbol,gene\n" +
		"spots,2.5,10,#FF0000,disc,ACTB\n" +
		"spots,1,0,#FF0000,disc,\"a,b\"\n"
	require.Equal(t, want, buf.String())
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, points.Write(&buf, "none", &layer.Points{}))
	require.Equal(t, "name,x,y,color,symbol\n", buf.String())
}

func TestWrite_PropertyClash(t *testing.T) {
	p := &layer.Points{
		Coords:     []layer.Point{{}},
		Properties: []layer.Property{{Name: "color", Values: []string{"x"}}},
	}
	require.Error(t, points.Write(&bytes.Buffer{}, "p", p))
}

func TestRoundTrip(t *testing.T) {
	in := &layer.Points{
		Coords: []layer.Point{{Y: 1, X: 2}, {Y: 3.25, X: -4}},
		FaceColors: []color.NRGBA{
			{R: 1, G: 2, B: 3, A: 255},
			{R: 250, G: 128, B: 0, A: 255},
		},
		Symbol: "square",
		Properties: []layer.Property{
			{Name: "cluster", Values: []string{"1", "2"}},
			{Name: "score", Values: []string{"0.5", ""}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, points.Write(&buf, "cells", in))
	name, out, err := points.Read(&buf)
	require.NoError(t, err)
	require.Equal(t, "cells", name)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_Errors(t *testing.T) {
	for _, in := range []string{"", "name,color\nx,red\n", "x,y\nfoo,1\n"} {
		_, _, err := points.Read(strings.NewReader(in))
		require.Error(t, err, "input %q", in)
	}
}

func TestReadViewer(t *testing.T) {
	in := "index,axis-0,axis-1,gene\n0,10.5,3,ACTB\n1,2,7,GAPDH\n"
	p, err := points.ReadViewer(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []layer.Point{{Y: 10.5, X: 3}, {Y: 2, X: 7}}, p.Coords)
	require.Equal(t, []layer.Property{{Name: "gene", Values: []string{"ACTB", "GAPDH"}}}, p.Properties)

	p, err = points.ReadViewer(strings.NewReader("x,y\n1,2\n"))
	require.NoError(t, err)
	require.Equal(t, []layer.Point{{Y: 2, X: 1}}, p.Coords)

	_, err = points.ReadViewer(strings.NewReader("a,b\n1,2\n"))
	require.Error(t, err)
}
