// Package points writes point-set layers as marker CSV files and reads
// them back.
package points

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"tmap-export/src/layer"
	"tmap-export/src/style"
)

// Fixed leading columns of a marker CSV.
var Header = []string{"name", "x", "y", "color", "symbol"}

// Write emits one row per point. Coordinates are swapped from viewer order
// (y, x) to x, y. Property columns follow the fixed columns in order.
func Write(w io.Writer, name string, p *layer.Points) error {
	header := append([]string{}, Header...)
	for _, prop := range p.Properties {
		for _, h := range Header {
			if prop.Name == h {
				return fmt.Errorf("property %q clashes with a marker column", prop.Name)
			}
		}
		header = append(header, prop.Name)
	}
	symbol := p.Symbol
	if symbol == "" {
		symbol = layer.DefaultSymbol
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, c := range p.Coords {
		row[0] = name
		row[1] = formatCoord(c.X)
		row[2] = formatCoord(c.Y)
		row[3] = style.Hex(p.ColorAt(i))
		row[4] = symbol
		for j, prop := range p.Properties {
			row[len(Header)+j] = prop.Values[i]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a marker CSV written by Write and returns the layer name
// found in the name column together with the points.
func Read(r io.Reader) (string, *layer.Points, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil, errors.New("marker csv is empty")
		}
		return "", nil, err
	}
	col := indexColumns(header)
	xi, okx := col["x"]
	yi, oky := col["y"]
	if !okx || !oky {
		return "", nil, errors.New("marker csv needs x and y columns")
	}
	fixed := map[string]bool{}
	for _, h := range Header {
		fixed[h] = true
	}
	out := &layer.Points{}
	var propCols []int
	for i, h := range header {
		if !fixed[h] {
			propCols = append(propCols, i)
			out.Properties = append(out.Properties, layer.Property{Name: h})
		}
	}

	name := ""
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, err
		}
		line++
		x, err := strconv.ParseFloat(rec[xi], 64)
		if err != nil {
			return "", nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(rec[yi], 64)
		if err != nil {
			return "", nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		out.Coords = append(out.Coords, layer.Point{Y: y, X: x})
		c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if ci, ok := col["color"]; ok && rec[ci] != "" {
			if c, err = style.Parse(rec[ci]); err != nil {
				return "", nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		out.FaceColors = append(out.FaceColors, c)
		if si, ok := col["symbol"]; ok && out.Symbol == "" {
			out.Symbol = rec[si]
		}
		if ni, ok := col["name"]; ok && name == "" {
			name = rec[ni]
		}
		for j, ci := range propCols {
			out.Properties[j].Values = append(out.Properties[j].Values, rec[ci])
		}
	}
	if out.Symbol == "" {
		out.Symbol = layer.DefaultSymbol
	}
	for j := range out.Properties {
		if out.Properties[j].Values == nil {
			out.Properties[j].Values = []string{}
		}
	}
	return name, out, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	return col
}

func formatCoord(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
