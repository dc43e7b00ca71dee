package points

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"tmap-export/src/layer"
)

// ReadViewer parses the CSV layout the viewer itself saves points in:
// an optional "index" column, coordinates in "axis-0"/"axis-1" (row, col)
// or "y"/"x", and any further columns as properties.
func ReadViewer(r io.Reader) (*layer.Points, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := indexColumns(header)
	yi, xi := -1, -1
	if i, ok := col["axis-0"]; ok {
		yi = i
	} else if i, ok := col["y"]; ok {
		yi = i
	}
	if i, ok := col["axis-1"]; ok {
		xi = i
	} else if i, ok := col["x"]; ok {
		xi = i
	}
	if yi < 0 || xi < 0 {
		return nil, errors.New("points csv needs axis-0/axis-1 or y/x columns")
	}
	skip := map[int]bool{yi: true, xi: true}
	if i, ok := col["index"]; ok {
		skip[i] = true
	}
	out := &layer.Points{}
	var propCols []int
	for i, h := range header {
		if !skip[i] {
			propCols = append(propCols, i)
			out.Properties = append(out.Properties, layer.Property{Name: h, Values: []string{}})
		}
	}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		y, err := strconv.ParseFloat(rec[yi], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		x, err := strconv.ParseFloat(rec[xi], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out.Coords = append(out.Coords, layer.Point{Y: y, X: x})
		for j, ci := range propCols {
			out.Properties[j].Values = append(out.Properties[j].Values, rec[ci])
		}
	}
	return out, nil
}
