package engine

import (
	"fmt"
	"time"

	"grapher/dataset"
	"grapher/frame"
)

// dummyVariable is the synthetic variable name used when a chart plots one
// measured quantity split over entities: the remote model then carries a
// single variable whose series are distinguished by entity.
const dummyVariable = "dummy"

// reshapeLineChart converts a user table encoded as (x, y, c) into the
// normalized (year, entity, variable, value) form.
//
// With a color encoding, each distinct value of the c column becomes an
// entity and the chart carries the single synthetic variable. Without one,
// every non-x column is melted into its own series, so several numeric
// columns can be plotted side by side without an explicit c.
func reshapeLineChart(f *frame.Frame, enc encoding, tt dataset.TimeType, epoch time.Time) (*frame.Frame, error) {
	cols := []string{enc.x, enc.y}
	if enc.c != "" {
		cols = append(cols, enc.c)
	} else {
		cols = []string{enc.x}
		for _, c := range f.Columns() {
			if c != enc.x {
				cols = append(cols, c)
			}
		}
	}
	sub, err := f.Select(cols...)
	if err != nil {
		return nil, err
	}
	sub, err = sub.Rename(enc.x, "year")
	if err != nil {
		return nil, err
	}
	if tt == dataset.TimeDay {
		if err := toDayNumbers(sub, "year", epoch); err != nil {
			return nil, err
		}
	}

	if enc.c != "" {
		out := frame.New("year", "entity", "variable", "value")
		for i := 0; i < sub.Len(); i++ {
			out.AppendRow(map[string]any{
				"year":     sub.Cell("year", i),
				"entity":   sub.Cell(enc.c, i),
				"variable": dummyVariable,
				"value":    sub.Cell(enc.y, i),
			})
		}
		return out, nil
	}

	melted, err := sub.Melt("year")
	if err != nil {
		return nil, err
	}
	out := frame.New("year", "entity", "variable", "value")
	for i := 0; i < melted.Len(); i++ {
		out.AppendRow(map[string]any{
			"year":     melted.Cell("year", i),
			"entity":   melted.Cell("variable", i),
			"variable": dummyVariable,
			"value":    melted.Cell("value", i),
		})
	}
	return out, nil
}

// barChartYear is the synthetic time value assigned to discrete bar rows;
// bar charts are not time-indexed, but the remote model requires one.
const barChartYear = 2021

// reshapeDiscreteBar converts a labelled-bar table into normalized form.
// The y encoding must be a label column, the x encoding supplies the
// numeric value.
func reshapeDiscreteBar(f *frame.Frame, enc encoding) (*frame.Frame, error) {
	for i, cell := range f.Column(enc.y) {
		if cell == nil {
			continue
		}
		if _, ok := frame.AsString(cell); !ok {
			return nil, fmt.Errorf("bar chart y encoding %q must be a label column, row %d is numeric", enc.y, i)
		}
	}

	out := frame.New("year", "entity", "variable", "value")
	for i := 0; i < f.Len(); i++ {
		variable := any(dummyVariable)
		if enc.c != "" {
			variable = f.Cell(enc.c, i)
		}
		out.AppendRow(map[string]any{
			"year":     barChartYear,
			"entity":   f.Cell(enc.y, i),
			"variable": variable,
			"value":    f.Cell(enc.x, i),
		})
	}
	return out, nil
}

// toDayNumbers rewrites a time column in place to integer day offsets from
// the epoch. Cells may be calendar dates, ISO date strings, or already
// converted integers; the conversion is idempotent on integers so re-export
// of an already-normalized table is safe.
func toDayNumbers(f *frame.Frame, col string, epoch time.Time) error {
	cells := f.Column(col)
	for i, cell := range cells {
		switch v := cell.(type) {
		case nil:
		case int:
			// already a day offset
		case time.Time:
			cells[i] = dataset.DayNumber(v, epoch)
		case string:
			d, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fmt.Errorf("row %d: cannot parse date %q: %w", i, v, err)
			}
			cells[i] = dataset.DayNumber(d, epoch)
		default:
			return fmt.Errorf("row %d: cannot convert %T to a day offset", i, cell)
		}
	}
	return nil
}
