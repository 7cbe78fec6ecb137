package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Frame is a small column-oriented table. Cells are untyped: nil marks a
// missing value, and the supported concrete types are float64, int, string
// and time.Time (calendar dates).
//
// A tidy frame has one observation per row with columns
// {year|date, entity, variable, value}; frames built by users before
// compilation may have any columns the chart encoding refers to.
type Frame struct {
	cols []string
	data map[string][]any
}

// New creates an empty frame with the given column order.
func New(cols ...string) *Frame {
	f := &Frame{cols: append([]string(nil), cols...), data: make(map[string][]any)}
	for _, c := range cols {
		f.data[c] = nil
	}
	return f
}

// FromColumns builds a frame from named column slices. All columns must have
// the same length.
func FromColumns(cols []string, data map[string][]any) (*Frame, error) {
	f := New(cols...)
	n := -1
	for _, c := range cols {
		col, ok := data[c]
		if !ok {
			return nil, fmt.Errorf("missing data for column %q", c)
		}
		if n == -1 {
			n = len(col)
		} else if len(col) != n {
			return nil, fmt.Errorf("column %q has %d values, expected %d", c, len(col), n)
		}
		f.data[c] = append([]any(nil), col...)
	}
	return f, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// HasColumn reports whether the frame contains the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.data[f.cols[0]])
}

// Column returns the cells of the named column, or nil if it does not exist.
func (f *Frame) Column(name string) []any {
	return f.data[name]
}

// Cell returns the cell at the given column and row.
func (f *Frame) Cell(col string, i int) any {
	return f.data[col][i]
}

// AppendRow appends one row. Columns absent from cells get a nil value.
func (f *Frame) AppendRow(cells map[string]any) {
	for _, c := range f.cols {
		f.data[c] = append(f.data[c], cells[c])
	}
}

// Select returns a new frame with only the given columns, in the given order.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	out := New(cols...)
	for _, c := range cols {
		col, ok := f.data[c]
		if !ok {
			return nil, fmt.Errorf("no such column: %s", c)
		}
		out.data[c] = append([]any(nil), col...)
	}
	return out, nil
}

// Rename returns a new frame with one column renamed.
func (f *Frame) Rename(from, to string) (*Frame, error) {
	if !f.HasColumn(from) {
		return nil, fmt.Errorf("no such column: %s", from)
	}
	out := &Frame{data: make(map[string][]any)}
	for _, c := range f.cols {
		name := c
		if c == from {
			name = to
		}
		out.cols = append(out.cols, name)
		out.data[name] = append([]any(nil), f.data[c]...)
	}
	return out, nil
}

// Melt long-pivots every column except id into (id, variable, value) rows.
// Melted columns are stacked one after another, each contributing all of its
// rows in order.
func (f *Frame) Melt(id string) (*Frame, error) {
	if !f.HasColumn(id) {
		return nil, fmt.Errorf("no such column: %s", id)
	}
	out := New(id, "variable", "value")
	for _, c := range f.cols {
		if c == id {
			continue
		}
		for i := 0; i < f.Len(); i++ {
			out.AppendRow(map[string]any{
				id:         f.data[id][i],
				"variable": c,
				"value":    f.data[c][i],
			})
		}
	}
	return out, nil
}

// DropNull returns a new frame without the rows whose cell in the given
// column is nil.
func (f *Frame) DropNull(col string) *Frame {
	out := New(f.cols...)
	for i := 0; i < f.Len(); i++ {
		if f.data[col][i] == nil {
			continue
		}
		row := make(map[string]any, len(f.cols))
		for _, c := range f.cols {
			row[c] = f.data[c][i]
		}
		out.AppendRow(row)
	}
	return out
}

// KeepEntities returns a new frame keeping only the rows whose "entity" cell
// matches one of the given names. It is the pre-selection filter that
// reconstructed chart code applies before building a chart.
func (f *Frame) KeepEntities(names ...string) *Frame {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	out := New(f.cols...)
	for i := 0; i < f.Len(); i++ {
		name, ok := f.data["entity"][i].(string)
		if !ok || !keep[name] {
			continue
		}
		row := make(map[string]any, len(f.cols))
		for _, c := range f.cols {
			row[c] = f.data[c][i]
		}
		out.AppendRow(row)
	}
	return out
}

// TimeColumn returns the name of the frame's time column: "date" when
// present, otherwise "year". ok is false when the frame has neither.
func (f *Frame) TimeColumn() (string, bool) {
	if f.HasColumn("date") {
		return "date", true
	}
	if f.HasColumn("year") {
		return "year", true
	}
	return "", false
}

// TimeBounds returns the minimum and maximum of the frame's time column.
// Year columns yield ints, date columns yield time.Time values.
func (f *Frame) TimeBounds() (min, max any, ok bool) {
	col, ok := f.TimeColumn()
	if !ok || f.Len() == 0 {
		return nil, nil, false
	}
	for _, cell := range f.data[col] {
		if cell == nil {
			continue
		}
		if min == nil {
			min, max = cell, cell
			continue
		}
		if lessValue(cell, min) {
			min = cell
		}
		if lessValue(max, cell) {
			max = cell
		}
	}
	return min, max, min != nil
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case int:
		if bv, ok := asFloat(b); ok {
			return float64(av) < bv
		}
	case float64:
		if bv, ok := asFloat(b); ok {
			return av < bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	}
	return false
}

// AsFloat converts a numeric cell to float64.
func AsFloat(cell any) (float64, bool) {
	return asFloat(cell)
}

func asFloat(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// AsString converts a string cell.
func AsString(cell any) (string, bool) {
	s, ok := cell.(string)
	return s, ok
}

// WriteCSV writes the frame as CSV with a header row. Dates are formatted
// as ISO dates, floats with the shortest representation that round-trips.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.cols); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(f.cols))
	for i := 0; i < f.Len(); i++ {
		for j, c := range f.cols {
			record[j] = formatCell(f.data[c][i])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}
