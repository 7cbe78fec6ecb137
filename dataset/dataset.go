// Package dataset holds the normalized dictionary-of-arrays data format
// consumed by the remote grapher renderer: variables keyed by synthetic id
// carrying parallel year/entity/value arrays, and an entity dictionary.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"grapher/frame"
)

// TimeType says how the time axis of a dataset is encoded.
type TimeType int

const (
	// TimeYear means the years arrays hold calendar years.
	TimeYear TimeType = iota
	// TimeDay means the years arrays hold day offsets from an epoch date,
	// recorded on each variable's display as yearIsDay/zeroDay.
	TimeDay
)

// DefaultEpoch is the zero day used for day-encoded time axes unless a
// different epoch is configured.
var DefaultEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entity is a named subject of measurement with a synthetic integer id.
// Entities are never mutated after creation.
type Entity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Variable is a named measured quantity. Years, Entities and Values are
// parallel: index i across all three describes one observation.
type Variable struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Years    []int          `json:"years"`
	Entities []int          `json:"entities"`
	Values   []float64      `json:"values"`
	Display  map[string]any `json:"display"`
}

// Dataset owns the variable and entity dictionaries. The maps are keyed by
// the decimal string form of the ids, matching the wire JSON.
type Dataset struct {
	Variables map[string]*Variable `json:"variables"`
	EntityKey map[string]*Entity   `json:"entityKey"`
}

// DayNumber converts a calendar date to its day offset from the epoch.
// Applying it to a date derived from an already-computed offset is exact,
// so the conversion is idempotent across export paths.
func DayNumber(d time.Time, epoch time.Time) int {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(epoch).Hours() / 24)
}

// DayDate is the inverse of DayNumber.
func DayDate(n int, epoch time.Time) time.Time {
	return epoch.AddDate(0, 0, n)
}

// DateDisplay is the display metadata recorded on day-encoded variables.
func DateDisplay(epoch time.Time) map[string]any {
	return map[string]any{
		"yearIsDay": true,
		"zeroDay":   epoch.Format("2006-01-02"),
	}
}

// FromFrame builds a dataset from a normalized long-format frame with
// exactly the columns {year, entity, variable, value}.
//
// Entity ids are assigned in first-seen row order starting at 1. Variable
// ids are assigned in lexicographic order of the distinct variable names,
// also starting at 1. The asymmetry is deliberate and matches the remote
// renderer's expectations, so it must not be "fixed".
func FromFrame(f *frame.Frame, tt TimeType, epoch time.Time) (*Dataset, error) {
	if err := checkColumns(f); err != nil {
		return nil, err
	}

	years := f.Column("year")
	entities := f.Column("entity")
	variables := f.Column("variable")
	values := f.Column("value")

	seen := make(map[string]bool, f.Len())
	entityIDs := make(map[string]int)
	var entityOrder []string
	varNames := make(map[string]bool)

	for i := 0; i < f.Len(); i++ {
		year, ok := frame.AsFloat(years[i])
		if !ok {
			return nil, fmt.Errorf("row %d: year is not numeric", i)
		}
		entity, ok := frame.AsString(entities[i])
		if !ok {
			return nil, fmt.Errorf("row %d: entity is not a string", i)
		}
		variable, ok := frame.AsString(variables[i])
		if !ok {
			return nil, fmt.Errorf("row %d: variable is not a string", i)
		}

		key := fmt.Sprintf("%d\x00%s\x00%s", int(year), entity, variable)
		if seen[key] {
			return nil, fmt.Errorf("duplicate observation for (%d, %s, %s)", int(year), entity, variable)
		}
		seen[key] = true

		if _, ok := entityIDs[entity]; !ok {
			entityIDs[entity] = len(entityOrder) + 1
			entityOrder = append(entityOrder, entity)
		}
		varNames[variable] = true
	}

	ds := &Dataset{
		Variables: make(map[string]*Variable, len(varNames)),
		EntityKey: make(map[string]*Entity, len(entityOrder)),
	}
	for _, name := range entityOrder {
		id := entityIDs[name]
		ds.EntityKey[strconv.Itoa(id)] = &Entity{ID: id, Name: name}
	}

	sorted := make([]string, 0, len(varNames))
	for name := range varNames {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for varID, name := range sorted {
		v := &Variable{ID: varID + 1, Name: name, Display: map[string]any{}}
		if tt == TimeDay {
			v.Display = DateDisplay(epoch)
		}
		for i := 0; i < f.Len(); i++ {
			if variables[i] != name {
				continue
			}
			year, _ := frame.AsFloat(years[i])
			value, ok := frame.AsFloat(values[i])
			if !ok {
				return nil, fmt.Errorf("row %d: value is not numeric", i)
			}
			entity, _ := frame.AsString(entities[i])
			v.Years = append(v.Years, int(year))
			v.Entities = append(v.Entities, entityIDs[entity])
			v.Values = append(v.Values, value)
		}
		ds.Variables[strconv.Itoa(v.ID)] = v
	}

	return ds, nil
}

func checkColumns(f *frame.Frame) error {
	want := map[string]bool{"year": true, "entity": true, "variable": true, "value": true}
	cols := f.Columns()
	if len(cols) != len(want) {
		return fmt.Errorf("expected normalized frame with columns {year, entity, variable, value}, got %v", cols)
	}
	for _, c := range cols {
		if !want[c] {
			return fmt.Errorf("expected normalized frame with columns {year, entity, variable, value}, got %v", cols)
		}
	}
	return nil
}

// SortedVariables returns the variables in ascending id order.
func (d *Dataset) SortedVariables() []*Variable {
	out := make([]*Variable, 0, len(d.Variables))
	for _, v := range d.Variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedEntities returns the entities in ascending id order.
func (d *Dataset) SortedEntities() []*Entity {
	out := make([]*Entity, 0, len(d.EntityKey))
	for _, e := range d.EntityKey {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EntityName resolves an entity id to its name. ok is false for dangling
// references to entities that no longer exist.
func (d *Dataset) EntityName(id int) (string, bool) {
	e, ok := d.EntityKey[strconv.Itoa(id)]
	if !ok {
		return "", false
	}
	return e.Name, true
}

// IsDayBased reports whether any variable uses the yearIsDay day encoding.
func (d *Dataset) IsDayBased() bool {
	for _, v := range d.Variables {
		if v.yearIsDay() {
			return true
		}
	}
	return false
}

func (v *Variable) yearIsDay() bool {
	if v.Display == nil {
		return false
	}
	flag, _ := v.Display["yearIsDay"].(bool)
	return flag
}

func (v *Variable) zeroDay(epoch time.Time) time.Time {
	if v.Display != nil {
		if s, ok := v.Display["zeroDay"].(string); ok {
			if d, err := time.Parse("2006-01-02", s); err == nil {
				return d
			}
		}
	}
	return epoch
}

// Frame converts the dataset back to a tidy long-format frame. Day-encoded
// variables are decoded back to calendar dates under a "date" column; plain
// variables keep a "year" column. Mixing the two encodings in one dataset
// is rejected.
func (d *Dataset) Frame(epoch time.Time) (*frame.Frame, error) {
	day := d.IsDayBased()
	timeCol := "year"
	if day {
		timeCol = "date"
	}
	out := frame.New(timeCol, "entity", "variable", "value")

	for _, v := range d.SortedVariables() {
		if v.yearIsDay() != day {
			return nil, fmt.Errorf("variable %q mixes day and year time encodings", v.Name)
		}
		zero := v.zeroDay(epoch)
		for i := range v.Years {
			name, ok := d.EntityName(v.Entities[i])
			if !ok {
				return nil, fmt.Errorf("variable %q references unknown entity id %d", v.Name, v.Entities[i])
			}
			var t any = v.Years[i]
			if day {
				t = DayDate(v.Years[i], zero)
			}
			out.AppendRow(map[string]any{
				timeCol:    t,
				"entity":   name,
				"variable": v.Name,
				"value":    v.Values[i],
			})
		}
	}
	return out, nil
}
