// Package engine is the bidirectional configuration compiler: it turns a
// declarative chart description plus tidy data into the remote renderer's
// JSON config and normalized dataset, and it infers a declarative
// description back from an existing remote config and its dataset.
//
// Every compile and translate call is a pure function of its inputs; no
// state persists across calls.
package engine

import (
	"fmt"
	"time"

	"grapher"
	"grapher/dataset"
	"grapher/frame"
)

type encoding struct {
	x, y, c string
}

// Compile builds the standalone remote configuration for a declarative
// chart: the reshaped and normalized dataset, the dimension list, the
// selection, and the display config skeleton.
func Compile(c *grapher.Chart, opts ...Option) (*StandaloneConfig, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	st := newSettings(opts)

	enc := encoding{x: c.Encoding.X, y: c.Encoding.Y, c: c.Encoding.C}
	tt := timeTypeFor(c.Data, enc.x)

	cfg := NewChartConfig()
	cfg.Type = remoteChartType(c)
	cfg.Tab = c.Tab
	cfg.Title = c.Labels.Title
	cfg.Subtitle = c.Labels.Subtitle
	cfg.SourceDesc = c.Labels.SourceDesc
	cfg.Note = c.Labels.Note

	if c.Transforms.Relative {
		cfg.StackMode = "relative"
	}

	// a legend is meaningless with a single series
	cfg.HideLegend = enc.c == ""

	if c.Interaction.AllowRelative != nil {
		cfg.HideRelativeToggle = false
	}
	if c.Interaction.ScaleControl != nil {
		cfg.YAxis = map[string]any{
			"scaleType":          "linear",
			"canChangeScaleType": *c.Interaction.ScaleControl,
		}
	}
	if c.Interaction.EntityControl != nil {
		cfg.HideEntityControls = !*c.Interaction.EntityControl
	}
	if c.Interaction.EnableMap != nil && *c.Interaction.EnableMap {
		cfg.HasMapTab = true
	}
	cfg.autoImprove()

	data, err := compileData(c, cfg.Type, enc, tt, st.epoch)
	if err != nil {
		return nil, err
	}

	return &StandaloneConfig{ChartConfig: *cfg, DataConfig: *data}, nil
}

// compileData reshapes the input table, builds the dataset, and derives the
// selection and timespan.
func compileData(c *grapher.Chart, chartType string, enc encoding, tt dataset.TimeType, epoch time.Time) (*DataConfig, error) {
	var reshaped *frame.Frame
	var err error
	switch chartType {
	case LineChart:
		reshaped, err = reshapeLineChart(c.Data, enc, tt, epoch)
	case DiscreteBar, StackedDiscreteBar:
		reshaped, err = reshapeDiscreteBar(c.Data, enc)
	default:
		return nil, fmt.Errorf("chart type %s is not yet implemented", chartType)
	}
	if err != nil {
		return nil, err
	}

	// nulls never reach the remote data model
	reshaped = reshaped.DropNull("value")

	ds, err := dataset.FromFrame(reshaped, tt, epoch)
	if err != nil {
		return nil, err
	}

	data := &DataConfig{OwidDataset: ds}
	for _, v := range ds.SortedVariables() {
		data.Dimensions = append(data.Dimensions, Dimension{
			Property:   "y",
			VariableID: v.ID,
			Display:    map[string]any{},
		})
	}

	selected := make(map[string]bool, len(c.Selection.Entities))
	for _, name := range c.Selection.Entities {
		selected[name] = true
	}
	for _, e := range ds.SortedEntities() {
		if c.Selection.Entities != nil && !selected[e.Name] {
			continue
		}
		data.SelectedData = append(data.SelectedData, SelectedEntity{EntityID: e.ID})
		data.SelectedEntityNames = append(data.SelectedEntityNames, e.Name)
	}

	minTime, maxTime, err := timespanBounds(c.Selection.Timespan, epoch)
	if err != nil {
		return nil, err
	}
	data.MinTime = minTime
	data.MaxTime = maxTime

	return data, nil
}

// timespanBounds converts a declarative timespan to wire bounds, remapping
// date endpoints to day offsets with the same epoch the dataset uses.
func timespanBounds(span grapher.TimeSpan, epoch time.Time) (*int, *int, error) {
	switch ts := span.(type) {
	case nil:
		return nil, nil, nil
	case grapher.YearSpan:
		return ts.Min, ts.Max, nil
	case grapher.DateSpan:
		var min, max *int
		if ts.Min != nil {
			n := dataset.DayNumber(*ts.Min, epoch)
			min = &n
		}
		if ts.Max != nil {
			n := dataset.DayNumber(*ts.Max, epoch)
			max = &n
		}
		return min, max, nil
	default:
		return nil, nil, fmt.Errorf("unknown timespan type %T", span)
	}
}

// timeTypeFor decides the time encoding: the "date" x column name or a
// date-typed x column both select the day encoding.
func timeTypeFor(f *frame.Frame, x string) dataset.TimeType {
	if x == "date" {
		return dataset.TimeDay
	}
	for _, cell := range f.Column(x) {
		if cell == nil {
			continue
		}
		if _, ok := cell.(time.Time); ok {
			return dataset.TimeDay
		}
		break
	}
	return dataset.TimeYear
}

func remoteChartType(c *grapher.Chart) string {
	switch c.Type {
	case grapher.Line:
		return LineChart
	case grapher.Bar:
		if c.Transforms.Stacked {
			return StackedDiscreteBar
		}
		return DiscreteBar
	case grapher.Scatter:
		return ScatterPlot
	default:
		return string(c.Type)
	}
}
