package engine

import (
	"strings"

	"grapher"
	"grapher/dataset"
)

// Translation is the reverse compiler's result: the structured builder
// script and, when the config narrows which entities to load at all, the
// pre-selection applied to the input data before the chart is built.
type Translation struct {
	Script       grapher.Script
	PreSelection []string
}

// Render returns the reconstructed chart-building source text.
func (t *Translation) Render() string {
	return t.Script.Render()
}

// Translate infers the declarative chart description that would produce the
// given remote config over the given dataset. Only line charts on the chart
// tab are supported; everything else yields an UnsupportedChartTypeError,
// which batch callers catch and skip.
func Translate(cfg *RemoteConfig, ds *dataset.Dataset, opts ...Option) (*Translation, error) {
	st := newSettings(opts)

	if cfg.ChartType() != LineChart || cfg.ChartTab() != "chart" {
		return nil, &UnsupportedChartTypeError{ChartType: cfg.ChartType(), Tab: cfg.ChartTab()}
	}

	day := ds.IsDayBased()
	preSelection, selection := inferEntitySelection(cfg, ds)

	sel := grapher.Selection{
		Entities: selection,
		Timespan: inferTimespan(cfg, ds, day, st),
	}

	script := grapher.Script{
		DataExpr: grapher.PreSelectionExpr(preSelection),
		Clauses: []grapher.Clause{
			inferEncoding(cfg, day).Clause(),
			sel.Clause(),
			inferTransform(cfg).Clause(),
			inferLabels(cfg).Clause(),
			inferInteraction(cfg).Clause(),
		},
	}
	return &Translation{Script: script, PreSelection: preSelection}, nil
}

// inferEncoding reconstructs the axis encodings. The value column is always
// renamed to "value" on the wire, so only the axis roles survive, not the
// user's original column names.
func inferEncoding(cfg *RemoteConfig, day bool) grapher.Encoding {
	x := "year"
	if day {
		x = "date"
	}

	c := ""
	switch {
	case len(cfg.Dimensions) > 1:
		c = "variable"
	case len(cfg.SelectedData) > 1 || len(cfg.SelectedEntityNames) > 1:
		c = "entity"
	}

	return grapher.Encoding{X: x, Y: "value", C: c}
}

// inferEntitySelection decides between a pre-selection and a selection.
//
// A config may select one variable and some of many entities, or one entity
// and some of many variables. With multiple variables (dimensions), the
// entity names narrow which data to load at all, so they become a
// pre-selection on the input table; with a single variable they narrow
// which loaded entities to display, an ordinary selection.
func inferEntitySelection(cfg *RemoteConfig, ds *dataset.Dataset) (pre, post []string) {
	var entities []string

	switch {
	case len(cfg.SelectedEntityNames) > 0:
		entities = cfg.SelectedEntityNames

	case len(cfg.SelectedData) > 0 && len(cfg.SelectedData) != len(ds.EntityKey):
		seen := make(map[string]bool)
		for _, sel := range cfg.SelectedData {
			name, ok := ds.EntityName(sel.EntityID)
			if !ok {
				// some configs refer to entities that no longer exist
				continue
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			entities = append(entities, name)
		}
	}

	if len(cfg.Dimensions) > 1 {
		return entities, nil
	}
	return nil, entities
}

// inferTimespan reads the config's bounds and suppresses any that simply
// restate the dataset's own natural time range.
func inferTimespan(cfg *RemoteConfig, ds *dataset.Dataset, day bool, st settings) grapher.TimeSpan {
	naturalMin, naturalMax, ok := timeRange(ds)

	minTime, maxTime := cfg.MinTime, cfg.MaxTime
	if ok {
		if minTime != nil && *minTime == naturalMin {
			minTime = nil
		}
		if maxTime != nil && *maxTime == naturalMax {
			maxTime = nil
		}
	}
	if minTime == nil && maxTime == nil {
		return nil
	}

	if day {
		span := grapher.DateSpan{}
		if minTime != nil {
			d := dataset.DayDate(*minTime, st.epoch)
			span.Min = &d
		}
		if maxTime != nil {
			d := dataset.DayDate(*maxTime, st.epoch)
			span.Max = &d
		}
		return span
	}
	return grapher.YearSpan{Min: minTime, Max: maxTime}
}

// timeRange is the natural [min, max] over every variable's time axis, in
// the dataset's own integer encoding (years or day offsets).
func timeRange(ds *dataset.Dataset) (min, max int, ok bool) {
	for _, v := range ds.Variables {
		for _, y := range v.Years {
			if !ok {
				min, max, ok = y, y, true
				continue
			}
			if y < min {
				min = y
			}
			if y > max {
				max = y
			}
		}
	}
	return min, max, ok
}

func inferTransform(cfg *RemoteConfig) grapher.Transform {
	return grapher.Transform{Relative: cfg.StackMode == "relative"}
}

func inferLabels(cfg *RemoteConfig) grapher.Labels {
	normalize := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}
	return grapher.Labels{
		Title:      normalize(cfg.Title),
		Subtitle:   normalize(cfg.Subtitle),
		SourceDesc: normalize(cfg.SourceDesc),
		Note:       normalize(cfg.Note),
	}
}

func inferInteraction(cfg *RemoteConfig) grapher.Interaction {
	var i grapher.Interaction
	if cfg.HideRelativeControls != nil {
		allow := !*cfg.HideRelativeControls
		i.AllowRelative = &allow
	}
	if cfg.YAxis.CanChangeScaleType != nil {
		i.ScaleControl = cfg.YAxis.CanChangeScaleType
	}
	if !cfg.HideEntityControls {
		enabled := true
		i.EntityControl = &enabled
	}
	if cfg.HasMapTab {
		enabled := true
		i.EnableMap = &enabled
	}
	return i
}
