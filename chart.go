package grapher

import (
	"fmt"

	"grapher/frame"
)

// ChartType is the declarative chart mark.
type ChartType string

const (
	Line    ChartType = "line"
	Bar     ChartType = "bar"
	Map     ChartType = "map"
	Scatter ChartType = "scatter"
)

// Encoding binds chart axis roles to column names of the input data.
type Encoding struct {
	X     string
	Y     string
	C     string
	Facet string
}

// IsEmpty reports whether no encoding has been set.
func (e Encoding) IsEmpty() bool {
	return e == Encoding{}
}

// Labels holds the chart's display text.
type Labels struct {
	Title      string
	Subtitle   string
	SourceDesc string
	Note       string
}

// IsDefaults reports whether no label has been set.
func (l Labels) IsDefaults() bool {
	return l == Labels{}
}

// Interaction holds tri-state interaction toggles; nil means "not specified",
// which compiles differently from an explicit false.
type Interaction struct {
	AllowRelative *bool
	ScaleControl  *bool
	EntityControl *bool
	EnableMap     *bool
}

// IsDefaults reports whether no toggle has been specified.
func (i Interaction) IsDefaults() bool {
	return i == Interaction{}
}

// Transform holds the data transforms applied before rendering.
type Transform struct {
	Stacked  bool
	Relative bool
}

// IsDefaults reports whether no transform has been requested.
func (t Transform) IsDefaults() bool {
	return t == Transform{}
}

// Selection narrows which already-loaded entities are displayed, and over
// which part of the time axis.
type Selection struct {
	Entities []string
	Timespan TimeSpan
}

// IsEmpty reports whether the selection narrows nothing.
func (s Selection) IsEmpty() bool {
	return s.Entities == nil && s.Timespan == nil
}

// Chart accumulates a declarative chart description through a fluent builder.
// A builder is confined to a single construction scope: build it, hand it to
// engine.Compile, and do not retain or share it afterwards.
//
// Validation errors stick to the builder: the first one is reported by Err
// and again by engine.Compile, so a typo in an Encode call fails at the call
// site rather than deep inside compilation.
type Chart struct {
	Data        *frame.Frame
	Type        ChartType
	Tab         string
	Encoding    Encoding
	Labels      Labels
	Selection   Selection
	Interaction Interaction
	Transforms  Transform

	err error
}

// NewChart starts a line chart over the given data.
func NewChart(data *frame.Frame) *Chart {
	return &Chart{Data: data, Type: Line, Tab: "chart"}
}

// Err returns the first validation error recorded by any builder call.
func (c *Chart) Err() error {
	return c.err
}

func (c *Chart) fail(err error) *Chart {
	if c.err == nil {
		c.err = err
	}
	return c
}

// Encode sets the axis encodings and validates them against the data
// immediately.
func (c *Chart) Encode(opts ...EncodeOption) *Chart {
	for _, opt := range opts {
		opt(&c.Encoding)
	}
	return c.validate()
}

func (c *Chart) validate() *Chart {
	// fail early if there's been a typo
	for _, col := range []string{c.Encoding.X, c.Encoding.Y, c.Encoding.C, c.Encoding.Facet} {
		if col != "" && !c.Data.HasColumn(col) {
			return c.fail(fmt.Errorf("no such column: %s", col))
		}
	}
	if c.Encoding.X == "" || c.Encoding.Y == "" {
		return c.fail(fmt.Errorf("must provide x and y encodings at minimum"))
	}
	return c
}

// Label sets the chart's display text.
func (c *Chart) Label(opts ...LabelOption) *Chart {
	for _, opt := range opts {
		opt(&c.Labels)
	}
	return c
}

// Select narrows the displayed entities and time range.
func (c *Chart) Select(opts ...SelectOption) *Chart {
	for _, opt := range opts {
		if err := opt(&c.Selection); err != nil {
			return c.fail(err)
		}
	}
	return c
}

// Interact sets the interaction toggles.
func (c *Chart) Interact(opts ...InteractOption) *Chart {
	for _, opt := range opts {
		opt(&c.Interaction)
	}
	return c
}

// Transform sets the data transforms.
func (c *Chart) Transform(opts ...TransformOption) *Chart {
	for _, opt := range opts {
		opt(&c.Transforms)
	}
	return c
}

// MarkLine makes this a line chart.
func (c *Chart) MarkLine() *Chart {
	c.Type = Line
	return c
}

// MarkBar makes this a discrete bar chart.
func (c *Chart) MarkBar() *Chart {
	c.Type = Bar
	return c
}

// MarkScatter makes this a scatter plot.
func (c *Chart) MarkScatter() *Chart {
	c.Type = Scatter
	return c
}

// MarkMap opens the chart on its map view. The line chart keeps serving the
// underlying data.
func (c *Chart) MarkMap() *Chart {
	c.Tab = "map"
	enabled := true
	c.Interaction.EnableMap = &enabled
	return c
}
