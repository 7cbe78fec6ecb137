package engine

import (
	"fmt"

	json "github.com/goccy/go-json"

	"grapher/dataset"
)

// Remote chart type names. These are the wire values of the remote
// renderer, distinct from the declarative marks in the grapher package.
const (
	LineChart          = "LineChart"
	DiscreteBar        = "DiscreteBar"
	StackedDiscreteBar = "StackedDiscreteBar"
	ScatterPlot        = "ScatterPlot"
)

// Dimension binds a chart axis role to a variable id.
type Dimension struct {
	Property   string         `json:"property"`
	VariableID int            `json:"variableId"`
	Display    map[string]any `json:"display"`
}

// SelectedEntity is one entry of the config's selectedData list.
type SelectedEntity struct {
	EntityID int `json:"entityId"`
}

// ChartConfig is the flat display configuration mirroring the remote
// renderer's JSON schema. It references its dataset remotely; the
// standalone variant embeds it.
type ChartConfig struct {
	ID                  int            `json:"id"`
	Tab                 string         `json:"tab"`
	Title               string         `json:"title"`
	Subtitle            string         `json:"subtitle"`
	Note                string         `json:"note"`
	SourceDesc          string         `json:"sourceDesc"`
	HideLogo            bool           `json:"hideLogo"`
	IsPublished         bool           `json:"isPublished"`
	Type                string         `json:"type"`
	HideTitleAnnotation bool           `json:"hideTitleAnnotation"`
	HideLegend          bool           `json:"hideLegend"`
	HideEntityControls  bool           `json:"hideEntityControls"`
	HideRelativeToggle  bool           `json:"hideRelativeToggle"`
	StackMode           string         `json:"stackMode"`
	YAxis               map[string]any `json:"yAxis"`
	HasMapTab           bool           `json:"hasMapTab"`
	Version             int            `json:"version"`
}

// NewChartConfig returns a config with the renderer's defaults.
func NewChartConfig() *ChartConfig {
	return &ChartConfig{
		ID:                  1,
		Tab:                 "chart",
		HideLogo:            true,
		IsPublished:         true,
		Type:                LineChart,
		HideTitleAnnotation: true,
		HideEntityControls:  true,
		HideRelativeToggle:  true,
		StackMode:           "absolute",
		Version:             1,
	}
}

// autoImprove clears cosmetic defaults that look wrong once the rest of the
// config is known. Applied unconditionally as the last assembly step.
func (c *ChartConfig) autoImprove() {
	if c.Title != "" && c.Type == LineChart {
		c.HideTitleAnnotation = false
	}
}

// Standalone reports whether the config embeds its own dataset.
func (c *ChartConfig) Standalone() bool {
	return false
}

// DataConfig is the data half of a standalone config: the embedded dataset
// and the view of it that has been selected.
type DataConfig struct {
	OwidDataset         *dataset.Dataset `json:"owidDataset"`
	Dimensions          []Dimension      `json:"dimensions"`
	SelectedData        []SelectedEntity `json:"selectedData"`
	SelectedEntityNames []string         `json:"selectedEntityNames"`
	MinTime             *int             `json:"minTime"`
	MaxTime             *int             `json:"maxTime"`
}

// StandaloneConfig is a chart config that carries all of its own data.
type StandaloneConfig struct {
	ChartConfig
	DataConfig
}

// Standalone reports whether the config embeds its own dataset.
func (c *StandaloneConfig) Standalone() bool {
	return true
}

// MarshalJSON flattens the config and data halves into one object, the
// shape the remote renderer consumes.
func (c *StandaloneConfig) MarshalJSON() ([]byte, error) {
	chart, err := json.Marshal(c.ChartConfig)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(c.DataConfig)
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	if err := json.Unmarshal(chart, &merged); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

// Wire returns the final payload for the remote renderer as a nested map
// with camel-case keys and every null-valued field pruned recursively.
func (c *StandaloneConfig) Wire() (map[string]any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to reshape config: %w", err)
	}
	return Prune(m), nil
}

// WireJSON is Wire rendered to JSON bytes.
func (c *StandaloneConfig) WireJSON() ([]byte, error) {
	m, err := c.Wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// RemoteConfig is a tolerant parse of a config fetched from the remote
// site. Older configs select entities by id through selectedData, newer
// ones by name through selectedEntityNames; both are surfaced. Unknown
// fields are ignored.
type RemoteConfig struct {
	Slug                 string           `json:"slug"`
	OwidDataset          *dataset.Dataset `json:"owidDataset"`
	Type                 string           `json:"type"`
	Tab                  string           `json:"tab"`
	Version              int              `json:"version"`
	IsPublished          bool             `json:"isPublished"`
	Title                string           `json:"title"`
	Subtitle             string           `json:"subtitle"`
	SourceDesc           string           `json:"sourceDesc"`
	Note                 string           `json:"note"`
	StackMode            string           `json:"stackMode"`
	Dimensions           []Dimension      `json:"dimensions"`
	SelectedData         []SelectedEntity `json:"selectedData"`
	SelectedEntityNames  []string         `json:"selectedEntityNames"`
	MinTime              *int             `json:"minTime"`
	MaxTime              *int             `json:"maxTime"`
	HideEntityControls   bool             `json:"hideEntityControls"`
	HideRelativeControls *bool            `json:"hideRelativeControls"`
	HasMapTab            bool             `json:"hasMapTab"`
	YAxis                RemoteYAxis      `json:"yAxis"`
}

// RemoteYAxis is the y-axis sub-object of a remote config.
type RemoteYAxis struct {
	ScaleType          string `json:"scaleType"`
	CanChangeScaleType *bool  `json:"canChangeScaleType"`
}

// ChartType returns the config's chart type, defaulting to LineChart as
// the remote site does for configs that omit it.
func (c *RemoteConfig) ChartType() string {
	if c.Type == "" {
		return LineChart
	}
	return c.Type
}

// ChartTab returns the config's active tab, defaulting to "chart".
func (c *RemoteConfig) ChartTab() string {
	if c.Tab == "" {
		return "chart"
	}
	return c.Tab
}

// VariableIDs lists the variable ids referenced by the config's dimensions.
func (c *RemoteConfig) VariableIDs() []int {
	ids := make([]int, 0, len(c.Dimensions))
	for _, d := range c.Dimensions {
		ids = append(ids, d.VariableID)
	}
	return ids
}

// ParseRemoteConfig decodes a raw remote config JSON document.
func ParseRemoteConfig(raw []byte) (*RemoteConfig, error) {
	var cfg RemoteConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse remote chart config: %w", err)
	}
	return &cfg, nil
}
