package grapher

import (
	"strings"
	"testing"

	"grapher/frame"
)

func sampleData(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns(
		[]string{"year", "entity", "population"},
		map[string][]any{
			"year":       {2015, 2016, 2015, 2016},
			"entity":     {"France", "France", "Spain", "Spain"},
			"population": {66.5, 66.9, 46.4, 46.5},
		},
	)
	if err != nil {
		t.Fatalf("FromColumns() returned unexpected error: %v", err)
	}
	return f
}

func TestNewChart(t *testing.T) {
	c := NewChart(sampleData(t))

	if c.Type != Line {
		t.Errorf("Expected a line chart by default, got %s", c.Type)
	}
	if c.Tab != "chart" {
		t.Errorf("Expected the chart tab by default, got %s", c.Tab)
	}
	if c.Err() != nil {
		t.Errorf("Fresh chart should have no error, got %v", c.Err())
	}
}

func TestEncode(t *testing.T) {
	c := NewChart(sampleData(t)).Encode(X("year"), Y("population"))

	if c.Err() != nil {
		t.Fatalf("Encode() recorded unexpected error: %v", c.Err())
	}
	if c.Encoding.X != "year" || c.Encoding.Y != "population" {
		t.Errorf("Unexpected encoding: %+v", c.Encoding)
	}
}

func TestEncode_UnknownColumn(t *testing.T) {
	c := NewChart(sampleData(t)).Encode(X("year"), Y("gdp"))

	if c.Err() == nil {
		t.Fatal("Expected an error for an unknown column")
	}
	if !strings.Contains(c.Err().Error(), "no such column: gdp") {
		t.Errorf("Unexpected error: %v", c.Err())
	}
}

func TestEncode_RequiresXAndY(t *testing.T) {
	c := NewChart(sampleData(t)).Encode(X("year"))

	if c.Err() == nil {
		t.Fatal("Expected an error when y is missing")
	}
	if !strings.Contains(c.Err().Error(), "must provide x and y encodings") {
		t.Errorf("Unexpected error: %v", c.Err())
	}
}

func TestErrorsStick(t *testing.T) {
	c := NewChart(sampleData(t)).
		Encode(X("year"), Y("gdp")).
		Label(Title("GDP")).
		Select(Entities("France"))

	if c.Err() == nil {
		t.Fatal("Error should survive later builder calls")
	}
	if !strings.Contains(c.Err().Error(), "no such column: gdp") {
		t.Errorf("First error should win, got: %v", c.Err())
	}
}

func TestSelect(t *testing.T) {
	c := NewChart(sampleData(t)).
		Encode(X("year"), Y("population"), C("entity")).
		Select(Entities("France", "Spain"), Timespan(2015, 2016))

	if c.Err() != nil {
		t.Fatalf("Unexpected error: %v", c.Err())
	}
	if len(c.Selection.Entities) != 2 {
		t.Errorf("Unexpected entity selection: %v", c.Selection.Entities)
	}
	span, ok := c.Selection.Timespan.(YearSpan)
	if !ok || *span.Min != 2015 || *span.Max != 2016 {
		t.Errorf("Unexpected timespan: %+v", c.Selection.Timespan)
	}
}

func TestSelect_BadDate(t *testing.T) {
	c := NewChart(sampleData(t)).
		Encode(X("year"), Y("population")).
		Select(DateTimespan("2021-01-01", "not-a-date"))

	if c.Err() == nil {
		t.Fatal("Expected an error for a malformed date")
	}
	if !strings.Contains(c.Err().Error(), "not-a-date") {
		t.Errorf("Unexpected error: %v", c.Err())
	}
}

func TestLabelAndInteract(t *testing.T) {
	c := NewChart(sampleData(t)).
		Encode(X("year"), Y("population")).
		Label(Title("Population"), Subtitle("In millions")).
		Interact(EntityControl(true), ScaleControl(false))

	if c.Labels.Title != "Population" || c.Labels.Subtitle != "In millions" {
		t.Errorf("Unexpected labels: %+v", c.Labels)
	}
	if c.Interaction.EntityControl == nil || !*c.Interaction.EntityControl {
		t.Error("EntityControl not recorded")
	}
	if c.Interaction.ScaleControl == nil || *c.Interaction.ScaleControl {
		t.Error("Explicit false must survive as a set value")
	}
	if c.Interaction.AllowRelative != nil {
		t.Error("Unset toggles must stay nil")
	}
}

func TestMarks(t *testing.T) {
	c := NewChart(sampleData(t)).MarkBar()
	if c.Type != Bar {
		t.Errorf("MarkBar() type = %s", c.Type)
	}

	c = NewChart(sampleData(t)).MarkScatter()
	if c.Type != Scatter {
		t.Errorf("MarkScatter() type = %s", c.Type)
	}

	c = NewChart(sampleData(t)).MarkMap()
	if c.Tab != "map" {
		t.Errorf("MarkMap() tab = %s", c.Tab)
	}
	if c.Interaction.EnableMap == nil || !*c.Interaction.EnableMap {
		t.Error("MarkMap() should enable the map tab")
	}
}

func TestIsDefaults(t *testing.T) {
	if !(Encoding{}).IsEmpty() || !(Labels{}).IsDefaults() ||
		!(Interaction{}).IsDefaults() || !(Transform{}).IsDefaults() ||
		!(Selection{}).IsEmpty() {
		t.Error("Zero values must report as defaults")
	}

	if (Transform{Relative: true}).IsDefaults() {
		t.Error("A set transform is not a default")
	}
	if (Selection{Entities: []string{"France"}}).IsEmpty() {
		t.Error("A set selection is not empty")
	}
}
