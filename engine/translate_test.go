package engine

import (
	"errors"
	"testing"

	"grapher/dataset"
)

func yearDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Variables: map[string]*dataset.Variable{
			"1": {
				ID:       1,
				Name:     "life_expectancy",
				Years:    []int{1950, 1960, 1970},
				Entities: []int{1, 1, 1},
				Values:   []float64{66.5, 69.9, 71.7},
				Display:  map[string]any{},
			},
		},
		EntityKey: map[string]*dataset.Entity{
			"1": {ID: 1, Name: "France"},
		},
	}
}

func dayDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Variables: map[string]*dataset.Variable{
			"1": {
				ID:       1,
				Name:     "cases",
				Years:    []int{18282, 18283, 18284},
				Entities: []int{1, 1, 1},
				Values:   []float64{1, 3, 6},
				Display:  dataset.DateDisplay(dataset.DefaultEpoch),
			},
		},
		EntityKey: map[string]*dataset.Entity{
			"1": {ID: 1, Name: "World"},
		},
	}
}

func TestTranslate_Minimal(t *testing.T) {
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
	}

	tr, err := Translate(cfg, yearDataset())
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	expected := "grapher.NewChart(data)." +
		"\n    Encode(" +
		"\n        grapher.X(\"year\")," +
		"\n        grapher.Y(\"value\")," +
		"\n    )"
	if got := tr.Render(); got != expected {
		t.Errorf("Render() = %q, want %q", got, expected)
	}
	if len(tr.PreSelection) != 0 {
		t.Errorf("PreSelection = %v, want none", tr.PreSelection)
	}
}

func TestTranslate_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		cfg  *RemoteConfig
	}{
		{"scatter plot", &RemoteConfig{Type: ScatterPlot, Tab: "chart"}},
		{"map tab", &RemoteConfig{Type: LineChart, Tab: "map"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translate(tt.cfg, yearDataset())
			var unsupported *UnsupportedChartTypeError
			if !errors.As(err, &unsupported) {
				t.Fatalf("Expected UnsupportedChartTypeError, got %v", err)
			}
		})
	}
}

func TestTranslate_DefaultsToLineChart(t *testing.T) {
	// older configs omit type and tab entirely
	cfg := &RemoteConfig{HideEntityControls: true}
	if _, err := Translate(cfg, yearDataset()); err != nil {
		t.Errorf("Translate() returned unexpected error: %v", err)
	}
}

func TestTranslate_DayBased(t *testing.T) {
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
	}

	tr, err := Translate(cfg, dayDataset())
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	enc := tr.Script.Clauses[0]
	if enc.Args[0] != `grapher.X("date")` {
		t.Errorf("Day-based data must encode x as date, got %s", enc.Args[0])
	}
}

func TestTranslate_EntityColor(t *testing.T) {
	ds := yearDataset()
	ds.EntityKey["2"] = &dataset.Entity{ID: 2, Name: "Spain"}
	cfg := &RemoteConfig{
		Type:                LineChart,
		Tab:                 "chart",
		HideEntityControls:  true,
		SelectedEntityNames: []string{"France", "Spain"},
	}

	tr, err := Translate(cfg, ds)
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	enc := tr.Script.Clauses[0]
	if len(enc.Args) != 3 || enc.Args[2] != `grapher.C("entity")` {
		t.Errorf("Unexpected encode args: %v", enc.Args)
	}
	sel := tr.Script.Clauses[1]
	if sel.Args[0] != `grapher.Entities("France", "Spain")` {
		t.Errorf("Unexpected select args: %v", sel.Args)
	}
}

func TestTranslate_PreSelection(t *testing.T) {
	ds := yearDataset()
	ds.Variables["2"] = &dataset.Variable{
		ID: 2, Name: "population",
		Years: []int{1950}, Entities: []int{1}, Values: []float64{41.8},
		Display: map[string]any{},
	}
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
		Dimensions: []Dimension{
			{Property: "y", VariableID: 1},
			{Property: "y", VariableID: 2},
		},
		SelectedEntityNames: []string{"France"},
	}

	tr, err := Translate(cfg, ds)
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	// with several variables the entity filter narrows the input table
	if len(tr.PreSelection) != 1 || tr.PreSelection[0] != "France" {
		t.Errorf("PreSelection = %v, want [France]", tr.PreSelection)
	}
	if tr.Script.DataExpr != `data.KeepEntities("France")` {
		t.Errorf("DataExpr = %s", tr.Script.DataExpr)
	}
	enc := tr.Script.Clauses[0]
	if enc.Args[2] != `grapher.C("variable")` {
		t.Errorf("Unexpected encode args: %v", enc.Args)
	}
	sel := tr.Script.Clauses[1]
	if len(sel.Args) != 0 {
		t.Errorf("Pre-selected entities must not also appear in Select: %v", sel.Args)
	}
}

func TestTranslate_SelectedDataByID(t *testing.T) {
	ds := yearDataset()
	ds.EntityKey["2"] = &dataset.Entity{ID: 2, Name: "Spain"}
	ds.EntityKey["3"] = &dataset.Entity{ID: 3, Name: "Italy"}
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
		SelectedData: []SelectedEntity{
			{EntityID: 2},
			{EntityID: 2},  // duplicates collapse
			{EntityID: 99}, // dangling ids are skipped
			{EntityID: 1},
		},
	}

	tr, err := Translate(cfg, ds)
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	sel := tr.Script.Clauses[1]
	if len(sel.Args) != 1 || sel.Args[0] != `grapher.Entities("Spain", "France")` {
		t.Errorf("Unexpected select args: %v", sel.Args)
	}
}

func TestTranslate_FullSelectionSuppressed(t *testing.T) {
	// selecting every entity by id says nothing, so no Select clause
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
		SelectedData:       []SelectedEntity{{EntityID: 1}},
	}

	tr, err := Translate(cfg, yearDataset())
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}
	if args := tr.Script.Clauses[1].Args; len(args) != 0 {
		t.Errorf("Select clause should be empty, got %v", args)
	}
}

func TestTranslate_Timespan(t *testing.T) {
	intp := func(v int) *int { return &v }
	tests := []struct {
		name     string
		min, max *int
		expected []string
	}{
		{"no bounds", nil, nil, nil},
		{"both natural", intp(1950), intp(1970), nil},
		{"min natural", intp(1950), intp(1965), []string{"grapher.TimespanUntil(1965)"}},
		{"max natural", intp(1955), intp(1970), []string{"grapher.TimespanFrom(1955)"}},
		{"both bounds", intp(1955), intp(1965), []string{"grapher.Timespan(1955, 1965)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &RemoteConfig{
				Type:               LineChart,
				Tab:                "chart",
				HideEntityControls: true,
				MinTime:            tt.min,
				MaxTime:            tt.max,
			}
			tr, err := Translate(cfg, yearDataset())
			if err != nil {
				t.Fatalf("Translate() returned unexpected error: %v", err)
			}
			args := tr.Script.Clauses[1].Args
			if len(args) != len(tt.expected) {
				t.Fatalf("Select args = %v, want %v", args, tt.expected)
			}
			for i, want := range tt.expected {
				if args[i] != want {
					t.Errorf("Select arg %d = %s, want %s", i, args[i], want)
				}
			}
		})
	}
}

func TestTranslate_DateTimespan(t *testing.T) {
	intp := func(v int) *int { return &v }
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
		MinTime:            intp(18283),
		MaxTime:            intp(18284), // natural max, suppressed
	}

	tr, err := Translate(cfg, dayDataset())
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	args := tr.Script.Clauses[1].Args
	if len(args) != 1 || args[0] != `grapher.DateTimespanFrom("2020-01-22")` {
		t.Errorf("Unexpected select args: %v", args)
	}
}

func TestTranslate_Labels(t *testing.T) {
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
		Title:              "Deaths from\n  conflict ",
		Note:               "Provisional figures",
	}

	tr, err := Translate(cfg, yearDataset())
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	args := tr.Script.Clauses[3].Args
	if len(args) != 2 {
		t.Fatalf("Label args = %v", args)
	}
	if args[0] != `grapher.Title("Deaths from conflict")` {
		t.Errorf("Embedded whitespace must collapse, got %s", args[0])
	}
	if args[1] != `grapher.Note("Provisional figures")` {
		t.Errorf("Unexpected note arg: %s", args[1])
	}
}

func TestTranslate_Transform(t *testing.T) {
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
		StackMode:          "relative",
	}

	tr, err := Translate(cfg, yearDataset())
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}
	args := tr.Script.Clauses[2].Args
	if len(args) != 1 || args[0] != "grapher.Relative(true)" {
		t.Errorf("Unexpected transform args: %v", args)
	}
}

func TestTranslate_Interaction(t *testing.T) {
	boolp := func(v bool) *bool { return &v }
	cfg := &RemoteConfig{
		Type:                 LineChart,
		Tab:                  "chart",
		HideRelativeControls: boolp(false),
		YAxis:                RemoteYAxis{CanChangeScaleType: boolp(true)},
		HasMapTab:            true,
	}

	tr, err := Translate(cfg, yearDataset())
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}

	expected := []string{
		"grapher.AllowRelative(true)",
		"grapher.ScaleControl(true)",
		"grapher.EntityControl(true)",
		"grapher.EnableMap(true)",
	}
	args := tr.Script.Clauses[4].Args
	if len(args) != len(expected) {
		t.Fatalf("Interact args = %v, want %v", args, expected)
	}
	for i, want := range expected {
		if args[i] != want {
			t.Errorf("Interact arg %d = %s, want %s", i, args[i], want)
		}
	}
}

func TestTranslate_CustomEpoch(t *testing.T) {
	intp := func(v int) *int { return &v }
	epoch := dataset.DayDate(18282, dataset.DefaultEpoch)
	ds := &dataset.Dataset{
		Variables: map[string]*dataset.Variable{
			"1": {
				ID: 1, Name: "cases",
				Years: []int{0, 1, 2}, Entities: []int{1, 1, 1},
				Values:  []float64{1, 3, 6},
				Display: dataset.DateDisplay(epoch),
			},
		},
		EntityKey: map[string]*dataset.Entity{
			"1": {ID: 1, Name: "World"},
		},
	}
	cfg := &RemoteConfig{
		Type:               LineChart,
		Tab:                "chart",
		HideEntityControls: true,
		MinTime:            intp(1),
	}

	tr, err := Translate(cfg, ds, WithEpoch(epoch))
	if err != nil {
		t.Fatalf("Translate() returned unexpected error: %v", err)
	}
	args := tr.Script.Clauses[1].Args
	if len(args) != 1 || args[0] != `grapher.DateTimespanFrom("2020-01-22")` {
		t.Errorf("Unexpected select args: %v", args)
	}
}
