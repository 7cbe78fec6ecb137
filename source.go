package grapher

import (
	"fmt"
	"strings"
)

// Script is the structured form of a chart-building expression: the data
// argument of the constructor (possibly carrying a pre-selection filter)
// followed by an ordered list of builder clauses. Separating the structure
// from the text keeps clause ordering and formatting testable independently
// of the inference logic that produces scripts.
type Script struct {
	DataExpr string
	Clauses  []Clause
}

// Clause is one builder call with its rendered arguments. A clause with no
// arguments is omitted from the rendered text entirely.
type Clause struct {
	Name string
	Args []string
}

// Render produces the deterministic source text for the script: one clause
// per line indented by four spaces, one argument per line indented by
// eight, and each closing parenthesis on its own line.
func (s Script) Render() string {
	data := s.DataExpr
	if data == "" {
		data = "data"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "grapher.NewChart(%s)", data)
	for _, clause := range s.Clauses {
		if len(clause.Args) == 0 {
			continue
		}
		fmt.Fprintf(&b, ".\n    %s(\n", clause.Name)
		for _, arg := range clause.Args {
			fmt.Fprintf(&b, "        %s,\n", arg)
		}
		b.WriteString("    )")
	}
	return b.String()
}

// PreSelectionExpr renders the data argument for a script whose input table
// is narrowed to the given entities before building the chart.
func PreSelectionExpr(entities []string) string {
	if len(entities) == 0 {
		return "data"
	}
	return fmt.Sprintf("data.KeepEntities(%s)", quoteList(entities))
}

// Script converts the accumulated chart description into its structured
// source form, so that a forward-built chart can also be rendered back to
// the code that produces it. Clause order is fixed: Encode, Select,
// Transform, Label, Interact.
func (c *Chart) Script() Script {
	return Script{
		DataExpr: "data",
		Clauses: []Clause{
			c.Encoding.Clause(),
			c.Selection.Clause(),
			c.Transforms.Clause(),
			c.Labels.Clause(),
			c.Interaction.Clause(),
		},
	}
}

// Clause renders the Encode builder call for this encoding.
func (e Encoding) Clause() Clause {
	cl := Clause{Name: "Encode"}
	for _, part := range []struct{ opt, col string }{
		{"X", e.X}, {"Y", e.Y}, {"C", e.C}, {"Facet", e.Facet},
	} {
		if part.col != "" {
			cl.Args = append(cl.Args, fmt.Sprintf("grapher.%s(%q)", part.opt, part.col))
		}
	}
	return cl
}

// Clause renders the Select builder call for this selection.
func (s Selection) Clause() Clause {
	cl := Clause{Name: "Select"}
	if len(s.Entities) > 0 {
		cl.Args = append(cl.Args, fmt.Sprintf("grapher.Entities(%s)", quoteList(s.Entities)))
	}
	if s.Timespan != nil {
		if arg := timespanArg(s.Timespan); arg != "" {
			cl.Args = append(cl.Args, arg)
		}
	}
	return cl
}

func timespanArg(span TimeSpan) string {
	switch ts := span.(type) {
	case YearSpan:
		switch {
		case ts.Min != nil && ts.Max != nil:
			return fmt.Sprintf("grapher.Timespan(%d, %d)", *ts.Min, *ts.Max)
		case ts.Min != nil:
			return fmt.Sprintf("grapher.TimespanFrom(%d)", *ts.Min)
		case ts.Max != nil:
			return fmt.Sprintf("grapher.TimespanUntil(%d)", *ts.Max)
		}
	case DateSpan:
		switch {
		case ts.Min != nil && ts.Max != nil:
			return fmt.Sprintf("grapher.DateTimespan(%q, %q)",
				ts.Min.Format("2006-01-02"), ts.Max.Format("2006-01-02"))
		case ts.Min != nil:
			return fmt.Sprintf("grapher.DateTimespanFrom(%q)", ts.Min.Format("2006-01-02"))
		case ts.Max != nil:
			return fmt.Sprintf("grapher.DateTimespanUntil(%q)", ts.Max.Format("2006-01-02"))
		}
	}
	return ""
}

// Clause renders the Transform builder call for this transform.
func (t Transform) Clause() Clause {
	cl := Clause{Name: "Transform"}
	if t.Stacked {
		cl.Args = append(cl.Args, "grapher.Stacked(true)")
	}
	if t.Relative {
		cl.Args = append(cl.Args, "grapher.Relative(true)")
	}
	return cl
}

// Clause renders the Label builder call for these labels.
func (l Labels) Clause() Clause {
	cl := Clause{Name: "Label"}
	for _, part := range []struct{ opt, value string }{
		{"Title", l.Title}, {"Subtitle", l.Subtitle}, {"SourceDesc", l.SourceDesc}, {"Note", l.Note},
	} {
		if part.value != "" {
			cl.Args = append(cl.Args, fmt.Sprintf("grapher.%s(%q)", part.opt, part.value))
		}
	}
	return cl
}

// Clause renders the Interact builder call for these toggles, in the fixed
// option order AllowRelative, ScaleControl, EntityControl, EnableMap.
func (i Interaction) Clause() Clause {
	cl := Clause{Name: "Interact"}
	for _, part := range []struct {
		opt   string
		value *bool
	}{
		{"AllowRelative", i.AllowRelative},
		{"ScaleControl", i.ScaleControl},
		{"EntityControl", i.EntityControl},
		{"EnableMap", i.EnableMap},
	} {
		if part.value != nil {
			cl.Args = append(cl.Args, fmt.Sprintf("grapher.%s(%t)", part.opt, *part.value))
		}
	}
	return cl
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}
