package grapher

// Builder clauses take functional options so that reconstructed chart code
// reads the same way hand-written chart code does.

// EncodeOption configures one axis encoding.
type EncodeOption func(*Encoding)

// X binds the horizontal axis to a column.
func X(col string) EncodeOption {
	return func(e *Encoding) { e.X = col }
}

// Y binds the vertical axis to a column.
func Y(col string) EncodeOption {
	return func(e *Encoding) { e.Y = col }
}

// C binds the color encoding to a column; each distinct value becomes its
// own series.
func C(col string) EncodeOption {
	return func(e *Encoding) { e.C = col }
}

// Facet binds the facet encoding to a column.
func Facet(col string) EncodeOption {
	return func(e *Encoding) { e.Facet = col }
}

// LabelOption sets one display text field.
type LabelOption func(*Labels)

// Title sets the chart title.
func Title(s string) LabelOption {
	return func(l *Labels) { l.Title = s }
}

// Subtitle sets the chart subtitle.
func Subtitle(s string) LabelOption {
	return func(l *Labels) { l.Subtitle = s }
}

// SourceDesc sets the data source description.
func SourceDesc(s string) LabelOption {
	return func(l *Labels) { l.SourceDesc = s }
}

// Note sets the chart footnote.
func Note(s string) LabelOption {
	return func(l *Labels) { l.Note = s }
}

// SelectOption narrows the selection. Options that parse user input may
// fail; the error sticks to the builder.
type SelectOption func(*Selection) error

// Entities selects which entities to display, by name.
func Entities(names ...string) SelectOption {
	return func(s *Selection) error {
		s.Entities = append([]string(nil), names...)
		return nil
	}
}

// Timespan limits the time axis to a closed range of years.
func Timespan(min, max int) SelectOption {
	return func(s *Selection) error {
		s.Timespan = YearSpan{Min: &min, Max: &max}
		return nil
	}
}

// TimespanFrom limits the time axis to years at or after min.
func TimespanFrom(min int) SelectOption {
	return func(s *Selection) error {
		s.Timespan = YearSpan{Min: &min}
		return nil
	}
}

// TimespanUntil limits the time axis to years at or before max.
func TimespanUntil(max int) SelectOption {
	return func(s *Selection) error {
		s.Timespan = YearSpan{Max: &max}
		return nil
	}
}

// DateTimespan limits the time axis to a closed range of ISO dates.
func DateTimespan(from, to string) SelectOption {
	return func(s *Selection) error {
		lhs, err := parseDate(from)
		if err != nil {
			return err
		}
		rhs, err := parseDate(to)
		if err != nil {
			return err
		}
		s.Timespan = DateSpan{Min: &lhs, Max: &rhs}
		return nil
	}
}

// DateTimespanFrom limits the time axis to dates at or after from.
func DateTimespanFrom(from string) SelectOption {
	return func(s *Selection) error {
		lhs, err := parseDate(from)
		if err != nil {
			return err
		}
		s.Timespan = DateSpan{Min: &lhs}
		return nil
	}
}

// DateTimespanUntil limits the time axis to dates at or before to.
func DateTimespanUntil(to string) SelectOption {
	return func(s *Selection) error {
		rhs, err := parseDate(to)
		if err != nil {
			return err
		}
		s.Timespan = DateSpan{Max: &rhs}
		return nil
	}
}

// InteractOption sets one interaction toggle.
type InteractOption func(*Interaction)

// AllowRelative shows or hides the absolute/relative toggle.
func AllowRelative(v bool) InteractOption {
	return func(i *Interaction) { i.AllowRelative = &v }
}

// ScaleControl shows or hides the linear/log scale selector.
func ScaleControl(v bool) InteractOption {
	return func(i *Interaction) { i.ScaleControl = &v }
}

// EntityControl shows or hides the entity picker.
func EntityControl(v bool) InteractOption {
	return func(i *Interaction) { i.EntityControl = &v }
}

// EnableMap adds a map tab to the chart.
func EnableMap(v bool) InteractOption {
	return func(i *Interaction) { i.EnableMap = &v }
}

// TransformOption sets one data transform.
type TransformOption func(*Transform)

// Stacked stacks the series on top of each other.
func Stacked(v bool) TransformOption {
	return func(t *Transform) { t.Stacked = v }
}

// Relative renders each series as a share of the total.
func Relative(v bool) TransformOption {
	return func(t *Transform) { t.Relative = v }
}
