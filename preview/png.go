package preview

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"grapher/dataset"
	"grapher/frame"
)

// LinePNG renders the dataset as a static PNG line chart. Day-based
// datasets get a time axis, year-based ones a numeric axis.
func LinePNG(ds *dataset.Dataset, title string, w io.Writer) error {
	f, err := ds.Frame(dataset.DefaultEpoch)
	if err != nil {
		return fmt.Errorf("failed to decode dataset: %w", err)
	}
	timeCol, ok := f.TimeColumn()
	if !ok {
		return fmt.Errorf("dataset has no time column")
	}

	day := ds.IsDayBased()
	multiVariable := len(ds.Variables) > 1

	type pngSeries struct {
		times  []time.Time
		years  []float64
		values []float64
	}
	byName := make(map[string]*pngSeries)
	var order []string

	for i := 0; i < f.Len(); i++ {
		entity, _ := frame.AsString(f.Cell("entity", i))
		variable, _ := frame.AsString(f.Cell("variable", i))
		name := entity
		if multiVariable {
			name = fmt.Sprintf("%s (%s)", entity, variable)
		}

		s, ok := byName[name]
		if !ok {
			s = &pngSeries{}
			byName[name] = s
			order = append(order, name)
		}

		v, ok := frame.AsFloat(f.Cell("value", i))
		if !ok {
			continue
		}
		if day {
			t, ok := f.Cell(timeCol, i).(time.Time)
			if !ok {
				continue
			}
			s.times = append(s.times, t)
		} else {
			y, ok := frame.AsFloat(f.Cell(timeCol, i))
			if !ok {
				continue
			}
			s.years = append(s.years, y)
		}
		s.values = append(s.values, v)
	}

	var series []chart.Series
	for _, name := range order {
		s := byName[name]
		if day {
			series = append(series, chart.TimeSeries{
				Name:    name,
				XValues: s.times,
				YValues: s.values,
			})
		} else {
			series = append(series, chart.ContinuousSeries{
				Name:    name,
				XValues: s.years,
				YValues: s.values,
			})
		}
	}
	if len(series) == 0 {
		return fmt.Errorf("dataset has no plottable values")
	}

	graph := chart.Chart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize: 14,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   60,
				Right:  20,
				Bottom: 40,
			},
		},
		Width:  850,
		Height: 600,
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render PNG chart: %w", err)
	}
	return nil
}
