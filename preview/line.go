package preview

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"grapher/dataset"
	"grapher/frame"
)

// lineSeries is one plotted line: a name and the value at each time key.
type lineSeries struct {
	name   string
	points map[string]float64
}

// datasetLines flattens a dataset into x-axis labels and named series.
// With a single variable the series are the entities; with several, each
// entity/variable pair gets its own line.
func datasetLines(ds *dataset.Dataset) (labels []string, lines []lineSeries, err error) {
	f, err := ds.Frame(dataset.DefaultEpoch)
	if err != nil {
		return nil, nil, err
	}
	timeCol, ok := f.TimeColumn()
	if !ok {
		return nil, nil, fmt.Errorf("dataset has no time column")
	}

	multiVariable := len(ds.Variables) > 1

	seen := make(map[string]bool)
	byName := make(map[string]*lineSeries)
	var order []string

	for i := 0; i < f.Len(); i++ {
		label := timeLabel(f.Cell(timeCol, i))
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}

		entity, _ := frame.AsString(f.Cell("entity", i))
		variable, _ := frame.AsString(f.Cell("variable", i))
		name := entity
		if multiVariable {
			name = fmt.Sprintf("%s (%s)", entity, variable)
		}

		s, ok := byName[name]
		if !ok {
			s = &lineSeries{name: name, points: make(map[string]float64)}
			byName[name] = s
			order = append(order, name)
		}
		if v, ok := frame.AsFloat(f.Cell("value", i)); ok {
			s.points[label] = v
		}
	}

	// Year labels must sort numerically, ISO dates sort fine as strings
	sort.Slice(labels, func(i, j int) bool {
		a, errA := strconv.Atoi(labels[i])
		b, errB := strconv.Atoi(labels[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return labels[i] < labels[j]
	})
	for _, name := range order {
		lines = append(lines, *byName[name])
	}
	return labels, lines, nil
}

func timeLabel(cell any) string {
	switch v := cell.(type) {
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// LineHTML renders the dataset as a self-contained go-echarts line chart
// page, for quick local inspection without the remote renderer.
func LineHTML(ds *dataset.Dataset, title string, w io.Writer) error {
	labels, lines, err := datasetLines(ds)
	if err != nil {
		return fmt.Errorf("failed to prepare chart series: %w", err)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "850px",
			Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	line.SetXAxis(labels)
	for _, s := range lines {
		data := make([]opts.LineData, len(labels))
		for i, label := range labels {
			if v, ok := s.points[label]; ok {
				data[i] = opts.LineData{Value: v}
			} else {
				data[i] = opts.LineData{Value: nil}
			}
		}
		line.AddSeries(s.name, data)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
