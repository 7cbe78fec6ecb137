package engine

import "fmt"

// UnsupportedChartTypeError is returned by Translate for chart types or
// tabs the reverse compiler does not know how to express. Batch callers
// are expected to match it with errors.As and skip the offending config;
// it is not a fatal fault.
type UnsupportedChartTypeError struct {
	ChartType string
	Tab       string
}

func (e *UnsupportedChartTypeError) Error() string {
	if e.Tab != "" && e.Tab != "chart" {
		return fmt.Sprintf("unsupported chart type %s on tab %s", e.ChartType, e.Tab)
	}
	return fmt.Sprintf("unsupported chart type %s", e.ChartType)
}
