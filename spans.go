package grapher

import (
	"fmt"
	"time"
)

// TimeSpan is a closed or half-open range over the chart's time axis:
// either a YearSpan or a DateSpan.
type TimeSpan interface {
	isTimeSpan()
}

// YearSpan bounds the time axis with calendar years. A nil endpoint leaves
// that side open.
type YearSpan struct {
	Min *int
	Max *int
}

func (YearSpan) isTimeSpan() {}

// DateSpan bounds the time axis with calendar dates. A nil endpoint leaves
// that side open.
type DateSpan struct {
	Min *time.Time
	Max *time.Time
}

func (DateSpan) isTimeSpan() {}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("couldn't understand the timespan date %q, expected an ISO date like 2021-05-03", s)
	}
	return d, nil
}
