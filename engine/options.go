package engine

import (
	"time"

	"grapher/dataset"
)

// Option configures a compile or translate call. The epoch is threaded
// through explicitly so that every derived day offset in one payload uses
// the same constant; it is never read from mutable package state.
type Option func(*settings)

type settings struct {
	epoch time.Time
}

func newSettings(opts []Option) settings {
	st := settings{epoch: dataset.DefaultEpoch}
	for _, opt := range opts {
		opt(&st)
	}
	return st
}

// WithEpoch sets the zero day for date-to-ordinal conversion.
func WithEpoch(epoch time.Time) Option {
	return func(st *settings) { st.epoch = epoch }
}
