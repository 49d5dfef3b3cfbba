package tracker

import "time"

// Clock abstracts timer scheduling so tests can advance virtual time
// deterministically instead of waiting on wall-clock intervals.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall-clock implementation used outside tests.
var SystemClock Clock = systemClock{}
