// Package clock provides the time sources that drive the word clock.
package clock

import (
	"sync"
	"time"

	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Source produces one reading per tick.
type Source interface {
	Next() wordclock.TimeReading
}

// Wall reads the local wall clock.
type Wall struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

// Next returns the current local time.
func (w Wall) Next() wordclock.TimeReading {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return wordclock.ReadingFromTime(now())
}

// Simulated runs through the day quickly: every call advances one hour,
// every full day advances one minute and one weekday, and every full hour
// of simulated minutes advances thirty seconds.
type Simulated struct {
	mu      sync.Mutex
	hour    int
	minute  int
	second  int
	weekday int
}

// NewSimulated starts a simulated clock at start.
func NewSimulated(start wordclock.TimeReading) *Simulated {
	return &Simulated{
		hour:    start.Hour,
		minute:  start.Minute,
		second:  start.Second,
		weekday: start.Weekday,
	}
}

// Next advances the clock and returns the new reading.
func (s *Simulated) Next() wordclock.TimeReading {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hour++
	if s.hour%24 == 0 {
		s.minute++
		s.weekday++
		if s.minute%60 == 0 {
			s.second += 30
		}
	}
	// Each wrap point above is a multiple of its modulus.
	s.hour %= 24
	s.minute %= 60
	s.second %= 60
	s.weekday %= 7

	return wordclock.TimeReading{
		Hour:    s.hour,
		Minute:  s.minute,
		Second:  s.second,
		Weekday: s.weekday,
	}
}

// Fixed always returns the same reading.
type Fixed wordclock.TimeReading

// Next returns the fixed reading.
func (f Fixed) Next() wordclock.TimeReading {
	return wordclock.TimeReading(f)
}
