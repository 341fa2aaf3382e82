// Package wordclock turns a clock reading into the set of lit cells on a
// word-clock face and the colors to show them in.
//
// Everything in this package is pure computation: a Resolver holds only
// tables derived from an immutable layout, and BuildFrame returns a fresh
// Frame on every call.
package wordclock

import (
	"math"

	"github.com/fkcurrie/wordclock-golang/pkg/layout"
)

const (
	// minuteSlots covers buckets 0 through 12; 0 and 12 are on the hour.
	minuteSlots = 13
	// hourSlots covers indices 0 through 12; 0 and 12 both name twelve.
	hourSlots = 13
	// soonThreshold is the fraction of a five-minute bucket after which
	// the clock rounds up to the next bucket and shows "soon".
	soonThreshold = 0.7
	// nextHourFrom is the first minute whose phrase names the next hour.
	nextHourFrom = 35
)

// minutePhrases lists the minute words lit for each bucket.
var minutePhrases = [minuteSlots][]string{
	{},
	{"five", "past"},
	{"ten", "past"},
	{"quarter", "past"},
	{"twenty", "past"},
	{"five", "to", "half"},
	{"half"},
	{"five", "past", "half"},
	{"twenty", "to"},
	{"quarter", "to"},
	{"ten", "to"},
	{"five", "to"},
	{},
}

// MinuteBucket returns the five-minute bucket for minute and whether the
// reading was rounded up into it.
func MinuteBucket(minute int) (index int, soon bool) {
	raw := float64(minute) / 5.0
	index = int(math.Floor(raw))
	if raw-math.Floor(raw) > soonThreshold {
		index++
		soon = true
	}
	return index, soon
}

// HourIndex returns the slot of the hour word named at hour:minute.
func HourIndex(hour, minute int) int {
	additional := 0
	if minute >= nextHourFrom {
		additional = 1
	}
	return hour%12 + additional
}

// Resolver holds the word tables of one layout.
type Resolver struct {
	minutes   [minuteSlots][]layout.Word
	hours     [hourSlots][]layout.Word
	weekdays  [7][]layout.Word
	prefix    []layout.Word
	soon      []layout.Word
	signature []layout.Word
	size      int
}

// NewResolver precomputes the word tables for l.
func NewResolver(l *layout.Layout) *Resolver {
	r := &Resolver{size: l.Size()}

	for i, phrase := range minutePhrases {
		r.minutes[i] = lookup(l, layout.CategoryMinutes, phrase...)
	}

	twelve := lookup(l, layout.CategoryHours, "twelve")
	r.hours[0] = twelve
	for i, name := range layout.HourWords {
		r.hours[i+1] = lookup(l, layout.CategoryHours, name)
	}
	r.hours[12] = twelve

	for i, name := range layout.DayWords {
		r.weekdays[i] = lookup(l, layout.CategoryDay, name)
	}

	for _, w := range l.Words(layout.CategoryPrefix) {
		if w.Name != layout.SoonWord {
			r.prefix = append(r.prefix, w)
		}
	}
	r.soon = lookup(l, layout.CategoryPrefix, layout.SoonWord)
	r.signature = lookup(l, layout.CategoryOthers, layout.SignatureWord)

	return r
}

func lookup(l *layout.Layout, category layout.Category, names ...string) []layout.Word {
	words := make([]layout.Word, 0, len(names))
	for _, name := range names {
		if w, ok := l.Word(category, name); ok {
			words = append(words, w)
		}
	}
	return words
}

// Words returns the words lit for t: prefix, minutes, hour, weekday, soon
// and signature, in that order.
func (r *Resolver) Words(t TimeReading) []layout.Word {
	minuteIndex, soon := MinuteBucket(t.Minute)
	minuteIndex = clamp(minuteIndex, 0, minuteSlots-1)
	hourIndex := clamp(HourIndex(t.Hour, t.Minute), 0, hourSlots-1)

	words := make([]layout.Word, 0, 8)
	words = append(words, r.prefix...)
	words = append(words, r.minutes[minuteIndex]...)
	words = append(words, r.hours[hourIndex]...)
	words = append(words, r.weekdays[clamp(t.Weekday, 0, 6)]...)
	if soon {
		words = append(words, r.soon...)
	}
	words = append(words, r.signature...)
	return words
}

// Resolve returns the lit cells for t tagged with their color role.
func (r *Resolver) Resolve(t TimeReading) Illumination {
	ill := make(Illumination)
	for _, w := range r.Words(t) {
		for _, cell := range w.Cells() {
			ill[cell] = RoleOn
		}
	}
	for _, w := range r.weekdays[clamp(t.Weekday, 0, 6)] {
		for _, cell := range w.Cells() {
			ill[cell] = RoleDay
		}
	}
	for _, w := range r.signature {
		for _, cell := range w.Cells() {
			ill[cell] = RoleSignature
		}
	}
	return ill
}

// Resolve is a convenience wrapper for one-off lookups. Callers resolving
// every tick should keep a Resolver.
func Resolve(t TimeReading, l *layout.Layout) Illumination {
	return NewResolver(l).Resolve(t)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
