package wordclock

import (
	"fmt"
	"time"
)

// TimeReading is one sample of the clock. Weekday counts from Monday (0)
// to Sunday (6).
type TimeReading struct {
	Hour    int
	Minute  int
	Second  int
	Weekday int
}

// ReadingFromTime converts a wall-clock time into a TimeReading.
func ReadingFromTime(t time.Time) TimeReading {
	return TimeReading{
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: (int(t.Weekday()) + 6) % 7,
	}
}

// Validate rejects readings with a field out of range. The resolver assumes
// a valid reading.
func (t TimeReading) Validate() error {
	switch {
	case t.Hour < 0 || t.Hour > 23:
		return fmt.Errorf("hour %d out of range [0, 23]", t.Hour)
	case t.Minute < 0 || t.Minute > 59:
		return fmt.Errorf("minute %d out of range [0, 59]", t.Minute)
	case t.Second < 0 || t.Second > 59:
		return fmt.Errorf("second %d out of range [0, 59]", t.Second)
	case t.Weekday < 0 || t.Weekday > 6:
		return fmt.Errorf("weekday %d out of range [0, 6]", t.Weekday)
	}
	return nil
}

func (t TimeReading) String() string {
	day := fmt.Sprintf("day%d", t.Weekday)
	if t.Weekday >= 0 && t.Weekday < len(weekdayNames) {
		day = weekdayNames[t.Weekday]
	}
	return fmt.Sprintf("%02d:%02d:%02d %s", t.Hour, t.Minute, t.Second, day)
}

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
