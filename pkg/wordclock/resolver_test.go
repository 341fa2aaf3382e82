package wordclock_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

func swedish(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.Builtin("swedish", 12, 12)
	require.NoError(t, err)
	return l
}

// spell lists words as name@start so minute and hour words with the same
// name stay distinguishable.
func spell(words []layout.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = fmt.Sprintf("%s@%d", w.Name, w.Start)
	}
	return out
}

func TestMinuteBucket(t *testing.T) {
	tests := []struct {
		minute    int
		wantIndex int
		wantSoon  bool
	}{
		{0, 0, false},
		{1, 0, false},
		{3, 0, false},
		{4, 1, true},
		{5, 1, false},
		{33, 6, false},
		{34, 7, true},
		{37, 7, false},
		{58, 11, false},
		{59, 12, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("minute %d", tt.minute), func(t *testing.T) {
			index, soon := wordclock.MinuteBucket(tt.minute)
			assert.Equal(t, tt.wantIndex, index)
			assert.Equal(t, tt.wantSoon, soon)
		})
	}
}

func TestMinuteBucketMonotonic(t *testing.T) {
	prev := 0
	for minute := 0; minute < 60; minute++ {
		index, soon := wordclock.MinuteBucket(minute)
		require.GreaterOrEqual(t, index, 0)
		require.LessOrEqual(t, index, 12)
		require.GreaterOrEqual(t, index, prev, "bucket decreased at minute %d", minute)
		assert.Equal(t, minute%5 == 4, soon, "soon at minute %d", minute)
		prev = index
	}
}

func TestHourIndexInRange(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			index := wordclock.HourIndex(hour, minute)
			require.GreaterOrEqual(t, index, 0, "%02d:%02d", hour, minute)
			require.LessOrEqual(t, index, 12, "%02d:%02d", hour, minute)
		}
	}

	assert.Equal(t, 4, wordclock.HourIndex(4, 34))
	assert.Equal(t, 5, wordclock.HourIndex(4, 35))
	assert.Equal(t, 0, wordclock.HourIndex(0, 0))
	assert.Equal(t, 0, wordclock.HourIndex(12, 10))
	assert.Equal(t, 12, wordclock.HourIndex(23, 59))
}

func TestResolverWords(t *testing.T) {
	r := wordclock.NewResolver(swedish(t))

	tests := []struct {
		name    string
		reading wordclock.TimeReading
		want    []string
	}{
		{
			name:    "ten o'clock monday",
			reading: wordclock.TimeReading{Hour: 10, Minute: 0, Weekday: 0},
			want:    []string{"she@0", "is@4", "ten@84", "monday@132", "signature@139"},
		},
		{
			name:    "four thirty-seven saturday",
			reading: wordclock.TimeReading{Hour: 4, Minute: 37, Weekday: 5},
			want:    []string{"she@0", "is@4", "five@30", "past@36", "half@44", "five@60", "saturday@137", "signature@139"},
		},
		{
			name:    "eleven fifty-eight sunday",
			reading: wordclock.TimeReading{Hour: 11, Minute: 58, Weekday: 6},
			want:    []string{"she@0", "is@4", "five@30", "to@40", "twelve@80", "sunday@138", "signature@139"},
		},
		{
			name:    "minute 59 rounds to the hour",
			reading: wordclock.TimeReading{Hour: 23, Minute: 59, Weekday: 2},
			want:    []string{"she@0", "is@4", "twelve@80", "wednesday@134", "soon@7", "signature@139"},
		},
		{
			name:    "soon before quarter past",
			reading: wordclock.TimeReading{Hour: 8, Minute: 14, Weekday: 3},
			want:    []string{"she@0", "is@4", "quarter@12", "past@36", "eight@72", "thursday@135", "soon@7", "signature@139"},
		},
		{
			name:    "half hour keeps current hour",
			reading: wordclock.TimeReading{Hour: 13, Minute: 30, Weekday: 4},
			want:    []string{"she@0", "is@4", "half@44", "one@48", "friday@136", "signature@139"},
		},
		{
			name:    "midnight",
			reading: wordclock.TimeReading{Hour: 0, Minute: 2, Weekday: 1},
			want:    []string{"she@0", "is@4", "twelve@80", "tuesday@133", "signature@139"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.reading.Validate())
			got := spell(r.Words(tt.reading))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Words(%v) mismatch (-want +got):\n%s", tt.reading, diff)
			}
		})
	}
}

func TestResolveRoles(t *testing.T) {
	l := swedish(t)
	ill := wordclock.Resolve(wordclock.TimeReading{Hour: 10, Minute: 0, Weekday: 0}, l)

	assert.Equal(t, []int{0, 1, 2, 4, 5, 84, 85, 86}, ill.Cells(wordclock.RoleOn))
	assert.Equal(t, []int{132}, ill.Cells(wordclock.RoleDay))
	assert.Equal(t, []int{139, 140, 141, 142, 143}, ill.Cells(wordclock.RoleSignature))
	assert.Empty(t, ill.Cells(wordclock.RoleOff))

	_, lit := ill[3]
	assert.False(t, lit)
}

func TestResolveIdempotent(t *testing.T) {
	l := swedish(t)
	r := wordclock.NewResolver(l)

	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute += 7 {
			reading := wordclock.TimeReading{Hour: hour, Minute: minute, Weekday: hour % 7}
			first := r.Resolve(reading)
			second := r.Resolve(reading)
			require.Equal(t, first, second)
			require.Equal(t, first, wordclock.Resolve(reading, l))
		}
	}
}

func TestResolveStaysInsideGrid(t *testing.T) {
	l := swedish(t)
	r := wordclock.NewResolver(l)

	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			for cell := range r.Resolve(wordclock.TimeReading{Hour: hour, Minute: minute, Weekday: minute % 7}) {
				require.GreaterOrEqual(t, cell, 0)
				require.Less(t, cell, l.Size())
			}
		}
	}
}

func TestResolveWithoutOptionalWords(t *testing.T) {
	doc := `{
  "minutes": {
    "quarter": {"word": "KVART", "index": 12}, "ten": {"word": "TIO", "index": 18},
    "twenty": {"word": "TJUGO", "index": 24}, "five": {"word": "FEM", "index": 30},
    "past": {"word": "ÖVER", "index": 36}, "to": {"word": "I", "index": 40},
    "half": {"word": "HALV", "index": 44}
  },
  "hours": {
    "one": {"word": "ETT", "index": 48}, "two": {"word": "TVÅ", "index": 50},
    "three": {"word": "TRE", "index": 53}, "four": {"word": "FYRA", "index": 56},
    "five": {"word": "FEM", "index": 60}, "six": {"word": "SEX", "index": 63},
    "seven": {"word": "SJU", "index": 66}, "nine": {"word": "NIO", "index": 69},
    "eight": {"word": "ÅTTA", "index": 72}, "eleven": {"word": "ELVA", "index": 76},
    "twelve": {"word": "TOLV", "index": 80}, "ten": {"word": "TIO", "index": 84}
  },
  "day": {
    "monday": {"word": "M", "index": 132}, "tuesday": {"word": "T", "index": 133},
    "wednesday": {"word": "O", "index": 134}, "thursday": {"word": "T", "index": 135},
    "friday": {"word": "F", "index": 136}, "saturday": {"word": "L", "index": 137},
    "sunday": {"word": "S", "index": 138}
  }
}`
	l, err := layout.Load(strings.NewReader(doc), layout.FormatJSON, 12, 12)
	require.NoError(t, err)

	r := wordclock.NewResolver(l)
	got := spell(r.Words(wordclock.TimeReading{Hour: 2, Minute: 59, Weekday: 0}))
	assert.Equal(t, []string{"three@53", "monday@132"}, got)
	assert.Empty(t, r.Resolve(wordclock.TimeReading{Hour: 2, Minute: 59}).Cells(wordclock.RoleSignature))
}

func TestReadingFromTime(t *testing.T) {
	// 2024-06-02 is a Sunday.
	ts := time.Date(2024, time.June, 2, 17, 42, 9, 0, time.UTC)
	got := wordclock.ReadingFromTime(ts)
	assert.Equal(t, wordclock.TimeReading{Hour: 17, Minute: 42, Second: 9, Weekday: 6}, got)

	monday := wordclock.ReadingFromTime(ts.AddDate(0, 0, 1))
	assert.Equal(t, 0, monday.Weekday)
}

func TestTimeReadingValidate(t *testing.T) {
	tests := []struct {
		name    string
		reading wordclock.TimeReading
		wantErr bool
	}{
		{"valid", wordclock.TimeReading{Hour: 23, Minute: 59, Second: 59, Weekday: 6}, false},
		{"zero", wordclock.TimeReading{}, false},
		{"hour", wordclock.TimeReading{Hour: 24}, true},
		{"negative hour", wordclock.TimeReading{Hour: -1}, true},
		{"minute", wordclock.TimeReading{Minute: 60}, true},
		{"second", wordclock.TimeReading{Second: 60}, true},
		{"weekday", wordclock.TimeReading{Weekday: 7}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reading.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
