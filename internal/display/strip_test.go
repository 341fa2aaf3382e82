package display

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/gpio"
	"github.com/fkcurrie/wordclock-golang/pkg/ledstrip"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

type memDevice struct {
	mu     sync.Mutex
	last   []byte
	halted bool
	closed bool
}

func (d *memDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = append([]byte(nil), p...)
	return len(p), nil
}

func (d *memDevice) Halt() error {
	d.halted = true
	return nil
}

func (d *memDevice) Close() error {
	d.closed = true
	return nil
}

type memLine struct {
	value  int
	closed bool
	fail   error
}

func (l *memLine) SetValue(v int) error {
	if l.fail != nil {
		return l.fail
	}
	l.value = v
	return nil
}

func (l *memLine) Value() (int, error) {
	return l.value, nil
}

func (l *memLine) Close() error {
	l.closed = true
	return nil
}

func TestStripSink(t *testing.T) {
	dev := &memDevice{}
	strip, err := ledstrip.NewStrip(&ledstrip.Config{Width: 3, Height: 2, Brightness: 255, Serpentine: true}, dev)
	require.NoError(t, err)

	line := &memLine{}
	sink, err := NewStripSink(strip, gpio.NewPinFromLine("gpiochip0:23", line, nil), "wordclock", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, line.value, "enable line should be high while open")

	colors := wordclock.RoleColorMap{
		On:  wordclock.RGB{R: 10},
		Off: wordclock.RGB{},
		Day: wordclock.RGB{G: 20},
	}
	ill := wordclock.Illumination{0: wordclock.RoleOn, 3: wordclock.RoleDay}
	require.NoError(t, sink.Render(wordclock.BuildFrame(ill, colors, 3, 2)))

	// Cell 3 is (0, 1), the last LED of the reversed second row.
	want := []byte{10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 20, 0}
	assert.Equal(t, want, dev.last)

	require.NoError(t, sink.ApplyControlMessage("wordclock/display/brightness", []byte("0")))
	assert.Equal(t, 0, strip.GetBrightness())
	var sinkErr *types.SinkError
	assert.ErrorAs(t, sink.ApplyControlMessage("wordclock/clock/on", []byte("red")), &sinkErr)

	require.NoError(t, sink.Close())
	assert.True(t, dev.halted)
	assert.True(t, line.closed)
	assert.Equal(t, 0, line.value)
	assert.ErrorAs(t, sink.Render(wordclock.BuildFrame(ill, colors, 3, 2)), &sinkErr)
	assert.NoError(t, sink.Close())
}

func TestStripSinkEnableFailureReleasesHardware(t *testing.T) {
	dev := &memDevice{}
	strip, err := ledstrip.NewStrip(&ledstrip.Config{Width: 2, Height: 2, Brightness: 255}, dev)
	require.NoError(t, err)

	line := &memLine{fail: errors.New("line busy")}
	sink, err := NewStripSink(strip, gpio.NewPinFromLine("gpiochip0:23", line, nil), "wordclock", nil)
	require.Error(t, err)
	assert.Nil(t, sink)

	var sinkErr *types.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, "enable", sinkErr.Op)

	assert.True(t, line.closed, "enable line should be released")
	assert.True(t, dev.halted, "strip should be turned off")
	assert.True(t, dev.closed, "strip device should be closed")
}
