//go:build !cgo

package display

import (
	"errors"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

var errNoWindow = errors.New("window sink requires cgo (build/run with CGO_ENABLED=1)")

// Window is unavailable without cgo
type Window struct{}

// NewWindow always fails without cgo
func NewWindow(_ types.WindowConfig, _ *layout.Layout, _ string, _ int) (*Window, error) {
	return nil, &types.SinkError{Sink: types.SinkWindow, Op: "open", Err: errNoWindow}
}

func (*Window) Run() error { return errNoWindow }
func (*Window) Render(wordclock.Frame) error { return errNoWindow }
func (*Window) Topics() []string { return nil }
func (*Window) ApplyControlMessage(string, []byte) error { return errNoWindow }
func (*Window) Close() error { return nil }
