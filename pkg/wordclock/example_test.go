package wordclock_test

import (
	"fmt"

	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

func ExampleResolver_Words() {
	l, err := layout.Builtin("swedish", 12, 12)
	if err != nil {
		fmt.Printf("Failed to load layout: %v\n", err)
		return
	}

	r := wordclock.NewResolver(l)
	for _, w := range r.Words(wordclock.TimeReading{Hour: 16, Minute: 37, Weekday: 5}) {
		fmt.Print(w.Text, " ")
	}
	fmt.Println()
	// Output: HON ÄR FEM ÖVER HALV FEM L MELIN
}

func ExampleBuildFrame() {
	l, err := layout.Builtin("swedish", 12, 12)
	if err != nil {
		fmt.Printf("Failed to load layout: %v\n", err)
		return
	}

	ill := wordclock.Resolve(wordclock.TimeReading{Hour: 10, Minute: 0, Weekday: 0}, l)
	frame := wordclock.BuildFrame(ill, wordclock.DefaultColors(), l.Width(), l.Height())

	fmt.Println(len(frame.Pix), frame.Cell(0), frame.Cell(3), frame.Cell(132), frame.Cell(139))
	// Output: 144 #ffffff #141414 #ff8c00 #1e90ff
}
