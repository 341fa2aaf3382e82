// Package layout maps the words printed on a word-clock face to the cells
// that light them.
//
// A layout document binds every word to its first cell and spells the word
// out; the number of cells a word covers is the number of characters
// (codepoints) in its spelling. Layouts are loaded once and are read-only
// afterwards, so a single *Layout can be shared between goroutines.
package layout

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups the words of a face by their role in a time phrase.
type Category string

const (
	// CategoryPrefix holds the lead-in words and the optional "soon" word
	CategoryPrefix Category = "prefix"
	// CategoryMinutes holds the words used by the five-minute phrases
	CategoryMinutes Category = "minutes"
	// CategoryHours holds the twelve hour names
	CategoryHours Category = "hours"
	// CategoryDay holds the seven weekday markers
	CategoryDay Category = "day"
	// CategoryOthers holds words that are not part of the time phrase
	CategoryOthers Category = "others"
)

// Categories lists every category a layout document may contain.
var Categories = []Category{CategoryPrefix, CategoryMinutes, CategoryHours, CategoryDay, CategoryOthers}

// Well-known optional word names.
const (
	SoonWord      = "soon"
	SignatureWord = "signature"
)

// MinuteWords are the words every layout must provide in CategoryMinutes.
var MinuteWords = []string{"five", "ten", "quarter", "twenty", "past", "to", "half"}

// HourWords are the hour names in clock order, index 0 being one o'clock.
var HourWords = []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "eleven", "twelve"}

// DayWords are the weekday names, Monday first.
var DayWords = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// fillerLetters fill the cells no word uses.
const fillerLetters = "ABCDEFGHIJKLMNOPQRSTUVXYZ"

// Word is a named, contiguous run of cells.
type Word struct {
	Name   string
	Text   string
	Start  int
	Length int
}

// Cells returns the cell indices covered by the word.
func (w Word) Cells() []int {
	cells := make([]int, w.Length)
	for i := range cells {
		cells[i] = w.Start + i
	}
	return cells
}

// End returns the index one past the last cell of the word.
func (w Word) End() int {
	return w.Start + w.Length
}

// Layout is an immutable word table for one physical face.
type Layout struct {
	width  int
	height int
	words  map[Category]map[string]Word
	face   []rune
}

// Width returns the number of cells in a row.
func (l *Layout) Width() int { return l.width }

// Height returns the number of rows.
func (l *Layout) Height() int { return l.height }

// Size returns the total number of cells.
func (l *Layout) Size() int { return l.width * l.height }

// Word looks up a single word.
func (l *Layout) Word(category Category, name string) (Word, bool) {
	w, ok := l.words[category][name]
	return w, ok
}

// Resolve returns the cells of a word, or an empty slice if the layout does
// not define it.
func (l *Layout) Resolve(category Category, name string) []int {
	w, ok := l.Word(category, name)
	if !ok {
		return []int{}
	}
	return w.Cells()
}

// Words returns every word of a category ordered by start cell.
func (l *Layout) Words(category Category) []Word {
	words := make([]Word, 0, len(l.words[category]))
	for _, w := range l.words[category] {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Start != words[j].Start {
			return words[i].Start < words[j].Start
		}
		return words[i].Name < words[j].Name
	})
	return words
}

// Face returns the letter printed on every cell, row-major. Cells that no
// word covers get a filler letter.
func (l *Layout) Face() []rune {
	face := make([]rune, len(l.face))
	copy(face, l.face)
	return face
}

// document is the decoded form of a layout source.
type document map[string]map[string]entry

type entry struct {
	Word  string `json:"word" yaml:"word"`
	Index *int   `json:"index" yaml:"index"`
}

// build validates a decoded document against the grid and freezes it.
func build(doc document, width, height int) (*Layout, error) {
	if width <= 0 || height <= 0 {
		return nil, &Error{Reason: fmt.Sprintf("invalid grid dimensions: %dx%d", width, height)}
	}

	l := &Layout{
		width:  width,
		height: height,
		words:  make(map[Category]map[string]Word, len(Categories)),
		face:   make([]rune, width*height),
	}
	upper := cases.Upper(language.Swedish)

	for rawCategory, entries := range doc {
		category := Category(rawCategory)
		if !knownCategory(category) {
			return nil, &Error{Category: category, Reason: "unknown category"}
		}
		words := make(map[string]Word, len(entries))
		for name, e := range entries {
			if strings.TrimSpace(e.Word) == "" {
				return nil, &Error{Category: category, Word: name, Reason: "empty word"}
			}
			if e.Index == nil {
				return nil, &Error{Category: category, Word: name, Reason: "missing index"}
			}
			w := Word{
				Name:   name,
				Text:   upper.String(e.Word),
				Start:  *e.Index,
				Length: utf8.RuneCountInString(e.Word),
			}
			// Case mapping may expand a letter (ß -> SS); the face keeps
			// one letter per cell.
			if utf8.RuneCountInString(w.Text) != w.Length {
				w.Text = e.Word
			}
			if w.Start < 0 || w.End() > l.Size() {
				return nil, &Error{
					Category: category,
					Word:     name,
					Reason:   fmt.Sprintf("cells [%d, %d) outside grid of %d cells", w.Start, w.End(), l.Size()),
				}
			}
			if err := l.place(category, w); err != nil {
				return nil, err
			}
			words[name] = w
		}
		l.words[category] = words
	}

	if err := l.checkRequired(); err != nil {
		return nil, err
	}
	l.fill()
	return l, nil
}

// place writes the letters of w onto the face, rejecting words that
// disagree with letters already placed on a shared cell.
func (l *Layout) place(category Category, w Word) error {
	i := w.Start
	for _, r := range w.Text {
		if prev := l.face[i]; prev != 0 && prev != r {
			return &Error{
				Category: category,
				Word:     w.Name,
				Reason:   fmt.Sprintf("letter %q at cell %d conflicts with %q", r, i, prev),
			}
		}
		l.face[i] = r
		i++
	}
	return nil
}

func (l *Layout) checkRequired() error {
	required := []struct {
		category Category
		names    []string
	}{
		{CategoryMinutes, MinuteWords},
		{CategoryHours, HourWords},
		{CategoryDay, DayWords},
	}
	for _, req := range required {
		for _, name := range req.names {
			if _, ok := l.Word(req.category, name); !ok {
				return &Error{Category: req.category, Word: name, Reason: "required word missing"}
			}
		}
	}
	return nil
}

func (l *Layout) fill() {
	for i, r := range l.face {
		if r == 0 {
			l.face[i] = rune(fillerLetters[(i*7+i/l.width)%len(fillerLetters)])
		}
	}
}

func knownCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
