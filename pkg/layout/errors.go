package layout

import "fmt"

// Error reports a layout document that cannot be used. Loading never
// returns a partial layout alongside an Error.
type Error struct {
	Category Category
	Word     string
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	msg := "layout: "
	switch {
	case e.Category != "" && e.Word != "":
		msg += fmt.Sprintf("%s.%s: ", e.Category, e.Word)
	case e.Category != "":
		msg += fmt.Sprintf("%s: ", e.Category)
	}
	msg += e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
