package config

import "fmt"

// Error is a configuration problem tied to a position in a file.
// Line is 1-based; 0 means the problem concerns the file as a whole.
type Error struct {
	File  string
	Line  int
	Value string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s: %s: %q", loc, e.Msg, e.Value)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}
