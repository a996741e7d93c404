package macro

import (
	"errors"
	"fmt"
	"html"
)

// Image macro failures. Each is terminal for the macro it occurs in and is
// reported in place of the macro output.
var (
	ErrPageNotFound     = errors.New("wiki page not found")
	ErrResourceNotFound = errors.New("file not found")
	ErrUnsupportedType  = errors.New("file is not an allowed image type")
)

// failure formats a diagnostic shown in place of a macro's output.
func failure(name, args string, reason error) string {
	return diagnostic(name, args, reasonText(reason))
}

// diagnostic is the escaped "(Name(args) failed - reason)" fragment.
func diagnostic(name, args, reason string) string {
	return fmt.Sprintf("(%s(%s) failed - %s)", name, html.EscapeString(args), html.EscapeString(reason))
}

// reasonText maps an error to the reason shown on the page.
func reasonText(err error) string {
	switch {
	case errors.Is(err, ErrPageNotFound):
		return "Wiki page not found"
	case errors.Is(err, ErrUnsupportedType):
		return "File provided is not an allowed image type"
	default:
		return "File not found"
	}
}
