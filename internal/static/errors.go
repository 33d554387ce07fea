package static

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/joomcode/errorx"
)

// Errors is the namespace of request resolution failures.
var Errors = errorx.NewNamespace("static")

var (
	// NotFound is returned when the requested path has no file behind it.
	NotFound = Errors.NewType("not_found")
	// Forbidden is returned for paths that try to leave the served root.
	Forbidden = Errors.NewType("forbidden")
	// Internal covers permission and I/O failures while reading the root.
	Internal = Errors.NewType("internal")
)

// classify wraps a filesystem error into one of the namespace types.
func classify(err error, name string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return NotFound.Wrap(err, "open %s", name)
	}
	return Internal.Wrap(err, "open %s", name)
}

// statusOf maps a resolution error to the response status and body.
func statusOf(err error) (int, string) {
	switch {
	case errorx.IsOfType(err, NotFound):
		return http.StatusNotFound, "File not found"
	case errorx.IsOfType(err, Forbidden):
		return http.StatusForbidden, http.StatusText(http.StatusForbidden)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
