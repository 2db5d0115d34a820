package model

import "errors"

// Load error kinds. Every loader failure wraps exactly one of these.
var (
	// ErrParse covers unreadable files, malformed containers and inconsistent data.
	ErrParse = errors.New("parse error")
	// ErrUnsupported covers valid glTF the engine cannot consume.
	ErrUnsupported = errors.New("unsupported feature")
	// ErrMissingReference covers absent or out-of-range cross references.
	ErrMissingReference = errors.New("missing reference")
)

// KindOf returns the error kind wrapped by err, or nil if err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrParse, ErrUnsupported, ErrMissingReference} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
