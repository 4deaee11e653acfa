package layout

import "errors"

// Sentinel kinds for layout errors.
var (
	ErrUnknownFormat = errors.New("unknown document format")
)
