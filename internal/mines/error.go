package mines

import "errors"

// ErrInvalidConfig is returned when a board cannot be built from the given
// dimensions and mine count.
var ErrInvalidConfig = errors.New("invalid board config")
