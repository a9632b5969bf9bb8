package lut

import "errors"

// ErrInvalidFormat is returned when a LUT file cannot be parsed.
var ErrInvalidFormat = errors.New("invalid lut format")
