package config

import "errors"

// ErrInvalidConfig is returned when the file cannot be decoded or holds out-of-range values.
var ErrInvalidConfig = errors.New("invalid config")
