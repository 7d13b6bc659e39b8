package tui

import "errors"

// ErrMissingFactory is returned when the feature factory is not provided.
var ErrMissingFactory = errors.New("tui: feature factory is required")

// ErrUnknownDestination is returned when a navigation target is not a waypoint.
var ErrUnknownDestination = errors.New("tui: unknown destination")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
