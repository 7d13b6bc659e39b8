package waypoint

import "errors"

// ErrUnknownKind is returned for a waypoint with no renderer.
var ErrUnknownKind = errors.New("waypoint: unknown kind")

// ErrMissingFactory is returned when a feature screen is requested without a factory.
var ErrMissingFactory = errors.New("waypoint: feature factory is required")

// ErrMissingSettings is returned when the settings screen is requested without a settings service.
var ErrMissingSettings = errors.New("waypoint: settings service is required")
