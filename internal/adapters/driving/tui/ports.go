// Package tui provides an interactive terminal user interface for tmarch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
)

// Ports aggregates what the TUI needs from the core.
type Ports struct {
	// Factory builds feature chains for every screen.
	Factory *feature.Factory

	// Settings is consulted for the window title and backs the settings screen. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(factory *feature.Factory, settings driving.SettingsService) *Ports {
	return &Ports{
		Factory:  factory,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Factory == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingFactory)
	}
	return nil
}
