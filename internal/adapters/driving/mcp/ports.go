package mcp

import (
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog fetches entities from feature variants.
	Catalog driving.FeatureCatalog

	// History records and lists entities.
	History driving.FeatureHistoryService

	// Settings supplies the default variant.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Catalog == nil {
		return ErrMissingCatalog
	}
	// History and Settings are optional
	return nil
}
