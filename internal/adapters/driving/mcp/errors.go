// Package mcp provides an MCP (Model Context Protocol) server adapter for tmarch.
// It lets AI assistants fetch feature entities from any configured variant.
package mcp

import "errors"

// ErrMissingCatalog is returned when the feature catalog is not provided.
var ErrMissingCatalog = errors.New("mcp: feature catalog is required")

// ErrHistoryUnavailable is returned by history tools when no history service is set.
var ErrHistoryUnavailable = errors.New("mcp: feature history is not configured")
