package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for tmarch resources.
	uriScheme = "tmarch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the default variant.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "feature",
		Name:        "feature",
		Description: "Current feature entity from the configured variant",
		MIMEType:    "application/json",
	}, s.handleFeatureResource)

	// Template for a specific variant.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "feature/{variant}",
		Name:        "feature-variant",
		Description: "Current feature entity from a specific variant",
		MIMEType:    "application/json",
	}, s.handleFeatureResource)
}

// handleFeatureResource returns the entity of the variant named in the URI.
func (s *Server) handleFeatureResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name, ok := extractVariant(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	variant, err := s.resolveVariant(name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entity, err := s.ports.Catalog.Get(ctx, variant)
	if err != nil {
		if domain.ErrorKindOf(err) == domain.ErrNotFound {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("fetching feature: %w", err)
	}

	output := toFeatureOutput(entity)
	output.Variant = string(variant)
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling feature: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractVariant extracts the variant from tmarch://feature or
// tmarch://feature/{variant}. An empty variant means the default.
func extractVariant(uri string) (string, bool) {
	const base = uriScheme + "feature"

	if uri == base {
		return "", true
	}
	rest, ok := strings.CutPrefix(uri, base+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
