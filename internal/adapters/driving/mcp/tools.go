package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tmarch/internal/core/domain"
)

// FeatureGetInput is the input schema for the feature_get tool.
type FeatureGetInput struct {
	Variant string `json:"variant,omitempty" jsonschema:"variant to fetch from: static, file or sqlite (default: configured variant)"`
}

// FeatureOutput is a single feature entity.
type FeatureOutput struct {
	Variant     string  `json:"variant,omitempty"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// VariantsInput is the input schema for the feature_variants tool.
type VariantsInput struct{}

// VariantsOutput lists the variants the server can fetch from.
type VariantsOutput struct {
	Default  string          `json:"default"`
	Variants []VariantOutput `json:"variants"`
}

// VariantOutput describes one variant.
type VariantOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FeatureAddInput is the input schema for the feature_add tool.
type FeatureAddInput struct {
	Name        string  `json:"name" jsonschema:"name of the new feature"`
	Description *string `json:"description,omitempty" jsonschema:"optional description"`
}

// HistoryInput is the input schema for the feature_history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default 10)"`
}

// HistoryOutput is the output schema for the feature_history tool.
type HistoryOutput struct {
	Features []FeatureOutput `json:"features"`
	Count    int             `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "feature_get",
		Description: "Fetch the current feature entity from a variant",
	}, s.handleFeatureGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "feature_variants",
		Description: "List the feature variants that can be fetched",
	}, s.handleVariants)

	if s.ports.History == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "feature_add",
		Description: "Record a new feature entity in the history database",
	}, s.handleFeatureAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "feature_history",
		Description: "List recorded feature entities, newest first",
	}, s.handleHistory)
}

// handleFeatureGet handles the feature_get tool invocation.
func (s *Server) handleFeatureGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FeatureGetInput,
) (*mcp.CallToolResult, FeatureOutput, error) {
	variant, err := s.resolveVariant(input.Variant)
	if err != nil {
		return nil, FeatureOutput{}, err
	}

	entity, err := s.ports.Catalog.Get(ctx, variant)
	if err != nil {
		return nil, FeatureOutput{}, err
	}

	output := toFeatureOutput(entity)
	output.Variant = string(variant)
	return nil, output, nil
}

// handleVariants handles the feature_variants tool invocation.
func (s *Server) handleVariants(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ VariantsInput,
) (*mcp.CallToolResult, VariantsOutput, error) {
	variants := s.ports.Catalog.Variants()
	output := VariantsOutput{
		Default:  string(s.defaultVariant()),
		Variants: make([]VariantOutput, len(variants)),
	}
	for i, v := range variants {
		output.Variants[i] = VariantOutput{Name: string(v), Description: v.Description()}
	}
	return nil, output, nil
}

// handleFeatureAdd handles the feature_add tool invocation.
func (s *Server) handleFeatureAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FeatureAddInput,
) (*mcp.CallToolResult, FeatureOutput, error) {
	if s.ports.History == nil {
		return nil, FeatureOutput{}, ErrHistoryUnavailable
	}

	entity, err := s.ports.History.Add(ctx, input.Name, input.Description)
	if err != nil {
		return nil, FeatureOutput{}, err
	}
	return nil, toFeatureOutput(entity), nil
}

// handleHistory handles the feature_history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{}, ErrHistoryUnavailable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	entities, err := s.ports.History.List(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Features: make([]FeatureOutput, len(entities)),
		Count:    len(entities),
	}
	for i := range entities {
		output.Features[i] = toFeatureOutput(&entities[i])
	}
	return nil, output, nil
}

func toFeatureOutput(e *domain.FeatureEntity) FeatureOutput {
	return FeatureOutput{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
