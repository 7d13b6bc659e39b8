package viewmodel

import "github.com/custodia-labs/tmarch/internal/core/domain"

// Projection is the display-ready form of a FeatureEntity.
type Projection struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// NewProjection copies name and description from entity verbatim.
// A nil entity yields a nil projection.
func NewProjection(entity *domain.FeatureEntity) *Projection {
	if entity == nil {
		return nil
	}
	p := &Projection{Name: entity.Name}
	if entity.Description != nil {
		d := *entity.Description
		p.Description = &d
	}
	return p
}

// HasDescription reports whether a description is present.
func (p *Projection) HasDescription() bool {
	return p != nil && p.Description != nil
}
