package domain

import "time"

// FeatureEntity is the domain data displayed by the feature screen.
// Entities are immutable once built; a refresh produces a new one.
type FeatureEntity struct {
	// ID is an opaque identifier assigned at construction.
	ID string `json:"id"`

	// Name is the human-readable name.
	Name string `json:"name"`

	// Description is optional free text.
	Description *string `json:"description,omitempty"`

	// CreatedAt is when the entity was produced by its repository.
	CreatedAt time.Time `json:"created_at"`
}

// NewFeatureEntity creates an entity. The description is copied so later
// changes to the caller's string cannot leak into the entity.
func NewFeatureEntity(id, name string, description *string, at time.Time) *FeatureEntity {
	e := &FeatureEntity{
		ID:        id,
		Name:      name,
		CreatedAt: at,
	}
	if description != nil {
		d := *description
		e.Description = &d
	}
	return e
}

// HasDescription reports whether the entity carries a description.
func (e *FeatureEntity) HasDescription() bool {
	return e != nil && e.Description != nil
}

// DescriptionOr returns the description, or fallback when absent.
func (e *FeatureEntity) DescriptionOr(fallback string) string {
	if !e.HasDescription() {
		return fallback
	}
	return *e.Description
}

// StringPtr returns a pointer to s. Handy for optional descriptions.
func StringPtr(s string) *string {
	return &s
}
