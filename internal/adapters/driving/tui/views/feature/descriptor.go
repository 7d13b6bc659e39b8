package feature

import "github.com/custodia-labs/tmarch/internal/core/domain"

// Descriptor selects which wiring the Factory builds.
// Two descriptors are equal exactly when their variants are equal.
type Descriptor struct {
	Variant domain.FeatureVariant
}

// NewDescriptor parses a variant name, accepting the "impl" alias.
func NewDescriptor(variant string) (Descriptor, error) {
	v, err := domain.ParseFeatureVariant(variant)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Variant: v}, nil
}

// Key identifies the descriptor for navigation and routing.
func (d Descriptor) Key() string {
	return "feature:" + string(d.Variant)
}

// String returns the variant name.
func (d Descriptor) String() string {
	return string(d.Variant)
}
