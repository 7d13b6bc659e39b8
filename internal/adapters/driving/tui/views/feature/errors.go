package feature

import (
	featurerepo "github.com/custodia-labs/tmarch/internal/adapters/driven/feature"
)

// ErrUnknownVariant is returned when a descriptor names a variant the
// factory has no builder for.
var ErrUnknownVariant = featurerepo.ErrUnknownVariant

// ErrVariantUnavailable is returned when a known variant lacks the
// dependency it needs.
var ErrVariantUnavailable = featurerepo.ErrVariantUnavailable
