// Package viewmodel holds presentation state between the feature use case
// and the terminal views.
//
// A FeatureViewModel owns the current entity privately and exposes a
// Projection derived from it. Every change is published as an immutable
// Snapshot to subscribers, so views never read half-applied state.
//
// # Refresh policies
//
// Overlapping refreshes resolve according to a domain.RefreshPolicy:
//
//   - supersede: a new refresh cancels the previous in-flight fetch and
//     results of older requests are discarded
//   - last_write_wins: every completed fetch is applied in completion order
package viewmodel
