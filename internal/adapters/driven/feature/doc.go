// Package feature groups the FeatureRepository adapters and wires them
// by variant.
//
// Each subpackage implements driven.FeatureRepository for one variant:
//
//   - static: fabricates a fresh entity on every call
//   - file: decodes a TOML, YAML or JSON document, with an fsnotify watcher
//   - throttle: rate-limits any other repository
//
// The sqlite and memory repositories live with their stores under storage/.
// Wiring maps a domain.FeatureVariant onto one of them.
package feature
