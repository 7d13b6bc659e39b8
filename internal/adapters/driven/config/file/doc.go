// Package file stores tmarch settings in <home>/config.toml.
//
// Keys are flat ("feature.variant") in memory and nested tables on disk.
package file
