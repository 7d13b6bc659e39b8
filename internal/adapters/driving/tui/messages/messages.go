// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/viewmodel"
	"github.com/custodia-labs/tmarch/internal/core/domain"
)

// Destination is a navigation target. Equal destinations share a Key.
type Destination interface {
	Key() string
}

// Targeted is implemented by messages meant for one screen only.
// The shell routes them to the screen whose destination key matches.
type Targeted interface {
	TargetKey() string
}

// Navigate asks the shell to show a destination.
type Navigate struct {
	To Destination
}

// NavigateBack asks the shell to pop the current screen.
type NavigateBack struct{}

// FeatureChanged carries a view-model snapshot to the feature screen.
// Instance identifies the screen that produced it; screens rebuilt for the
// same key ignore messages from their predecessors.
type FeatureChanged struct {
	Key      string
	Instance uint64
	Snapshot viewmodel.Snapshot
}

// TargetKey implements Targeted.
func (m FeatureChanged) TargetKey() string { return m.Key }

// FeatureRefreshed signals a user-requested refresh finished.
type FeatureRefreshed struct {
	Key      string
	Instance uint64
	Err      error
}

// TargetKey implements Targeted.
func (m FeatureRefreshed) TargetKey() string { return m.Key }

// FeatureSourceChanged signals the backing source of a feature screen changed.
type FeatureSourceChanged struct {
	Key      string
	Instance uint64
}

// TargetKey implements Targeted.
func (m FeatureSourceChanged) TargetKey() string { return m.Key }

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsKey is the destination key of the settings screen.
const SettingsKey = "settings"

// SettingsLoaded carries settings read for the settings screen.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// TargetKey implements Targeted.
func (SettingsLoaded) TargetKey() string { return SettingsKey }

// SettingsSaved signals a settings change was persisted.
type SettingsSaved struct {
	Err error
}

// TargetKey implements Targeted.
func (SettingsSaved) TargetKey() string { return SettingsKey }
