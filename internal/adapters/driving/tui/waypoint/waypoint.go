// Package waypoint defines the closed set of screens the TUI can navigate to
// and how each one is built.
package waypoint

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
)

// Kind tags a Waypoint.
type Kind int

const (
	// KindMenu is the variant picker.
	KindMenu Kind = iota
	// KindFeature is a feature screen; the waypoint carries a Descriptor.
	KindFeature
	// KindSettings edits the stored settings.
	KindSettings
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindFeature:
		return "feature"
	case KindSettings:
		return messages.SettingsKey
	default:
		return "unknown"
	}
}

// Waypoint is a navigation destination. It is a comparable value: two
// waypoints are equal exactly when kind and payload are equal.
type Waypoint struct {
	kind    Kind
	feature feature.Descriptor
}

// Ensure Waypoint can travel in navigation messages.
var _ messages.Destination = Waypoint{}

// Menu returns the menu waypoint.
func Menu() Waypoint {
	return Waypoint{kind: KindMenu}
}

// Feature returns the feature waypoint for d.
func Feature(d feature.Descriptor) Waypoint {
	return Waypoint{kind: KindFeature, feature: d}
}

// Settings returns the settings waypoint.
func Settings() Waypoint {
	return Waypoint{kind: KindSettings}
}

// Kind returns the tag.
func (w Waypoint) Kind() Kind {
	return w.kind
}

// Descriptor returns the payload of a feature waypoint.
func (w Waypoint) Descriptor() (feature.Descriptor, bool) {
	return w.feature, w.kind == KindFeature
}

// Equal reports whether w and o denote the same destination.
func (w Waypoint) Equal(o Waypoint) bool {
	return w == o
}

// Key identifies the destination.
func (w Waypoint) Key() string {
	if w.kind == KindFeature {
		return w.feature.Key()
	}
	return w.kind.String()
}

// String returns the key.
func (w Waypoint) String() string {
	return w.Key()
}

// Renderable is a screen the shell can host.
type Renderable interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Renderable, tea.Cmd)
	View() string
	SetDimensions(width, height int)
	Close() error
}

// Coordinator is the navigation stack that hosts screens.
type Coordinator interface {
	Push(w Waypoint) tea.Cmd
	Pop() tea.Cmd
	Depth() int
	Current() (Waypoint, bool)
}

// renderer builds the screen for one kind.
type renderer func(w Waypoint, env Environment) (Renderable, error)

// renderers is the dispatch table keyed by kind.
var renderers = map[Kind]renderer{
	KindMenu:     renderMenu,
	KindFeature:  renderFeature,
	KindSettings: renderSettings,
}

// View builds the screen for w. The screen is created fresh on every call.
func (w Waypoint) View(env Environment) (Renderable, error) {
	render, ok := renderers[w.kind]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, w.kind)
	}
	return render(w, env)
}
