package waypoint

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
)

// Environment is what screens are built from.
type Environment struct {
	// Coordinator hosts the screen being built.
	Coordinator Coordinator

	// Factory builds feature chains.
	Factory *feature.Factory

	// Styles is shared by all screens.
	Styles *styles.Styles

	// Settings backs the settings screen. Optional.
	Settings driving.SettingsService
}

func (env Environment) canGoBack() bool {
	return env.Coordinator != nil && env.Coordinator.Depth() > 0
}

func (env Environment) styles() *styles.Styles {
	if env.Styles != nil {
		return env.Styles
	}
	if env.Factory != nil {
		return env.Factory.Styles()
	}
	return styles.DefaultStyles()
}

// ==================== Menu ====================

type menuScreen struct {
	view *menu.View
}

func renderMenu(_ Waypoint, env Environment) (Renderable, error) {
	if env.Factory == nil {
		return nil, ErrMissingFactory
	}

	current := env.Factory.Settings()
	items := make([]menu.Item, 0, len(env.Factory.Variants())+1)
	for _, v := range env.Factory.Variants() {
		items = append(items, menu.Item{
			Label:  string(v),
			Detail: v.Description(),
			To:     Feature(feature.Descriptor{Variant: v}),
		})
	}
	if env.Settings != nil {
		items = append(items, menu.Item{
			Label:  "Settings",
			Detail: "Variant, refresh policy and feature file",
			To:     Settings(),
		})
	}

	view := menu.NewView(env.styles(), "tmarch", "Choose a feature variant", items)
	view.SetStatus(fmt.Sprintf("policy %s", current.RefreshPolicy))
	return &menuScreen{view: view}, nil
}

func (s *menuScreen) Init() tea.Cmd { return s.view.Init() }

func (s *menuScreen) Update(msg tea.Msg) (Renderable, tea.Cmd) {
	var cmd tea.Cmd
	s.view, cmd = s.view.Update(msg)
	return s, cmd
}

func (s *menuScreen) View() string { return s.view.View() }

func (s *menuScreen) SetDimensions(width, height int) { s.view.SetDimensions(width, height) }

func (s *menuScreen) Close() error { return nil }

// ==================== Feature ====================

type featureScreen struct {
	view *feature.View
}

func renderFeature(w Waypoint, env Environment) (Renderable, error) {
	if env.Factory == nil {
		return nil, ErrMissingFactory
	}
	d, _ := w.Descriptor()
	view, err := env.Factory.Build(d, feature.WithBackNavigation(env.canGoBack()))
	if err != nil {
		return nil, err
	}
	return &featureScreen{view: view}, nil
}

func (s *featureScreen) Init() tea.Cmd { return s.view.Init() }

func (s *featureScreen) Update(msg tea.Msg) (Renderable, tea.Cmd) {
	var cmd tea.Cmd
	s.view, cmd = s.view.Update(msg)
	return s, cmd
}

func (s *featureScreen) View() string { return s.view.View() }

func (s *featureScreen) SetDimensions(width, height int) { s.view.SetDimensions(width, height) }

func (s *featureScreen) Close() error { return s.view.Close() }

// ==================== Settings ====================

type settingsScreen struct {
	view *settings.View
}

func renderSettings(_ Waypoint, env Environment) (Renderable, error) {
	if env.Settings == nil {
		return nil, ErrMissingSettings
	}
	return &settingsScreen{view: settings.NewView(env.styles(), env.Settings, env.canGoBack())}, nil
}

func (s *settingsScreen) Init() tea.Cmd { return s.view.Init() }

func (s *settingsScreen) Update(msg tea.Msg) (Renderable, tea.Cmd) {
	var cmd tea.Cmd
	s.view, cmd = s.view.Update(msg)
	return s, cmd
}

func (s *settingsScreen) View() string { return s.view.View() }

func (s *settingsScreen) SetDimensions(width, height int) { s.view.SetDimensions(width, height) }

func (s *settingsScreen) Close() error { return s.view.Close() }

// FeatureView returns the feature view behind r, if r is a feature screen.
func FeatureView(r Renderable) (*feature.View, bool) {
	s, ok := r.(*featureScreen)
	if !ok {
		return nil, false
	}
	return s.view, true
}
