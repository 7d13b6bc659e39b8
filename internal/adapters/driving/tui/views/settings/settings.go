// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
)

// ErrUnavailable is reported when no settings service is wired.
var ErrUnavailable = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionVariant
	SectionPolicy
	SectionFile
)

// Key constants for key handling.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// overviewItems is the number of rows on the overview.
const overviewItems = 3

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error
	saved    bool

	// Navigation state
	section   Section
	selected  int
	canGoBack bool

	fileInput textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService, canGoBack bool) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	fileInput := textinput.New()
	fileInput.Placeholder = "/path/to/feature.yaml"
	fileInput.CharLimit = 1024

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		canGoBack:       canGoBack,
		fileInput:       fileInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrUnavailable}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = true
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEsc {
		if v.section == SectionOverview {
			if v.canGoBack {
				return v, func() tea.Msg { return messages.NavigateBack{} }
			}
			return v, nil
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionVariant:
		variants := domain.AllFeatureVariants()
		return v.handleListKeys(msg, len(variants), func(i int) tea.Cmd {
			return v.save(func(s driving.SettingsService) error { return s.SetVariant(variants[i]) })
		})
	case SectionPolicy:
		policies := domain.AllRefreshPolicies()
		return v.handleListKeys(msg, len(policies), func(i int) tea.Cmd {
			return v.save(func(s driving.SettingsService) error { return s.SetRefreshPolicy(policies[i]) })
		})
	case SectionFile:
		return v.handleFileKeys(msg)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewItems-1 {
			v.selected++
		}
	case keyEnter:
		v.saved = false
		switch v.selected {
		case 0:
			v.section = SectionVariant
			v.selected = v.variantIndex()
		case 1:
			v.section = SectionPolicy
			v.selected = v.policyIndex()
		case 2:
			v.section = SectionFile
			if v.settings != nil {
				v.fileInput.SetValue(v.settings.Feature.FilePath)
			}
			return v, v.fileInput.Focus()
		}
	case "q":
		return v, tea.Quit
	}
	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg, n int, choose func(int) tea.Cmd) (*View, tea.Cmd) {
	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < n-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < n {
			return v, choose(v.selected)
		}
	}
	return v, nil
}

func (v *View) handleFileKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		path := strings.TrimSpace(v.fileInput.Value())
		return v, v.save(func(s driving.SettingsService) error { return s.SetFilePath(path) })
	}
	var cmd tea.Cmd
	v.fileInput, cmd = v.fileInput.Update(msg)
	return v, cmd
}

// save runs apply against the settings service in a command.
func (v *View) save(apply func(driving.SettingsService) error) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrUnavailable}
		}
		return messages.SettingsSaved{Err: apply(svc)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.fileInput.Blur()
}

func (v *View) variantIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, variant := range domain.AllFeatureVariants() {
		if variant == v.settings.Feature.Variant {
			return i
		}
	}
	return 0
}

func (v *View) policyIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, p := range domain.AllRefreshPolicies() {
		if p == v.settings.Feature.RefreshPolicy {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	// Error display
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Loading state
	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionVariant:
		labels := make([]string, 0, len(domain.AllFeatureVariants()))
		current := -1
		for i, variant := range domain.AllFeatureVariants() {
			labels = append(labels, variant.Description())
			if variant == v.settings.Feature.Variant {
				current = i
			}
		}
		b.WriteString(v.renderSelect("Select Feature Variant", labels, current))
	case SectionPolicy:
		labels := make([]string, 0, len(domain.AllRefreshPolicies()))
		current := -1
		for i, p := range domain.AllRefreshPolicies() {
			labels = append(labels, p.Description())
			if p == v.settings.Feature.RefreshPolicy {
				current = i
			}
		}
		b.WriteString(v.renderSelect("Select Refresh Policy", labels, current))
	case SectionFile:
		b.WriteString(v.styles.Subtitle.Render("Feature File"))
		b.WriteString("\n\n")
		b.WriteString(v.fileInput.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("JSON, YAML or TOML, chosen by extension"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	f := v.settings.Feature

	file := f.FilePath
	if file == "" {
		file = "Not Set"
	}

	items := []struct {
		label string
		value string
	}{
		{label: "Variant", value: f.Variant.Description()},
		{label: "Refresh Policy", value: f.RefreshPolicy.Description()},
		{label: "Feature File", value: file},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	// Validation status
	b.WriteString("\n")
	if err := v.settingsService.Validate(); err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Warning: %s", err.Error())))
	} else {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
	}
	b.WriteString("\n")
	if v.saved {
		b.WriteString(v.styles.Muted.Render("Saved. Changes apply to screens opened after restart."))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderSelect(title string, labels []string, current int) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	for i, label := range labels {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		suffix := ""
		if i == current {
			suffix = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, label, suffix)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		if v.canGoBack {
			return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back  [q] quit")
		}
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [q] quit")
	case SectionVariant, SectionPolicy:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionFile:
		return v.styles.Help.Render("[enter] save  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.fileInput.Width = max(width-4, 10)
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}

// Close releases the view. It holds no resources.
func (v *View) Close() error {
	v.fileInput.Blur()
	return nil
}
