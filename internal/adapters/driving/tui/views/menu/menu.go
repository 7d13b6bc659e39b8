// Package menu provides the variant picker shown at the root of the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label  string
	Detail string
	To     messages.Destination
	Quit   bool // If true, selecting this item quits the app
}

// View represents the menu.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	bar      *status.Bar
	title    string
	subtitle string
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a menu with the given items followed by a Quit entry.
func NewView(s *styles.Styles, title, subtitle string, items []Item) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	all := make([]Item, 0, len(items)+1)
	all = append(all, items...)
	all = append(all, Item{Label: "Quit", Quit: true})

	v := &View{
		styles:   s,
		keys:     keymap.DefaultKeyMap(),
		bar:      status.NewBar(s),
		title:    title,
		subtitle: subtitle,
		items:    all,
		width:    80,
		height:   24,
	}
	v.bar.SetBindings(v.keys.MenuHelp())
	return v
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keys.Up):
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case keymap.Matches(key, v.keys.Down):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case keymap.Matches(key, v.keys.Select):
			item := v.items[v.selected]
			if item.Quit || item.To == nil {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.Navigate{To: item.To}
			}

		case key == "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.title))
	b.WriteString("\n")
	if v.subtitle != "" {
		b.WriteString(v.styles.Subtitle.Render(v.subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(item.Label))
		if item.Detail != "" {
			b.WriteString(" ")
			b.WriteString(v.styles.Muted.Render(item.Detail))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
}

// SetStatus sets the status bar segments.
func (v *View) SetStatus(segments ...string) {
	v.bar.SetSegments(segments...)
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items, including the trailing Quit entry.
func (v *View) Items() []Item {
	return v.items
}
