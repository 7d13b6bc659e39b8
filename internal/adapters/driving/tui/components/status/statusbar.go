// Package status provides the status bar shown at the bottom of each screen.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/styles"
)

// Bar shows a status line on the left and key hints on the right.
type Bar struct {
	styles   *styles.Styles
	segments []string
	bindings []key.Binding
	err      bool
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{
		styles: s,
		width:  80,
	}
}

// View renders the status bar padded to its width.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.styles.Muted.Render(keymap.Footer(b.bindings))

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	if len(b.segments) == 0 {
		return b.styles.Muted.Render("Ready")
	}
	text := strings.Join(b.segments, " · ")
	if b.err {
		return b.styles.Error.Render(text)
	}
	return b.styles.Normal.Render(text)
}

// SetSegments replaces the left-hand status segments.
func (b *Bar) SetSegments(segments ...string) {
	b.segments = segments
	b.err = false
}

// SetError shows segments in the error style.
func (b *Bar) SetError(segments ...string) {
	b.segments = segments
	b.err = true
}

// Segments returns the current segments.
func (b *Bar) Segments() []string {
	return b.segments
}

// SetBindings sets the key hints.
func (b *Bar) SetBindings(bindings []key.Binding) {
	b.bindings = bindings
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}
