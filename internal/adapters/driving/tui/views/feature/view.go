// Package feature provides the feature screen and the factory that wires it.
package feature

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/viewmodel"
)

// Title is the heading of the feature screen.
const Title = "Feature View"

// instances numbers views so messages from closed screens can be told apart.
var instances atomic.Uint64

// ViewOption configures a View.
type ViewOption func(*View)

// WithBackNavigation enables the back key.
func WithBackNavigation(enabled bool) ViewOption {
	return func(v *View) { v.canGoBack = enabled }
}

// WithChanges makes the view refresh whenever changes fires.
func WithChanges(changes <-chan struct{}) ViewOption {
	return func(v *View) { v.changes = changes }
}

// WithCloser registers a resource released by Close.
func WithCloser(c io.Closer) ViewOption {
	return func(v *View) {
		if c != nil {
			v.closers = append(v.closers, c)
		}
	}
}

// View renders a FeatureViewModel.
type View struct {
	styles     *styles.Styles
	keys       *keymap.KeyMap
	bar        *status.Bar
	spinner    spinner.Model
	descriptor Descriptor
	instance   uint64
	vm         *viewmodel.FeatureViewModel

	snapshot    viewmodel.Snapshot
	updates     chan viewmodel.Snapshot
	done        chan struct{}
	changes     <-chan struct{}
	closers     []io.Closer
	unsubscribe func()
	closeOnce   sync.Once

	canGoBack  bool
	refreshing int
	width      int
	height     int
	ready      bool
}

// NewView creates a feature screen observing vm.
func NewView(s *styles.Styles, d Descriptor, vm *viewmodel.FeatureViewModel, opts ...ViewOption) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:     s,
		keys:       keymap.DefaultKeyMap(),
		bar:        status.NewBar(s),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		descriptor: d,
		instance:   instances.Add(1),
		vm:         vm,
		updates:    make(chan viewmodel.Snapshot, 1),
		done:       make(chan struct{}),
		width:      80,
		height:     24,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.unsubscribe = vm.Subscribe(v.push)
	v.snapshot = vm.Snapshot()
	v.syncBar()
	return v
}

// push stores the latest snapshot, replacing an unread one.
func (v *View) push(s viewmodel.Snapshot) {
	for {
		select {
		case v.updates <- s:
			return
		default:
		}
		select {
		case <-v.updates:
		default:
		}
	}
}

// Init starts observing the view model.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.waitForSnapshot(), v.waitForChange())
}

func (v *View) waitForSnapshot() tea.Cmd {
	key, instance := v.descriptor.Key(), v.instance
	return func() tea.Msg {
		select {
		case <-v.done:
			return nil
		case s := <-v.updates:
			return messages.FeatureChanged{Key: key, Instance: instance, Snapshot: s}
		}
	}
}

func (v *View) waitForChange() tea.Cmd {
	if v.changes == nil {
		return nil
	}
	key, instance := v.descriptor.Key(), v.instance
	return func() tea.Msg {
		select {
		case _, ok := <-v.changes:
			if !ok {
				return nil
			}
			return messages.FeatureSourceChanged{Key: key, Instance: instance}
		case <-v.done:
			return nil
		}
	}
}

func (v *View) refresh() tea.Cmd {
	v.refreshing++
	v.syncBar()
	key, instance := v.descriptor.Key(), v.instance
	vm := v.vm
	return func() tea.Msg {
		return messages.FeatureRefreshed{Key: key, Instance: instance, Err: vm.Refresh(context.Background())}
	}
}

// Update handles messages for the feature screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.FeatureChanged:
		if msg.Instance != v.instance {
			return v, nil
		}
		if msg.Snapshot.Version > v.snapshot.Version {
			v.snapshot = msg.Snapshot
			v.syncBar()
		}
		return v, v.waitForSnapshot()

	case messages.FeatureRefreshed:
		if msg.Instance != v.instance {
			return v, nil
		}
		if v.refreshing > 0 {
			v.refreshing--
		}
		v.syncBar()
		return v, nil

	case messages.FeatureSourceChanged:
		if msg.Instance != v.instance {
			return v, nil
		}
		return v, tea.Batch(v.refresh(), v.waitForChange())

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keys.Refresh):
			return v, v.refresh()
		case keymap.Matches(key, v.keys.Back):
			if v.canGoBack {
				return v, func() tea.Msg { return messages.NavigateBack{} }
			}
		case key == "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(Title))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(v.descriptor.Variant.Description()))
	b.WriteString("\n\n")

	switch v.snapshot.State {
	case viewmodel.StateUninitialized:
		b.WriteString(v.spinner.View())
		b.WriteString(" ")
		b.WriteString(v.styles.Muted.Render("Loading…"))
		b.WriteString("\n")

	case viewmodel.StatePopulated:
		p := v.snapshot.Projection
		if p == nil {
			break
		}
		b.WriteString(v.styles.Label.Render("Name:"))
		b.WriteString(" ")
		b.WriteString(v.styles.Normal.Render(p.Name))
		b.WriteString("\n")
		if p.HasDescription() {
			b.WriteString(v.styles.Label.Render("Description:"))
			b.WriteString(" ")
			b.WriteString(v.styles.Normal.Render(*p.Description))
			b.WriteString("\n")
		}

	case viewmodel.StateFailed:
		failure := v.styles.Error.Render("Error: "+reason(v.snapshot.Err)) + "\n" +
			v.styles.Muted.Render("Press u to retry")
		b.WriteString(v.styles.Failure.Render(failure))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())

	return b.String()
}

func reason(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}

func (v *View) syncBar() {
	v.bar.SetBindings(v.keys.FeatureHelp(v.canGoBack))

	segments := []string{string(v.vm.Policy()), fmt.Sprintf("v%d", v.snapshot.Version)}
	if v.refreshing > 0 {
		segments = append(segments, "refreshing…")
	}
	if v.snapshot.State == viewmodel.StateFailed {
		v.bar.SetError(segments...)
		return
	}
	v.bar.SetSegments(segments...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
}

// Close stops observation, cancels in-flight fetches and releases resources.
func (v *View) Close() error {
	var errs []error
	v.closeOnce.Do(func() {
		close(v.done)
		v.unsubscribe()
		v.vm.Close()
		for _, c := range v.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// Descriptor returns the descriptor the screen was built from.
func (v *View) Descriptor() Descriptor {
	return v.descriptor
}

// ViewModel returns the observed view model.
func (v *View) ViewModel() *viewmodel.FeatureViewModel {
	return v.vm
}

// Snapshot returns the last snapshot the screen rendered.
func (v *View) Snapshot() viewmodel.Snapshot {
	return v.snapshot
}

// CanGoBack reports whether the back key is enabled.
func (v *View) CanGoBack() bool {
	return v.canGoBack
}

// Refreshing reports whether a user-requested refresh is running.
func (v *View) Refreshing() bool {
	return v.refreshing > 0
}

// Instance returns the number that tags this screen's messages.
func (v *View) Instance() uint64 {
	return v.instance
}

// SpinnerID returns the ID of the loading spinner.
func (v *View) SpinnerID() int {
	return v.spinner.ID()
}
