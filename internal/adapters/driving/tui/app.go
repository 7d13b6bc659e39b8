package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/waypoint"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// entry is one screen on the navigation stack.
type entry struct {
	waypoint waypoint.Waypoint
	screen   waypoint.Renderable
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model and hosts screens on a navigation stack.
type App struct {
	// ports provides access to core services.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// stack holds the open screens, root first.
	stack []entry

	// initCmd is returned by Init for the root screen.
	initCmd tea.Cmd

	// err holds the last navigation error.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its dimensions.
	ready bool
}

// Ensure App implements tea.Model and waypoint.Coordinator.
var (
	_ tea.Model            = (*App)(nil)
	_ waypoint.Coordinator = (*App)(nil)
)

// NewApp creates a new TUI application showing start.
func NewApp(ports *Ports, start waypoint.Waypoint) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	a := &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: ports.Factory.Styles(),
	}

	screen, err := start.View(a.environment())
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	a.stack = append(a.stack, entry{waypoint: start, screen: screen})
	a.initCmd = screen.Init()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

func (a *App) environment() waypoint.Environment {
	return waypoint.Environment{
		Coordinator: a,
		Factory:     a.ports.Factory,
		Styles:      a.styles,
		Settings:    a.ports.Settings,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle(a.title()),
		a.initCmd,
	)
}

func (a *App) title() string {
	if a.ports.Settings == nil {
		return "tmarch"
	}
	settings, err := a.ports.Settings.Get()
	if err != nil {
		return "tmarch"
	}
	return "tmarch - " + settings.Feature.Variant.String()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		for _, e := range a.stack {
			e.screen.SetDimensions(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeAll()
			return a, tea.Quit
		}

	case messages.Navigate:
		w, ok := msg.To.(waypoint.Waypoint)
		if !ok {
			a.err = fmt.Errorf("%w: %v", ErrUnknownDestination, msg.To)
			return a, nil
		}
		return a, a.Push(w)

	case messages.NavigateBack:
		return a, a.Pop()

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		a.closeAll()
		return a, tea.Quit

	case messages.Targeted:
		return a, a.route(msg)

	case spinner.TickMsg:
		return a, a.broadcast(msg)
	}

	return a, a.updateTop(msg)
}

// route delivers a targeted message to the screen it belongs to.
// Messages for screens no longer on the stack are dropped.
func (a *App) route(msg messages.Targeted) tea.Cmd {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i].waypoint.Key() == msg.TargetKey() {
			var cmd tea.Cmd
			a.stack[i].screen, cmd = a.stack[i].screen.Update(msg)
			return cmd
		}
	}
	return nil
}

// broadcast delivers msg to every open screen. Spinner ticks carry the ID of
// the spinner they belong to, so screens below the top keep their tick chain.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.stack))
	for i := range a.stack {
		var cmd tea.Cmd
		a.stack[i].screen, cmd = a.stack[i].screen.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) updateTop(msg tea.Msg) tea.Cmd {
	if len(a.stack) == 0 {
		return nil
	}
	top := len(a.stack) - 1
	var cmd tea.Cmd
	a.stack[top].screen, cmd = a.stack[top].screen.Update(msg)
	return cmd
}

// Push shows w. Pushing the current waypoint does nothing; pushing one that
// is already deeper in the stack pops back to it.
func (a *App) Push(w waypoint.Waypoint) tea.Cmd {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i].waypoint.Equal(w) {
			a.truncate(i + 1)
			return nil
		}
	}

	screen, err := w.View(a.environment())
	if err != nil {
		logger.Warn("Opening %s: %v", w.Key(), err)
		a.err = err
		return nil
	}
	if a.ready {
		screen.SetDimensions(a.width, a.height)
	}
	a.err = nil
	a.stack = append(a.stack, entry{waypoint: w, screen: screen})
	return screen.Init()
}

// Pop closes the current screen. The root screen is never popped.
func (a *App) Pop() tea.Cmd {
	if len(a.stack) <= 1 {
		return nil
	}
	a.truncate(len(a.stack) - 1)
	a.err = nil
	return nil
}

// Depth returns the number of open screens.
func (a *App) Depth() int {
	return len(a.stack)
}

// Current returns the waypoint on top of the stack.
func (a *App) Current() (waypoint.Waypoint, bool) {
	if len(a.stack) == 0 {
		return waypoint.Waypoint{}, false
	}
	return a.stack[len(a.stack)-1].waypoint, true
}

// Stack returns the open waypoints, root first.
func (a *App) Stack() []waypoint.Waypoint {
	out := make([]waypoint.Waypoint, len(a.stack))
	for i, e := range a.stack {
		out[i] = e.waypoint
	}
	return out
}

// Screen returns the screen on top of the stack.
func (a *App) Screen() waypoint.Renderable {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1].screen
}

// truncate closes every screen at index n and above.
func (a *App) truncate(n int) {
	for i := len(a.stack) - 1; i >= n; i-- {
		if err := a.stack[i].screen.Close(); err != nil {
			logger.Warn("Closing %s: %v", a.stack[i].waypoint.Key(), err)
		}
	}
	a.stack = a.stack[:n]
}

func (a *App) closeAll() {
	a.truncate(0)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	screen := a.Screen()
	if screen == nil {
		return ""
	}
	out := screen.View()
	if a.err != nil {
		out += "\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return out
}

// Run starts the TUI application and closes every screen when it exits.
func (a *App) Run() error {
	defer a.closeAll()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// Err returns the last navigation error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
}
