package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/viewmodel"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/views/feature"
	"github.com/custodia-labs/tmarch/internal/adapters/driving/tui/waypoint"
	"github.com/custodia-labs/tmarch/internal/core/domain"
)

var staticWaypoint = waypoint.Feature(feature.Descriptor{Variant: domain.FeatureVariantStatic})

// otherDestination is a destination the app does not know how to open.
type otherDestination struct{}

func (otherDestination) Key() string { return "other" }

func newTestApp(t *testing.T, start waypoint.Waypoint) *App {
	t.Helper()
	app, err := NewApp(NewPorts(newTestFactory(), &MockSettingsService{}), start)
	require.NoError(t, err)
	t.Cleanup(app.closeAll)
	app.SetDimensions(80, 24)
	return app
}

func topFeatureView(t *testing.T, app *App) *feature.View {
	t.Helper()
	v, ok := waypoint.FeatureView(app.Screen())
	require.True(t, ok, "top screen is not a feature screen")
	return v
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(NewPorts(newTestFactory(), nil), waypoint.Menu())

	require.NoError(t, err)
	require.NotNil(t, app)
	defer app.closeAll()
	assert.Equal(t, 1, app.Depth())
	current, ok := app.Current()
	require.True(t, ok)
	assert.Equal(t, waypoint.KindMenu, current.Kind())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{}, waypoint.Menu())

	assert.ErrorIs(t, err, ErrMissingFactory)
	assert.Nil(t, app)
}

func TestNewApp_StartUnavailable(t *testing.T) {
	start := waypoint.Feature(feature.Descriptor{Variant: domain.FeatureVariantSQLite})

	app, err := NewApp(NewPorts(newTestFactory(), nil), start)

	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	assert.NotNil(t, app.Init())
}

func TestApp_Title(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	assert.Equal(t, "tmarch - static", app.title())

	app.ports.Settings = &MockSettingsService{
		GetFunc: func() (*domain.AppSettings, error) { return nil, errors.New("boom") },
	}
	assert.Equal(t, "tmarch", app.title())

	app.ports.Settings = nil
	assert.Equal(t, "tmarch", app.title())
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(NewPorts(newTestFactory(), nil), waypoint.Menu())
	require.NoError(t, err)
	defer app.closeAll()

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_WindowSizeResizesScreens(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "tmarch")
	assert.Equal(t, 80, app.width)
	assert.Equal(t, 24, app.height)
}

func TestApp_NavigateToFeature(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	_, cmd := app.Update(messages.Navigate{To: staticWaypoint})

	assert.NotNil(t, cmd)
	assert.Equal(t, 2, app.Depth())
	current, _ := app.Current()
	assert.True(t, current.Equal(staticWaypoint))
	assert.True(t, topFeatureView(t, app).CanGoBack())
	assert.Contains(t, app.View(), feature.Title)
}

func TestApp_NavigateToCurrentIsNoOp(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	app.Update(messages.Navigate{To: staticWaypoint})
	before := app.Screen()

	_, cmd := app.Update(messages.Navigate{To: staticWaypoint})

	assert.Nil(t, cmd)
	assert.Equal(t, 2, app.Depth())
	assert.Same(t, before, app.Screen())
}

func TestApp_NavigateToDeeperWaypointPopsBack(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	app.Update(messages.Navigate{To: staticWaypoint})
	v := topFeatureView(t, app)

	app.Update(messages.Navigate{To: waypoint.Menu()})

	assert.Equal(t, 1, app.Depth())
	assert.Equal(t, []waypoint.Waypoint{waypoint.Menu()}, app.Stack())
	assert.ErrorIs(t, v.ViewModel().Refresh(context.Background()), viewmodel.ErrClosed)
}

func TestApp_NavigateUnknownDestination(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	_, cmd := app.Update(messages.Navigate{To: otherDestination{}})

	assert.Nil(t, cmd)
	assert.ErrorIs(t, app.Err(), ErrUnknownDestination)
	assert.Equal(t, 1, app.Depth())
	assert.Contains(t, app.View(), "unknown destination")
}

func TestApp_NavigateUnavailableVariant(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	sqlite := waypoint.Feature(feature.Descriptor{Variant: domain.FeatureVariantSQLite})

	app.Update(messages.Navigate{To: sqlite})

	assert.Error(t, app.Err())
	assert.Equal(t, 1, app.Depth())
}

func TestApp_NavigateBack(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	app.Update(messages.Navigate{To: staticWaypoint})
	v := topFeatureView(t, app)

	app.Update(messages.NavigateBack{})

	assert.Equal(t, 1, app.Depth())
	assert.ErrorIs(t, v.ViewModel().Refresh(context.Background()), viewmodel.ErrClosed)
}

func TestApp_PopAtRootIsNoOp(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	assert.Nil(t, app.Pop())
	assert.Equal(t, 1, app.Depth())
}

func TestApp_FeatureAsRootCannotGoBack(t *testing.T) {
	app := newTestApp(t, staticWaypoint)

	assert.False(t, topFeatureView(t, app).CanGoBack())
}

func TestApp_TargetedMessageRoutedToScreen(t *testing.T) {
	app := newTestApp(t, staticWaypoint)
	v := topFeatureView(t, app)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, v.ViewModel().InitialTask().Wait(ctx))

	snap := v.ViewModel().Snapshot()
	app.Update(messages.FeatureChanged{Key: staticWaypoint.Key(), Instance: v.Instance(), Snapshot: snap})

	assert.Equal(t, snap.Version, v.Snapshot().Version)
	assert.Contains(t, app.View(), "Feature Name")
}

func TestApp_TargetedMessageForClosedScreenDropped(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	_, cmd := app.Update(messages.FeatureRefreshed{Key: staticWaypoint.Key()})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, app.Depth())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})

	assert.EqualError(t, app.Err(), "disk full")
	assert.Contains(t, app.View(), "disk full")
}

func TestApp_NavigationClearsError(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})

	app.Update(messages.Navigate{To: staticWaypoint})

	assert.NoError(t, app.Err())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	app.Update(messages.Navigate{To: staticWaypoint})

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, app.Depth())
	_, ok := app.Current()
	assert.False(t, ok)
}

func TestApp_CtrlC(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, app.Depth())
}

func TestApp_KeysForwardedToTop(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.Navigate)
	require.True(t, ok)
	app.Update(msg)
	assert.Equal(t, 2, app.Depth())
}

func TestApp_SettingsScreenLoadsThroughRouting(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())

	cmd := app.Push(waypoint.Settings())
	require.NotNil(t, cmd)
	require.Equal(t, 2, app.Depth())

	msg := cmd()
	_, isTargeted := msg.(messages.Targeted)
	require.True(t, isTargeted)

	app.Update(msg)
	assert.Contains(t, app.View(), "Variant: "+domain.FeatureVariantStatic.Description())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, back := app.Update(messages.NavigateBack{})
	assert.Nil(t, back)
	assert.Equal(t, 1, app.Depth())
}

func TestApp_SettingsMessageDroppedAfterClose(t *testing.T) {
	app := newTestApp(t, waypoint.Menu())
	cmd := app.Push(waypoint.Settings())
	require.NotNil(t, cmd)
	app.Pop()

	_, next := app.Update(cmd())

	assert.Nil(t, next)
	assert.Equal(t, 1, app.Depth())
}

func TestApp_SpinnerTicksReachCoveredScreens(t *testing.T) {
	app := newTestApp(t, staticWaypoint)
	v := topFeatureView(t, app)
	require.NotNil(t, app.Push(waypoint.Settings()))

	_, cmd := app.Update(spinner.TickMsg{ID: v.SpinnerID(), Time: time.Now()})
	assert.NotNil(t, cmd, "the covered feature screen keeps ticking")

	_, cmd = app.Update(spinner.TickMsg{ID: v.SpinnerID() + 1000, Time: time.Now()})
	assert.Nil(t, cmd)
}
