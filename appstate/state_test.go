package appstate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-sl/constants"
	"game-sl/types"
)

// MockBackend implements Backend
type MockBackend struct {
	Config  types.AppConfig
	Home    string
	Steam   *string
	UIDs    []string
	LoadErr error

	mu       sync.Mutex
	Existing map[string]bool // keyed by template + "|" + uid
	CheckErr map[string]error
	Block    chan struct{}
	Checks   int

	LoadStarted chan struct{}
	LoadBlock   chan struct{}
}

func (m *MockBackend) LoadConfig(ctx context.Context) (types.AppConfig, error) {
	cfg := m.Config.Clone()
	if m.LoadStarted != nil {
		close(m.LoadStarted)
	}
	if m.LoadBlock != nil {
		<-m.LoadBlock
	}
	return cfg, m.LoadErr
}
func (m *MockBackend) GetUserFolder(ctx context.Context) (string, error) { return m.Home, nil }
func (m *MockBackend) GetSteamInstallDir(ctx context.Context) (*string, error) {
	return m.Steam, nil
}
func (m *MockBackend) GetSteamUIDList(ctx context.Context) ([]string, error) { return m.UIDs, nil }

func (m *MockBackend) CheckSavePath(ctx context.Context, template string, steamUID *string) (bool, error) {
	if m.Block != nil {
		<-m.Block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Checks++
	uid := ""
	if steamUID != nil {
		uid = *steamUID
	}
	key := template + "|" + uid
	if err := m.CheckErr[template]; err != nil {
		return false, err
	}
	return m.Existing[key], nil
}

// MockUIProvider implements UIProvider
type MockUIProvider struct {
	mu     sync.Mutex
	Events []string
	Errors []string
}

func (m *MockUIProvider) LogInfof(format string, args ...interface{}) {}
func (m *MockUIProvider) LogErrorf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, format)
}
func (m *MockUIProvider) EventsEmit(eventName string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, eventName)
}

func strPtr(s string) *string { return &s }

func newBackend() *MockBackend {
	return &MockBackend{
		Config: types.AppConfig{Games: []types.GameEntry{
			{Name: "Foo", Path: "{Home}/foo"},
			{Name: "Bar", Path: "{Steam}/userdata/{SteamUID}/bar"},
			{Name: "Baz", Path: "{Home}/baz"},
		}},
		Home:  "/home/u",
		Steam: strPtr("/steam"),
		UIDs:  []string{"111", "222"},
		Existing: map[string]bool{
			"{Home}/foo|111":                      true,
			"{Steam}/userdata/{SteamUID}/bar|222": true,
		},
		CheckErr: map[string]error{},
	}
}

func TestRefreshBaseInfo(t *testing.T) {
	b := newBackend()
	ui := &MockUIProvider{}
	s := New(b, ui)

	require.NoError(t, s.RefreshBaseInfo(context.Background()))
	assert.False(t, s.Loading())

	cfg, ok := s.Store.Snapshot()
	require.True(t, ok)
	assert.Equal(t, []string{"Foo", "Bar", "Baz"}, cfg.GameNames())
	assert.Equal(t, []string{"111", "222"}, s.Env.SteamUIDs())
	assert.True(t, s.Env.HasSteam())
	require.NotNil(t, s.Env.SelectedSteamUID())
	assert.Equal(t, "111", *s.Env.SelectedSteamUID(), "first account is selected")

	s.SelectSteamUID(strPtr("222"))
	require.NoError(t, s.RefreshBaseInfo(context.Background()))
	assert.Equal(t, "222", *s.Env.SelectedSteamUID(), "an existing selection is kept")
	assert.Contains(t, ui.Events, constants.EventConfigUpdated)
}

func TestRefreshBaseInfo_FailureAppliesNothing(t *testing.T) {
	b := newBackend()
	b.LoadErr = errors.New("disk gone")
	s := New(b, &MockUIProvider{})

	err := s.RefreshBaseInfo(context.Background())
	assert.ErrorContains(t, err, "disk gone")
	_, ok := s.Store.Snapshot()
	assert.False(t, ok)
	assert.Empty(t, s.Env.SteamUIDs())
}

func TestRefreshBaseInfo_KeepsNewerConfig(t *testing.T) {
	b := newBackend()
	ui := &MockUIProvider{}
	s := New(b, ui)
	require.NoError(t, s.RefreshBaseInfo(context.Background()))

	b.LoadStarted = make(chan struct{})
	b.LoadBlock = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.RefreshBaseInfo(context.Background()) }()
	<-b.LoadStarted

	reordered := b.Config.Clone()
	reordered.Games[0], reordered.Games[1] = reordered.Games[1], reordered.Games[0]
	s.Store.Replace(reordered)
	events := len(ui.Events)

	close(b.LoadBlock)
	require.NoError(t, <-done)

	cfg, ok := s.Store.Snapshot()
	require.True(t, ok)
	assert.Equal(t, []string{"Bar", "Foo", "Baz"}, cfg.GameNames())
	assert.Len(t, ui.Events, events, "no config event for a discarded load")
	assert.Equal(t, []string{"111", "222"}, s.Env.SteamUIDs())
}

func TestRefreshPathState(t *testing.T) {
	b := newBackend()
	b.CheckErr["{Home}/baz"] = errors.New("permission denied")
	ui := &MockUIProvider{}
	s := New(b, ui)

	require.NoError(t, s.RefreshPathState(context.Background()), "no config yet is a no-op")
	assert.Equal(t, 0, b.Checks)

	require.NoError(t, s.RefreshBaseInfo(context.Background()))
	require.NoError(t, s.RefreshPathState(context.Background()))

	states := s.PathStates()
	require.Len(t, states, 3)
	assert.True(t, states["Foo"].Exists)
	assert.Equal(t, "/home/u/foo", states["Foo"].Resolved)
	assert.False(t, states["Bar"].Exists)
	assert.Equal(t, "/steam/userdata/111/bar", states["Bar"].Resolved)
	assert.False(t, states["Baz"].Exists, "a failed check counts as missing")
	assert.Len(t, ui.Errors, 1)
	assert.Contains(t, ui.Events, constants.EventPathState)

	assert.True(t, s.PathKnown("Foo"))
	assert.False(t, s.PathKnown("Unknown"))
}

func TestPathKnown_InvalidatedByEnvironmentChange(t *testing.T) {
	b := newBackend()
	s := New(b, &MockUIProvider{})
	require.NoError(t, s.RefreshBaseInfo(context.Background()))
	require.NoError(t, s.RefreshPathState(context.Background()))
	require.True(t, s.PathKnown("Bar"))

	s.SelectSteamUID(strPtr("222"))
	assert.False(t, s.PathKnown("Bar"))

	require.NoError(t, s.RefreshPathState(context.Background()))
	assert.True(t, s.PathKnown("Bar"))
	ps, ok := s.PathState("Bar")
	require.True(t, ok)
	assert.True(t, ps.Exists)
	assert.True(t, strings.HasSuffix(ps.Resolved, "/222/bar"))
}

func TestRefreshPathState_RejectsOverlap(t *testing.T) {
	b := newBackend()
	s := New(b, &MockUIProvider{})
	require.NoError(t, s.RefreshBaseInfo(context.Background()))

	b.Block = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.RefreshPathState(context.Background()) }()

	require.Eventually(t, s.Checking, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.RefreshPathState(context.Background()), ErrCheckInFlight)

	close(b.Block)
	require.NoError(t, <-done)
	assert.False(t, s.Checking())
}

func TestUsable(t *testing.T) {
	b := newBackend()
	s := New(b, &MockUIProvider{})
	require.NoError(t, s.RefreshBaseInfo(context.Background()))

	foo := types.GameEntry{Name: "Foo", Path: "{Home}/foo"}
	assert.ErrorIs(t, s.Usable(foo), ErrPathUnknown)

	require.NoError(t, s.RefreshPathState(context.Background()))
	assert.NoError(t, s.Usable(foo))
	assert.ErrorIs(t, s.Usable(types.GameEntry{Name: "Baz", Path: "{Home}/baz"}), ErrSaveMissing)

	steamFoo := foo
	steamFoo.Type = types.GameTypeSteam
	assert.NoError(t, s.Usable(steamFoo))

	b.Steam = nil
	require.NoError(t, s.RefreshBaseInfo(context.Background()))
	assert.ErrorIs(t, s.Usable(steamFoo), ErrSteamNotDetected)
	assert.ErrorIs(t, s.Usable(foo), ErrPathUnknown, "steam dir change invalidates path states")
}
