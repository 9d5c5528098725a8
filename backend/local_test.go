package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-sl/config"
	"game-sl/constants"
	"game-sl/paths"
	"game-sl/types"
)

// MockUIProvider implements UIProvider
type MockUIProvider struct {
	Events []string
}

func (m *MockUIProvider) LogInfof(format string, args ...interface{})  {}
func (m *MockUIProvider) LogErrorf(format string, args ...interface{}) {}
func (m *MockUIProvider) EventsEmit(eventName string, args ...interface{}) {
	m.Events = append(m.Events, eventName)
}

type fixture struct {
	local *Local
	ui    *MockUIProvider
	home  string
	steam string
}

func newFixture(t *testing.T, games ...types.GameEntry) *fixture {
	t.Helper()
	root := t.TempDir()
	home := filepath.Join(root, "home")
	steam := filepath.Join(root, "Steam")
	require.NoError(t, os.MkdirAll(home, 0o755))

	cm := &config.ConfigManager{
		ConfigPath: filepath.Join(root, "work", constants.ConfigFileName),
		Config:     config.DefaultConfig(),
	}
	cfg := *config.DefaultConfig()
	cfg.Games = games
	require.NoError(t, cm.Save(cfg))

	ui := &MockUIProvider{}
	l := New(cm, ui, filepath.Join(root, "work"))
	l.UserHome = func() (string, error) { return home, nil }
	l.SteamInstallDir = func() (string, error) { return steam, nil }
	return &fixture{local: l, ui: ui, home: home, steam: steam}
}

func strPtr(s string) *string { return &s }

func TestGetSteamInstallDir(t *testing.T) {
	f := newFixture(t)
	dir, err := f.local.GetSteamInstallDir(context.Background())
	require.NoError(t, err)
	require.NotNil(t, dir)
	assert.Equal(t, f.steam, *dir)

	f.local.SteamInstallDir = func() (string, error) { return "", paths.ErrSteamNotFound }
	dir, err = f.local.GetSteamInstallDir(context.Background())
	require.NoError(t, err)
	assert.Nil(t, dir)

	uids, err := f.local.GetSteamUIDList(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, uids)
	assert.Empty(t, uids)
}

func TestGetSteamUIDList(t *testing.T) {
	f := newFixture(t)
	for _, d := range []string{"222", "111", "config"} {
		require.NoError(t, os.MkdirAll(filepath.Join(f.steam, "userdata", d), 0o755))
	}
	uids, err := f.local.GetSteamUIDList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, uids)
}

func TestCheckSavePath(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(f.home, "saves"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.steam, "userdata", "42", "730"), 0o755))
	ctx := context.Background()

	ok, err := f.local.CheckSavePath(ctx, "{Home}/saves", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = f.local.CheckSavePath(ctx, `{UserFolder}\saves`, nil)
	assert.True(t, ok)

	ok, _ = f.local.CheckSavePath(ctx, "{Home}/missing", nil)
	assert.False(t, ok)

	ok, _ = f.local.CheckSavePath(ctx, "{Steam}/userdata/{SteamUID}/730", nil)
	assert.False(t, ok, "no account selected")

	ok, _ = f.local.CheckSavePath(ctx, "{Steam}/userdata/{SteamUID}/730", strPtr("42"))
	assert.True(t, ok)
}

// CheckSavePath and the display resolver must agree on what a template points at.
func TestCheckSavePath_AgreesWithResolve(t *testing.T) {
	f := newFixture(t)
	existing := []string{
		filepath.Join(f.home, "AppData", "Roaming", "Foo"),
		filepath.Join(f.home, "Documents", "Bar"),
		filepath.Join(f.steam, "userdata", "7", "100"),
	}
	for _, d := range existing {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}

	templates := []string{
		`{AppData}\Roaming\Foo`,
		"{UserFolder}/Documents/Bar",
		"{Home}/Documents/Bar",
		"{Home}/Documents/Baz",
		"{Steam}/userdata/{SteamUID}/100",
		"{Steam}/userdata/{SteamUID}/200",
		"{Unknown}/x",
	}
	uids := []*string{nil, strPtr("7"), strPtr("8")}

	for _, tmpl := range templates {
		for _, uid := range uids {
			env := f.local.TemplateEnv(uid)
			resolved := paths.Resolve(tmpl, env)
			_, statErr := os.Stat(paths.Localize(resolved))
			want := len(paths.Unresolved(resolved)) == 0 && statErr == nil

			got, err := f.local.CheckSavePath(context.Background(), tmpl, uid)
			require.NoError(t, err)
			assert.Equal(t, want, got, "template %q uid %v", tmpl, uid)
		}
	}
}

func TestBackupListRestore(t *testing.T) {
	f := newFixture(t, types.GameEntry{Name: "Foo", Path: "{Home}/saves"})
	saves := filepath.Join(f.home, "saves")
	require.NoError(t, os.MkdirAll(saves, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(saves, "a.sav"), []byte("v1"), 0o644))
	ctx := context.Background()

	resp, err := f.local.BackupGame(ctx, "Foo", "{Home}/saves", nil, strPtr("v1"))
	require.NoError(t, err)
	require.NotNil(t, resp.Config.Games[0].LastSave)
	assert.Contains(t, f.ui.Events, constants.EventConfigUpdated)

	list, err := f.local.ListBackups(ctx, "Foo")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "v1", *list[0].Remark)

	require.NoError(t, f.local.UpdateBackupRemark(ctx, "Foo", resp.FileName, "first"))

	require.NoError(t, os.WriteFile(filepath.Join(saves, "a.sav"), []byte("v2"), 0o644))
	_, err = f.local.RestoreBackup(ctx, "Foo", "{Home}/saves", resp.FilePath, nil)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(saves, "a.sav"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	require.NoError(t, f.local.DeleteBackup(ctx, "Foo", resp.FileName))
	list, err = f.local.ListBackups(ctx, "Foo")
	require.NoError(t, err)
	assert.Len(t, list, 1, "only the automatic pre-restore backup is left")
}

func TestRestoreBackup_StageError(t *testing.T) {
	f := newFixture(t, types.GameEntry{Name: "Foo", Path: "{Home}/saves"})
	_, err := f.local.RestoreBackup(context.Background(), "Foo", "{Home}/saves", filepath.Join(f.home, "nope.zip"), nil)
	var stageErr *types.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, types.StageCheck, stageErr.Stage)
}

func TestSetSetting(t *testing.T) {
	f := newFixture(t)
	cfg, err := f.local.SetSetting(context.Background(), constants.SettingUseRelativeTime, false)
	require.NoError(t, err)
	assert.Equal(t, false, cfg.Settings[constants.SettingUseRelativeTime])

	_, err = f.local.SetSetting(context.Background(), "", true)
	assert.Error(t, err)
}

func TestReorderGames(t *testing.T) {
	f := newFixture(t,
		types.GameEntry{Name: "A", Path: "{Home}/a"},
		types.GameEntry{Name: "B", Path: "{Home}/b"},
		types.GameEntry{Name: "C", Path: "{Home}/c"},
	)
	cfg, err := f.local.ReorderGames(context.Background(), []string{"C", "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, cfg.GameNames())

	_, err = f.local.ReorderGames(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestLoadConfigAndBackupDir(t *testing.T) {
	f := newFixture(t, types.GameEntry{Name: "Foo", Path: "{Home}/saves"})
	cfg, err := f.local.LoadConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo"}, cfg.GameNames())

	dir, err := f.local.GetBackupDir(context.Background())
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, constants.BackupDir, filepath.Base(dir))
}
