package main

import (
	"context"
	"net/url"
	"path/filepath"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"game-sl/config"
	"game-sl/restore"
	"game-sl/session"
	"game-sl/settings"
	"game-sl/types"
	"game-sl/utils"
)

// App struct
type App struct {
	ctx     context.Context
	session *session.Session
}

// Snapshot is everything the main page renders.
type Snapshot struct {
	Config      types.AppConfig            `json:"config"`
	UserFolder  string                     `json:"userFolder"`
	HasSteam    bool                       `json:"hasSteam"`
	SteamUIDs   []string                   `json:"steamUIDs"`
	SelectedUID *string                    `json:"selectedSteamUID"`
	PathState   map[string]types.PathState `json:"pathState"`
	Preferences settings.Preferences       `json:"preferences"`
	Loading     bool                       `json:"loading"`
	Checking    bool                       `json:"checkingPaths"`
}

// NewApp creates a new App application struct
func NewApp(cm *config.ConfigManager, workDir string) *App {
	a := &App{}
	a.session = session.New(cm, a, workDir)
	return a
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	go func() {
		if err := a.session.Refresh(ctx); err != nil {
			a.LogErrorf("Startup refresh failed: %v", err)
		}
	}()
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// LogInfof logs through the Wails runtime once it is running.
func (a *App) LogInfof(format string, args ...interface{}) {
	if a.ctx != nil {
		wailsRuntime.LogInfof(a.ctx, format, args...)
	}
}

// LogErrorf logs through the Wails runtime once it is running.
func (a *App) LogErrorf(format string, args ...interface{}) {
	if a.ctx != nil {
		wailsRuntime.LogErrorf(a.ctx, format, args...)
	}
}

// EventsEmit forwards an event to the front-end once it is running.
func (a *App) EventsEmit(eventName string, args ...interface{}) {
	if a.ctx != nil {
		wailsRuntime.EventsEmit(a.ctx, eventName, args...)
	}
}

// GetSnapshot returns the current client state.
func (a *App) GetSnapshot() Snapshot {
	st := a.session.State
	cfg, _ := st.Store.Snapshot()
	env := st.Env.TemplateEnv()
	return Snapshot{
		Config:      cfg,
		UserFolder:  env.UserFolder,
		HasSteam:    st.Env.HasSteam(),
		SteamUIDs:   st.Env.SteamUIDs(),
		SelectedUID: env.SteamUID,
		PathState:   st.PathStates(),
		Preferences: settings.FromConfig(cfg),
		Loading:     st.Loading(),
		Checking:    st.Checking(),
	}
}

// RefreshBaseInfo reloads config, user folder and Steam accounts.
func (a *App) RefreshBaseInfo() error {
	return a.session.State.RefreshBaseInfo(a.context())
}

// RefreshPathState re-checks every game's save path.
func (a *App) RefreshPathState() error {
	return a.session.State.RefreshPathState(a.context())
}

// SelectSteamUID switches the Steam account. An empty uid clears the selection.
func (a *App) SelectSteamUID(uid string) error {
	var sel *string
	if uid != "" {
		sel = &uid
	}
	a.session.State.SelectSteamUID(sel)
	return a.session.State.RefreshPathState(a.context())
}

// ResolveTemplate renders a path template for display.
func (a *App) ResolveTemplate(template string) string {
	return a.session.State.Env.Resolve(template)
}

// CreateBackup backs up a game's saves with an optional remark.
func (a *App) CreateBackup(gameName, remark string) (types.BackupResponse, error) {
	game, err := a.session.Game(gameName)
	if err != nil {
		return types.BackupResponse{}, err
	}
	return a.session.Catalog.CreateBackup(a.context(), game, a.session.State.Env.SelectedSteamUID(), remark)
}

// ListBackups lists a game's backups, newest first.
func (a *App) ListBackups(gameName string) ([]types.BackupEntry, error) {
	return a.session.Catalog.ListBackups(a.context(), gameName)
}

// EditRemark changes a backup's remark.
func (a *App) EditRemark(gameName, fileName, remark string) error {
	return a.session.Catalog.EditRemark(a.context(), gameName, fileName, remark)
}

// DeleteBackup moves a backup to the trash.
func (a *App) DeleteBackup(gameName, fileName string) error {
	return a.session.Catalog.DeleteBackup(a.context(), gameName, fileName)
}

// RestoreBackup restores a listed backup. Progress arrives as restore-state events.
func (a *App) RestoreBackup(gameName, fileName string) error {
	game, err := a.session.Game(gameName)
	if err != nil {
		return err
	}
	entry, err := a.findListed(gameName, fileName)
	if err != nil {
		return err
	}
	return a.session.Restore.Restore(a.context(), game, entry)
}

func (a *App) findListed(gameName, fileName string) (types.BackupEntry, error) {
	st := a.session.Catalog.State()
	if st.Game == gameName {
		for _, item := range st.Items {
			if item.FileName == fileName {
				return item, nil
			}
		}
	}
	return a.session.FindBackup(a.context(), gameName, fileName)
}

// GetRestoreState returns the restore overlay state.
func (a *App) GetRestoreState() restore.State {
	return a.session.Restore.State()
}

// CloseRestore dismisses a finished restore.
func (a *App) CloseRestore() bool {
	return a.session.Restore.Close()
}

// MoveGameUp moves a game one place up.
func (a *App) MoveGameUp(gameName string) error {
	return a.session.Ordering.MoveUp(a.context(), gameName)
}

// MoveGameDown moves a game one place down.
func (a *App) MoveGameDown(gameName string) error {
	return a.session.Ordering.MoveDown(a.context(), gameName)
}

// PinGameTop moves a game to the top.
func (a *App) PinGameTop(gameName string) error {
	return a.session.Ordering.PinToTop(a.context(), gameName)
}

// SetUseRelativeTime stores the relative time preference.
func (a *App) SetUseRelativeTime(enabled bool) error {
	return a.session.Settings.SetUseRelativeTime(a.context(), enabled)
}

// SetRestoreExtraBackup stores the pre-restore backup preference.
func (a *App) SetRestoreExtraBackup(enabled bool) error {
	return a.session.Settings.SetRestoreExtraBackup(a.context(), enabled)
}

// FormatLastSave renders a game's last save time using the relative time preference.
func (a *App) FormatLastSave(gameName string) string {
	game, err := a.session.Game(gameName)
	if err != nil {
		return ""
	}
	return utils.FormatLastSave(time.Now(), game.LastSave, a.session.Settings.Current().UseRelativeTime)
}

// GetGameIcon returns the game's icon as a data URI.
func (a *App) GetGameIcon(gameName string) (string, error) {
	game, err := a.session.Game(gameName)
	if err != nil {
		return "", err
	}
	return a.session.Icons.Normalize(a.context(), game.Icon)
}

// OpenBackupFolder opens the backup folder in the system file browser.
func (a *App) OpenBackupFolder() error {
	dir, err := a.session.Backend.GetBackupDir(a.context())
	if err != nil {
		return err
	}
	if a.ctx != nil {
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(dir)}
		wailsRuntime.BrowserOpenURL(a.ctx, u.String())
	}
	return nil
}
