// Package backend exposes the save manager operations the front-end and the CLI call.
package backend

import (
	"context"
	"errors"
	"strings"

	"game-sl/backupsrv"
	"game-sl/config"
	"game-sl/constants"
	"game-sl/paths"
	"game-sl/types"
	"game-sl/utils/fileio"
)

// ErrEmptyOrder is returned when ReorderGames is called without names.
var ErrEmptyOrder = errors.New("game order is empty")

// UIProvider defines logging and event emission.
type UIProvider interface {
	LogInfof(format string, args ...interface{})
	LogErrorf(format string, args ...interface{})
	EventsEmit(eventName string, args ...interface{})
}

// Local runs every operation in-process against the work directory.
type Local struct {
	paths.SystemEnv

	config  *config.ConfigManager
	backups *backupsrv.Service
	ui      UIProvider
}

// New wires a Local backend rooted at workDir. The config is loaded lazily by LoadConfig.
func New(cm *config.ConfigManager, ui UIProvider, workDir string) *Local {
	l := &Local{
		SystemEnv: paths.NewSystemEnv(),
		config:    cm,
		ui:        ui,
	}
	l.backups = backupsrv.New(cm, l, ui, workDir)
	return l
}

// Backups returns the backup service for callers that need progress hooks or the trash.
func (l *Local) Backups() *backupsrv.Service {
	return l.backups
}

// LoadConfig reads config.json, creating it if needed.
func (l *Local) LoadConfig(ctx context.Context) (types.AppConfig, error) {
	if err := l.config.Load(); err != nil {
		l.ui.LogErrorf("LoadConfig: %v", err)
		return types.AppConfig{}, err
	}
	return l.config.GetConfig(), nil
}

// GetUserFolder returns the user's home folder.
func (l *Local) GetUserFolder(ctx context.Context) (string, error) {
	return l.UserHome()
}

// GetSteamInstallDir returns the Steam folder, or nil when Steam is not installed.
func (l *Local) GetSteamInstallDir(ctx context.Context) (*string, error) {
	dir, err := l.SteamInstallDir()
	if err != nil || dir == "" {
		return nil, nil
	}
	return &dir, nil
}

// GetSteamUIDList lists the Steam accounts found on this machine. Failures yield an empty list.
func (l *Local) GetSteamUIDList(ctx context.Context) ([]string, error) {
	dir, err := l.SteamInstallDir()
	if err != nil {
		return []string{}, nil
	}
	return paths.ListSteamUIDs(dir), nil
}

// CheckSavePath reports whether the template resolves to an existing path.
// A template that cannot be fully resolved counts as missing.
func (l *Local) CheckSavePath(ctx context.Context, template string, steamUID *string) (bool, error) {
	if strings.Contains(template, constants.PlaceholderSteamUID) && steamUID == nil {
		return false, nil
	}
	resolved, err := paths.ResolveStrict(template, l.TemplateEnv(steamUID))
	if err != nil {
		return false, nil
	}
	return fileio.Exists(resolved), nil
}

// BackupGame archives the game's saves.
func (l *Local) BackupGame(ctx context.Context, gameName, pathTemplate string, steamUID, remark *string) (types.BackupResponse, error) {
	resp, err := l.backups.Backup(gameName, pathTemplate, steamUID, remark)
	if err != nil {
		l.ui.LogErrorf("BackupGame: %s: %v", gameName, err)
		return types.BackupResponse{}, err
	}
	l.emitConfig(resp.Config)
	return resp, nil
}

// ListBackups lists the game's backups, newest first.
func (l *Local) ListBackups(ctx context.Context, gameName string) ([]types.BackupEntry, error) {
	return l.backups.List(gameName)
}

// UpdateBackupRemark rewrites a backup's remark. A blank remark removes it.
func (l *Local) UpdateBackupRemark(ctx context.Context, gameName, fileName, remark string) error {
	return l.backups.UpdateRemark(gameName, fileName, remark)
}

// DeleteBackup moves a backup and its remark to the trash.
func (l *Local) DeleteBackup(ctx context.Context, gameName, fileName string) error {
	return l.backups.Delete(gameName, fileName)
}

// RestoreBackup replaces the game's saves with the backup. Failures are *types.StageError.
func (l *Local) RestoreBackup(ctx context.Context, gameName, pathTemplate, backupPath string, steamUID *string) (types.RestoreResponse, error) {
	resp, err := l.backups.Restore(gameName, pathTemplate, backupPath, steamUID)
	if err != nil {
		return types.RestoreResponse{}, err
	}
	l.emitConfig(resp.Config)
	return resp, nil
}

// GetBackupDir returns the backup folder, creating it if needed.
func (l *Local) GetBackupDir(ctx context.Context) (string, error) {
	return l.backups.BackupDir()
}

// SetSetting stores one settings key.
func (l *Local) SetSetting(ctx context.Context, key string, value any) (types.AppConfig, error) {
	cfg, err := l.config.UpdateSetting(key, value)
	if err != nil {
		l.ui.LogErrorf("SetSetting: %s: %v", key, err)
		return types.AppConfig{}, err
	}
	l.emitConfig(cfg)
	return cfg, nil
}

// ReorderGames persists a new game order.
func (l *Local) ReorderGames(ctx context.Context, order []string) (types.AppConfig, error) {
	if len(order) == 0 {
		return types.AppConfig{}, ErrEmptyOrder
	}
	cfg, err := l.config.ReorderGames(order)
	if err != nil {
		l.ui.LogErrorf("ReorderGames: %v", err)
		return types.AppConfig{}, err
	}
	l.emitConfig(cfg)
	return cfg, nil
}

func (l *Local) emitConfig(cfg types.AppConfig) {
	l.ui.EventsEmit(constants.EventConfigUpdated, cfg)
}
