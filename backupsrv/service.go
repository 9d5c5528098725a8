// Package backupsrv creates, lists, annotates, deletes and restores game save backups on disk.
package backupsrv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"game-sl/archiver"
	"game-sl/constants"
	"game-sl/paths"
	"game-sl/trash"
	"game-sl/types"
	"game-sl/utils"
	"game-sl/utils/fileio"
)

var (
	// ErrSavePathMissing is returned when the resolved save directory does not exist.
	ErrSavePathMissing = errors.New("save path does not exist")
	// ErrBackupNotFound is returned when the named backup file is not in the backup directory.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrInvalidFileName is returned for file names that do not belong to the game or escape the backup directory.
	ErrInvalidFileName = errors.New("invalid backup file name")
)

// ConfigProvider defines the configuration access needed for backups.
type ConfigProvider interface {
	GetConfig() types.AppConfig
	UpdateLastSave(gameName string, timestamp int64) (types.AppConfig, error)
}

// EnvProvider builds the template environment for a selected account.
type EnvProvider interface {
	TemplateEnv(steamUID *string) types.TemplateEnv
}

// UIProvider defines logging and event emission.
type UIProvider interface {
	LogInfof(format string, args ...interface{})
	LogErrorf(format string, args ...interface{})
	EventsEmit(eventName string, args ...interface{})
}

// Service manages the backup folder.
type Service struct {
	config    ConfigProvider
	env       EnvProvider
	ui        UIProvider
	backupDir string
	trashDir  string

	// Now and FreeSpace are replaceable for tests.
	Now       func() time.Time
	FreeSpace func(path string) (uint64, error)
}

// New creates a new backup Service storing archives under workDir.
func New(cfg ConfigProvider, env EnvProvider, ui UIProvider, workDir string) *Service {
	return &Service{
		config:    cfg,
		env:       env,
		ui:        ui,
		backupDir: filepath.Join(workDir, constants.BackupDir),
		trashDir:  filepath.Join(workDir, constants.TrashDir),
		Now:       time.Now,
		FreeSpace: diskFree,
	}
}

func diskFree(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// BackupDir returns the backup folder, creating it if needed.
func (s *Service) BackupDir() (string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	return s.backupDir, nil
}

// TrashDir returns the folder deleted backups are moved to.
func (s *Service) TrashDir() string {
	return s.trashDir
}

func filePrefix(gameName string) string {
	return utils.SanitizeFileName(gameName) + "-Backup"
}

func remarkPath(archivePath string) string {
	return strings.TrimSuffix(archivePath, filepath.Ext(archivePath)) + constants.RemarkExt
}

// Backup archives the game's save directory, writes the optional remark sidecar and records lastSave.
func (s *Service) Backup(gameName, pathTemplate string, steamUID, remark *string) (types.BackupResponse, error) {
	savePath, err := paths.ResolveStrict(pathTemplate, s.env.TemplateEnv(steamUID))
	if err != nil {
		return types.BackupResponse{}, err
	}
	if !fileio.IsDir(savePath) {
		return types.BackupResponse{}, fmt.Errorf("%w: %s", ErrSavePathMissing, savePath)
	}

	now := s.Now()
	archivePath, err := s.createArchive(gameName, savePath, now)
	if err != nil {
		return types.BackupResponse{}, err
	}

	resp := types.BackupResponse{
		FileName:  filepath.Base(archivePath),
		FilePath:  archivePath,
		Timestamp: now.UnixMilli(),
	}

	if remark != nil && strings.TrimSpace(*remark) != "" {
		note := remarkPath(archivePath)
		if err := os.WriteFile(note, []byte(*remark), 0o644); err != nil {
			return types.BackupResponse{}, fmt.Errorf("failed to write remark: %w", err)
		}
		resp.RemarkPath = &note
	}

	cfg, err := s.config.UpdateLastSave(gameName, resp.Timestamp)
	if err != nil {
		return types.BackupResponse{}, err
	}
	resp.Config = cfg

	s.ui.LogInfof("Backup: %s saved to %s", gameName, resp.FileName)
	return resp, nil
}

// createArchive zips savePath into a new uniquely named file and returns its path.
func (s *Service) createArchive(gameName, savePath string, now time.Time) (string, error) {
	dir, err := s.BackupDir()
	if err != nil {
		return "", err
	}

	stem := fmt.Sprintf("%s%s%s", utils.SanitizeFileName(gameName), constants.BackupMarker, now.Format(constants.BackupStamp))
	archivePath := filepath.Join(dir, stem+archiver.ExtZip)
	for i := 2; fileio.Exists(archivePath); i++ {
		archivePath = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, archiver.ExtZip))
	}

	err = archiver.ZipDirectory(savePath, archivePath, func(done, total int64) {
		s.ui.EventsEmit(constants.EventBackupProgress, map[string]interface{}{
			"game":       gameName,
			"percentage": float64(done) / float64(total) * 100,
		})
	}, s.ui.LogErrorf)
	if err != nil {
		return "", err
	}
	return archivePath, nil
}

// List returns the game's backups, newest first. A missing backup folder yields an empty list.
func (s *Service) List(gameName string) ([]types.BackupEntry, error) {
	backups := []types.BackupEntry{}
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return backups, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	prefix := filePrefix(gameName)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !archiver.IsArchive(name) || !strings.HasPrefix(name, prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, s.describe(filepath.Join(s.backupDir, name), info))
	}

	sort.SliceStable(backups, func(i, j int) bool {
		a, b := backups[i].Timestamp, backups[j].Timestamp
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return *a > *b
	})
	return backups, nil
}

func (s *Service) describe(path string, info os.FileInfo) types.BackupEntry {
	entry := types.BackupEntry{
		FileName:   info.Name(),
		FilePath:   path,
		Size:       uint64(info.Size()),
		TimeSource: types.TimeSourceUnknown,
	}

	if t, err := utils.ParseBackupStamp(info.Name()); err == nil {
		ms := t.UnixMilli()
		entry.Timestamp = &ms
		entry.TimeSource = types.TimeSourceFileName
	} else if !info.ModTime().IsZero() {
		ms := info.ModTime().UnixMilli()
		entry.Timestamp = &ms
		entry.TimeSource = types.TimeSourceModifiedTime
	}

	if data, err := os.ReadFile(remarkPath(path)); err == nil {
		remark := string(data)
		entry.Remark = &remark
	}
	return entry
}

// archivePath validates fileName against the game and returns its absolute path.
func (s *Service) archivePath(gameName, fileName string) (string, error) {
	if fileName == "" || filepath.Base(fileName) != fileName || fileName == "." || fileName == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	if !strings.HasPrefix(fileName, filePrefix(gameName)) || !archiver.IsArchive(fileName) {
		return "", fmt.Errorf("%w: %q does not belong to %s", ErrInvalidFileName, fileName, gameName)
	}
	p := filepath.Join(s.backupDir, fileName)
	if !fileio.Exists(p) {
		return "", fmt.Errorf("%w: %s", ErrBackupNotFound, fileName)
	}
	return p, nil
}

// UpdateRemark rewrites the remark sidecar. A blank remark deletes it.
func (s *Service) UpdateRemark(gameName, fileName, remark string) error {
	p, err := s.archivePath(gameName, fileName)
	if err != nil {
		return err
	}
	note := remarkPath(p)
	if strings.TrimSpace(remark) == "" {
		if err := os.Remove(note); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete remark: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(note, []byte(remark), 0o644); err != nil {
		return fmt.Errorf("failed to write remark: %w", err)
	}
	return nil
}

// Delete moves the backup and its remark sidecar to the trash.
func (s *Service) Delete(gameName, fileName string) error {
	p, err := s.archivePath(gameName, fileName)
	if err != nil {
		return err
	}
	dest, err := trash.Move(s.trashDir, p, remarkPath(p))
	if err != nil {
		return err
	}
	s.ui.LogInfof("Delete: moved %s to %s", fileName, dest)
	return nil
}

// Trash lists deleted backup batches, newest first.
func (s *Service) Trash() ([]trash.Item, error) {
	return trash.List(s.trashDir)
}

// Untrash moves a deleted batch back into the backup folder.
func (s *Service) Untrash(name string) error {
	items, err := s.Trash()
	if err != nil {
		return err
	}
	dir, err := s.BackupDir()
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Name == name {
			if err := trash.Restore(item, dir); err != nil {
				return err
			}
			s.ui.LogInfof("Untrash: restored %s", name)
			return nil
		}
	}
	return fmt.Errorf("%w: trash entry %s", ErrBackupNotFound, name)
}
