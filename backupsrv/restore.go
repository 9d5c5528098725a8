package backupsrv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"game-sl/archiver"
	"game-sl/constants"
	"game-sl/paths"
	"game-sl/types"
	"game-sl/utils/fileio"
)

// ErrInsufficientSpace is returned by the check stage when the save volume cannot hold the backup.
var ErrInsufficientSpace = errors.New("not enough free space")

// restorePlan carries what the check stage validated to the later stages.
type restorePlan struct {
	gameName   string
	savePath   string
	backupPath string
	size       uint64
}

// Restore replaces the game's current saves with the content of backupPath.
// Stages run in order check, extra, delete, extract, update; a failure stops the run and is
// returned as a *types.StageError naming the stage.
func (s *Service) Restore(gameName, pathTemplate, backupPath string, steamUID *string) (types.RestoreResponse, error) {
	plan, err := s.checkRestore(gameName, pathTemplate, backupPath, steamUID)
	if err != nil {
		return types.RestoreResponse{}, s.stageFailed(types.StageCheck, gameName, err)
	}

	if err := s.extraBackup(plan); err != nil {
		return types.RestoreResponse{}, s.stageFailed(types.StageExtra, gameName, err)
	}

	if err := clearSaveDir(plan.savePath); err != nil {
		return types.RestoreResponse{}, s.stageFailed(types.StageDelete, gameName, err)
	}
	s.ui.LogInfof("Restore: cleared %s", plan.savePath)

	if err := archiver.Extract(plan.backupPath, plan.savePath); err != nil {
		return types.RestoreResponse{}, s.stageFailed(types.StageExtract, gameName, err)
	}
	s.ui.LogInfof("Restore: extracted %s into %s", filepath.Base(plan.backupPath), plan.savePath)

	cfg, err := s.config.UpdateLastSave(gameName, s.Now().UnixMilli())
	if err != nil {
		return types.RestoreResponse{}, s.stageFailed(types.StageUpdate, gameName, err)
	}

	s.ui.LogInfof("Restore: %s restored from %s", gameName, filepath.Base(plan.backupPath))
	return types.RestoreResponse{Config: cfg}, nil
}

func (s *Service) stageFailed(stage types.Stage, gameName string, err error) error {
	stageErr := types.NewStageError(stage, err)
	s.ui.LogErrorf("Restore: %s failed: %v", gameName, stageErr)
	return stageErr
}

func (s *Service) checkRestore(gameName, pathTemplate, backupPath string, steamUID *string) (restorePlan, error) {
	if _, ok := s.config.GetConfig().FindGame(gameName); !ok {
		return restorePlan{}, fmt.Errorf("game %q is not configured", gameName)
	}

	savePath, err := paths.ResolveStrict(pathTemplate, s.env.TemplateEnv(steamUID))
	if err != nil {
		return restorePlan{}, err
	}
	if fileio.Exists(savePath) && !fileio.IsDir(savePath) {
		return restorePlan{}, fmt.Errorf("save path is not a directory: %s", savePath)
	}

	backupPath = filepath.Clean(backupPath)
	rel, err := filepath.Rel(filepath.Clean(s.backupDir), backupPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return restorePlan{}, fmt.Errorf("%w: %s is outside the backup directory", ErrInvalidFileName, backupPath)
	}
	if _, err := s.archivePath(gameName, filepath.Base(backupPath)); err != nil {
		return restorePlan{}, err
	}

	size, err := archiver.UncompressedSize(backupPath)
	if err != nil {
		return restorePlan{}, fmt.Errorf("backup is unreadable: %w", err)
	}

	free, err := s.FreeSpace(existingAncestor(savePath))
	if err != nil {
		s.ui.LogErrorf("Restore: could not determine free space for %s: %v", savePath, err)
	} else if free < size {
		return restorePlan{}, fmt.Errorf("%w: need %d bytes, %d available", ErrInsufficientSpace, size, free)
	}

	return restorePlan{gameName: gameName, savePath: savePath, backupPath: backupPath, size: size}, nil
}

// existingAncestor walks up from p until it finds a path that exists.
func existingAncestor(p string) string {
	for {
		if fileio.Exists(p) {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

// extraBackup archives the current saves first when the restoreExtraBackup setting is on.
func (s *Service) extraBackup(plan restorePlan) error {
	if !ExtraBackupEnabled(s.config.GetConfig()) {
		return nil
	}
	entries, err := os.ReadDir(plan.savePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read current saves: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	archivePath, err := s.createArchive(plan.gameName, plan.savePath, s.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(remarkPath(archivePath), []byte(constants.ExtraBackupNote), 0o644); err != nil {
		return fmt.Errorf("failed to write remark: %w", err)
	}
	s.ui.LogInfof("Restore: extra backup written to %s", filepath.Base(archivePath))
	return nil
}

// ExtraBackupEnabled reads the restoreExtraBackup setting. Anything but an explicit false means on.
func ExtraBackupEnabled(cfg types.AppConfig) bool {
	v, ok := cfg.Settings[constants.SettingRestoreExtraBackup].(bool)
	return !ok || v
}

func clearSaveDir(savePath string) error {
	if err := fileio.RemoveContents(savePath); err != nil {
		return err
	}
	return os.MkdirAll(savePath, 0o755)
}
