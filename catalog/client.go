// Package catalog keeps the client-side list of a game's backups in sync with the backend.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"game-sl/constants"
	"game-sl/types"
)

// ErrDeleteInFlight is returned when the same backup is already being deleted.
var ErrDeleteInFlight = errors.New("delete already in progress")

// Backend defines the backup operations the catalog calls.
type Backend interface {
	BackupGame(ctx context.Context, gameName, pathTemplate string, steamUID, remark *string) (types.BackupResponse, error)
	ListBackups(ctx context.Context, gameName string) ([]types.BackupEntry, error)
	UpdateBackupRemark(ctx context.Context, gameName, fileName, remark string) error
	DeleteBackup(ctx context.Context, gameName, fileName string) error
}

// ConfigStore receives the configuration returned by a backup.
type ConfigStore interface {
	Replace(cfg types.AppConfig) uint64
}

// Gate reports why a game cannot be backed up right now, or nil.
type Gate interface {
	Usable(game types.GameEntry) error
}

// UIProvider defines logging and event emission.
type UIProvider interface {
	LogInfof(format string, args ...interface{})
	LogErrorf(format string, args ...interface{})
	EventsEmit(eventName string, args ...interface{})
}

// State is the cached backup list of one game.
type State struct {
	Game     string              `json:"game"`
	Items    []types.BackupEntry `json:"items"`
	Loading  bool                `json:"loading"`
	Deleting map[string]bool     `json:"deleting"`
}

// Client mutates State in response to backend results.
type Client struct {
	backend Backend
	store   ConfigStore
	gate    Gate
	ui      UIProvider

	mu      sync.Mutex
	state   State
	listSeq uint64
}

// New creates a Client with an empty list.
func New(backend Backend, store ConfigStore, gate Gate, ui UIProvider) *Client {
	return &Client{
		backend: backend,
		store:   store,
		gate:    gate,
		ui:      ui,
		state:   State{Items: []types.BackupEntry{}, Deleting: map[string]bool{}},
	}
}

// State returns a copy of the cached list.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Client) snapshot() State {
	st := State{
		Game:     c.state.Game,
		Items:    append([]types.BackupEntry{}, c.state.Items...),
		Loading:  c.state.Loading,
		Deleting: make(map[string]bool, len(c.state.Deleting)),
	}
	for k, v := range c.state.Deleting {
		st.Deleting[k] = v
	}
	return st
}

// publish emits the state. Callers hold c.mu.
func (c *Client) publish() {
	c.ui.EventsEmit(constants.EventBackupList, c.snapshot())
}

// normalizeRemark trims a remark and maps an empty one to nil.
func normalizeRemark(remark string) *string {
	r := strings.TrimSpace(remark)
	if r == "" {
		return nil
	}
	return &r
}

// CreateBackup backs up game's saves and replaces the configuration with the response.
// Games the gate rejects never reach the backend.
func (c *Client) CreateBackup(ctx context.Context, game types.GameEntry, steamUID *string, remark string) (types.BackupResponse, error) {
	if err := c.gate.Usable(game); err != nil {
		return types.BackupResponse{}, err
	}
	resp, err := c.backend.BackupGame(ctx, game.Name, game.Path, steamUID, normalizeRemark(remark))
	if err != nil {
		c.ui.LogErrorf("Backup of %s failed: %v", game.Name, err)
		return types.BackupResponse{}, err
	}
	c.store.Replace(resp.Config)
	c.ui.LogInfof("Backup of %s completed: %s", game.Name, resp.FileName)
	return resp, nil
}

// ListBackups clears the cached list and fetches it again. On failure the list stays empty.
func (c *Client) ListBackups(ctx context.Context, game string) ([]types.BackupEntry, error) {
	c.mu.Lock()
	c.listSeq++
	seq := c.listSeq
	c.state = State{Game: game, Items: []types.BackupEntry{}, Loading: true, Deleting: c.state.Deleting}
	c.publish()
	c.mu.Unlock()

	items, err := c.backend.ListBackups(ctx, game)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.listSeq {
		// A newer listing replaced this one.
		return items, err
	}
	c.state.Loading = false
	if err != nil {
		c.ui.LogErrorf("Failed to list backups for %s: %v", game, err)
		c.publish()
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	if items == nil {
		items = []types.BackupEntry{}
	}
	c.state.Items = append([]types.BackupEntry{}, items...)
	c.publish()
	return append([]types.BackupEntry{}, items...), nil
}

// EditRemark saves a new remark and patches the cached entry without refetching.
func (c *Client) EditRemark(ctx context.Context, game, fileName, remark string) error {
	if err := c.backend.UpdateBackupRemark(ctx, game, fileName, strings.TrimSpace(remark)); err != nil {
		c.ui.LogErrorf("Failed to update remark of %s: %v", fileName, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Game != game {
		return nil
	}
	for i := range c.state.Items {
		if c.state.Items[i].FileName == fileName {
			c.state.Items[i].Remark = normalizeRemark(remark)
		}
	}
	c.publish()
	return nil
}

// DeleteBackup deletes one backup. Deleting a file name that is already being deleted fails
// with ErrDeleteInFlight; different file names may be deleted concurrently.
func (c *Client) DeleteBackup(ctx context.Context, game, fileName string) error {
	c.mu.Lock()
	if c.state.Deleting[fileName] {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDeleteInFlight, fileName)
	}
	c.state.Deleting[fileName] = true
	c.publish()
	c.mu.Unlock()

	err := c.backend.DeleteBackup(ctx, game, fileName)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.state.Deleting, fileName)
	if err != nil {
		c.ui.LogErrorf("Failed to delete %s: %v", fileName, err)
		c.publish()
		return err
	}
	if c.state.Game == game {
		kept := make([]types.BackupEntry, 0, len(c.state.Items))
		for _, item := range c.state.Items {
			if item.FileName != fileName {
				kept = append(kept, item)
			}
		}
		c.state.Items = kept
	}
	c.ui.LogInfof("Deleted backup %s", fileName)
	c.publish()
	return nil
}
