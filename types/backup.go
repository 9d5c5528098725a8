package types

// Provenance of BackupEntry.Timestamp
const (
	TimeSourceFileName     = "file-name"
	TimeSourceModifiedTime = "modified-time"
	TimeSourceUnknown      = "unknown"
)

// BackupEntry describes one archived backup of a game's saves.
type BackupEntry struct {
	FileName   string  `json:"fileName"`  // Unique within a game
	FilePath   string  `json:"filePath"`  // Absolute path of the archive
	Timestamp  *int64  `json:"timestamp"` // Unix millis
	Remark     *string `json:"remark"`    // Content of the .txt sidecar
	Size       uint64  `json:"size"`
	TimeSource string  `json:"timeSource"`
}

// BackupResponse is returned after a backup has been written.
type BackupResponse struct {
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	Timestamp  int64     `json:"timestamp"`
	RemarkPath *string   `json:"remarkPath,omitempty"`
	Config     AppConfig `json:"config"`
}

// RestoreResponse is returned after a successful restore.
type RestoreResponse struct {
	Config AppConfig `json:"config"`
}
