package constants

// OS Names
const (
	OSWindows = "windows"
)

// Event Names
const (
	EventConfigUpdated  = "config-updated"
	EventPathState      = "path-state"
	EventRestoreState   = "restore-state"
	EventBackupProgress = "backup-progress"
	EventBackupList     = "backup-list"
)

// Path Components
const (
	WorkDirName    = "game-sl"
	WorkDirEnv     = "GAMESL_WORKDIR"
	ConfigFileName = "config.json"
	BackupDir      = "backup"
	TrashDir       = "trash"
	CacheDir       = "cache"
	IconsDir       = "icons"
)

// Setting Keys
const (
	SettingUseRelativeTime    = "useRelativeTime"
	SettingRestoreExtraBackup = "restoreExtraBackup"
)

// Path template placeholders
const (
	PlaceholderAppData    = "{AppData}"
	PlaceholderUserFolder = "{UserFolder}"
	PlaceholderHome       = "{Home}"
	PlaceholderSteam      = "{Steam}"
	PlaceholderSteamUID   = "{SteamUID}"
)

// Backup naming
const (
	BackupMarker    = "-Backup-"
	BackupStamp     = "20060102-150405"
	RemarkExt       = ".txt"
	ExtraBackupNote = "auto backup before restore"
)

// ConfigVersion is written into freshly created configs.
const ConfigVersion = 1
