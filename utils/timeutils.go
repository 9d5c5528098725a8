package utils

import (
	"fmt"
	"strings"
	"time"

	"game-sl/constants"
)

// ParseBackupStamp extracts the timestamp encoded in a backup file name of the form
// {Game}-Backup-YYYYMMDD-HHMMSS.ext. The stamp is interpreted in local time.
func ParseBackupStamp(name string) (time.Time, error) {
	_, rest, ok := strings.Cut(name, constants.BackupMarker)
	if !ok {
		return time.Time{}, fmt.Errorf("no backup marker in %q", name)
	}
	stamp, _, _ := strings.Cut(rest, ".")
	// Same-second backups carry a suffix after the stamp, e.g. 20240101-120000_2
	if len(stamp) > len(constants.BackupStamp) {
		stamp = stamp[:len(constants.BackupStamp)]
	}
	t, err := time.ParseInLocation(constants.BackupStamp, stamp, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse backup stamp %q: %w", stamp, err)
	}
	return t, nil
}

// FormatAbsolute renders unix millis as "YYYY-MM-DD HH:MM" in local time.
func FormatAbsolute(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// FormatRelative renders ms relative to now. Anything older than a week falls back to FormatAbsolute.
func FormatRelative(now time.Time, ms int64) string {
	diff := now.Sub(time.UnixMilli(ms))
	if diff < 0 {
		diff = 0
	}
	sec := int(diff / time.Second)
	switch {
	case sec < 30:
		return "just now"
	case sec < 60:
		return fmt.Sprintf("%d seconds ago", sec)
	}
	min := sec / 60
	if min < 60 {
		return fmt.Sprintf("%d minutes ago", min)
	}
	hr := min / 60
	if hr < 24 {
		return fmt.Sprintf("%d hours ago", hr)
	}
	day := hr / 24
	if day < 7 {
		return fmt.Sprintf("%d days ago", day)
	}
	return FormatAbsolute(ms)
}

// FormatLastSave is what the game list shows for a possibly missing timestamp.
func FormatLastSave(now time.Time, ms *int64, relative bool) string {
	if ms == nil || *ms == 0 {
		return "no backup yet"
	}
	if relative {
		return FormatRelative(now, *ms)
	}
	return FormatAbsolute(*ms)
}
