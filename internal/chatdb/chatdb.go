// Package chatdb provides read-only access to the Messages.app chat.db
// and the Apple-epoch time arithmetic its date column uses.
package chatdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// chat.db stores dates as nanoseconds since 2001-01-01 00:00:00 UTC.
const (
	AppleEpochOffset = 978307200 // seconds between Unix and Apple epochs
	TicksPerSecond   = 1_000_000_000
)

// Tapback type codes as stored in message.associated_message_type.
// 0 means a plain message; >= 2000 means a reaction row.
const (
	TapbackLoved      = 2000
	TapbackLiked      = 2001
	TapbackDisliked   = 2002
	TapbackLaughed    = 2003
	TapbackEmphasized = 2004
	TapbackQuestioned = 2005
)

// DefaultPath returns the well-known chat.db location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Messages", "chat.db")
}

// Open opens chat.db read-only. The mode=ro DSN parameter guarantees the
// driver never mutates the source, even on a database needing recovery.
// A missing or unreadable file is fatal to the run; the error carries the
// Full Disk Access remediation hint.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("chat.db not found at %s (is Messages.app configured on this Mac?)", path)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open chat.db: %w", err)
	}
	// sql.Open is lazy; force the first read so permission problems
	// surface here instead of mid-pipeline.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("can't open %s: %w (grant Full Disk Access to your terminal in System Settings)", path, err)
	}
	return db, nil
}

// Window is a half-open [Start, End) range in Apple nanosecond ticks.
type Window struct {
	Year  int
	Start int64
	End   int64
}

// WindowForYear converts a calendar year into chat.db's native clock.
func WindowForYear(year int) Window {
	return Window{
		Year:  year,
		Start: TicksAt(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		End:   TicksAt(time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// MonthWindow returns the tick range for one calendar month of the
// window's year. month is 1-based.
func (w Window) MonthWindow(month time.Month) (start, end int64) {
	start = TicksAt(time.Date(w.Year, month, 1, 0, 0, 0, 0, time.UTC))
	end = TicksAt(time.Date(w.Year, month+1, 1, 0, 0, 0, 0, time.UTC))
	return start, end
}

// TicksAt converts a time.Time to Apple nanosecond ticks.
func TicksAt(t time.Time) int64 {
	return (t.Unix() - AppleEpochOffset) * TicksPerSecond
}
