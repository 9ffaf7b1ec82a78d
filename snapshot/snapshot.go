// Package snapshot persists a built archive so it can be reloaded without
// parsing the source document again. Two formats are provided: a JSON lines
// file and a SQLite database holding any number of snapshots.
//
// Reloading reparses SentAtRaw, so a restored message carries the same zone
// name and offset as the freshly extracted one.
package snapshot

import (
	"time"

	"github.com/dhcgn/fbmessage-stats/extract"
)

// Info describes one stored snapshot.
type Info struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Threads   int
	Messages  int
}

// restoreSentAt rebuilds the parsed timestamp of a message. stored is the
// instant persisted with the message; the zero time means it was never parsed.
func restoreSentAt(raw string, stored time.Time) time.Time {
	if stored.IsZero() {
		return time.Time{}
	}
	if parsed, err := extract.ParseTimestamp(raw); err == nil && parsed.Equal(stored) {
		return parsed
	}
	return stored
}
