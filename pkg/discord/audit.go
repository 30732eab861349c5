package discord

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	// freshAuditEntry is how old an unseen message-delete entry may be to be
	// attributed to the deletion being resolved.
	freshAuditEntry = 10 * time.Second
	// auditEntryTTL bounds how long entry counts are remembered. Discord keeps
	// merging repeated deletions into an entry for a while after it appears.
	auditEntryTTL = time.Hour
)

// deleteTracker remembers the message-delete audit entries seen so far.
// Authors deleting their own messages leave no entry, and repeated deletions
// by one moderator are merged into a single entry with a growing count, so a
// deletion is only attributed to an entry that is new or whose count went up.
type deleteTracker struct {
	mu      sync.Mutex
	entries map[string]seenEntry
}

type seenEntry struct {
	count   int
	created time.Time
}

func newDeleteTracker() *deleteTracker {
	return &deleteTracker{entries: make(map[string]seenEntry)}
}

// resolve records entries and returns the moderator that deleted a message of
// authorID in channelID, or "" when none of the entries accounts for it.
func (t *deleteTracker) resolve(entries []*discordgo.AuditLogEntry, channelID, authorID string, now time.Time) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	actor := ""
	for _, e := range entries {
		if e.Options == nil {
			continue
		}
		created, err := discordgo.SnowflakeTimestamp(e.ID)
		if err != nil {
			continue
		}
		count := entryCount(e.Options)
		prev, seen := t.entries[e.ID]
		t.entries[e.ID] = seenEntry{count: count, created: created}

		if actor != "" || e.TargetID != authorID || e.Options.ChannelID != channelID {
			continue
		}
		if seen && count > prev.count || !seen && now.Sub(created) < freshAuditEntry {
			actor = e.UserID
		}
	}

	for id, e := range t.entries {
		if now.Sub(e.created) > auditEntryTTL {
			delete(t.entries, id)
		}
	}
	return actor
}

func entryCount(o *discordgo.AuditLogOptions) int {
	n, err := strconv.Atoi(o.Count)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
