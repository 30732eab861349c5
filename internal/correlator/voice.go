package correlator

import (
	"sync"
	"time"
)

// VoiceAction is a channel transition.
type VoiceAction int

const (
	VoiceJoin VoiceAction = iota + 1
	VoiceLeave
)

func (a VoiceAction) String() string {
	switch a {
	case VoiceJoin:
		return "join"
	case VoiceLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// VoiceActivityEntry records one channel transition of a member.
type VoiceActivityEntry struct {
	Action    VoiceAction
	Timestamp time.Time
	ChannelID string
}

// voiceWindow is how many recent transitions are analyzed and kept.
const voiceWindow = 3

// VoiceTimeline keeps the most recent transitions of every member.
type VoiceTimeline struct {
	mu      sync.Mutex
	entries map[memberKey][]VoiceActivityEntry
}

type memberKey struct {
	guildID string
	userID  string
}

// NewVoiceTimeline creates an empty timeline.
func NewVoiceTimeline() *VoiceTimeline {
	return &VoiceTimeline{entries: make(map[memberKey][]VoiceActivityEntry)}
}

// Append records e for the member and returns a copy of the member's recent
// transitions, oldest first.
func (t *VoiceTimeline) Append(guildID, userID string, e VoiceActivityEntry) []VoiceActivityEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := memberKey{guildID, userID}
	list := append(t.entries[k], e)
	if len(list) > voiceWindow {
		list = append([]VoiceActivityEntry(nil), list[len(list)-voiceWindow:]...)
	}
	t.entries[k] = list

	out := make([]VoiceActivityEntry, len(list))
	copy(out, list)
	return out
}

// Forget drops the member's history.
func (t *VoiceTimeline) Forget(guildID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, memberKey{guildID, userID})
}
