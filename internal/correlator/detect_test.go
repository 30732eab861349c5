package correlator

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDetectHiddenText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"plain", "hola a todos", false},
		{"empty", "", false},
		{"zero width space", "ho\u200bla", true},
		{"word joiner", "\u2060", true},
		{"byte order mark", "texto\ufeff", true},
		{"right-to-left mark", "a\u200fb", true},
		{"emoji", "👻", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, got := DetectHiddenText(CachedMessage{ID: "m", AuthorID: "u", Content: tt.content})
			if got != tt.want {
				t.Fatalf("DetectHiddenText(%q) = %v, want %v", tt.content, got, tt.want)
			}
			if got && (a.Kind != KindHiddenText || !a.Critical) {
				t.Errorf("alert = %v critical=%v, want critical hidden_text", a.Kind, a.Critical)
			}
		})
	}
}

func TestClassifyDeletion(t *testing.T) {
	tests := []struct {
		name     string
		mentions int
		lived    time.Duration
		actor    string
		wantKind Kind
		wantAct  string
	}{
		{"ghost ping at 9s", 1, 9 * time.Second, "mod", KindGhostPing, "mod"},
		{"not a ghost ping at 11s", 1, 11 * time.Second, "mod", KindMessageDeleted, "mod"},
		{"exactly 10s is not a ghost ping", 2, 10 * time.Second, "", KindMessageDeleted, UnknownActor},
		{"no mentions", 0, time.Second, "", KindMessageDeleted, UnknownActor},
		{"unknown actor", 3, 2 * time.Second, "", KindGhostPing, UnknownActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CachedMessage{ID: "m", GuildID: "g", AuthorID: "u", ChannelID: "c", CreatedAt: t0, MentionCount: tt.mentions}
			a := ClassifyDeletion(m, t0.Add(tt.lived), tt.actor)

			if a.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", a.Kind, tt.wantKind)
			}
			if a.Critical != (tt.wantKind == KindGhostPing) {
				t.Errorf("Critical = %v for %v", a.Critical, a.Kind)
			}
			if a.Actor != tt.wantAct {
				t.Errorf("Actor = %q, want %q", a.Actor, tt.wantAct)
			}
			if a.Elapsed != tt.lived {
				t.Errorf("Elapsed = %v, want %v", a.Elapsed, tt.lived)
			}
		})
	}
}

func TestClassifyDeletionClockSkew(t *testing.T) {
	m := CachedMessage{ID: "m", CreatedAt: t0, MentionCount: 1}
	a := ClassifyDeletion(m, t0.Add(-time.Second), "")
	if a.Elapsed != 0 || a.Kind != KindGhostPing {
		t.Errorf("got %v after %v, want ghost_ping after 0s", a.Kind, a.Elapsed)
	}
}

func voiceEntries(offsets ...time.Duration) []VoiceActivityEntry {
	out := make([]VoiceActivityEntry, len(offsets))
	for i, o := range offsets {
		out[i] = VoiceActivityEntry{Action: VoiceJoin, Timestamp: t0.Add(o), ChannelID: "vc"}
	}
	return out
}

func TestDetectRapidVoice(t *testing.T) {
	tests := []struct {
		name    string
		entries []VoiceActivityEntry
		want    bool
	}{
		{"span 299s", voiceEntries(0, 100*time.Second, 299*time.Second), true},
		{"span 301s", voiceEntries(0, 100*time.Second, 301*time.Second), false},
		{"span exactly 5m", voiceEntries(0, time.Minute, 5*time.Minute), false},
		{"two entries", voiceEntries(0, time.Second), false},
		{"none", nil, false},
		{"only last three count", voiceEntries(0, 10*time.Minute, 11*time.Minute, 12*time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, got := DetectRapidVoice("g", "u", tt.entries)
			if got != tt.want {
				t.Fatalf("DetectRapidVoice() = %v, want %v", got, tt.want)
			}
			if got && len(a.Voice) != 3 {
				t.Errorf("alert carries %d entries, want 3", len(a.Voice))
			}
		})
	}
}

func TestDetectEdit(t *testing.T) {
	before := CachedMessage{ID: "m", GuildID: "g", AuthorID: "u", ChannelID: "c", CreatedAt: t0, Content: "antes"}

	if _, ok := DetectEdit(before, "antes", t0.Add(time.Minute)); ok {
		t.Error("unchanged content reported as an edit")
	}

	a, ok := DetectEdit(before, "después", t0.Add(90*time.Second))
	if !ok {
		t.Fatal("changed content not reported")
	}
	want := Alert{
		Kind:      KindMessageEdited,
		At:        t0.Add(90 * time.Second),
		GuildID:   "g",
		UserID:    "u",
		ChannelID: "c",
		MessageID: "m",
		Before:    "antes",
		Content:   "después",
		Elapsed:   90 * time.Second,
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("DetectEdit() mismatch (-want +got):\n%s", diff)
	}
}
