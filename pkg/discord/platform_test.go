package discord

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/bwmarrin/discordgo"
)

func snowflakeAt(t time.Time) string {
	return strconv.FormatInt((t.UnixMilli()-1420070400000)<<22, 10)
}

func deleteEntry(id, target, moderator, channel, count string) *discordgo.AuditLogEntry {
	return &discordgo.AuditLogEntry{
		ID:       id,
		TargetID: target,
		UserID:   moderator,
		Options:  &discordgo.AuditLogOptions{ChannelID: channel, Count: count},
	}
}

func TestDeleteTrackerIgnoresOldEntries(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := newDeleteTracker()

	// a moderator removed one of the author's messages minutes ago, then the
	// author deleted their own
	entries := []*discordgo.AuditLogEntry{
		deleteEntry(snowflakeAt(now.Add(-3*time.Minute)), "author", "mod", "c", "1"),
	}
	if got := tracker.resolve(entries, "c", "author", now); got != "" {
		t.Errorf("resolve() = %q for a self-deletion, want no deleter", got)
	}
}

func TestDeleteTrackerAttribution(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := newDeleteTracker()
	id := snowflakeAt(now.Add(-2 * time.Second))

	fresh := []*discordgo.AuditLogEntry{
		deleteEntry(snowflakeAt(now.Add(-time.Second)), "other", "mod2", "c", "1"),
		deleteEntry(snowflakeAt(now.Add(-time.Second)), "author", "mod3", "elsewhere", "1"),
		{ID: snowflakeAt(now), TargetID: "author", UserID: "mod4"},
		deleteEntry(id, "author", "mod1", "c", "1"),
	}
	if got := tracker.resolve(fresh, "c", "author", now); got != "mod1" {
		t.Fatalf("resolve() = %q for a new entry, want mod1", got)
	}

	later := now.Add(time.Minute)
	same := []*discordgo.AuditLogEntry{deleteEntry(id, "author", "mod1", "c", "1")}
	if got := tracker.resolve(same, "c", "author", later); got != "" {
		t.Errorf("resolve() = %q with an unchanged count, want no deleter", got)
	}

	bumped := []*discordgo.AuditLogEntry{deleteEntry(id, "author", "mod1", "c", "2")}
	if got := tracker.resolve(bumped, "c", "author", later); got != "mod1" {
		t.Errorf("resolve() = %q after the count grew, want mod1", got)
	}
}

func TestDeleteTrackerForgetsExpiredEntries(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := newDeleteTracker()
	tracker.resolve([]*discordgo.AuditLogEntry{deleteEntry(snowflakeAt(now), "author", "mod", "c", "1")}, "c", "author", now)

	tracker.resolve(nil, "c", "author", now.Add(auditEntryTTL+time.Minute))
	if len(tracker.entries) != 0 {
		t.Errorf("tracker kept %d expired entries", len(tracker.entries))
	}
}

func TestVoiceStatusOf(t *testing.T) {
	tests := []struct {
		name string
		vs   *discordgo.VoiceState
		want correlator.VoiceStatus
	}{
		{"nil", nil, correlator.VoiceStatus{}},
		{"self muted", &discordgo.VoiceState{ChannelID: "vc", SelfMute: true}, correlator.VoiceStatus{ChannelID: "vc", Muted: true}},
		{"server deafened", &discordgo.VoiceState{ChannelID: "vc", Deaf: true}, correlator.VoiceStatus{ChannelID: "vc", Deafened: true}},
		{"active", &discordgo.VoiceState{ChannelID: "vc"}, correlator.VoiceStatus{ChannelID: "vc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VoiceStatusOf(tt.vs); got != tt.want {
				t.Errorf("VoiceStatusOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	if got := Describe(forbidden); !strings.Contains(got, "permisos") {
		t.Errorf("Describe(403) = %q", got)
	}
	missing := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember}}
	if got := Describe(missing); !strings.Contains(got, "No encontré") {
		t.Errorf("Describe(unknown member) = %q", got)
	}
	if got := Describe(fmt.Errorf("boom")); !strings.Contains(got, "inesperado") {
		t.Errorf("Describe(other) = %q", got)
	}
}
