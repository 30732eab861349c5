package events

import (
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSnapshotMessage(t *testing.T) {
	msg := &discordgo.Message{
		ID:              "m1",
		GuildID:         "g",
		ChannelID:       "c",
		Content:         "hola <@u2>",
		Timestamp:       now,
		Author:          &discordgo.User{ID: "u1"},
		Mentions:        []*discordgo.User{{ID: "u2"}},
		MentionRoles:    []string{"r1", "r2"},
		MentionEveryone: true,
		Attachments:     []*discordgo.MessageAttachment{{URL: "https://cdn/a.png"}},
	}

	got, ok := snapshotMessage(msg)
	if !ok {
		t.Fatal("snapshotMessage() rejected a guild message")
	}
	want := correlator.CachedMessage{
		ID:             "m1",
		GuildID:        "g",
		AuthorID:       "u1",
		ChannelID:      "c",
		CreatedAt:      now,
		Content:        "hola <@u2>",
		AttachmentURLs: []string{"https://cdn/a.png"},
		MentionCount:   4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshotMessage() mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotMessageSkips(t *testing.T) {
	tests := []struct {
		name string
		msg  *discordgo.Message
	}{
		{"nil", nil},
		{"no author", &discordgo.Message{GuildID: "g"}},
		{"bot", &discordgo.Message{GuildID: "g", Author: &discordgo.User{ID: "b", Bot: true}}},
		{"direct message", &discordgo.Message{Author: &discordgo.User{ID: "u"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := snapshotMessage(tt.msg); ok {
				t.Error("snapshotMessage() accepted the message")
			}
		})
	}
}

func TestVoiceUpdate(t *testing.T) {
	v := &discordgo.VoiceStateUpdate{
		VoiceState:   &discordgo.VoiceState{GuildID: "g", UserID: "u", ChannelID: "vc2", SelfDeaf: true},
		BeforeUpdate: &discordgo.VoiceState{GuildID: "g", UserID: "u", ChannelID: "vc1"},
	}

	got, ok := voiceUpdate(v, now)
	if !ok {
		t.Fatal("voiceUpdate() rejected the update")
	}
	want := correlator.VoiceUpdate{
		GuildID: "g",
		UserID:  "u",
		Before:  correlator.VoiceStatus{ChannelID: "vc1"},
		After:   correlator.VoiceStatus{ChannelID: "vc2", Deafened: true},
		At:      now,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("voiceUpdate() mismatch (-want +got):\n%s", diff)
	}
}

func TestVoiceUpdateUncachedBefore(t *testing.T) {
	v := &discordgo.VoiceStateUpdate{
		VoiceState: &discordgo.VoiceState{GuildID: "g", UserID: "u", ChannelID: "vc"},
	}
	got, ok := voiceUpdate(v, now)
	if !ok {
		t.Fatal("voiceUpdate() rejected the update")
	}
	if got.Before != (correlator.VoiceStatus{}) {
		t.Errorf("Before = %+v, want disconnected", got.Before)
	}
}

func TestVoiceUpdateIgnoresBots(t *testing.T) {
	v := &discordgo.VoiceStateUpdate{
		VoiceState: &discordgo.VoiceState{
			GuildID:   "g",
			UserID:    "b",
			ChannelID: "vc",
			Member:    &discordgo.Member{User: &discordgo.User{ID: "b", Bot: true}},
		},
	}
	if _, ok := voiceUpdate(v, now); ok {
		t.Error("voiceUpdate() accepted a bot")
	}
}

func TestAutomodExecution(t *testing.T) {
	e := &discordgo.AutoModerationActionExecution{
		GuildID:        "g",
		UserID:         "u",
		ChannelID:      "c",
		RuleID:         "123",
		Content:        "palabra prohibida",
		MatchedKeyword: "prohibida",
	}
	got := automodExecution(e, "Groserías", now)
	want := correlator.AutomodExecution{
		GuildID:   "g",
		UserID:    "u",
		ChannelID: "c",
		Rule:      "Groserías",
		Keyword:   "prohibida",
		Content:   "palabra prohibida",
		At:        now,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("automodExecution() mismatch (-want +got):\n%s", diff)
	}
}
