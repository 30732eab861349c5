package correlator

import (
	"regexp"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

const (
	// GhostPingWindow is how soon after creation a deleted mention counts as
	// a ghost ping.
	GhostPingWindow = 10 * time.Second
	// RapidVoiceWindow is the span within which three transitions count as
	// rapid switching.
	RapidVoiceWindow = 5 * time.Minute
)

// zeroWidth matches zero-width and invisible formatting characters.
var zeroWidth = regexp.MustCompile(`[\x{200B}-\x{200F}\x{2060}-\x{2064}\x{FEFF}]`)

// DetectHiddenText flags messages carrying zero-width characters.
func DetectHiddenText(m CachedMessage) (Alert, bool) {
	if !zeroWidth.MatchString(m.Content) {
		return Alert{}, false
	}
	return Alert{
		Kind:      KindHiddenText,
		Critical:  true,
		At:        m.CreatedAt,
		GuildID:   m.GuildID,
		UserID:    m.AuthorID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Content:   m.Content,
	}, true
}

// ClassifyDeletion turns the deletion of a cached message into a ghost ping
// when it carried mentions and lived less than GhostPingWindow, and into a
// plain deletion notice otherwise. An empty actor becomes UnknownActor.
func ClassifyDeletion(m CachedMessage, deletedAt time.Time, actor string) Alert {
	if actor == "" {
		actor = UnknownActor
	}
	elapsed := deletedAt.Sub(m.CreatedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	a := Alert{
		Kind:        KindMessageDeleted,
		At:          deletedAt,
		GuildID:     m.GuildID,
		UserID:      m.AuthorID,
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		Actor:       actor,
		Content:     m.Content,
		Elapsed:     elapsed,
		Attachments: m.AttachmentURLs,
	}
	if m.MentionCount > 0 && elapsed < GhostPingWindow {
		a.Kind = KindGhostPing
		a.Critical = true
	}
	return a
}

// DetectRapidVoice flags a member whose last three channel transitions fall
// within RapidVoiceWindow. entries must be ordered oldest first.
func DetectRapidVoice(guildID, userID string, entries []VoiceActivityEntry) (Alert, bool) {
	if len(entries) < voiceWindow {
		return Alert{}, false
	}
	recent := entries[len(entries)-voiceWindow:]
	oldest, newest := recent[0], recent[len(recent)-1]
	if newest.Timestamp.Sub(oldest.Timestamp) >= RapidVoiceWindow {
		return Alert{}, false
	}
	return Alert{
		Kind:      KindRapidVoice,
		At:        newest.Timestamp,
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: newest.ChannelID,
		Elapsed:   newest.Timestamp.Sub(oldest.Timestamp),
		Voice:     append([]VoiceActivityEntry(nil), recent...),
	}, true
}

// DetectEdit reports a content change of a cached message.
func DetectEdit(before CachedMessage, after string, editedAt time.Time) (Alert, bool) {
	if before.Content == after {
		return Alert{}, false
	}
	return Alert{
		Kind:      KindMessageEdited,
		At:        editedAt,
		GuildID:   before.GuildID,
		UserID:    before.AuthorID,
		ChannelID: before.ChannelID,
		MessageID: before.ID,
		Before:    before.Content,
		Content:   after,
		Elapsed:   editedAt.Sub(before.CreatedAt),
	}, true
}

// WarningThresholdReached builds the moderator notice for a member whose
// ledger crossed the mute threshold.
func WarningThresholdReached(guildID, userID string, warnings []models.Warning, at time.Time) Alert {
	return Alert{
		Kind:     KindWarningThreshold,
		Critical: true,
		At:       at,
		GuildID:  guildID,
		UserID:   userID,
		Warnings: append([]models.Warning(nil), warnings...),
	}
}

// AFKPurged builds the notice for a member disconnected after idling muted.
func AFKPurged(guildID, userID, channelID string, at time.Time) Alert {
	return Alert{
		Kind:      KindAFKPurged,
		Critical:  true,
		At:        at,
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: channelID,
	}
}

// AutomodExecuted builds the notice for an automod rule execution.
func AutomodExecuted(guildID, userID, channelID, rule, keyword, content string, at time.Time) Alert {
	return Alert{
		Kind:      KindAutomodAction,
		At:        at,
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: channelID,
		Rule:      rule,
		Keyword:   keyword,
		Content:   content,
	}
}
