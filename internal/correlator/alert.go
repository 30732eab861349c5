package correlator

import (
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// Kind identifies the type of an Alert.
type Kind int

const (
	KindHiddenText Kind = iota + 1
	KindGhostPing
	KindRapidVoice
	KindMessageEdited
	KindMessageDeleted
	KindWarningThreshold
	KindAFKPurged
	KindAutomodAction
)

func (k Kind) String() string {
	switch k {
	case KindHiddenText:
		return "hidden_text"
	case KindGhostPing:
		return "ghost_ping"
	case KindRapidVoice:
		return "rapid_voice"
	case KindMessageEdited:
		return "message_edited"
	case KindMessageDeleted:
		return "message_deleted"
	case KindWarningThreshold:
		return "warning_threshold"
	case KindAFKPurged:
		return "afk_purged"
	case KindAutomodAction:
		return "automod_action"
	default:
		return "unknown"
	}
}

// UnknownActor is used when the audit log does not name who acted.
const UnknownActor = "unknown"

// Alert is a classified moderation event. Which fields are set depends on
// Kind.
type Alert struct {
	Kind     Kind
	Critical bool
	At       time.Time

	GuildID   string
	UserID    string
	ChannelID string
	MessageID string

	// Actor is who deleted the message for ghost pings and deletions.
	Actor string

	Content string
	// Before holds the previous content of an edited message.
	Before string
	// Elapsed is the time between message creation and the edit or deletion.
	Elapsed time.Duration

	Attachments []string
	Warnings    []models.Warning
	Voice       []VoiceActivityEntry

	// Rule and Keyword describe an automod execution.
	Rule    string
	Keyword string
}
