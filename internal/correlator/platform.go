package correlator

import (
	"context"
	stderrors "errors"

	"github.com/bwmarrin/discordgo"
)

// VoiceStatus is the voice state of a member at one point in time.
// An empty ChannelID means the member is not connected.
type VoiceStatus struct {
	ChannelID string
	Muted     bool
	Deafened  bool
}

// Idle reports whether the member sits in a channel muted or deafened.
func (v VoiceStatus) Idle() bool {
	return v.ChannelID != "" && (v.Muted || v.Deafened)
}

// Platform is the set of outbound chat platform calls the correlator makes.
// Implementations return errors that pkg/errors can classify as
// permission-denied or not-found.
type Platform interface {
	SendMessage(ctx context.Context, channelID, content string, embed *discordgo.MessageEmbed) error
	DirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	DisconnectMember(ctx context.Context, guildID, userID string) error
	VoiceStatus(ctx context.Context, guildID, userID string) (VoiceStatus, error)
	// MessageDeleter resolves who deleted a message by authorID in channelID
	// from the audit log. It returns "" when nobody else deleted it.
	MessageDeleter(ctx context.Context, guildID, channelID, authorID string) (string, error)
}

// Publisher fans alerts out to other services.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Publishers fans an alert out to several publishers. Every publisher is
// tried and the joined errors are returned.
type Publishers []Publisher

func (ps Publishers) Publish(topic string, payload interface{}) error {
	var errs []error
	for _, p := range ps {
		if err := p.Publish(topic, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
