package discord

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// Platform implements correlator.Platform on a discordgo session.
type Platform struct {
	session *discordgo.Session
	deletes *deleteTracker
}

var _ correlator.Platform = (*Platform)(nil)

// NewPlatform wraps a session.
func NewPlatform(s *discordgo.Session) *Platform {
	return &Platform{session: s, deletes: newDeleteTracker()}
}

func (p *Platform) SendMessage(ctx context.Context, channelID, content string, embed *discordgo.MessageEmbed) error {
	msg := &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeRoles},
		},
	}
	if embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{embed}
	}
	_, err := p.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	return err
}

func (p *Platform) DirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	_, err = p.session.ChannelMessageSendEmbed(ch.ID, embed, discordgo.WithContext(ctx))
	return err
}

func (p *Platform) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return p.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (p *Platform) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return p.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}

// DisconnectMember moves the member out of voice.
func (p *Platform) DisconnectMember(ctx context.Context, guildID, userID string) error {
	return p.session.GuildMemberMove(guildID, userID, nil, discordgo.WithContext(ctx))
}

// VoiceStatus reads the member's voice state from the gateway cache. A
// member absent from the cache is reported as disconnected.
func (p *Platform) VoiceStatus(_ context.Context, guildID, userID string) (correlator.VoiceStatus, error) {
	vs, err := p.session.State.VoiceState(guildID, userID)
	if stderrors.Is(err, discordgo.ErrStateNotFound) {
		return correlator.VoiceStatus{}, nil
	}
	if err != nil {
		return correlator.VoiceStatus{}, err
	}
	return VoiceStatusOf(vs), nil
}

// MessageDeleter resolves which moderator deleted a message by authorID in
// channelID from the message-delete audit log. Authors deleting their own
// messages leave no entry, so "" is returned for them.
func (p *Platform) MessageDeleter(ctx context.Context, guildID, channelID, authorID string) (string, error) {
	log, err := p.session.GuildAuditLog(guildID, "", "", int(discordgo.AuditLogActionMessageDelete), 25, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return p.deletes.resolve(log.AuditLogEntries, channelID, authorID, time.Now()), nil
}

// VoiceStatusOf converts a gateway voice state. Server and self mute both
// count as muted.
func VoiceStatusOf(vs *discordgo.VoiceState) correlator.VoiceStatus {
	if vs == nil {
		return correlator.VoiceStatus{}
	}
	return correlator.VoiceStatus{
		ChannelID: vs.ChannelID,
		Muted:     vs.Mute || vs.SelfMute,
		Deafened:  vs.Deaf || vs.SelfDeaf,
	}
}

// Timeout applies a communication timeout until the given time.
func (p *Platform) Timeout(ctx context.Context, guildID, userID string, until time.Time) error {
	return p.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithContext(ctx))
}

// ClearTimeout lifts a communication timeout.
func (p *Platform) ClearTimeout(ctx context.Context, guildID, userID string) error {
	return p.session.GuildMemberTimeout(guildID, userID, nil, discordgo.WithContext(ctx))
}

// Kick removes a member from the guild.
func (p *Platform) Kick(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

// Ban bans a member and deletes their messages of the last day.
func (p *Platform) Ban(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildBanCreateWithReason(guildID, userID, reason, 1, discordgo.WithContext(ctx))
}

// Describe returns a readable message for a failed moderation call.
func Describe(err error) string {
	switch errors.Classify(err) {
	case errors.KindPermissionDenied:
		return "❌ | No tengo permisos suficientes para hacer eso."
	case errors.KindNotFound:
		return "❌ | No encontré al usuario, canal o rol indicado."
	default:
		return "❌ | Ocurrió un error inesperado."
	}
}
