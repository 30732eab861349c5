package events

import (
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (r *router) registerMessageEvents(client *discord.ExtendedClient) {
	client.EventHandler.On("MessageCreate", r.onMessageCreate)
	client.EventHandler.On("MessageUpdate", r.onMessageUpdate)
	client.EventHandler.On("MessageDelete", r.onMessageDelete)
}

func (r *router) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	snap, ok := snapshotMessage(m.Message)
	if !ok {
		return
	}
	r.corr.MessageCreated(snap)
}

// onMessageUpdate only reacts to real edits. Embed unfurls also arrive as
// updates but carry no edit timestamp.
func (r *router) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Message == nil || m.GuildID == "" || m.EditedTimestamp == nil {
		return
	}
	if m.Author != nil && m.Author.Bot {
		return
	}
	r.corr.MessageEdited(m.ID, m.Content, *m.EditedTimestamp)
}

func (r *router) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.Message == nil || m.GuildID == "" {
		return
	}
	r.corr.MessageDeleted(m.ID, time.Now())
}

// snapshotMessage converts a created guild message. Bot and DM messages are
// not tracked.
func snapshotMessage(m *discordgo.Message) (correlator.CachedMessage, bool) {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return correlator.CachedMessage{}, false
	}

	mentions := len(m.Mentions) + len(m.MentionRoles)
	if m.MentionEveryone {
		mentions++
	}

	urls := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		urls = append(urls, a.URL)
	}

	created := m.Timestamp
	if created.IsZero() {
		created = time.Now()
	}

	return correlator.CachedMessage{
		ID:             m.ID,
		GuildID:        m.GuildID,
		AuthorID:       m.Author.ID,
		ChannelID:      m.ChannelID,
		CreatedAt:      created,
		Content:        m.Content,
		AttachmentURLs: urls,
		MentionCount:   mentions,
	}, true
}
