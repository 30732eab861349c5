package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func (r *router) registerMemberEvents(client *discord.ExtendedClient) {
	client.EventHandler.On("GuildMemberRemove", r.onGuildMemberRemove)
}

// onGuildMemberRemove forgets the member's voice history and AFK timer
func (r *router) onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil || m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 %s salió del servidor %s", m.User.Username, m.GuildID), "Member")
	r.corr.MemberLeft(m.GuildID, m.User.ID)
}
