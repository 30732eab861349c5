package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// guildJoinWindow separates a real join from the GuildCreate burst sent on
// every connect.
const guildJoinWindow = 10 * time.Second

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.On("GuildCreate", onGuildCreate)
	client.EventHandler.On("GuildDelete", onGuildDelete)
}

// onGuildCreate greets a server that just added the bot and explains how to
// point alerts at a log channel.
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.JoinedAt.Before(time.Now().Add(-guildJoinWindow)) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")

	if g.SystemChannelID == "" {
		return
	}

	_, err := s.ChannelMessageSendEmbed(g.SystemChannelID, setupEmbed())
	if err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

func setupEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "¡Gracias por agregarme! 🛡️",
		Description: "Vigilo el servidor y aviso al equipo de moderación cuando detecto actividad sospechosa.",
		Color:       0x5865f2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "📋 Canal de registros",
				Value:  "`/modconfig logchannel` para recibir alertas",
				Inline: true,
			},
			{
				Name:   "🔔 Rol de aviso",
				Value:  "`/modconfig pingrole` para alertas críticas",
				Inline: true,
			},
			{
				Name:   "🔧 Moderación",
				Value:  "`/mod` para advertir y sancionar",
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("⚠️ Servidor no disponible: %s", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
