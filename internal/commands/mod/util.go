package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const noReason = "Sin razón especificada"

const footerText = "💫 - Developed by PancyStudios"

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return noReason
	}
	return reason
}

// checkTarget rejects sanctions against bots and the moderator themselves.
func checkTarget(ctx *discord.CommandContext, target *discordgo.User) string {
	switch {
	case target == nil:
		return "❌ | Debes especificar un usuario válido."
	case target.Bot:
		return "❌ | No puedes usar este comando sobre un bot."
	case target.ID == ctx.User().ID:
		return "❌ | No puedes usar este comando sobre ti mismo."
	}
	return ""
}

func warningChoices(warns []models.Warning) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for i, w := range warns {
		if i >= 25 {
			break
		}
		name := fmt.Sprintf("ID: %s - Razón: %s", w.ID, w.Reason)
		if r := []rune(name); len(r) > 100 {
			name = string(r[:97]) + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: w.ID,
		})
	}
	return choices
}

func warningList(user *discordgo.User, warns []models.Warning, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("🔖 - Lista de advertencias de %s", user.Username),
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}

	if len(warns) == 0 {
		embed.Color = 0x00FF00
		embed.Description = fmt.Sprintf("No se han encontrado advertencias activas del usuario en este servidor\n\n> 💫 - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>", now.Unix())
		return embed
	}

	embed.Color = 0xFFA500
	var description string
	for _, w := range warns {
		description += fmt.Sprintf("> **Advertencia:** %s\n> **Moderador:** %s\n> **Fecha:** <t:%d:R>\n> **ID:** `%s`\n\n",
			w.Reason, moderatorMention(w.Moderator), w.Timestamp.Unix(), w.ID)
	}
	description += fmt.Sprintf("> 💫 - **Cantidad de advertencias:** %d\n> 🕒 - **Fecha de consulta:** <t:%d>", len(warns), now.Unix())
	embed.Description = description
	return embed
}

func moderatorMention(id string) string {
	if id == correlator.AutomodModerator {
		return "🤖 AutoMod"
	}
	return "<@" + id + ">"
}
