package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// moderationPermissions grants moderator commands without a moderator role.
const moderationPermissions = discordgo.PermissionAdministrator |
	discordgo.PermissionManageGuild |
	discordgo.PermissionModerateMembers

var (
	errNotModerator = fmt.Errorf("member is not a moderator")
	errGuildOnly    = fmt.Errorf("command used outside a guild")
	errNoDatabase   = fmt.Errorf("database unavailable")

	errMissingPermissions = fmt.Errorf("missing permissions")
)

// checkCommand rejects a command the member may not run and tells them why.
func (c *ExtendedClient) checkCommand(ctx *CommandContext, cmd *Command) error {
	if cmd.ModOnly || cmd.RequiresDB {
		if ctx.Interaction.GuildID == "" || ctx.Member() == nil {
			ctx.ReplyEphemeral("❌ | Este comando solo puede usarse en un servidor.")
			return errGuildOnly
		}
	}

	if cmd.ModOnly && !c.memberIsModerator(ctx.Interaction.GuildID, ctx.Member()) {
		logger.Debug(fmt.Sprintf("%s intentó usar un comando de moderación en %s", ctx.User().ID, ctx.Interaction.GuildID), "Middleware")
		ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
			Title:       "🚫 Acceso Denegado",
			Description: "Necesitas permisos de moderación o un rol de moderador para usar este comando.",
			Color:       0xFF0000,
		})
		return errNotModerator
	}

	if m := ctx.Member(); m != nil && !hasPermissions(m.Permissions, cmd.UserPermissions) {
		ctx.ReplyEphemeral("🚫 | No tienes los permisos necesarios para usar este comando.")
		return errMissingPermissions
	}
	if ctx.Interaction.GuildID != "" && !hasPermissions(ctx.Interaction.AppPermissions, cmd.BotPermissions) {
		ctx.ReplyEphemeral("⚠️ | Me faltan permisos en este canal para ejecutar el comando.")
		return errMissingPermissions
	}

	if cmd.RequiresDB && c.DatabaseReady != nil && !c.DatabaseReady() {
		ctx.ReplyEphemeral("⚠️ | La base de datos no está disponible en este momento. Inténtalo más tarde.")
		return errNoDatabase
	}
	return nil
}

// hasPermissions reports whether have grants every bit of want.
// Administrator grants everything.
func hasPermissions(have, want int64) bool {
	if have&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return have&want == want
}

func (c *ExtendedClient) memberIsModerator(guildID string, m *discordgo.Member) bool {
	if m.Permissions&moderationPermissions != 0 {
		return true
	}
	return c.IsModerator != nil && c.IsModerator(guildID, m.Roles)
}

// IsModerator reports whether the invoking member may moderate the guild.
func (ctx *CommandContext) IsModerator() bool {
	m := ctx.Member()
	if m == nil || ctx.Interaction.GuildID == "" {
		return false
	}
	return ctx.Client.memberIsModerator(ctx.Interaction.GuildID, m)
}
