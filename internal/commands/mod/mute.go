package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// maxTimeoutMinutes is Discord's 28 day timeout limit.
const maxTimeoutMinutes = 40320

// createMuteCommand creates the /mod mute subcommand
func (d *Deps) createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario temporalmente",
		"mod",
		d.muteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "duracion",
			Description: "Duración en minutos",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    maxTimeoutMinutes,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del silencio",
			Required:    false,
		},
	).RequiresModerator().
		WithBotPermissions(discordgo.PermissionModerateMembers)
}

func (d *Deps) muteHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if msg := checkTarget(ctx, user); msg != "" {
			ctx.ReplyEphemeral(msg)
			return
		}
		minutes := ctx.GetIntOption("duracion")
		if minutes < 1 || minutes > maxTimeoutMinutes {
			ctx.ReplyEphemeral("❌ | La duración debe estar entre 1 minuto y 28 días.")
			return
		}
		reason := reasonOrDefault(ctx.GetStringOption("razon"))

		c, cancel := commandContext()
		defer cancel()

		until := time.Now().Add(time.Duration(minutes) * time.Minute)
		if err := d.Actions.Timeout(c, ctx.Interaction.GuildID, user.ID, until); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo silenciar a %s: %v", user.ID, err), "CMD-Mute")
			ctx.ReplyEphemeral(discord.Describe(err))
			return
		}

		ctx.Reply(fmt.Sprintf("🔇 | **%s** ha sido silenciado hasta <t:%d:f>.\n**Razón:** %s",
			user.Username, until.Unix(), reason))
	}()
	return nil
}
