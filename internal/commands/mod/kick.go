package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand
func (d *Deps) createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		d.kickHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a expulsar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la expulsión",
			Required:    false,
		},
	).RequiresModerator().
		WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers)
}

func (d *Deps) kickHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if msg := checkTarget(ctx, user); msg != "" {
			ctx.ReplyEphemeral(msg)
			return
		}
		reason := reasonOrDefault(ctx.GetStringOption("razon"))

		result, err := ctx.Confirm(&discordgo.MessageEmbed{
			Title:       "👢 Confirmar expulsión",
			Description: fmt.Sprintf("¿Seguro que quieres expulsar a **%s**?\n**Razón:** %s", user.Username, reason),
			Color:       0xFFA500,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando confirmación: %v", err), "CMD-Kick")
			return
		}
		if result != discord.ConfirmAccepted {
			return
		}

		c, cancel := commandContext()
		defer cancel()

		if err := d.Actions.Kick(c, ctx.Interaction.GuildID, user.ID, reason); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo expulsar a %s: %v", user.ID, err), "CMD-Kick")
			ctx.CloseConfirm(discord.Describe(err))
			return
		}
		ctx.CloseConfirm(fmt.Sprintf("👢 | **%s** ha sido expulsado.\n**Razón:** %s", user.Username, reason))
	}()
	return nil
}
