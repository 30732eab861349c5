package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createBanCommand creates the /mod ban subcommand
func (d *Deps) createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		d.banHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a banear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del ban",
			Required:    false,
		},
	).RequiresModerator().
		WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers)
}

func (d *Deps) banHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if msg := checkTarget(ctx, user); msg != "" {
			ctx.ReplyEphemeral(msg)
			return
		}
		reason := reasonOrDefault(ctx.GetStringOption("razon"))

		result, err := ctx.Confirm(&discordgo.MessageEmbed{
			Title:       "🔨 Confirmar ban",
			Description: fmt.Sprintf("¿Seguro que quieres banear a **%s**?\n**Razón:** %s", user.Username, reason),
			Color:       0xFF0000,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando confirmación: %v", err), "CMD-Ban")
			return
		}
		if result != discord.ConfirmAccepted {
			return
		}

		c, cancel := commandContext()
		defer cancel()

		if err := d.Actions.Ban(c, ctx.Interaction.GuildID, user.ID, reason); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo banear a %s: %v", user.ID, err), "CMD-Ban")
			ctx.CloseConfirm(discord.Describe(err))
			return
		}
		ctx.CloseConfirm(fmt.Sprintf("🔨 | **%s** ha sido baneado.\n**Razón:** %s", user.Username, reason))
	}()
	return nil
}
