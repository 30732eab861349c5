package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createClearWarnsCommand creates the /mod clearwarns subcommand
func (d *Deps) createClearWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"clearwarns",
		"Elimina todas las advertencias de un usuario",
		"mod",
		d.clearWarnsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario cuyas advertencias se eliminarán",
			Required:    true,
		},
	).RequiresModerator().RequiresDatabase()
}

func (d *Deps) clearWarnsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ | Debes especificar un usuario válido.")
			return
		}

		result, err := ctx.Confirm(&discordgo.MessageEmbed{
			Title:       "🗑️ Limpiar advertencias",
			Description: fmt.Sprintf("¿Seguro que quieres eliminar **todas** las advertencias de **%s**?", user.Username),
			Color:       0xFFFF00,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando confirmación: %v", err), "CMD-ClearWarns")
			return
		}
		if result != discord.ConfirmAccepted {
			return
		}

		c, cancel := commandContext()
		defer cancel()

		if err := d.Correlator.Ledger().Clear(c, ctx.Interaction.GuildID, user.ID); err != nil {
			logger.Error(fmt.Sprintf("Error limpiando advertencias: %v", err), "CMD-ClearWarns")
			ctx.CloseConfirm("❌ | No se pudieron eliminar las advertencias.")
			return
		}
		ctx.CloseConfirm(fmt.Sprintf("✅ | Se eliminaron todas las advertencias de **%s**.", user.Username))
	}()
	return nil
}
