package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warns subcommand. Members may list
// their own warnings; listing someone else's needs a moderator.
func (d *Deps) createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias activas de un usuario",
		"mod",
		d.warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func (d *Deps) warningsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		target := ctx.GetUserOption("usuario")
		if target == nil {
			target = ctx.User()
		}
		if target.ID != ctx.User().ID && !ctx.IsModerator() {
			ctx.ReplyEphemeral("❌ | No tienes permisos para ver la lista de advertencias de otro usuario.")
			return
		}

		if err := ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
		}); err != nil {
			logger.Error(fmt.Sprintf("Error difiriendo respuesta: %v", err), "CMD-Warnings")
			return
		}

		c, cancel := commandContext()
		defer cancel()

		warns, err := d.Correlator.Ledger().Get(c, ctx.Interaction.GuildID, target.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error consultando advertencias: %v", err), "CMD-Warnings")
			ctx.EditReply("❌ | Error al consultar la base de datos.")
			return
		}

		ctx.EditReplyEmbed(warningList(target, warns, time.Now()))
	}()
	return nil
}
