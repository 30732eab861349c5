package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createRemoveWarnCommand creates the /mod removewarn subcommand
func (d *Deps) createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia específica de un usuario",
		"mod",
		d.removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del cual eliminar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).RequiresModerator().RequiresDatabase().WithAutoComplete(d.removeWarnAutoComplete)
}

func (d *Deps) removeWarnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		warnID := ctx.GetStringOption("id")
		if user == nil || warnID == "" {
			ctx.ReplyEphemeral("❌ | Debes especificar un usuario y el ID de la advertencia.")
			return
		}

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error difiriendo respuesta: %v", err), "CMD-RemoveWarn")
			return
		}

		c, cancel := commandContext()
		defer cancel()

		removed, err := d.Correlator.Ledger().Remove(c, ctx.Interaction.GuildID, user.ID, warnID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error eliminando advertencia: %v", err), "CMD-RemoveWarn")
			ctx.EditReply("❌ | Error al consultar la base de datos.")
			return
		}
		if !removed {
			ctx.EditReply("❌ | No se encontró una advertencia activa con ese ID.")
			return
		}

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       "✅ Advertencia eliminada con éxito",
			Description: fmt.Sprintf("La advertencia `%s` de **%s** ha sido eliminada.", warnID, user.Username),
			Color:       0x00FF00,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().Username),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()
	return nil
}

// removeWarnAutoComplete suggests the active warnings of the chosen member
func (d *Deps) removeWarnAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		opt := ctx.GetOption("usuario")
		if opt == nil {
			ctx.SendAutoCompleteChoices(nil)
			return
		}
		userID, _ := opt.Value.(string)

		c, cancel := commandContext()
		defer cancel()

		warns, err := d.Correlator.Ledger().Get(c, ctx.Interaction.GuildID, userID)
		if err != nil {
			logger.Debug(fmt.Sprintf("Autocompletado sin datos: %v", err), "CMD-RemoveWarn")
			ctx.SendAutoCompleteChoices(nil)
			return
		}
		ctx.SendAutoCompleteChoices(warningChoices(warns))
	}()
}
