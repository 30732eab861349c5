package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func (d *Deps) createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		d.warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
			MaxLength:   512,
		},
	).RequiresModerator().RequiresDatabase()
}

func (d *Deps) warnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if msg := checkTarget(ctx, user); msg != "" {
			ctx.ReplyEphemeral(msg)
			return
		}
		reason := reasonOrDefault(ctx.GetStringOption("razon"))

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error difiriendo respuesta: %v", err), "CMD-Warn")
			return
		}

		c, cancel := commandContext()
		defer cancel()

		warns, err := d.Correlator.Ledger().Add(c, ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason)
		if err != nil {
			logger.Error(fmt.Sprintf("Error guardando advertencia: %v", err), "CMD-Warn")
			ctx.EditReply("❌ | No se pudo guardar la advertencia. Inténtalo más tarde.")
			return
		}

		description := fmt.Sprintf("**%s** ha sido advertido.\n\n**Razón:** %s\n**Moderador:** <@%s>\n**Advertencias activas:** %d/%d",
			user.Username, reason, ctx.User().ID, len(warns), correlator.WarningThreshold)
		if len(warns) >= correlator.WarningThreshold {
			description += "\n\n🔇 El usuario alcanzó el límite de advertencias."
		}

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       "⚠️ Advertencia registrada",
			Description: description,
			Color:       0xFFA500,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		})
	}()
	return nil
}
