package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createUnmuteCommand creates the /mod unmute subcommand
func (d *Deps) createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Quita el silencio y el rol de silenciado a un usuario",
		"mod",
		d.unmuteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a desilenciar",
			Required:    true,
		},
	).RequiresModerator()
}

// unmuteHandler lifts the timeout and removes the muted role. Either one
// succeeding counts, since a member usually carries only one of them.
func (d *Deps) unmuteHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if msg := checkTarget(ctx, user); msg != "" {
			ctx.ReplyEphemeral(msg)
			return
		}

		c, cancel := commandContext()
		defer cancel()

		timeoutErr := d.Actions.ClearTimeout(c, ctx.Interaction.GuildID, user.ID)
		roleErr := d.Correlator.Unmute(c, ctx.Interaction.GuildID, user.ID)
		if timeoutErr != nil && roleErr != nil {
			logger.Warn(fmt.Sprintf("No se pudo desilenciar a %s: %v / %v", user.ID, timeoutErr, roleErr), "CMD-Unmute")
			ctx.ReplyEphemeral(discord.Describe(timeoutErr))
			return
		}

		ctx.Reply(fmt.Sprintf("🔊 | **%s** ya puede hablar de nuevo.", user.Username))
	}()
	return nil
}
