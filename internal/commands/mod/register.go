// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// commandTimeout bounds the outbound calls of a single command.
const commandTimeout = 15 * time.Second

// Actions are the sanctions a moderator can apply directly.
type Actions interface {
	Timeout(ctx context.Context, guildID, userID string, until time.Time) error
	ClearTimeout(ctx context.Context, guildID, userID string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
}

// Deps is what the /mod commands act through.
type Deps struct {
	Correlator *correlator.Correlator
	Actions    Actions
}

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, d *Deps) {
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		d.createWarnCommand(),
		d.createWarningsCommand(),
		d.createClearWarnsCommand(),
		d.createRemoveWarnCommand(),
		d.createKickCommand(),
		d.createBanCommand(),
		d.createMuteCommand(),
		d.createUnmuteCommand(),
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}
