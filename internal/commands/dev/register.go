// Package dev provides developer commands registered only in the dev guild.
package dev

import (
	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// Deps is the state the developer commands inspect.
type Deps struct {
	Correlator *correlator.Correlator
	DB         *database.Database
	Config     *config.Config
}

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient, d *Deps) {
	devGroup := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		d.createStateCommand(),
		d.createEvalCommand(),
	)

	client.CommandHandler.AddDevCommand(devGroup)
}

func (d *Deps) isDev(ctx *discord.CommandContext) bool {
	return d.Config != nil && d.Config.IsDevUser(ctx.User().ID)
}
