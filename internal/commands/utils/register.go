// Package utils provides the /utils informational commands
package utils

import (
	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// Deps is the state reported by /utils status and stats.
type Deps struct {
	Correlator *correlator.Correlator
	DB         *database.Database
}

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient, d *Deps) {
	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		d.createPingCommand(),
		d.createStatusCommand(),
		createHelpCommand(),
		d.createStatsCommand(),
	)

	client.CommandHandler.AddGlobalCommand(utilsGroup)
}
