// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, modconfig, dev)
package commands

import (
	"github.com/PancyStudios/PancyModGo/internal/commands/dev"
	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/internal/commands/modconfig"
	"github.com/PancyStudios/PancyModGo/internal/commands/utils"
	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// Deps is everything the command groups act on.
type Deps struct {
	Correlator *correlator.Correlator
	Settings   modconfig.Settings
	Actions    mod.Actions
	DB         *database.Database
	Config     *config.Config
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, d Deps) {
	// Utility commands (/utils ping, /utils status, /utils help, /utils stats)
	utils.RegisterUtilsCommands(client, &utils.Deps{Correlator: d.Correlator, DB: d.DB})

	// Moderation commands (/mod warn, /mod warns, /mod kick, /mod ban, ...)
	mod.RegisterModCommands(client, &mod.Deps{Correlator: d.Correlator, Actions: d.Actions})

	// Guild settings (/modconfig ...)
	modconfig.RegisterModConfigCommands(client, d.Settings)

	// Developer commands, dev guild only
	dev.Register(client, &dev.Deps{Correlator: d.Correlator, DB: d.DB, Config: d.Config})
}
