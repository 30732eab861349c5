// Package main provides a utility to sync Discord slash commands.
// It removes stale commands from Discord and makes sure only the commands
// currently defined by the bot are registered.
//
// Usage:
//
//	sync-commands [--guild <id>] [list|clean|sync]
//
// Without a subcommand the global commands are synced.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/urfave/cli/v3"
)

const prefix = "SyncCommands"

var app = cli.Command{
	Name:  "sync-commands",
	Usage: "Manage the slash commands registered on Discord",

	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "guild",
			Aliases: []string{"g"},
			Usage:   "Target a specific guild instead of the global commands",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List the registered commands",
			Action: withClient(listCommands),
		},
		{
			Name:   "clean",
			Usage:  "Remove every command without registering new ones",
			Action: withClient(cleanCommands),
		},
		{
			Name:   "sync",
			Usage:  "Replace the registered commands with the current ones",
			Action: withClient(syncCommands),
		},
	},
	Action: withClient(syncCommands),
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// withClient connects to Discord, loads the command definitions and runs fn
// against the guild given by --guild, or globally.
func withClient(fn func(client *discord.ExtendedClient, guildID string) error) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
		defer log.Close()

		logger.System("Iniciando utilidad de sincronización de comandos...", prefix)

		client, err := discord.NewClient(cfg.BotToken)
		if err != nil {
			return fmt.Errorf("create Discord client: %w", err)
		}
		if err := client.Session.Open(); err != nil {
			return fmt.Errorf("connect to Discord: %w", err)
		}
		defer client.Session.Close()

		logger.Success("Conectado a Discord", prefix)

		// definitions only; nothing runs
		commands.RegisterAll(client, commands.Deps{Config: cfg})

		if err := fn(client, cmd.String("guild")); err != nil {
			return err
		}
		logger.Success("Operación completada exitosamente", prefix)
		return nil
	}
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("📋 Listando comandos registrados...", prefix)

	var cmds []*discordgo.ApplicationCommand
	var err error
	if guildID != "" {
		logger.Info(fmt.Sprintf("Obteniendo comandos del servidor: %s", guildID), prefix)
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		logger.Info("Obteniendo comandos globales", prefix)
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}

	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", prefix)
		return nil
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), prefix)
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), prefix)
	}
	return nil
}

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🧹 Eliminando todos los comandos...", prefix)

	if err := client.CommandHandler.UnregisterGuildCommands(guildID); err != nil {
		return fmt.Errorf("remove commands: %w", err)
	}
	logger.Success("✅ Todos los comandos han sido eliminados", prefix)
	return nil
}

// syncCommands replaces the registered commands with the current ones. A
// guild receives the developer commands.
func syncCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🔄 Sincronizando comandos...", prefix)

	if guildID != "" {
		if err := client.CommandHandler.SyncGuildCommands(guildID); err != nil {
			return fmt.Errorf("sync guild commands: %w", err)
		}
		logger.Success(fmt.Sprintf("✅ Comandos de desarrollo sincronizados en %s", guildID), prefix)
		return nil
	}

	if err := client.CommandHandler.SyncCommands(); err != nil {
		return fmt.Errorf("sync commands: %w", err)
	}
	logger.Success("✅ Comandos sincronizados correctamente", prefix)
	return nil
}
