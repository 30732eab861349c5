// Package modconfig provides the /modconfig commands that edit a guild's
// alert settings.
package modconfig

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Settings loads and stores guild alert settings.
type Settings interface {
	GuildConfig(ctx context.Context, guildID string) (models.GuildAlertConfig, error)
	SetGuildConfig(ctx context.Context, guildID string, cfg models.GuildAlertConfig) error
}

// RegisterModConfigCommands registers /modconfig and its subcommands
func RegisterModConfigCommands(client *discord.ExtendedClient, settings Settings) {
	ch := client.CommandHandler

	group := ch.BuildCommandGroup(
		"modconfig",
		"Configuración de moderación del servidor",
		channelCommand("logchannel", "Canal donde se publican las alertas", settings, setLogChannel),
		channelCommand("alertchannel", "Canal adicional para alertas críticas", settings, setAlertChannel),
		roleCommand("pingrole", "Rol mencionado en alertas críticas", settings, setPingRole),
		roleCommand("mutedrole", "Rol asignado al alcanzar el límite de advertencias", settings, setMutedRole),
		automodCommand(settings),
		showCommand(settings),
	)
	group.Options = append(group.Options, ch.BuildSubcommandGroup(
		"modconfig",
		"modrole",
		"Roles que pueden usar los comandos de moderación",
		modRoleCommand("add", "Agrega un rol de moderador", settings, addModRole),
		modRoleCommand("remove", "Quita un rol de moderador", settings, removeModRole),
	))
	manageGuild := int64(discordgo.PermissionManageGuild)
	dm := false
	group.DefaultMemberPermissions = &manageGuild
	group.DMPermission = &dm

	ch.AddGlobalCommand(group)
}

// mutation edits cfg in place and returns the confirmation shown to the
// member.
type mutation func(cfg *models.GuildAlertConfig) string

// update applies m to the stored settings of the interaction's guild.
func update(ctx *discord.CommandContext, settings Settings, m mutation) {
	defer errors.RecoverMiddleware()()

	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	guildID := ctx.Interaction.GuildID
	if guildID == "" {
		ctx.ReplyEphemeral("❌ | Este comando solo puede usarse en un servidor.")
		return
	}

	cfg, err := settings.GuildConfig(c, guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error leyendo configuración de %s: %v", guildID, err), "CMD-ModConfig")
		ctx.ReplyEphemeral("❌ | No se pudo leer la configuración.")
		return
	}

	msg := m(&cfg)
	if err := settings.SetGuildConfig(c, guildID, cfg); err != nil {
		logger.Error(fmt.Sprintf("Error guardando configuración de %s: %v", guildID, err), "CMD-ModConfig")
		ctx.ReplyEphemeral("❌ | No se pudo guardar la configuración.")
		return
	}

	logger.Info(fmt.Sprintf("Configuración actualizada en %s por %s", guildID, ctx.User().ID), "CMD-ModConfig")
	ctx.ReplyEphemeral(msg)
}
