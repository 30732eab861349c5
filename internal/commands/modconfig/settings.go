package modconfig

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func setLogChannel(cfg *models.GuildAlertConfig, id string) string {
	cfg.LogChannel = id
	if id == "" {
		return "✅ | Canal de registros eliminado. Las alertas dejarán de publicarse."
	}
	return fmt.Sprintf("✅ | Las alertas se publicarán en <#%s>.", id)
}

func setAlertChannel(cfg *models.GuildAlertConfig, id string) string {
	cfg.AlertChannel = id
	if id == "" {
		return "✅ | Canal de alertas críticas eliminado."
	}
	return fmt.Sprintf("✅ | Las alertas críticas también se enviarán a <#%s>.", id)
}

func setPingRole(cfg *models.GuildAlertConfig, id string) string {
	cfg.PingRole = id
	if id == "" {
		return "✅ | Las alertas críticas ya no mencionarán a ningún rol."
	}
	return fmt.Sprintf("✅ | Las alertas críticas mencionarán a <@&%s>.", id)
}

func setMutedRole(cfg *models.GuildAlertConfig, id string) string {
	cfg.MutedRole = id
	if id == "" {
		return "✅ | Rol de silenciado eliminado. Alcanzar el límite de advertencias solo generará una alerta."
	}
	return fmt.Sprintf("✅ | <@&%s> se asignará al alcanzar el límite de advertencias.", id)
}

func addModRole(cfg *models.GuildAlertConfig, id string) string {
	if slices.Contains(cfg.ModRoles, id) {
		return fmt.Sprintf("ℹ️ | <@&%s> ya es un rol de moderador.", id)
	}
	cfg.ModRoles = append(cfg.ModRoles, id)
	return fmt.Sprintf("✅ | <@&%s> ahora puede usar los comandos de moderación.", id)
}

func removeModRole(cfg *models.GuildAlertConfig, id string) string {
	i := slices.Index(cfg.ModRoles, id)
	if i < 0 {
		return fmt.Sprintf("ℹ️ | <@&%s> no era un rol de moderador.", id)
	}
	cfg.ModRoles = slices.Delete(cfg.ModRoles, i, i+1)
	return fmt.Sprintf("✅ | <@&%s> ya no es un rol de moderador.", id)
}

func channelCommand(name, description string, settings Settings, set func(*models.GuildAlertConfig, string) string) *discord.Command {
	return discord.NewCommand(name, description, "modconfig", func(ctx *discord.CommandContext) error {
		id := ""
		if opt := ctx.GetOption("canal"); opt != nil {
			id = opt.ChannelValue(nil).ID
		}
		go update(ctx, settings, func(cfg *models.GuildAlertConfig) string { return set(cfg, id) })
		return nil
	}).WithOptions(&discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "canal",
		Description:  "Canal de texto (vacío para desactivar)",
		Required:     false,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}).WithUserPermissions(discordgo.PermissionManageGuild)
}

func roleCommand(name, description string, settings Settings, set func(*models.GuildAlertConfig, string) string) *discord.Command {
	return discord.NewCommand(name, description, "modconfig", func(ctx *discord.CommandContext) error {
		id := roleOption(ctx)
		go update(ctx, settings, func(cfg *models.GuildAlertConfig) string { return set(cfg, id) })
		return nil
	}).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "rol",
		Description: "Rol (vacío para desactivar)",
		Required:    false,
	}).WithUserPermissions(discordgo.PermissionManageGuild)
}

func modRoleCommand(name, description string, settings Settings, set func(*models.GuildAlertConfig, string) string) *discord.Command {
	return discord.NewCommand(name, description, "modconfig", func(ctx *discord.CommandContext) error {
		id := roleOption(ctx)
		if id == "" {
			return ctx.ReplyEphemeral("❌ | Debes especificar un rol.")
		}
		go update(ctx, settings, func(cfg *models.GuildAlertConfig) string { return set(cfg, id) })
		return nil
	}).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "rol",
		Description: "Rol de moderador",
		Required:    true,
	}).WithUserPermissions(discordgo.PermissionManageGuild)
}

// roleOption reads the role ID without a REST lookup.
func roleOption(ctx *discord.CommandContext) string {
	opt := ctx.GetOption("rol")
	if opt == nil {
		return ""
	}
	id, _ := opt.Value.(string)
	return id
}

func automodCommand(settings Settings) *discord.Command {
	return discord.NewCommand("automod", "Activa o desactiva las alertas de AutoMod", "modconfig", func(ctx *discord.CommandContext) error {
		enabled := ctx.GetBoolOption("activado")
		go update(ctx, settings, func(cfg *models.GuildAlertConfig) string {
			cfg.AutomodEnabled = enabled
			if enabled {
				return "✅ | Las ejecuciones de AutoMod se reportarán en el canal de registros."
			}
			return "✅ | Las ejecuciones de AutoMod ya no se reportarán."
		})
		return nil
	}).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "activado",
		Description: "Reportar ejecuciones de AutoMod",
		Required:    true,
	}).WithUserPermissions(discordgo.PermissionManageGuild)
}

func showCommand(settings Settings) *discord.Command {
	return discord.NewCommand("show", "Muestra la configuración actual", "modconfig", func(ctx *discord.CommandContext) error {
		go update(ctx, readOnly{settings}, func(cfg *models.GuildAlertConfig) string {
			return describe(*cfg)
		})
		return nil
	}).WithUserPermissions(discordgo.PermissionManageGuild)
}

// readOnly skips the write of an update so show can reuse it.
type readOnly struct {
	Settings
}

func (readOnly) SetGuildConfig(_ context.Context, _ string, _ models.GuildAlertConfig) error {
	return nil
}

func describe(cfg models.GuildAlertConfig) string {
	mention := func(format, id string) string {
		if id == "" {
			return "No configurado"
		}
		return fmt.Sprintf(format, id)
	}

	roles := "Ninguno"
	if len(cfg.ModRoles) > 0 {
		parts := make([]string, len(cfg.ModRoles))
		for i, r := range cfg.ModRoles {
			parts[i] = fmt.Sprintf("<@&%s>", r)
		}
		roles = strings.Join(parts, ", ")
	}

	automod := "Desactivado"
	if cfg.AutomodEnabled {
		automod = "Activado"
	}

	return fmt.Sprintf("⚙️ **Configuración de moderación**\n"+
		"• Canal de registros: %s\n"+
		"• Canal de alertas críticas: %s\n"+
		"• Rol de aviso: %s\n"+
		"• Rol de silenciado: %s\n"+
		"• Roles de moderador: %s\n"+
		"• Alertas de AutoMod: %s",
		mention("<#%s>", cfg.LogChannel),
		mention("<#%s>", cfg.AlertChannel),
		mention("<@&%s>", cfg.PingRole),
		mention("<@&%s>", cfg.MutedRole),
		roles,
		automod,
	)
}
