package utils

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

const helpText = "📖 **Ayuda de PancyMod**\n\n" +
	"**Utilidad:**\n" +
	"• `/utils ping` - Comprueba la latencia\n" +
	"• `/utils status` - Estado del bot\n" +
	"• `/utils stats` - Estadísticas del bot\n\n" +
	"**Moderación:**\n" +
	"• `/mod warn <usuario> <razón>` - Advierte a un usuario\n" +
	"• `/mod warns [usuario]` - Lista las advertencias activas\n" +
	"• `/mod removewarn <usuario> <id>` - Elimina una advertencia\n" +
	"• `/mod clearwarns <usuario>` - Elimina todas las advertencias\n" +
	"• `/mod mute <usuario> <duración> [razón]` - Silencia temporalmente\n" +
	"• `/mod unmute <usuario>` - Quita el silencio\n" +
	"• `/mod kick <usuario> [razón]` - Expulsa a un usuario\n" +
	"• `/mod ban <usuario> [razón]` - Banea a un usuario\n\n" +
	"**Configuración:**\n" +
	"• `/modconfig logchannel [canal]` - Canal de alertas\n" +
	"• `/modconfig alertchannel [canal]` - Canal de alertas críticas\n" +
	"• `/modconfig pingrole [rol]` - Rol mencionado en alertas críticas\n" +
	"• `/modconfig mutedrole [rol]` - Rol al llegar a 3 advertencias\n" +
	"• `/modconfig modrole add|remove <rol>` - Roles de moderador\n" +
	"• `/modconfig automod <activado>` - Alertas de AutoMod\n" +
	"• `/modconfig show` - Configuración actual\n\n" +
	"Las advertencias expiran a los 14 días."

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.ReplyEphemeral(helpText)
	}()
	return nil
}
