package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

// createStatusCommand creates the /utils status subcommand
func (d *Deps) createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		d.statusHandler,
	)
}

// statusHandler handles the /utils status command
func (d *Deps) statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		dbStatus, _ := d.DB.GetStatus()
		if d.DB.Connected() {
			c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if rtt, err := d.DB.Ping(c); err == nil {
				dbStatus = fmt.Sprintf("%s (%dms)", dbStatus, rtt.Milliseconds())
			}
			cancel()
		}

		correlatorStatus := "🔴 Detenido"
		if d.Correlator.Running() {
			correlatorStatus = "🟢 Activo"
		}

		ctx.Reply(fmt.Sprintf(
			"📊 **Estado del Bot**\n"+
				"• Bot: 🟢 Online\n"+
				"• Correlador: %s\n"+
				"• Base de datos: %s\n"+
				"• Escrituras pendientes: %d\n"+
				"• Servidores: %d",
			correlatorStatus,
			dbStatus,
			d.DB.PendingWrites(),
			ctx.Client.GuildCount(),
		))
	}()
	return nil
}
