package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

const pingTimeout = 3 * time.Second

// createPingCommand creates the /utils ping subcommand
func (d *Deps) createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del gateway y de la base de datos",
		"utils",
		d.pingHandler,
	)
}

func (d *Deps) pingHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		gateway := ctx.Client.Session.HeartbeatLatency()
		var dbLatency time.Duration
		dbErr := fmt.Errorf("sin conexión")
		if d.DB.Connected() {
			c, cancel := context.WithTimeout(context.Background(), pingTimeout)
			dbLatency, dbErr = d.DB.Ping(c)
			cancel()
		}
		ctx.Reply(pingReport(gateway, dbLatency, dbErr, d.Correlator.Running()))
	}()
	return nil
}

// pingReport formats the /utils ping reply.
func pingReport(gateway, db time.Duration, dbErr error, running bool) string {
	dbLine := fmt.Sprintf("%dms", db.Milliseconds())
	if dbErr != nil {
		dbLine = "❌ " + dbErr.Error()
	}
	correlator := "🔴 detenido"
	if running {
		correlator = "🟢 activo"
	}
	return fmt.Sprintf(
		"🏓 Pong!\n• Gateway: %dms\n• Base de datos: %s\n• Correlador: %s",
		gateway.Milliseconds(), dbLine, correlator,
	)
}
