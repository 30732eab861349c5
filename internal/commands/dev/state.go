package dev

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (d *Deps) createStateCommand() *discord.Command {
	return discord.NewCommand(
		"state",
		"Muestra el estado interno del correlador",
		"dev",
		d.stateHandler,
	).AsDev()
}

func (d *Deps) stateHandler(ctx *discord.CommandContext) error {
	if !d.isDev(ctx) {
		return ctx.ReplyEphemeral("❌ **Acceso Denegado:** Este comando es solo para desarrolladores.")
	}

	running := "🔴 Detenido"
	if d.Correlator.Running() {
		running = "🟢 Activo"
	}
	dbStatus, _ := d.DB.GetStatus()

	return ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
		Title: "🧠 Estado del correlador",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Correlador", Value: running, Inline: true},
			{Name: "Mensajes en caché", Value: fmt.Sprintf("%d", d.Correlator.Cache().Len()), Inline: true},
			{Name: "Base de datos", Value: dbStatus, Inline: true},
			{Name: "Escrituras pendientes", Value: fmt.Sprintf("%d", d.DB.PendingWrites()), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "Eventos", Value: "`" + strings.Join(ctx.Client.EventHandler.Events(), "`, `") + "`"},
		},
	})
}
