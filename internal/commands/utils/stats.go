package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /utils stats subcommand
func (d *Deps) createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		d.statsHandler,
	)
}

// statsHandler handles the /utils stats command
func (d *Deps) statsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		members := 0
		for _, g := range ctx.Session.State.Guilds {
			members += g.MemberCount
		}

		field := func(name, value string) *discordgo.MessageEmbedField {
			return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: "📊 Estadísticas del Bot",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				field("🤖 Versión del Bot", config.Version),
				field("🐹 Versión de Go", strings.TrimPrefix(runtime.Version(), "go")),
				field("📚 Versión de DiscordGo", discordgo.VERSION),
				field("🖥 Uso de RAM", fmt.Sprintf("%.2f MB", float64(mem.Alloc)/1024/1024)),
				field("⚙️ Goroutines", fmt.Sprintf("%d / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU())),
				field("⏱ Uptime", formatDuration(time.Since(ctx.Client.StartTime))),
				field("🏠 Servidores", fmt.Sprintf("%d", ctx.Client.GuildCount())),
				field("👥 Miembros", fmt.Sprintf("%d", members)),
				field("💬 Mensajes vigilados", fmt.Sprintf("%d", d.Correlator.Cache().Len())),
			},
			Footer:    &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()
	return nil
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	units := []struct {
		value int
		name  string
	}{
		{int(dur.Hours() / 24), "días"},
		{int(dur.Hours()) % 24, "horas"},
		{int(dur.Minutes()) % 60, "minutos"},
		{int(dur.Seconds()) % 60, "segundos"},
	}

	var parts []string
	for _, u := range units {
		if u.value > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", u.value, u.name))
		}
	}
	if len(parts) == 0 {
		return "0 segundos"
	}
	return strings.Join(parts, ", ")
}
