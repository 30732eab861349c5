package correlator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
)

// AlertTopicPrefix is the MQTT topic under which alerts are published,
// followed by the guild ID.
const AlertTopicPrefix = "pancymod/alerts/"

const embedFooter = "💫 - Developed by PancyStudios"

// Dispatcher renders alerts and delivers them to the guild's log channel.
type Dispatcher struct {
	repo      Repository
	platform  Platform
	publisher Publisher
	metrics   *metrics.Metrics
}

// NewDispatcher creates a Dispatcher. publisher may be nil.
func NewDispatcher(repo Repository, platform Platform, publisher Publisher, m *metrics.Metrics) *Dispatcher {
	if m == nil {
		m = metrics.New()
	}
	return &Dispatcher{
		repo:      repo,
		platform:  platform,
		publisher: publisher,
		metrics:   m,
	}
}

// AlertEvent is the payload published for every delivered alert.
type AlertEvent struct {
	Kind      string    `json:"kind"`
	Critical  bool      `json:"critical"`
	GuildID   string    `json:"guildId"`
	UserID    string    `json:"userId,omitempty"`
	ChannelID string    `json:"channelId,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	At        time.Time `json:"at"`
}

// Send delivers a to the log channel of a.GuildID. Guilds without a log
// channel drop the alert silently. Critical alerts mention the ping role
// when one is configured and are mirrored to the alert channel. Delivery
// failures are logged, never returned. Send reports whether the log channel
// accepted the alert.
func (d *Dispatcher) Send(ctx context.Context, a Alert) bool {
	cfg, err := d.repo.GuildConfig(ctx, a.GuildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la configuración de %s: %v", a.GuildID, err), "Dispatcher")
		d.metrics.AlertsDropped.Observe(1, "config_error")
		return false
	}
	if cfg.LogChannel == "" {
		d.metrics.AlertsDropped.Observe(1, "no_log_channel")
		return false
	}

	content := ""
	if a.Critical && cfg.PingRole != "" {
		content = fmt.Sprintf("<@&%s>", cfg.PingRole)
	}
	embed := Render(a)

	delivered := errors.Try("Dispatcher", "enviar alerta "+a.Kind.String(), func() error {
		return d.platform.SendMessage(ctx, cfg.LogChannel, content, embed)
	})
	if !delivered {
		d.metrics.AlertsDropped.Observe(1, "delivery_failed")
		return false
	}
	d.metrics.AlertsSent.Observe(1, a.Kind.String())

	if a.Critical && cfg.AlertChannel != "" && cfg.AlertChannel != cfg.LogChannel {
		errors.Try("Dispatcher", "reflejar alerta crítica", func() error {
			return d.platform.SendMessage(ctx, cfg.AlertChannel, content, embed)
		})
	}

	if d.publisher != nil {
		errors.Try("Dispatcher", "publicar alerta MQTT", func() error {
			return d.publisher.Publish(AlertTopicPrefix+a.GuildID, AlertEvent{
				Kind:      a.Kind.String(),
				Critical:  a.Critical,
				GuildID:   a.GuildID,
				UserID:    a.UserID,
				ChannelID: a.ChannelID,
				Actor:     a.Actor,
				At:        a.At,
			})
		})
	}
	return true
}

// Render formats an alert as an embed. Title, description and color depend
// on the alert kind.
func Render(a Alert) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Footer: &discordgo.MessageEmbedFooter{Text: embedFooter},
	}
	if !a.At.IsZero() {
		e.Timestamp = a.At.Format(time.RFC3339)
	}

	switch a.Kind {
	case KindHiddenText:
		e.Title = "🕵️ - Texto oculto detectado"
		e.Color = 0xFF0000
		e.Description = fmt.Sprintf("> **Usuario:** <@%s>\n> **Canal:** <#%s>\n> **Mensaje:** %s",
			a.UserID, a.ChannelID, quote(visibleZeroWidth(a.Content)))
	case KindGhostPing:
		e.Title = "👻 - Ghost ping detectado"
		e.Color = 0xFF0000
		e.Description = fmt.Sprintf("> **Autor:** <@%s>\n> **Canal:** <#%s>\n> **Eliminado por:** %s\n> **Duración:** %s\n> **Mensaje:** %s",
			a.UserID, a.ChannelID, mentionActor(a.Actor), formatElapsed(a.Elapsed), quote(a.Content))
	case KindRapidVoice:
		e.Title = "🔁 - Actividad de voz sospechosa"
		e.Color = 0xFFA500
		var b strings.Builder
		fmt.Fprintf(&b, "> **Usuario:** <@%s>\n> **Cambios:** %d en %s\n", a.UserID, len(a.Voice), formatElapsed(a.Elapsed))
		for _, v := range a.Voice {
			fmt.Fprintf(&b, "> `%s` <#%s> <t:%d:T>\n", v.Action, v.ChannelID, v.Timestamp.Unix())
		}
		e.Description = strings.TrimSuffix(b.String(), "\n")
	case KindMessageEdited:
		e.Title = "✏️ - Mensaje editado"
		e.Color = 0x3498DB
		e.Description = fmt.Sprintf("> **Autor:** <@%s>\n> **Canal:** <#%s>\n> **Editado tras:** %s",
			a.UserID, a.ChannelID, formatElapsed(a.Elapsed))
		e.Fields = []*discordgo.MessageEmbedField{
			{Name: "Antes", Value: quote(a.Before)},
			{Name: "Después", Value: quote(a.Content)},
		}
	case KindMessageDeleted:
		e.Title = "🗑️ - Mensaje eliminado"
		e.Color = 0x808080
		e.Description = fmt.Sprintf("> **Autor:** <@%s>\n> **Canal:** <#%s>\n> **Eliminado por:** %s\n> **Mensaje:** %s",
			a.UserID, a.ChannelID, mentionActor(a.Actor), quote(a.Content))
		if len(a.Attachments) > 0 {
			e.Fields = []*discordgo.MessageEmbedField{
				{Name: "Adjuntos", Value: truncate(strings.Join(a.Attachments, "\n"), 1024)},
			}
		}
	case KindWarningThreshold:
		e.Title = "🔇 - Límite de advertencias alcanzado"
		e.Color = 0xFF0000
		var b strings.Builder
		fmt.Fprintf(&b, "> **Usuario:** <@%s> ha sido silenciado\n> **Advertencias activas:** %d\n\n", a.UserID, len(a.Warnings))
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "> **%s** - <t:%d:R>\n", w.Reason, w.Timestamp.Unix())
		}
		e.Description = truncate(strings.TrimSuffix(b.String(), "\n"), 4096)
	case KindAFKPurged:
		e.Title = "💤 - Usuario desconectado por inactividad"
		e.Color = 0xFF0000
		e.Description = fmt.Sprintf("> **Usuario:** <@%s>\n> **Canal:** <#%s>\n> Permaneció silenciado o ensordecido demasiado tiempo.",
			a.UserID, a.ChannelID)
	case KindAutomodAction:
		e.Title = "🛡️ - AutoMod"
		e.Color = 0xFFFF00
		e.Description = fmt.Sprintf("> **Usuario:** <@%s>\n> **Canal:** <#%s>\n> **Regla:** %s\n> **Coincidencia:** %s\n> **Mensaje:** %s",
			a.UserID, a.ChannelID, a.Rule, quote(a.Keyword), quote(a.Content))
	default:
		e.Title = "❔ - Evento desconocido"
		e.Color = 0xFFFFFF
	}
	return e
}

func mentionActor(actor string) string {
	if actor == "" || actor == UnknownActor {
		return "Desconocido"
	}
	return fmt.Sprintf("<@%s>", actor)
}

func quote(s string) string {
	if s == "" {
		return "*(vacío)*"
	}
	return "`" + truncate(strings.ReplaceAll(s, "`", "'"), 900) + "`"
}

// visibleZeroWidth replaces invisible characters with a marker so moderators
// can see where they were.
func visibleZeroWidth(s string) string {
	return zeroWidth.ReplaceAllString(s, "␣")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
