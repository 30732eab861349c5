package events

import (
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (r *router) registerVoiceEvents(client *discord.ExtendedClient) {
	client.EventHandler.On("VoiceStateUpdate", r.onVoiceStateUpdate)
}

func (r *router) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	u, ok := voiceUpdate(v, time.Now())
	if !ok {
		return
	}
	r.corr.VoiceStateChanged(u)
}

// voiceUpdate converts a gateway voice update. Bots are ignored. The state
// before the update is unknown for members not yet cached and is treated as
// disconnected.
func voiceUpdate(v *discordgo.VoiceStateUpdate, at time.Time) (correlator.VoiceUpdate, bool) {
	if v == nil || v.VoiceState == nil || v.GuildID == "" {
		return correlator.VoiceUpdate{}, false
	}
	if v.Member != nil && v.Member.User != nil && v.Member.User.Bot {
		return correlator.VoiceUpdate{}, false
	}
	return correlator.VoiceUpdate{
		GuildID: v.GuildID,
		UserID:  v.UserID,
		Before:  discord.VoiceStatusOf(v.BeforeUpdate),
		After:   discord.VoiceStatusOf(v.VoiceState),
		At:      at,
	}, true
}
