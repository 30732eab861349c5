package events

import (
	"time"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

func (r *router) registerAutomodEvents(client *discord.ExtendedClient) {
	client.EventHandler.On("AutoModerationActionExecution", r.onAutomodAction)
}

// onAutomodAction relays an automod hit. A rule execution produces one event
// per action, so only the block action is reported.
func (r *router) onAutomodAction(s *discordgo.Session, e *discordgo.AutoModerationActionExecution) {
	if e.Action.Type != discordgo.AutoModerationRuleActionBlockMessage {
		return
	}

	rule := e.RuleID
	if found, ok := errors.BestEffort("Automod", "leer regla", func() (*discordgo.AutoModerationRule, error) {
		return s.AutoModerationRule(e.GuildID, e.RuleID)
	}); ok && found != nil {
		rule = found.Name
	}

	r.corr.AutomodActionExecuted(automodExecution(e, rule, time.Now()))
}

func automodExecution(e *discordgo.AutoModerationActionExecution, rule string, at time.Time) correlator.AutomodExecution {
	return correlator.AutomodExecution{
		GuildID:   e.GuildID,
		UserID:    e.UserID,
		ChannelID: e.ChannelID,
		Rule:      rule,
		Keyword:   e.MatchedKeyword,
		Content:   e.Content,
		At:        at,
	}
}
