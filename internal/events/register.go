// Package events feeds gateway events into the moderation correlator.
// Events are organized by category (guild, member, message, voice, automod).
package events

import (
	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// router holds what the gateway handlers need. Its methods are registered
// directly with the session.
type router struct {
	corr *correlator.Correlator
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, corr *correlator.Correlator) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	r := &router{corr: corr}

	// Ready and connection events
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (leave)
	r.registerMemberEvents(client)

	// Message events (create/update/delete)
	r.registerMessageEvents(client)

	// Voice events (join/leave/move/mute)
	r.registerVoiceEvents(client)

	// Automod executions
	r.registerAutomodEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
