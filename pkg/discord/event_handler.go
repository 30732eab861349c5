// Package discord provides the event handler for managing Discord events.
package discord

import (
	"fmt"
	"sort"
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// EventHandler attaches gateway handlers to the session and remembers which
// events are being listened to.
type EventHandler struct {
	client *ExtendedClient
	mu     sync.RWMutex
	counts map[string]int
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		counts: make(map[string]int),
	}
}

// LoadEvents reports the handlers registered before the session opens.
func (eh *EventHandler) LoadEvents() error {
	eh.mu.RLock()
	defer eh.mu.RUnlock()

	total := 0
	for _, n := range eh.counts {
		total += n
	}
	logger.System(fmt.Sprintf("Carga finalizada. %d manejadores en %d eventos.", total, len(eh.counts)), "EventHandler")
	return nil
}

// On adds handler to the session under the gateway event name. handler must
// be a func(*discordgo.Session, *discordgo.<Event>) as accepted by
// discordgo.Session.AddHandler.
func (eh *EventHandler) On(event string, handler interface{}) {
	eh.client.Session.AddHandler(handler)

	eh.mu.Lock()
	eh.counts[event]++
	eh.mu.Unlock()

	logger.Debug(fmt.Sprintf("Evento '%s' registrado", event), "EventHandler")
}

// Events returns the names of the events with at least one handler, sorted.
func (eh *EventHandler) Events() []string {
	eh.mu.RLock()
	defer eh.mu.RUnlock()

	names := make([]string, 0, len(eh.counts))
	for name := range eh.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
