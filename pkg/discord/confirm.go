package discord

import (
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// ConfirmTimeout is how long a confirmation prompt waits for an answer.
const ConfirmTimeout = 30 * time.Second

const confirmPrefix = "confirm:"

// ConfirmResult is the outcome of a confirmation prompt.
type ConfirmResult int

const (
	ConfirmAccepted ConfirmResult = iota
	ConfirmRejected
	ConfirmTimedOut
)

func (r ConfirmResult) String() string {
	switch r {
	case ConfirmAccepted:
		return "accepted"
	case ConfirmRejected:
		return "rejected"
	default:
		return "timed out"
	}
}

// Confirmations tracks open yes/no prompts. Only the member who opened a
// prompt may answer it.
type Confirmations struct {
	mu      sync.Mutex
	pending map[string]*pendingConfirm
}

type pendingConfirm struct {
	userID string
	answer chan bool
}

// NewConfirmations creates an empty registry.
func NewConfirmations() *Confirmations {
	return &Confirmations{pending: make(map[string]*pendingConfirm)}
}

func (c *Confirmations) open(userID string) (string, <-chan bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	p := &pendingConfirm{userID: userID, answer: make(chan bool, 1)}
	c.pending[id] = p
	return id, p.answer
}

func (c *Confirmations) discard(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// answerResult tells the clicking member what happened to their click.
type answerResult int

const (
	answerAccepted answerResult = iota
	answerUnknown
	answerForeign
)

// answer delivers a click to the prompt it belongs to.
func (c *Confirmations) answer(customID, userID string) answerResult {
	id, yes, ok := parseConfirmID(customID)
	if !ok {
		return answerUnknown
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return answerUnknown
	}
	if p.userID != userID {
		return answerForeign
	}
	delete(c.pending, id)
	p.answer <- yes
	return answerAccepted
}

// wait blocks until the prompt is answered or timeout elapses.
func (c *Confirmations) wait(id string, answer <-chan bool, timeout time.Duration) ConfirmResult {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case yes := <-answer:
		if yes {
			return ConfirmAccepted
		}
		return ConfirmRejected
	case <-timer.C:
		c.discard(id)
		// an answer may have raced the timer
		select {
		case yes := <-answer:
			if yes {
				return ConfirmAccepted
			}
			return ConfirmRejected
		default:
			return ConfirmTimedOut
		}
	}
}

func parseConfirmID(customID string) (id string, yes bool, ok bool) {
	rest, found := strings.CutPrefix(customID, confirmPrefix)
	if !found {
		return "", false, false
	}
	id, choice, found := strings.Cut(rest, ":")
	if !found || id == "" {
		return "", false, false
	}
	switch choice {
	case "yes":
		return id, true, true
	case "no":
		return id, false, true
	}
	return "", false, false
}

func confirmButtons(id string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirmar",
					Style:    discordgo.DangerButton,
					CustomID: confirmPrefix + id + ":yes",
				},
				discordgo.Button{
					Label:    "Cancelar",
					Style:    discordgo.SecondaryButton,
					CustomID: confirmPrefix + id + ":no",
				},
			},
		},
	}
}

// Confirm shows an ephemeral prompt with Confirm and Cancel buttons and waits
// up to ConfirmTimeout. Cancelling or timing out edits the prompt into a
// cancellation notice. The command must not have replied yet.
func (ctx *CommandContext) Confirm(prompt *discordgo.MessageEmbed) (ConfirmResult, error) {
	c := ctx.Client.Confirmations
	id, answer := c.open(ctx.User().ID)

	err := ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{prompt},
			Components: confirmButtons(id),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		c.discard(id)
		return ConfirmRejected, err
	}

	result := c.wait(id, answer, ConfirmTimeout)

	var notice string
	switch result {
	case ConfirmTimedOut:
		notice = "⏱️ | Tiempo agotado. La acción ha sido cancelada."
	case ConfirmRejected:
		notice = "❌ | Acción cancelada."
	default:
		return result, nil
	}

	if err := ctx.CloseConfirm(notice); err != nil {
		logger.Warn("No se pudo actualizar la confirmación: "+err.Error(), "Confirm")
	}
	return result, nil
}

// CloseConfirm replaces an answered prompt with content and removes its
// buttons.
func (ctx *CommandContext) CloseConfirm(content string) error {
	empty := []discordgo.MessageComponent{}
	noEmbeds := []*discordgo.MessageEmbed{}
	_, err := ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &empty,
		Embeds:     &noEmbeds,
	})
	return err
}

// handleComponent routes button clicks to open prompts.
func (c *Confirmations) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if !strings.HasPrefix(data.CustomID, confirmPrefix) {
		return
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	var resp *discordgo.InteractionResponse
	switch c.answer(data.CustomID, userID) {
	case answerAccepted:
		// the prompt is edited by Confirm once it resumes
		resp = &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	case answerForeign:
		resp = ephemeral("❌ | Esta confirmación no es tuya.")
	default:
		resp = ephemeral("⏱️ | Esta confirmación ya expiró.")
	}
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		logger.Warn("No se pudo responder al botón: "+err.Error(), "Confirm")
	}
}

func ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}
