// Package correlator watches guild events, keeps the rolling records they
// need (message cache, warning ledgers, voice timelines, AFK timers) and
// turns suspicious patterns into alerts for the guild's log channel.
package correlator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/metrics"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// Options tunes a Correlator. Zero values pick the defaults.
type Options struct {
	CacheSize int
	AFKDelay  time.Duration
	Clock     Clock
	Publisher Publisher
	Metrics   *metrics.Metrics
}

// Correlator is the single owner of all moderation state. Events received
// while it is stopped are ignored.
type Correlator struct {
	repo     Repository
	platform Platform
	clock    Clock
	metrics  *metrics.Metrics

	cache      *EventCache
	voice      *VoiceTimeline
	ledger     *Ledger
	dispatcher *Dispatcher
	afk        *AFKPurger

	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// VoiceUpdate is one voice state transition of a member.
type VoiceUpdate struct {
	GuildID string
	UserID  string
	Before  VoiceStatus
	After   VoiceStatus
	At      time.Time
}

// AutomodExecution is an automod rule firing on a member's message.
type AutomodExecution struct {
	GuildID   string
	UserID    string
	ChannelID string
	Rule      string
	Keyword   string
	Content   string
	At        time.Time
}

// New creates a stopped Correlator.
func New(repo Repository, platform Platform, opts Options) *Correlator {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	c := &Correlator{
		repo:     repo,
		platform: platform,
		clock:    opts.Clock,
		metrics:  opts.Metrics,
		cache:    NewEventCache(opts.CacheSize),
		voice:    NewVoiceTimeline(),
	}
	c.dispatcher = NewDispatcher(repo, platform, opts.Publisher, opts.Metrics)
	c.ledger = NewLedger(repo, platform, c.dispatcher, opts.Clock, opts.Metrics)
	c.afk = NewAFKPurger(opts.Clock, opts.AFKDelay, c.purge)
	return c
}

// Start enables event processing. Calls after the first are no-ops until
// Stop. ctx bounds every outbound call made on behalf of events.
func (c *Correlator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("correlator: nil context")
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.running = true
	logger.System("Correlador de moderación iniciado", "Correlator")
	return nil
}

// Stop disables event processing and cancels every pending AFK timer.
func (c *Correlator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false
	c.afk.Stop()
	c.cancel()
	logger.System("Correlador de moderación detenido", "Correlator")
}

// Running reports whether the correlator processes events.
func (c *Correlator) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Ledger returns the warning ledger.
func (c *Correlator) Ledger() *Ledger { return c.ledger }

// Cache returns the message cache.
func (c *Correlator) Cache() *EventCache { return c.cache }

// Dispatcher returns the alert dispatcher.
func (c *Correlator) Dispatcher() *Dispatcher { return c.dispatcher }

// AFK returns the AFK purger.
func (c *Correlator) AFK() *AFKPurger { return c.afk }

func (c *Correlator) runCtx() (context.Context, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ctx, c.running
}

// MessageCreated caches m and reports hidden text.
func (c *Correlator) MessageCreated(m CachedMessage) {
	ctx, ok := c.runCtx()
	if !ok {
		return
	}
	c.cache.Record(m)
	c.metrics.MessagesCached.Observe(1)

	if a, found := DetectHiddenText(m); found {
		c.dispatcher.Send(ctx, a)
	}
}

// MessageEdited reports a content change of a cached message and refreshes
// its snapshot. Messages that were never cached are ignored.
func (c *Correlator) MessageEdited(messageID, content string, editedAt time.Time) {
	ctx, ok := c.runCtx()
	if !ok {
		return
	}
	before, found := c.cache.Peek(messageID)
	if !found {
		return
	}
	a, changed := DetectEdit(before, content, editedAt)
	if !changed {
		return
	}

	after := before
	after.Content = content
	c.cache.Record(after)
	c.dispatcher.Send(ctx, a)

	if hidden, found := DetectHiddenText(after); found {
		hidden.At = editedAt
		c.dispatcher.Send(ctx, hidden)
	}
}

// MessageDeleted reports the deletion of a cached message, as a ghost ping
// when it qualifies. For messages with mentions the deleting moderator is
// looked up in the audit log.
func (c *Correlator) MessageDeleted(messageID string, deletedAt time.Time) {
	ctx, ok := c.runCtx()
	if !ok {
		return
	}
	m, found := c.cache.Take(messageID)
	if !found {
		return
	}

	actor := ""
	if m.MentionCount > 0 {
		actor, _ = errors.BestEffort("Correlator", "consultar registro de auditoría", func() (string, error) {
			return c.platform.MessageDeleter(ctx, m.GuildID, m.ChannelID, m.AuthorID)
		})
	}
	c.dispatcher.Send(ctx, ClassifyDeletion(m, deletedAt, actor))
}

// VoiceStateChanged records channel transitions, reports rapid switching and
// drives the member's AFK timer.
func (c *Correlator) VoiceStateChanged(u VoiceUpdate) {
	ctx, ok := c.runCtx()
	if !ok {
		return
	}

	if u.Before.ChannelID != u.After.ChannelID {
		// a move counts as one transition, recorded as a join of the new channel
		entry := VoiceActivityEntry{Action: VoiceJoin, Timestamp: u.At, ChannelID: u.After.ChannelID}
		if u.After.ChannelID == "" {
			entry = VoiceActivityEntry{Action: VoiceLeave, Timestamp: u.At, ChannelID: u.Before.ChannelID}
		}
		recent := c.voice.Append(u.GuildID, u.UserID, entry)
		if a, found := DetectRapidVoice(u.GuildID, u.UserID, recent); found {
			c.dispatcher.Send(ctx, a)
		}
	}

	switch {
	case u.After.Idle() && !u.Before.Idle():
		c.afk.Schedule(u.GuildID, u.UserID)
	case !u.After.Idle():
		c.afk.Cancel(u.GuildID, u.UserID)
	}
}

// AutomodModerator is the moderator recorded on warnings issued for automod
// violations.
const AutomodModerator = "automod"

// AutomodActionExecuted relays an automod execution when the guild enabled
// automod, and records it as a warning so repeated violations reach the mute
// threshold.
func (c *Correlator) AutomodActionExecuted(e AutomodExecution) {
	ctx, ok := c.runCtx()
	if !ok {
		return
	}
	cfg, found := errors.BestEffort("Correlator", "leer configuración", func() (models.GuildAlertConfig, error) {
		return c.repo.GuildConfig(ctx, e.GuildID)
	})
	if !found || !cfg.AutomodEnabled {
		return
	}
	c.dispatcher.Send(ctx, AutomodExecuted(e.GuildID, e.UserID, e.ChannelID, e.Rule, e.Keyword, e.Content, e.At))

	reason := "AutoMod"
	if e.Rule != "" {
		reason += ": " + e.Rule
	}
	errors.BestEffort("Correlator", "registrar advertencia de AutoMod", func() ([]models.Warning, error) {
		return c.ledger.Add(ctx, e.GuildID, e.UserID, AutomodModerator, reason)
	})
}

// MemberLeft drops the member's voice history and pending AFK timer.
func (c *Correlator) MemberLeft(guildID, userID string) {
	c.afk.Cancel(guildID, userID)
	c.voice.Forget(guildID, userID)
}

// Unmute removes the guild's muted role from a member.
func (c *Correlator) Unmute(ctx context.Context, guildID, userID string) error {
	cfg, err := c.repo.GuildConfig(ctx, guildID)
	if err != nil {
		return fmt.Errorf("load guild config: %w", err)
	}
	if cfg.MutedRole == "" {
		return errors.ErrNotFound
	}
	return c.platform.RemoveRole(ctx, guildID, userID, cfg.MutedRole)
}

// purge runs when a member's AFK timer expires. The member is disconnected
// only if still idle, since the state may have changed unobserved.
func (c *Correlator) purge(guildID, userID string) {
	defer errors.RecoverMiddleware()()

	ctx, ok := c.runCtx()
	if !ok {
		return
	}
	status, found := errors.BestEffort("AFK", "leer estado de voz", func() (VoiceStatus, error) {
		return c.platform.VoiceStatus(ctx, guildID, userID)
	})
	if !found || !status.Idle() {
		logger.Debug(fmt.Sprintf("Purga AFK descartada para %s en %s", userID, guildID), "AFK")
		return
	}

	if !errors.Try("AFK", "desconectar usuario", func() error {
		return c.platform.DisconnectMember(ctx, guildID, userID)
	}) {
		return
	}
	c.metrics.AFKPurges.Observe(1)
	c.dispatcher.Send(ctx, AFKPurged(guildID, userID, status.ChannelID, c.clock.Now()))
}
