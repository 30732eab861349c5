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
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	// WarningExpiry is how long a warning counts towards the threshold.
	WarningExpiry = 14 * 24 * time.Hour
	// WarningThreshold is the ledger length that mutes a member.
	WarningThreshold = 3
)

// Ledger keeps the warnings of every member. Reads prune expired warnings
// and persist the pruned list.
type Ledger struct {
	repo       Repository
	platform   Platform
	dispatcher *Dispatcher
	clock      Clock
	metrics    *metrics.Metrics
	locks      keyedMutex
}

// NewLedger creates a Ledger.
func NewLedger(repo Repository, platform Platform, dispatcher *Dispatcher, clock Clock, m *metrics.Metrics) *Ledger {
	if clock == nil {
		clock = SystemClock()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Ledger{
		repo:       repo,
		platform:   platform,
		dispatcher: dispatcher,
		clock:      clock,
		metrics:    m,
		locks:      keyedMutex{locks: make(map[memberKey]*refLock)},
	}
}

// Add appends a warning to the member's ledger and DMs the member. When the
// ledger crosses WarningThreshold the member gets the guild's muted role and
// moderators are notified. It returns the ledger after the append.
func (l *Ledger) Add(ctx context.Context, guildID, userID, moderatorID, reason string) ([]models.Warning, error) {
	unlock := l.locks.Lock(memberKey{guildID, userID})
	defer unlock()

	now := l.clock.Now()
	current, err := l.load(ctx, guildID, userID, now)
	if err != nil {
		return nil, err
	}

	updated := append(current, models.Warning{
		ID:        uuid.NewString(),
		Reason:    reason,
		Moderator: moderatorID,
		Timestamp: now,
	})
	if err := l.repo.SetUserWarnings(ctx, guildID, userID, updated); err != nil {
		return nil, fmt.Errorf("save warnings: %w", err)
	}
	l.metrics.WarningsAdded.Observe(1)

	errors.Try("Ledger", "DM de advertencia", func() error {
		return l.platform.DirectMessage(ctx, userID, warningNotice(guildID, reason, len(updated)))
	})

	if len(current) < WarningThreshold && len(updated) >= WarningThreshold {
		l.mute(ctx, guildID, userID)
		l.dispatcher.Send(ctx, WarningThresholdReached(guildID, userID, updated, now))
	}
	return updated, nil
}

// Get returns the member's unexpired warnings. Expired ones are removed from
// storage as a side effect.
func (l *Ledger) Get(ctx context.Context, guildID, userID string) ([]models.Warning, error) {
	unlock := l.locks.Lock(memberKey{guildID, userID})
	defer unlock()
	return l.load(ctx, guildID, userID, l.clock.Now())
}

// Clear empties the member's ledger.
func (l *Ledger) Clear(ctx context.Context, guildID, userID string) error {
	unlock := l.locks.Lock(memberKey{guildID, userID})
	defer unlock()

	if err := l.repo.SetUserWarnings(ctx, guildID, userID, []models.Warning{}); err != nil {
		return fmt.Errorf("clear warnings: %w", err)
	}
	return nil
}

// Remove deletes one warning by ID. It reports whether the warning existed.
func (l *Ledger) Remove(ctx context.Context, guildID, userID, warningID string) (bool, error) {
	unlock := l.locks.Lock(memberKey{guildID, userID})
	defer unlock()

	current, err := l.load(ctx, guildID, userID, l.clock.Now())
	if err != nil {
		return false, err
	}

	kept := current[:0:0]
	for _, w := range current {
		if w.ID != warningID {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(current) {
		return false, nil
	}
	if err := l.repo.SetUserWarnings(ctx, guildID, userID, kept); err != nil {
		return false, fmt.Errorf("save warnings: %w", err)
	}
	return true, nil
}

// load reads and prunes the ledger, persisting it when something expired.
// The caller holds the member lock.
func (l *Ledger) load(ctx context.Context, guildID, userID string, now time.Time) ([]models.Warning, error) {
	stored, err := l.repo.UserWarnings(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("load warnings: %w", err)
	}

	pruned := PruneWarnings(stored, now)
	if len(pruned) != len(stored) {
		if err := l.repo.SetUserWarnings(ctx, guildID, userID, pruned); err != nil {
			return nil, fmt.Errorf("save pruned warnings: %w", err)
		}
	}
	return pruned, nil
}

func (l *Ledger) mute(ctx context.Context, guildID, userID string) {
	cfg, err := l.repo.GuildConfig(ctx, guildID)
	if err != nil || cfg.MutedRole == "" {
		logger.Debug(fmt.Sprintf("Sin rol de silencio configurado en %s", guildID), "Ledger")
		return
	}
	if errors.Try("Ledger", "silenciar usuario", func() error {
		return l.platform.AddRole(ctx, guildID, userID, cfg.MutedRole)
	}) {
		l.metrics.MutesApplied.Observe(1)
	}
}

// PruneWarnings returns the warnings younger than WarningExpiry at now.
func PruneWarnings(warnings []models.Warning, now time.Time) []models.Warning {
	cutoff := now.Add(-WarningExpiry)
	out := make([]models.Warning, 0, len(warnings))
	for _, w := range warnings {
		if w.Timestamp.After(cutoff) {
			out = append(out, w)
		}
	}
	return out
}

func warningNotice(guildID, reason string, count int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⚠️ - Has recibido una advertencia",
		Description: fmt.Sprintf("> **Servidor:** %s\n> **Razón:** %s\n> **Advertencias activas:** %d/%d",
			guildID, reason, count, WarningThreshold),
		Color:  0xFFA500,
		Footer: &discordgo.MessageEmbedFooter{Text: embedFooter},
	}
}

// keyedMutex hands out one mutex per member and frees it when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[memberKey]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key memberKey) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
