package correlator

import (
	"context"
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// Repository stores guild settings and member warning ledgers.
type Repository interface {
	GuildConfig(ctx context.Context, guildID string) (models.GuildAlertConfig, error)
	SetGuildConfig(ctx context.Context, guildID string, cfg models.GuildAlertConfig) error
	UserWarnings(ctx context.Context, guildID, userID string) ([]models.Warning, error)
	SetUserWarnings(ctx context.Context, guildID, userID string, warnings []models.Warning) error
}

// MemoryRepository is a Repository kept in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	configs  map[string]models.GuildAlertConfig
	warnings map[memberKey][]models.Warning
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		configs:  make(map[string]models.GuildAlertConfig),
		warnings: make(map[memberKey][]models.Warning),
	}
}

func (r *MemoryRepository) GuildConfig(_ context.Context, guildID string) (models.GuildAlertConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg := r.configs[guildID]
	cfg.ModRoles = append([]string(nil), cfg.ModRoles...)
	return cfg, nil
}

func (r *MemoryRepository) SetGuildConfig(_ context.Context, guildID string, cfg models.GuildAlertConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg.ModRoles = append([]string(nil), cfg.ModRoles...)
	r.configs[guildID] = cfg
	return nil
}

func (r *MemoryRepository) UserWarnings(_ context.Context, guildID, userID string) ([]models.Warning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Warning(nil), r.warnings[memberKey{guildID, userID}]...), nil
}

func (r *MemoryRepository) SetUserWarnings(_ context.Context, guildID, userID string, warnings []models.Warning) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings[memberKey{guildID, userID}] = append([]models.Warning(nil), warnings...)
	return nil
}
