package database

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Repository stores guild alert settings in "guild_configs" and member
// warnings in "warns". Guilds without a stored document get the configured
// defaults.
type Repository struct {
	configs  *DataManager[models.GuildConfigDocument]
	warns    *DataManager[models.WarnsDocument]
	defaults *config.GuildDefaults
}

// NewRepository creates a Repository on db.
func NewRepository(db *Database, defaults *config.GuildDefaults) *Repository {
	return &Repository{
		configs:  NewDataManager[models.GuildConfigDocument]("guild_configs", db),
		warns:    NewDataManager[models.WarnsDocument]("warns", db),
		defaults: defaults,
	}
}

// GuildConfig returns the guild's settings. While the database is offline
// and nothing is cached the defaults are served.
func (r *Repository) GuildConfig(ctx context.Context, guildID string) (models.GuildAlertConfig, error) {
	doc, err := r.configs.Get(ctx, bson.M{"guildId": guildID})
	switch {
	case stderrors.Is(err, ErrOffline):
		logger.Debug(fmt.Sprintf("DB offline, usando configuración por defecto para %s", guildID), "Repository")
		return r.defaults.For(guildID), nil
	case err != nil:
		return models.GuildAlertConfig{}, fmt.Errorf("get guild config: %w", err)
	case doc == nil:
		return r.defaults.For(guildID), nil
	}
	return doc.Config, nil
}

// SetGuildConfig stores the guild's settings.
func (r *Repository) SetGuildConfig(ctx context.Context, guildID string, cfg models.GuildAlertConfig) error {
	_, err := r.configs.Set(ctx, bson.M{"guildId": guildID}, models.GuildConfigDocument{
		GuildID: guildID,
		Config:  cfg,
	})
	if err != nil {
		return fmt.Errorf("set guild config: %w", err)
	}
	return nil
}

// UserWarnings returns the stored warnings of a member. Reads fail while
// offline unless cached, so a ledger is never rebuilt from nothing.
func (r *Repository) UserWarnings(ctx context.Context, guildID, userID string) ([]models.Warning, error) {
	doc, err := r.warns.Get(ctx, bson.M{"guildId": guildID, "userId": userID})
	if err != nil {
		return nil, fmt.Errorf("get warnings: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return append([]models.Warning(nil), doc.Warns...), nil
}

// SetUserWarnings replaces the member's warnings.
func (r *Repository) SetUserWarnings(ctx context.Context, guildID, userID string, warnings []models.Warning) error {
	stored := make([]models.Warning, len(warnings))
	copy(stored, warnings)
	_, err := r.warns.Set(ctx, bson.M{"guildId": guildID, "userId": userID}, models.WarnsDocument{
		GuildID: guildID,
		UserID:  userID,
		Warns:   stored,
	})
	if err != nil {
		return fmt.Errorf("set warnings: %w", err)
	}
	return nil
}

// GuildWarnings lists the warning documents of a guild.
func (r *Repository) GuildWarnings(ctx context.Context, guildID string) ([]*models.WarnsDocument, error) {
	return r.warns.GetAll(ctx, bson.M{"guildId": guildID})
}
