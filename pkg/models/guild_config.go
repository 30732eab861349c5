package models

// GuildAlertConfig holds the moderation settings of a guild. Empty IDs mean
// the feature is not configured.
type GuildAlertConfig struct {
	LogChannel     string   `bson:"logChannel" json:"logChannel" yaml:"log_channel"`
	PingRole       string   `bson:"pingRole" json:"pingRole" yaml:"ping_role"`
	AlertChannel   string   `bson:"alertChannel" json:"alertChannel" yaml:"alert_channel"`
	ModRoles       []string `bson:"modRoles" json:"modRoles" yaml:"mod_roles"`
	MutedRole      string   `bson:"mutedRole" json:"mutedRole" yaml:"muted_role"`
	AutomodEnabled bool     `bson:"automodEnabled" json:"automodEnabled" yaml:"automod_enabled"`
}

// HasModRole reports whether any of roles is a configured moderator role.
func (c GuildAlertConfig) HasModRole(roles []string) bool {
	for _, r := range roles {
		for _, m := range c.ModRoles {
			if r == m {
				return true
			}
		}
	}
	return false
}

// GuildConfigDocument is the stored form of a GuildAlertConfig in the
// "guild_configs" collection.
type GuildConfigDocument struct {
	GuildID string           `bson:"guildId" json:"guildId"`
	Config  GuildAlertConfig `bson:"config" json:"config"`
}
