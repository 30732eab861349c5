package config

import (
	"fmt"
	"os"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"gopkg.in/yaml.v3"
)

// GuildDefaults holds the alert settings applied to guilds that have never
// been configured through /modconfig.
//
//	default:
//	  automod_enabled: true
//	guilds:
//	  "123456789":
//	    log_channel: "987654321"
type GuildDefaults struct {
	Default models.GuildAlertConfig            `yaml:"default"`
	Guilds  map[string]models.GuildAlertConfig `yaml:"guilds"`
}

// For returns the seed configuration of a guild.
func (d *GuildDefaults) For(guildID string) models.GuildAlertConfig {
	if d == nil {
		return models.GuildAlertConfig{}
	}
	if c, ok := d.Guilds[guildID]; ok {
		return c
	}
	return d.Default
}

// LoadGuildDefaults reads a YAML defaults file. An empty path yields empty
// defaults.
func LoadGuildDefaults(path string) (*GuildDefaults, error) {
	d := &GuildDefaults{Guilds: map[string]models.GuildAlertConfig{}}
	if path == "" {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guild defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parse guild defaults: %w", err)
	}
	if d.Guilds == nil {
		d.Guilds = map[string]models.GuildAlertConfig{}
	}
	return d, nil
}
