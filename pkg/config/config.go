// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string
	DevGuildID string
	DevUsers   []string

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port         string
	AllowedHosts string
	APIToken     string

	// OAuth2
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string

	// Correlator
	MessageCacheSize  int
	AFKPurgeDelay     time.Duration
	GuildDefaultsFile string
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

func loadConfig() {
	// .env is optional
	_ = godotenv.Load()

	cfg = &Config{
		BotToken:   getEnv("botToken", ""),
		DevGuildID: getEnv("devGuildId", ""),
		DevUsers:   getEnvList("devUsers"),

		MongoDBURL: getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:     getEnv("dbName", "PancyMod"),

		MQTTHost:     getEnv("MQTT_Host", "localhost"),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		Port:         getEnv("PORT", "3000"),
		AllowedHosts: getEnv("allowedHosts", `^(.+\.)?miau\.media`),
		APIToken:     getEnv("apiToken", ""),

		OAuthClientID:     getEnv("oauthClientId", ""),
		OAuthClientSecret: getEnv("oauthClientSecret", ""),
		OAuthRedirectURL:  getEnv("oauthRedirectUrl", "http://localhost:3000/oauth/callback"),

		Environment: getEnv("enviroment", "dev"),

		ErrorWebhook:      getEnv("errorWebhook", ""),
		LogsWebhook:       getEnv("logsWebhook", ""),
		LogsWebServerHook: getEnv("logsWebServerWebhook", ""),

		MessageCacheSize:  getEnvInt("messageCacheSize", 10000),
		AFKPurgeDelay:     getEnvDuration("afkPurgeDelay", 50*time.Minute),
		GuildDefaultsFile: getEnv("guildDefaultsFile", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvInt parses an integer variable, falling back on absence or garbage
func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

// getEnvDuration parses a Go duration such as "50m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsDevUser reports whether userID may run developer commands
func (c *Config) IsDevUser(userID string) bool {
	for _, id := range c.DevUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// OAuthEnabled reports whether the OAuth2 callback can be served
func (c *Config) OAuthEnabled() bool {
	return c.OAuthClientID != "" && c.OAuthClientSecret != ""
}
