package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	// Set up test environment variables
	os.Setenv("botToken", "test-token")
	os.Setenv("PORT", "3001")
	os.Setenv("enviroment", "test")
	defer func() {
		os.Unsetenv("botToken")
		os.Unsetenv("PORT")
		os.Unsetenv("enviroment")
	}()

	// Reset global config
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("enviroment")
}

func TestGet(t *testing.T) {
	resetForTesting()

	// Get should create a new config if none exists
	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	// Get should return the same config on subsequent calls
	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	// Clear all environment variables
	os.Unsetenv("botToken")
	os.Unsetenv("devGuildId")
	os.Unsetenv("mongodbUrl")
	os.Unsetenv("dbName")
	os.Unsetenv("MQTT_Host")
	os.Unsetenv("MQTT_Port")
	os.Unsetenv("PORT")
	os.Unsetenv("enviroment")

	resetForTesting()
	config, _ := Load()

	// Check default values
	if config.MongoDBURL != "mongodb://localhost:27017" {
		t.Errorf("MongoDBURL default = %v, want %v", config.MongoDBURL, "mongodb://localhost:27017")
	}

	if config.DBName != "PancyMod" {
		t.Errorf("DBName default = %v, want %v", config.DBName, "PancyMod")
	}

	if config.MQTTHost != "localhost" {
		t.Errorf("MQTTHost default = %v, want %v", config.MQTTHost, "localhost")
	}

	if config.MQTTPort != "1883" {
		t.Errorf("MQTTPort default = %v, want %v", config.MQTTPort, "1883")
	}

	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}

	if config.Environment != "dev" {
		t.Errorf("Environment default = %v, want %v", config.Environment, "dev")
	}
}

func TestCorrelatorDefaults(t *testing.T) {
	os.Unsetenv("messageCacheSize")
	os.Unsetenv("afkPurgeDelay")
	resetForTesting()
	config, _ := Load()

	if config.MessageCacheSize != 10000 {
		t.Errorf("MessageCacheSize default = %v, want %v", config.MessageCacheSize, 10000)
	}
	if config.AFKPurgeDelay != 50*time.Minute {
		t.Errorf("AFKPurgeDelay default = %v, want %v", config.AFKPurgeDelay, 50*time.Minute)
	}
}

func TestGetEnvParsers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"valid", "10m", 10 * time.Minute},
		{"garbage", "soon", time.Hour},
		{"negative", "-5m", time.Hour},
		{"empty", "", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getEnvDuration("TEST_DURATION", time.Hour); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Setenv("TEST_INT", "250")
	if got := getEnvInt("TEST_INT", 1); got != 250 {
		t.Errorf("getEnvInt() = %v, want %v", got, 250)
	}
	t.Setenv("TEST_INT", "abc")
	if got := getEnvInt("TEST_INT", 1); got != 1 {
		t.Errorf("getEnvInt() = %v, want %v", got, 1)
	}
}

func TestLoadGuildDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guilds.yaml")
	data := `default:
  automod_enabled: true
guilds:
  "111":
    log_channel: "222"
    ping_role: "333"
    mod_roles: ["444", "555"]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadGuildDefaults(path)
	if err != nil {
		t.Fatalf("LoadGuildDefaults() returned error: %v", err)
	}

	want := models.GuildAlertConfig{
		LogChannel: "222",
		PingRole:   "333",
		ModRoles:   []string{"444", "555"},
	}
	if diff := cmp.Diff(want, d.For("111")); diff != "" {
		t.Errorf("For(111) mismatch (-want +got):\n%s", diff)
	}
	if !d.For("999").AutomodEnabled {
		t.Error("unknown guild should get the default config")
	}
}

func TestLoadGuildDefaultsEmptyPath(t *testing.T) {
	d, err := LoadGuildDefaults("")
	if err != nil {
		t.Fatalf("LoadGuildDefaults(\"\") returned error: %v", err)
	}
	if d.For("1").LogChannel != "" {
		t.Error("empty defaults should not configure a log channel")
	}
}

func TestDevUsers(t *testing.T) {
	t.Setenv("devUsers", " 1, 2 ,,3")
	resetForTesting()
	defer resetForTesting()

	c := Get()
	if diff := cmp.Diff([]string{"1", "2", "3"}, c.DevUsers); diff != "" {
		t.Errorf("DevUsers mismatch (-want +got):\n%s", diff)
	}
	if !c.IsDevUser("2") || c.IsDevUser("4") {
		t.Error("IsDevUser() does not match DevUsers")
	}
}
