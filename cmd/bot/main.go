// Package main is the entry point for PancyMod Go.
// It initializes all systems, starts the moderation correlator and connects
// the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/internal/events"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/metrics"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// shutdownTimeout bounds the graceful stop of the web server.
const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando PancyMod Go %s (%s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
			}
		}
	})

	defaults, err := config.LoadGuildDefaults(cfg.GuildDefaultsFile)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando la configuración por defecto: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize database. The instance keeps retrying in the background and
	// queues writes until it is back.
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
	}
	defer func() {
		if err := db.Disconnect(); err != nil {
			logger.Error(fmt.Sprintf("Error desconectando la base de datos: %v", err), "Main")
		}
	}()
	repo := database.NewRepository(db, defaults)

	// Metrics
	m := metrics.New()
	registry := prometheus.NewRegistry()
	registry.MustRegister(m.Collectors()...)
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize MQTT
	mqttClientID := "pancymod"
	if !cfg.IsProd() {
		mqttClientID = "pancymod_canary"
	}
	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	discordClient.DatabaseReady = db.Connected
	discordClient.IsModerator = func(guildID string, roles []string) bool {
		settings, err := repo.GuildConfig(ctx, guildID)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo leer la configuración de %s: %v", guildID, err), "Main")
			return false
		}
		return settings.HasModRole(roles)
	}

	// Correlator
	alerts := web.NewAlertHub()
	platform := discord.NewPlatform(discordClient.Session)
	corr := correlator.New(repo, platform, correlator.Options{
		CacheSize: cfg.MessageCacheSize,
		AFKDelay:  cfg.AFKPurgeDelay,
		Publisher: correlator.Publishers{mqttClient, alerts},
		Metrics:   m,
	})
	if err := corr.Start(ctx); err != nil {
		logger.Critical(fmt.Sprintf("Error iniciando el correlador: %v", err), "Main")
		os.Exit(1)
	}
	defer corr.Stop()

	mqttClient.On(mqtt.WarningsTopic, mqtt.WarningsHandler(corr.Ledger().Get))

	// Register commands and events
	commands.RegisterAll(discordClient, commands.Deps{
		Correlator: corr,
		Settings:   repo,
		Actions:    platform,
		DB:         db,
		Config:     cfg,
	})
	events.RegisterAll(discordClient, corr)

	// Initialize web server
	webServer, err := web.Init(web.Options{
		WebhookURL:   cfg.LogsWebServerHook,
		AllowedHosts: cfg.AllowedHosts,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	deps := web.Deps{
		DB:       db,
		Bot:      discordClient,
		Running:  corr.Running,
		Settings: repo,
		Warnings: repo,
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Alerts:   alerts,
		Token:    cfg.APIToken,
	}
	if cfg.OAuthEnabled() {
		deps.OAuth = web.NewOAuth(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL)
	}
	web.SetupAPIRoutes(webServer, deps)
	webServer.StartAsync(cfg.Port)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("PancyMod Go iniciado correctamente!", "Main")

	<-ctx.Done()

	logger.System("Apagando PancyMod Go...", "Main")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(fmt.Sprintf("Error deteniendo el servidor web: %v", err), "Main")
	}
	if err := discordClient.Stop(); err != nil {
		logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
