package web

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// DatabaseStatus reports the state of the storage connection.
type DatabaseStatus interface {
	GetStatus() (string, bool)
	PendingWrites() int
}

// BotStatus reports the state of the gateway session.
type BotStatus interface {
	IsReady() bool
	GuildCount() int
}

// GuildSettings reads and writes guild alert settings.
type GuildSettings interface {
	GuildConfig(ctx context.Context, guildID string) (models.GuildAlertConfig, error)
	SetGuildConfig(ctx context.Context, guildID string, cfg models.GuildAlertConfig) error
}

// GuildWarnings lists the stored warnings of a guild.
type GuildWarnings interface {
	GuildWarnings(ctx context.Context, guildID string) ([]*models.WarnsDocument, error)
}

// snowflake matches Discord IDs.
var snowflake = regexp.MustCompile(`^\d{17,20}$`)

// Deps are the services exposed by the API. Nil members disable the routes
// that need them.
type Deps struct {
	DB       DatabaseStatus
	Bot      BotStatus
	Running  func() bool
	Settings GuildSettings
	Warnings GuildWarnings
	Metrics  http.Handler
	Alerts   *AlertHub
	OAuth    *OAuth

	// Token protects the guild and alert routes. Empty disables them.
	Token string
}

// SetupAPIRoutes registers the API routes on s.
func SetupAPIRoutes(s *Server, d Deps) {
	api := s.Group("/api")
	{
		api.GET("/health", healthHandler)
		api.GET("/status", statusHandler(d))
	}

	private := api.Group("", tokenAuth(d.Token))
	guilds := private.Group("/guilds/:id", validGuildID)
	if d.Settings != nil {
		guilds.GET("/config", getConfigHandler(d.Settings))
		guilds.PUT("/config", putConfigHandler(d.Settings))
	}
	if d.Warnings != nil {
		guilds.GET("/warnings", warningsHandler(d.Warnings))
	}
	if d.Alerts != nil {
		private.GET("/alerts/ws", d.Alerts.serveWS)
	}

	if d.Metrics != nil {
		s.GET("/metrics", gin.WrapH(d.Metrics))
	}
	if d.OAuth != nil {
		s.GET("/oauth/login", d.OAuth.login)
		s.GET("/oauth/callback", d.OAuth.callback)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyMod Go is running",
	})
}

func statusHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := gin.H{"status": "unknown", "isOnline": false}
		if d.DB != nil {
			status, online := d.DB.GetStatus()
			db = gin.H{"status": status, "isOnline": online, "pendingWrites": d.DB.PendingWrites()}
		}

		bot := gin.H{"isOnline": false}
		if d.Bot != nil {
			bot = gin.H{"isOnline": d.Bot.IsReady(), "guilds": d.Bot.GuildCount()}
		}

		correlating := d.Running != nil && d.Running()

		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"database":   db,
			"bot":        bot,
			"correlator": gin.H{"running": correlating},
		})
	}
}

// tokenAuth accepts "Authorization: Bearer <token>", or ?token= for
// WebSocket clients that cannot set headers.
func tokenAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "API deshabilitada: no hay token configurado.",
			})
			return
		}

		given := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if given == "" {
			given = c.Query("token")
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			logger.Warn(fmt.Sprintf("Token inválido desde %s", c.ClientIP()), "WebServer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
			return
		}
		c.Next()
	}
}

func validGuildID(c *gin.Context) {
	if !snowflake.MatchString(c.Param("id")) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "ID de servidor inválido"})
		return
	}
	c.Next()
}

// invalidConfigField names the first configured ID of cfg that is not a
// snowflake. Empty IDs leave the feature unconfigured and are accepted.
func invalidConfigField(cfg models.GuildAlertConfig) string {
	type configID struct{ field, id string }
	ids := []configID{
		{"logChannel", cfg.LogChannel},
		{"pingRole", cfg.PingRole},
		{"alertChannel", cfg.AlertChannel},
		{"mutedRole", cfg.MutedRole},
	}
	for i, r := range cfg.ModRoles {
		ids = append(ids, configID{fmt.Sprintf("modRoles[%d]", i), r})
	}
	for _, c := range ids {
		if c.id != "" && !snowflake.MatchString(c.id) {
			return c.field
		}
	}
	return ""
}

func getConfigHandler(settings GuildSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cfg, err := settings.GuildConfig(ctx, c.Param("id"))
		if err != nil {
			logger.Error(fmt.Sprintf("Error leyendo configuración de %s: %v", c.Param("id"), err), "WebServer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo leer la configuración"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"guildId": c.Param("id"), "config": cfg})
	}
}

func putConfigHandler(settings GuildSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg models.GuildAlertConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo inválido", "message": err.Error()})
			return
		}
		if field := invalidConfigField(cfg); field != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido", "field": field})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := settings.SetGuildConfig(ctx, c.Param("id"), cfg); err != nil {
			logger.Error(fmt.Sprintf("Error guardando configuración de %s: %v", c.Param("id"), err), "WebServer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar la configuración"})
			return
		}
		logger.Info(fmt.Sprintf("Configuración de %s actualizada vía API", c.Param("id")), "WebServer")
		c.JSON(http.StatusOK, gin.H{"guildId": c.Param("id"), "config": cfg})
	}
}

func warningsHandler(warnings GuildWarnings) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		docs, err := warnings.GuildWarnings(ctx, c.Param("id"))
		if err != nil {
			logger.Error(fmt.Sprintf("Error leyendo advertencias de %s: %v", c.Param("id"), err), "WebServer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron leer las advertencias"})
			return
		}
		members := make([]*models.WarnsDocument, 0, len(docs))
		for _, d := range docs {
			if len(d.Warns) > 0 {
				members = append(members, d)
			}
		}
		c.JSON(http.StatusOK, gin.H{"guildId": c.Param("id"), "members": members})
	}
}
