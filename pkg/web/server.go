// Package web provides an HTTP server with routing and middleware.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// Options configures a Server. Zero values pick the defaults.
type Options struct {
	WebhookURL   string
	AllowedHosts string
	// RequestsPerMinute and Burst bound each client IP.
	RequestsPerMinute int
	Burst             int
}

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	http             *http.Server
	webhookURL       string
	allowedHostRegex *regexp.Regexp
	limiter          *ipLimiter
}

var (
	server *Server
)

// Init initializes the global web server
func Init(opts Options) (*Server, error) {
	s, err := NewServer(opts)
	if err != nil {
		return nil, err
	}
	server = s
	return server, nil
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server
func NewServer(opts Options) (*Server, error) {
	if opts.AllowedHosts == "" {
		opts.AllowedHosts = `^(.+\.)?miau\.media`
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 100
	}
	if opts.Burst <= 0 {
		opts.Burst = 20
	}

	hosts, err := regexp.Compile(opts.AllowedHosts)
	if err != nil {
		return nil, fmt.Errorf("invalid allowed hosts pattern: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:           engine,
		webhookURL:       opts.WebhookURL,
		allowedHostRegex: hosts,
		limiter:          newIPLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60), opts.Burst),
	}

	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	s.setupErrorHandlers()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs requests and rejects hosts outside the allowed pattern
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.allowedHostRegex.MatchString(c.Request.Host) {
			logger.Debug(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
			go s.sendLogToWebhook(logEntryFrom(c), false)
			c.Next()
			return
		}

		logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
		go s.sendLogToWebhook(logEntryFrom(c), true)
		c.AbortWithStatus(http.StatusForbidden)
	}
}

// logEntry is the part of a request reported to the webhook. It is copied
// before the handler returns since gin reuses contexts.
type logEntry struct {
	method  string
	path    string
	ip      string
	headers http.Header
	query   string
}

func logEntryFrom(c *gin.Context) logEntry {
	return logEntry{
		method:  c.Request.Method,
		path:    c.Request.URL.Path,
		ip:      c.ClientIP(),
		headers: c.Request.Header.Clone(),
		query:   scrubQuery(c.Request.URL.RawQuery),
	}
}

// scrubQuery drops the API token from a raw query string.
func scrubQuery(raw string) string {
	values, err := url.ParseQuery(raw)
	if err != nil || !values.Has("token") {
		return raw
	}
	values.Del("token")
	return values.Encode()
}

// sendLogToWebhook sends a log message to the Discord webhook
func (s *Server) sendLogToWebhook(e logEntry, suspicious bool) {
	if s.webhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", e.method)
	color := 0x00AE86
	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", e.method, e.path)
		color = 0xFFA500
	}

	// never forward credentials
	e.headers.Del("Authorization")
	e.headers.Del("Cookie")
	headers, _ := json.Marshal(e.headers)
	if e.query == "" {
		e.query = "{}"
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{map[string]interface{}{
			"title": title,
			"description": fmt.Sprintf(
				"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
				e.path, e.ip, string(headers), e.query,
			),
			"color":     color,
			"timestamp": time.Now().Format(time.RFC3339),
		}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(s.webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return
	}
	resp.Body.Close()
}

// rateLimitMiddleware rejects clients that exceed their token bucket
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			return
		}
		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// Start serves until Shutdown is called
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for the active ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}
