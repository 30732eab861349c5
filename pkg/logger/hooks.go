package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// textFormatter renders entries as "[time] [LEVEL] [prefix]: message".
type textFormatter struct {
	colors bool
}

func (f *textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := levelOf(e)
	prefix, _ := e.Data[fieldPrefix].(string)
	ts := e.Time.Format(timeFormat)

	if f.colors {
		return []byte(fmt.Sprintf("[%s] [%s%s%s] [%s]: %s\n",
			ts, level.Color(), level.String(), colorReset, prefix, e.Message)), nil
	}
	return []byte(fmt.Sprintf("[%s] [%s] [%s]: %s\n", ts, level.String(), prefix, e.Message)), nil
}

// fileHook copies every entry to the combined log and errors to the error log.
type fileHook struct {
	combined  *os.File
	errors    *os.File
	formatter textFormatter
	mu        sync.Mutex
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(e *logrus.Entry) error {
	line, err := h.formatter.Format(e)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.combined != nil {
		h.combined.Write(line)
	}
	if levelOf(e) <= LevelError && h.errors != nil {
		h.errors.Write(line)
	}
	return nil
}

type webhookEmbed struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Color       int               `json:"color"`
	Timestamp   string            `json:"timestamp"`
	Footer      map[string]string `json:"footer,omitempty"`
}

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

// webhookHook posts entries to Discord webhooks without blocking the caller.
// Errors go to errorURL, everything else to logsURL.
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
	pending  sync.WaitGroup
}

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	return &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *webhookHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *webhookHook) Fire(e *logrus.Entry) error {
	level := levelOf(e)
	url := h.logsURL
	if level <= LevelError {
		url = h.errorURL
	}
	if url == "" {
		return nil
	}

	prefix, _ := e.Data[fieldPrefix].(string)
	payload := webhookPayload{Embeds: []webhookEmbed{{
		Title:       fmt.Sprintf("[%s] %s", level.String(), prefix),
		Description: fmt.Sprintf("```%s```", e.Message),
		Color:       level.DiscordColor(),
		Timestamp:   e.Time.Format(time.RFC3339),
		Footer:      map[string]string{"text": "💫 Developed by PancyStudio | PancyMod Go"},
	}}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		resp, err := h.client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
	return nil
}

func (h *webhookHook) wait() {
	h.pending.Wait()
}
