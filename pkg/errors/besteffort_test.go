package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func restError(status, code int) *discordgo.RESTError {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindOther},
		{"plain", stderrors.New("boom"), KindOther},
		{"permission sentinel", fmt.Errorf("add role: %w", ErrPermissionDenied), KindPermissionDenied},
		{"not found sentinel", fmt.Errorf("lookup: %w", ErrNotFound), KindNotFound},
		{"missing permissions", restError(http.StatusForbidden, discordgo.ErrCodeMissingPermissions), KindPermissionDenied},
		{"closed DMs", restError(http.StatusForbidden, discordgo.ErrCodeCannotSendMessagesToThisUser), KindPermissionDenied},
		{"unknown channel", restError(http.StatusNotFound, discordgo.ErrCodeUnknownChannel), KindNotFound},
		{"unknown member", restError(http.StatusNotFound, discordgo.ErrCodeUnknownMember), KindNotFound},
		{"bare 403", restError(http.StatusForbidden, 0), KindPermissionDenied},
		{"bare 404", restError(http.StatusNotFound, 0), KindNotFound},
		{"server error", restError(http.StatusInternalServerError, 0), KindOther},
		{"wrapped rest error", fmt.Errorf("send: %w", restError(http.StatusNotFound, 0)), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTry(t *testing.T) {
	if !Try("Test", "ok", func() error { return nil }) {
		t.Error("Try() = false for a successful call")
	}
	if Try("Test", "fails", func() error { return ErrPermissionDenied }) {
		t.Error("Try() = true for a failed call")
	}
}

func TestBestEffort(t *testing.T) {
	v, ok := BestEffort("Test", "ok", func() (string, error) { return "42", nil })
	if !ok || v != "42" {
		t.Errorf("BestEffort() = %q, %v", v, ok)
	}

	v, ok = BestEffort("Test", "fails", func() (string, error) { return "partial", ErrNotFound })
	if ok || v != "" {
		t.Errorf("BestEffort() = %q, %v, want zero value", v, ok)
	}
}
