package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

var (
	// ErrPermissionDenied marks a call the bot is not allowed to make.
	ErrPermissionDenied = stderrors.New("permission denied")
	// ErrNotFound marks a missing channel, role, member or message.
	ErrNotFound = stderrors.New("not found")
)

// Kind classifies a failed external call.
type Kind int

const (
	KindOther Kind = iota
	KindPermissionDenied
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission-denied"
	case KindNotFound:
		return "not-found"
	default:
		return "error"
	}
}

// Classify maps err onto a Kind. Discord REST errors are classified by HTTP
// status and JSON error code.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case stderrors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case stderrors.Is(err, ErrNotFound):
		return KindNotFound
	}

	var rest *discordgo.RESTError
	if !stderrors.As(err, &rest) {
		return KindOther
	}

	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeMissingPermissions,
			discordgo.ErrCodeMissingAccess,
			discordgo.ErrCodeCannotSendMessagesToThisUser:
			return KindPermissionDenied
		case discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeUnknownMember,
			discordgo.ErrCodeUnknownMessage,
			discordgo.ErrCodeUnknownRole,
			discordgo.ErrCodeUnknownUser,
			discordgo.ErrCodeUnknownGuild:
			return KindNotFound
		}
	}

	if rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusForbidden:
			return KindPermissionDenied
		case http.StatusNotFound:
			return KindNotFound
		}
	}
	return KindOther
}

// IsPermissionDenied reports whether err is a permission failure.
func IsPermissionDenied(err error) bool {
	return Classify(err) == KindPermissionDenied
}

// IsNotFound reports whether err is a missing-resource failure.
func IsNotFound(err error) bool {
	return Classify(err) == KindNotFound
}

// Try runs fn and logs any failure under prefix without propagating it.
// It reports whether fn succeeded.
func Try(prefix, op string, fn func() error) bool {
	err := fn()
	if err == nil {
		return true
	}
	logFailure(prefix, op, err)
	return false
}

// BestEffort runs fn and returns its result. On failure the error is logged
// and the zero value is returned with ok set to false.
func BestEffort[T any](prefix, op string, fn func() (T, error)) (T, bool) {
	v, err := fn()
	if err != nil {
		logFailure(prefix, op, err)
		var zero T
		return zero, false
	}
	return v, true
}

func logFailure(prefix, op string, err error) {
	kind := Classify(err)
	msg := fmt.Sprintf("%s falló (%s): %v", op, kind, err)
	switch kind {
	case KindPermissionDenied:
		logger.Warn(msg, prefix)
	case KindNotFound:
		logger.Debug(msg, prefix)
	default:
		logger.Error(msg, prefix)
	}
}
