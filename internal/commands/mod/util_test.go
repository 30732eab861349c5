package mod

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/PancyStudios/PancyModGo/internal/correlator"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func TestReasonOrDefault(t *testing.T) {
	if got := reasonOrDefault(""); got != noReason {
		t.Errorf("reasonOrDefault(\"\") = %q", got)
	}
	if got := reasonOrDefault("spam"); got != "spam" {
		t.Errorf("reasonOrDefault(spam) = %q", got)
	}
}

func TestWarningChoices(t *testing.T) {
	var warns []models.Warning
	for i := 0; i < 30; i++ {
		warns = append(warns, models.Warning{ID: fmt.Sprintf("w%d", i), Reason: "spam"})
	}
	warns[0].Reason = strings.Repeat("á", 150)

	choices := warningChoices(warns)
	if len(choices) != 25 {
		t.Fatalf("len(choices) = %d, want 25", len(choices))
	}
	if n := utf8.RuneCountInString(choices[0].Name); n != 100 {
		t.Errorf("long choice has %d runes, want 100", n)
	}
	if !utf8.ValidString(choices[0].Name) {
		t.Error("truncated choice is not valid UTF-8")
	}
	if choices[1].Value != "w1" {
		t.Errorf("choices[1].Value = %v, want w1", choices[1].Value)
	}
}

func TestWarningList(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	user := &discordgo.User{ID: "u", Username: "ana"}

	empty := warningList(user, nil, now)
	if !strings.Contains(empty.Description, "**Cantidad de advertencias:** 0") {
		t.Errorf("empty list description = %q", empty.Description)
	}

	list := warningList(user, []models.Warning{
		{ID: "a", Reason: "spam", Moderator: "m", Timestamp: now},
		{ID: "b", Reason: "flood", Moderator: "m", Timestamp: now},
		{ID: "c", Reason: "AutoMod: links", Moderator: correlator.AutomodModerator, Timestamp: now},
	}, now)
	for _, want := range []string{"spam", "flood", "`a`", "<@m>", "🤖 AutoMod", "**Cantidad de advertencias:** 3"} {
		if !strings.Contains(list.Description, want) {
			t.Errorf("list description missing %q", want)
		}
	}
}
