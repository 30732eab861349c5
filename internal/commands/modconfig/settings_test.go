package modconfig

import (
	"strings"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func TestSetters(t *testing.T) {
	var cfg models.GuildAlertConfig

	setLogChannel(&cfg, "logs")
	setAlertChannel(&cfg, "alerts")
	setPingRole(&cfg, "mods")
	setMutedRole(&cfg, "muted")

	want := models.GuildAlertConfig{
		LogChannel:   "logs",
		AlertChannel: "alerts",
		PingRole:     "mods",
		MutedRole:    "muted",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if msg := setLogChannel(&cfg, ""); !strings.Contains(msg, "eliminado") {
		t.Errorf("clearing the log channel replied %q", msg)
	}
	if cfg.LogChannel != "" {
		t.Errorf("LogChannel = %q after clearing", cfg.LogChannel)
	}
}

func TestModRoles(t *testing.T) {
	var cfg models.GuildAlertConfig

	addModRole(&cfg, "a")
	addModRole(&cfg, "b")
	if msg := addModRole(&cfg, "a"); !strings.Contains(msg, "ya es") {
		t.Errorf("duplicate add replied %q", msg)
	}
	if diff := cmp.Diff([]string{"a", "b"}, cfg.ModRoles); diff != "" {
		t.Errorf("ModRoles mismatch (-want +got):\n%s", diff)
	}

	removeModRole(&cfg, "a")
	if msg := removeModRole(&cfg, "zz"); !strings.Contains(msg, "no era") {
		t.Errorf("missing remove replied %q", msg)
	}
	if diff := cmp.Diff([]string{"b"}, cfg.ModRoles); diff != "" {
		t.Errorf("ModRoles mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe(t *testing.T) {
	got := describe(models.GuildAlertConfig{
		LogChannel:     "logs",
		ModRoles:       []string{"a", "b"},
		AutomodEnabled: true,
	})

	for _, want := range []string{"<#logs>", "<@&a>, <@&b>", "Activado", "No configurado"} {
		if !strings.Contains(got, want) {
			t.Errorf("describe() missing %q in:\n%s", want, got)
		}
	}
}
