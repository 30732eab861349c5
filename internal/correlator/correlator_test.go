package correlator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func newTestCorrelator(t *testing.T) (*Correlator, *fakePlatform, *fakeClock) {
	t.Helper()
	repo := NewMemoryRepository()
	repo.SetGuildConfig(context.Background(), "g", models.GuildAlertConfig{
		LogChannel:     "logs",
		PingRole:       "mods",
		AutomodEnabled: true,
	})
	platform := newFakePlatform()
	clock := newFakeClock()

	c := New(repo, platform, Options{CacheSize: 100, Clock: clock})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(c.Stop)
	return c, platform, clock
}

func TestCorrelatorIgnoresEventsWhenStopped(t *testing.T) {
	c := New(NewMemoryRepository(), newFakePlatform(), Options{})
	c.MessageCreated(CachedMessage{ID: "m"})
	if c.Cache().Len() != 0 {
		t.Error("stopped correlator cached a message")
	}
	if c.Running() {
		t.Error("Running() = true before Start")
	}
}

func TestCorrelatorStartStop(t *testing.T) {
	c := New(NewMemoryRepository(), newFakePlatform(), Options{Clock: newFakeClock()})
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	c.AFK().Schedule("g", "u")
	c.Stop()
	c.Stop()

	if c.Running() {
		t.Error("Running() = true after Stop")
	}
	if c.AFK().Pending("g", "u") {
		t.Error("Stop() left an AFK timer pending")
	}
}

func TestCorrelatorGhostPing(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	platform.deleter = "mod1"

	c.MessageCreated(CachedMessage{ID: "m", GuildID: "g", AuthorID: "u", ChannelID: "c", CreatedAt: clock.Now(), Content: "<@1>", MentionCount: 1})
	c.MessageDeleted("m", clock.Now().Add(9*time.Second))

	sent := platform.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(sent))
	}
	if sent[0].Content != "<@&mods>" {
		t.Errorf("content = %q, want ping", sent[0].Content)
	}
	if c.Cache().Len() != 0 {
		t.Error("deleted message still cached")
	}
}

func TestCorrelatorDeletionAuditFailure(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	platform.auditErr = fmt.Errorf("audit log unavailable")

	c.MessageCreated(CachedMessage{ID: "m", GuildID: "g", AuthorID: "u", CreatedAt: clock.Now(), MentionCount: 1})
	c.MessageDeleted("m", clock.Now().Add(time.Second))

	sent := platform.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(sent))
	}
}

func TestCorrelatorPlainDeletionSkipsAuditLog(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	platform.deleter = "mod1"

	c.MessageCreated(CachedMessage{ID: "m", GuildID: "g", AuthorID: "u", ChannelID: "c", CreatedAt: clock.Now(), Content: "hola"})
	c.MessageDeleted("m", clock.Now().Add(time.Second))

	if len(platform.messages()) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(platform.messages()))
	}
	platform.mu.Lock()
	calls := platform.deleterCalls
	platform.mu.Unlock()
	if calls != 0 {
		t.Errorf("audit log queried %d times for a deletion without mentions", calls)
	}
}

func TestCorrelatorUncachedDeletion(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	c.MessageDeleted("never-seen", clock.Now())
	if len(platform.messages()) != 0 {
		t.Error("alert sent for an uncached message")
	}
}

func TestCorrelatorEditRefreshesSnapshot(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)

	c.MessageCreated(CachedMessage{ID: "m", GuildID: "g", AuthorID: "u", CreatedAt: clock.Now(), Content: "uno"})
	c.MessageEdited("m", "dos", clock.Now().Add(time.Minute))
	c.MessageEdited("m", "dos", clock.Now().Add(2*time.Minute))

	if len(platform.messages()) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(platform.messages()))
	}
	m, _ := c.Cache().Peek("m")
	if m.Content != "dos" {
		t.Errorf("cached content = %q, want dos", m.Content)
	}
}

func TestCorrelatorHiddenText(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	c.MessageCreated(CachedMessage{ID: "m", GuildID: "g", AuthorID: "u", CreatedAt: clock.Now(), Content: "hola\u200b"})
	if len(platform.messages()) != 1 {
		t.Errorf("sent %d alerts, want 1", len(platform.messages()))
	}
}

func TestCorrelatorRapidVoice(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	at := clock.Now()

	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", After: VoiceStatus{ChannelID: "a"}, At: at})
	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", Before: VoiceStatus{ChannelID: "a"}, After: VoiceStatus{ChannelID: "b"}, At: at.Add(time.Minute)})
	if len(platform.messages()) != 0 {
		t.Fatalf("sent %d alerts after a join and one move, want 0", len(platform.messages()))
	}

	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", Before: VoiceStatus{ChannelID: "b"}, At: at.Add(299 * time.Second)})
	if len(platform.messages()) != 1 {
		t.Errorf("sent %d alerts, want 1", len(platform.messages()))
	}
}

func TestCorrelatorVoiceMovesOverWindow(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	at := clock.Now()

	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", After: VoiceStatus{ChannelID: "a"}, At: at})
	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", Before: VoiceStatus{ChannelID: "a"}, After: VoiceStatus{ChannelID: "b"}, At: at.Add(150 * time.Second)})
	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", Before: VoiceStatus{ChannelID: "b"}, After: VoiceStatus{ChannelID: "c"}, At: at.Add(301 * time.Second)})

	if len(platform.messages()) != 0 {
		t.Errorf("sent %d alerts for three transitions over 301s, want 0", len(platform.messages()))
	}
}

func TestCorrelatorAFKCancelledByUnmute(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)

	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u",
		Before: VoiceStatus{ChannelID: "vc"}, After: VoiceStatus{ChannelID: "vc", Muted: true}, At: clock.Now()})
	if !c.AFK().Pending("g", "u") {
		t.Fatal("mute did not schedule the AFK timer")
	}

	clock.Advance(10 * time.Minute)
	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u",
		Before: VoiceStatus{ChannelID: "vc", Muted: true}, After: VoiceStatus{ChannelID: "vc"}, At: clock.Now()})

	clock.Advance(time.Hour)
	if len(platform.disconnected) != 0 {
		t.Errorf("disconnected %v after unmute", platform.disconnected)
	}
}

func TestCorrelatorAFKPurge(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	idle := VoiceStatus{ChannelID: "vc", Deafened: true}
	platform.setVoice("g", "u", idle)

	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", Before: VoiceStatus{ChannelID: "vc"}, After: idle, At: clock.Now()})
	clock.Advance(DefaultAFKDelay)

	if len(platform.disconnected) != 1 || platform.disconnected[0] != "g/u" {
		t.Fatalf("disconnected = %v, want [g/u]", platform.disconnected)
	}
	sent := platform.messages()
	if len(sent) != 1 || sent[0].Embed.Title != Render(Alert{Kind: KindAFKPurged}).Title {
		t.Errorf("sent %+v, want one AFK alert", sent)
	}
}

func TestCorrelatorAFKRevalidates(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)

	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u",
		Before: VoiceStatus{ChannelID: "vc"}, After: VoiceStatus{ChannelID: "vc", Muted: true}, At: clock.Now()})
	// the unmute was never observed
	platform.setVoice("g", "u", VoiceStatus{ChannelID: "vc"})
	clock.Advance(DefaultAFKDelay)

	if len(platform.disconnected) != 0 {
		t.Errorf("disconnected %v although the member was active", platform.disconnected)
	}
	if len(platform.messages()) != 0 {
		t.Error("alert sent for a no-op purge")
	}
}

func TestCorrelatorLeavingCancelsAFK(t *testing.T) {
	c, _, clock := newTestCorrelator(t)
	muted := VoiceStatus{ChannelID: "vc", Muted: true}

	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", After: muted, At: clock.Now()})
	c.VoiceStateChanged(VoiceUpdate{GuildID: "g", UserID: "u", Before: muted, At: clock.Now()})

	if c.AFK().Pending("g", "u") {
		t.Error("leaving voice left the AFK timer pending")
	}
}

func TestCorrelatorAutomod(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	c.AutomodActionExecuted(AutomodExecution{GuildID: "g", UserID: "u", Rule: "r", At: clock.Now()})
	c.AutomodActionExecuted(AutomodExecution{GuildID: "other", UserID: "u", Rule: "r", At: clock.Now()})

	if len(platform.messages()) != 1 {
		t.Errorf("sent %d alerts, want 1", len(platform.messages()))
	}
}

func TestCorrelatorAutomodWarnsAndMutesOnce(t *testing.T) {
	c, platform, clock := newTestCorrelator(t)
	ctx := context.Background()
	c.repo.SetGuildConfig(ctx, "g", models.GuildAlertConfig{LogChannel: "logs", MutedRole: "muted", AutomodEnabled: true})

	for i := 0; i < 4; i++ {
		c.AutomodActionExecuted(AutomodExecution{GuildID: "g", UserID: "u", Rule: "spam", At: clock.Now()})
	}

	warns, err := c.Ledger().Get(ctx, "g", "u")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(warns) != 4 {
		t.Fatalf("ledger has %d warnings, want 4", len(warns))
	}
	if warns[0].Moderator != AutomodModerator || warns[0].Reason != "AutoMod: spam" {
		t.Errorf("warning = %+v, want an automod warning", warns[0])
	}
	want := []roleChange{{GuildID: "g", UserID: "u", RoleID: "muted"}}
	if diff := cmp.Diff(want, platform.added); diff != "" {
		t.Errorf("role changes mismatch (-want +got):\n%s", diff)
	}
}

func TestCorrelatorAutomodDisabledDoesNotWarn(t *testing.T) {
	c, _, clock := newTestCorrelator(t)
	c.AutomodActionExecuted(AutomodExecution{GuildID: "other", UserID: "u", Rule: "spam", At: clock.Now()})

	warns, err := c.Ledger().Get(context.Background(), "other", "u")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("ledger has %d warnings for a guild without automod", len(warns))
	}
}

func TestCorrelatorUnmute(t *testing.T) {
	c, platform, _ := newTestCorrelator(t)
	ctx := context.Background()

	if err := c.Unmute(ctx, "g", "u"); err == nil {
		t.Error("Unmute() without a muted role should fail")
	}
	c.repo.SetGuildConfig(ctx, "g", models.GuildAlertConfig{MutedRole: "muted"})
	if err := c.Unmute(ctx, "g", "u"); err != nil {
		t.Fatalf("Unmute() error = %v", err)
	}
	if len(platform.removed) != 1 {
		t.Errorf("removed %d roles, want 1", len(platform.removed))
	}
}
