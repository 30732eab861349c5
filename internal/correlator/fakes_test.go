package correlator

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves the clock forward and runs every due timer on the calling
// goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (c *fakeClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type sentMessage struct {
	ChannelID string
	Content   string
	Embed     *discordgo.MessageEmbed
}

type roleChange struct {
	GuildID, UserID, RoleID string
}

type fakePlatform struct {
	mu sync.Mutex

	sent         []sentMessage
	dms          []string
	added        []roleChange
	removed      []roleChange
	disconnected []string

	voice        map[string]VoiceStatus
	deleter      string
	deleterCalls int

	sendErr       error
	dmErr         error
	roleErr       error
	disconnectErr error
	auditErr      error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{voice: make(map[string]VoiceStatus)}
}

func (p *fakePlatform) SendMessage(_ context.Context, channelID, content string, embed *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return p.sendErr
	}
	p.sent = append(p.sent, sentMessage{channelID, content, embed})
	return nil
}

func (p *fakePlatform) DirectMessage(_ context.Context, userID string, _ *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dmErr != nil {
		return p.dmErr
	}
	p.dms = append(p.dms, userID)
	return nil
}

func (p *fakePlatform) AddRole(_ context.Context, guildID, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.roleErr != nil {
		return p.roleErr
	}
	p.added = append(p.added, roleChange{guildID, userID, roleID})
	return nil
}

func (p *fakePlatform) RemoveRole(_ context.Context, guildID, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.roleErr != nil {
		return p.roleErr
	}
	p.removed = append(p.removed, roleChange{guildID, userID, roleID})
	return nil
}

func (p *fakePlatform) DisconnectMember(_ context.Context, guildID, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disconnectErr != nil {
		return p.disconnectErr
	}
	p.disconnected = append(p.disconnected, guildID+"/"+userID)
	return nil
}

func (p *fakePlatform) VoiceStatus(_ context.Context, guildID, userID string) (VoiceStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voice[guildID+"/"+userID], nil
}

func (p *fakePlatform) MessageDeleter(_ context.Context, _, _, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleterCalls++
	return p.deleter, p.auditErr
}

func (p *fakePlatform) setVoice(guildID, userID string, s VoiceStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.voice[guildID+"/"+userID] = s
}

func (p *fakePlatform) messages() []sentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentMessage(nil), p.sent...)
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *fakePublisher) Publish(topic string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}
