package correlator

import (
	"sync"
	"time"
)

// DefaultAFKDelay is how long a member may idle muted or deafened before
// being disconnected.
const DefaultAFKDelay = 50 * time.Minute

// AFKPurger keeps at most one pending disconnect timer per member.
// Scheduling again replaces the pending timer. Cancelling is idempotent.
type AFKPurger struct {
	mu     sync.Mutex
	clock  Clock
	delay  time.Duration
	fire   func(guildID, userID string)
	timers map[memberKey]pendingPurge
	seq    uint64
}

type pendingPurge struct {
	timer Timer
	gen   uint64
}

// NewAFKPurger creates an AFKPurger that calls fire once a member's timer
// expires without being cancelled.
func NewAFKPurger(clock Clock, delay time.Duration, fire func(guildID, userID string)) *AFKPurger {
	if clock == nil {
		clock = SystemClock()
	}
	if delay <= 0 {
		delay = DefaultAFKDelay
	}
	return &AFKPurger{
		clock:  clock,
		delay:  delay,
		fire:   fire,
		timers: make(map[memberKey]pendingPurge),
	}
}

// Schedule starts the member's timer, superseding any pending one.
func (p *AFKPurger) Schedule(guildID, userID string) {
	k := memberKey{guildID, userID}

	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.timers[k]; ok {
		old.timer.Stop()
	}
	p.seq++
	gen := p.seq
	p.timers[k] = pendingPurge{
		gen:   gen,
		timer: p.clock.AfterFunc(p.delay, func() { p.expire(k, gen) }),
	}
}

// Cancel stops the member's pending timer. It reports whether one was
// pending.
func (p *AFKPurger) Cancel(guildID, userID string) bool {
	k := memberKey{guildID, userID}

	p.mu.Lock()
	defer p.mu.Unlock()

	pending, ok := p.timers[k]
	if !ok {
		return false
	}
	pending.timer.Stop()
	delete(p.timers, k)
	return true
}

// Pending reports whether the member has a scheduled timer.
func (p *AFKPurger) Pending(guildID, userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.timers[memberKey{guildID, userID}]
	return ok
}

// Stop cancels every pending timer.
func (p *AFKPurger) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, pending := range p.timers {
		pending.timer.Stop()
		delete(p.timers, k)
	}
}

// expire runs on the timer goroutine. A timer that was stopped too late to
// prevent the callback no longer matches the stored generation and does
// nothing.
func (p *AFKPurger) expire(k memberKey, gen uint64) {
	p.mu.Lock()
	pending, ok := p.timers[k]
	if !ok || pending.gen != gen {
		p.mu.Unlock()
		return
	}
	delete(p.timers, k)
	p.mu.Unlock()

	p.fire(k.guildID, k.userID)
}
