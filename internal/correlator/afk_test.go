package correlator

import (
	"sync"
	"testing"
	"time"
)

type fireLog struct {
	mu    sync.Mutex
	fired []string
}

func (f *fireLog) fire(guildID, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fired = append(f.fired, guildID+"/"+userID)
}

func (f *fireLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fired)
}

func TestAFKPurgerFires(t *testing.T) {
	clock := newFakeClock()
	log := &fireLog{}
	p := NewAFKPurger(clock, 0, log.fire)

	p.Schedule("g", "u")
	if !p.Pending("g", "u") {
		t.Fatal("timer not pending after Schedule")
	}

	clock.Advance(DefaultAFKDelay - time.Second)
	if log.count() != 0 {
		t.Fatal("fired before the delay elapsed")
	}
	clock.Advance(time.Second)
	if log.count() != 1 {
		t.Fatalf("fired %d times, want 1", log.count())
	}
	if p.Pending("g", "u") {
		t.Error("timer still pending after firing")
	}
}

func TestAFKPurgerCancel(t *testing.T) {
	clock := newFakeClock()
	log := &fireLog{}
	p := NewAFKPurger(clock, time.Minute, log.fire)

	p.Schedule("g", "u")
	if !p.Cancel("g", "u") {
		t.Error("Cancel() = false with a pending timer")
	}
	if p.Cancel("g", "u") {
		t.Error("second Cancel() = true")
	}
	if p.Cancel("g", "other") {
		t.Error("Cancel() = true for a member without timer")
	}

	clock.Advance(time.Hour)
	if log.count() != 0 {
		t.Errorf("cancelled timer fired %d times", log.count())
	}
}

func TestAFKPurgerSupersedes(t *testing.T) {
	clock := newFakeClock()
	log := &fireLog{}
	p := NewAFKPurger(clock, 10*time.Minute, log.fire)

	p.Schedule("g", "u")
	clock.Advance(5 * time.Minute)
	p.Schedule("g", "u")

	if clock.active() != 1 {
		t.Fatalf("%d active timers, want 1", clock.active())
	}
	clock.Advance(5 * time.Minute)
	if log.count() != 0 {
		t.Fatal("superseded timer fired")
	}
	clock.Advance(5 * time.Minute)
	if log.count() != 1 {
		t.Errorf("fired %d times, want 1", log.count())
	}
}

func TestAFKPurgerStaleCallback(t *testing.T) {
	clock := newFakeClock()
	log := &fireLog{}
	p := NewAFKPurger(clock, time.Minute, log.fire)

	p.Schedule("g", "u")
	p.mu.Lock()
	stale := p.timers[memberKey{"g", "u"}].gen
	p.mu.Unlock()
	p.Schedule("g", "u")

	// a callback whose Stop lost the race must not fire
	p.expire(memberKey{"g", "u"}, stale)
	if log.count() != 0 {
		t.Error("stale generation fired")
	}
}

func TestAFKPurgerStop(t *testing.T) {
	clock := newFakeClock()
	log := &fireLog{}
	p := NewAFKPurger(clock, time.Minute, log.fire)

	p.Schedule("g", "a")
	p.Schedule("g", "b")
	p.Stop()

	clock.Advance(time.Hour)
	if log.count() != 0 {
		t.Errorf("fired %d times after Stop", log.count())
	}
}
