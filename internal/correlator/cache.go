package correlator

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCacheSize bounds the event cache when no size is configured.
const DefaultCacheSize = 10000

// CachedMessage is the snapshot of a message taken when it was created.
type CachedMessage struct {
	ID             string
	GuildID        string
	AuthorID       string
	ChannelID      string
	CreatedAt      time.Time
	Content        string
	AttachmentURLs []string
	MentionCount   int
}

// EventCache is a bounded LRU map from message ID to CachedMessage.
// It holds at most one entry per message ID.
type EventCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

// NewEventCache creates an EventCache holding up to capacity messages.
func NewEventCache(capacity int) *EventCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &EventCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Record stores m, replacing any previous snapshot with the same ID.
// The least recently recorded message is evicted when the cache is full.
func (c *EventCache) Record(m CachedMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[m.ID]; ok {
		elem.Value = m
		c.order.MoveToFront(elem)
		return
	}

	c.items[m.ID] = c.order.PushFront(m)
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(CachedMessage).ID)
	}
}

// Take returns and removes the snapshot for id.
func (c *EventCache) Take(id string) (CachedMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[id]
	if !ok {
		return CachedMessage{}, false
	}
	c.order.Remove(elem)
	delete(c.items, id)
	return elem.Value.(CachedMessage), true
}

// Peek returns the snapshot for id without removing it.
func (c *EventCache) Peek(id string) (CachedMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[id]
	if !ok {
		return CachedMessage{}, false
	}
	return elem.Value.(CachedMessage), true
}

// Len returns the number of cached messages.
func (c *EventCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
