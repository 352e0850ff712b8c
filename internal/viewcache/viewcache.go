// Package viewcache holds read-through caches of remote views, keyed by
// string tags. The cache never refreshes on a timer: entries are dropped when
// a mutation or change-feed event invalidates their tag and refilled on the
// next read.
package viewcache

import "sync"

const (
	TagQueueItems           = "queue-items"
	TagTodayQueue           = "today-queue"
	TagPublicQueue          = "public-queue"
	TagQueueStats           = "queue-stats"
	TagBarberQueue          = "barber-queue"
	TagItemServices         = "item-services"
	TagServicesAvailability = "services-availability"
	TagTransferHistory      = "transfer-history"
	TagQueueSettings        = "queue-settings"
)

const itemTagPrefix = "queue-item:"

// ItemTag is the per-ticket cache tag.
func ItemTag(ticketID string) string {
	return itemTagPrefix + ticketID
}

type entry struct {
	value interface{}
}

type Cache struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]int
}

func New() *Cache {
	return &Cache{
		entries:     make(map[string]entry),
		generations: make(map[string]int),
	}
}

func (c *Cache) Invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		delete(c.entries, tag)
		c.generations[tag]++
	}
}

func (c *Cache) InvalidateItem(ticketID string) {
	c.Invalidate(ItemTag(ticketID))
}

// Get returns the cached value for a tag, if present.
func (c *Cache) Get(tag string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[tag]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Put(tag string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tag] = entry{value: value}
}

// GetOr returns the cached value for a tag, filling it with fill on a miss.
// The fill runs outside the lock; concurrent misses may both fill. A fill
// that raced an invalidation is returned to the caller but not stored, so a
// pre-mutation read can never re-insert stale data.
func (c *Cache) GetOr(tag string, fill func() (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[tag]; ok {
		c.mu.Unlock()
		return e.value, nil
	}
	gen := c.generations[tag]
	c.mu.Unlock()

	value, err := fill()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generations[tag] == gen {
		c.entries[tag] = entry{value: value}
	}
	c.mu.Unlock()
	return value, nil
}

// Generation reports how many times a tag has been invalidated.
func (c *Cache) Generation(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[tag]
}
