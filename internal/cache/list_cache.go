package cache

import (
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/Raymond9734/customer-records/internal/models"
)

// DefaultTTL is how long a list result stays valid after insertion
const DefaultTTL = 30 * time.Second

// allCustomersKey is the key used when no search term is given
const allCustomersKey = ""

// ListCache stores list query results keyed by normalized search term
type ListCache interface {
	// Get returns the cached sequence if present and not expired
	Get(key string) ([]*models.Customer, bool)

	// Set stores data under key with a fresh expiry
	Set(key string, data []*models.Customer)

	// Clear discards every entry
	Clear()
}

// Key normalizes a search term so logically identical queries share an entry
func Key(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return allCustomersKey
	}
	return search
}

// TTLCache is a process-local ListCache whose entries expire a fixed
// duration after insertion. Reads never extend an entry's lifetime.
type TTLCache struct {
	items *ttlcache.Cache[string, []*models.Customer]
	ttl   time.Duration
}

// NewTTLCache creates a cache with the given time-to-live. A non-positive
// ttl falls back to DefaultTTL.
func NewTTLCache(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTLCache{
		items: ttlcache.New(
			ttlcache.WithTTL[string, []*models.Customer](ttl),
			ttlcache.WithDisableTouchOnHit[string, []*models.Customer](),
		),
		ttl: ttl,
	}
}

// TTL returns the configured time-to-live
func (c *TTLCache) TTL() time.Duration {
	return c.ttl
}

func (c *TTLCache) Get(key string) ([]*models.Customer, bool) {
	item := c.items.Get(key)
	if item == nil {
		// ttlcache hides expired items from Get but keeps them until
		// cleanup; drop the stale entry now.
		c.items.Delete(key)
		return nil, false
	}
	return cloneCustomers(item.Value()), true
}

func (c *TTLCache) Set(key string, data []*models.Customer) {
	c.items.DeleteExpired()
	c.items.Set(key, cloneCustomers(data), ttlcache.DefaultTTL)
}

func (c *TTLCache) Clear() {
	c.items.DeleteAll()
}

// Len returns the number of stored entries
func (c *TTLCache) Len() int {
	return c.items.Len()
}

// cloneCustomers copies the slice and every record so callers never share
// memory with a stored entry
func cloneCustomers(in []*models.Customer) []*models.Customer {
	out := make([]*models.Customer, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// Nop is a ListCache that never stores anything
type Nop struct{}

func (Nop) Get(string) ([]*models.Customer, bool) { return nil, false }
func (Nop) Set(string, []*models.Customer)        {}
func (Nop) Clear()                                {}
