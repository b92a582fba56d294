package embedding

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	gocache "github.com/patrickmn/go-cache"
)

// Cached memoizes vectors of another encoder for a TTL.
type Cached struct {
	next  Encoder
	cache *gocache.Cache
	ttl   time.Duration
}

func NewCached(next Encoder, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *Cached) Name() string { return c.next.Name() }

// Encode serves known texts from the cache and sends only the rest to the
// wrapped encoder.
func (c *Cached) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	var (
		missing []string
		slots   []int
	)
	for i, text := range texts {
		if v, ok := c.cache.Get(c.key(text)); ok {
			out[i] = v.(Vector)
			continue
		}
		missing = append(missing, text)
		slots = append(slots, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := c.next.Encode(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, Unavailable(fmt.Errorf("%s returned %d vectors for %d texts", c.next.Name(), len(vectors), len(missing)))
	}
	for j, v := range vectors {
		out[slots[j]] = v
		c.cache.Set(c.key(missing[j]), v, c.ttl)
	}
	return out, nil
}

// Len returns the number of cached vectors.
func (c *Cached) Len() int {
	return c.cache.ItemCount()
}

func (c *Cached) key(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(c.next.Name()+"\x00"+text), 16)
}
