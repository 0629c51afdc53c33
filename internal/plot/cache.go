package plot

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/minio/highwayhash"
	"github.com/patrickmn/go-cache"

	"github.com/fairyhunter13/slope-calculator/internal/geometry"
	"github.com/fairyhunter13/slope-calculator/internal/obs"
)

var hashKey = []byte("slope-calculator/plot-cache-key!")

// Key identifies a rendered image.
type Key uint64

// String is the hex form used as an HTTP entity tag.
func (k Key) String() string { return fmt.Sprintf("%016x", uint64(k)) }

// KeyOf hashes the inputs that fully determine a rendered image.
func KeyOf(p1, p2 geometry.Point, f Format, size Size) (Key, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	var buf [8]byte
	for _, v := range []float64{p1.X, p1.Y, p2.X, p2.Y} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	binary.LittleEndian.PutUint32(buf[:4], uint32(size.Width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(size.Height))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(f))
	return Key(h.Sum64()), nil
}

// Image is an encoded plot.
type Image struct {
	Key    Key
	Format Format
	Data   []byte
}

// Cache memoises rendered plots for a fixed time-to-live.
type Cache struct {
	c    *cache.Cache
	size Size

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache builds a Cache whose entries live for ttl.
func NewCache(ttl time.Duration, size Size) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	return &Cache{c: cache.New(ttl, 2*ttl), size: size}
}

// GetOrRender returns the cached image for the two points or renders it.
func (c *Cache) GetOrRender(p1, p2 geometry.Point, f Format) (Image, error) {
	k, err := KeyOf(p1, p2, f, c.size)
	if err != nil {
		return Image{}, fmt.Errorf("plot cache key: %w", err)
	}
	if v, ok := c.c.Get(k.String()); ok {
		if img, ok := v.(Image); ok {
			c.hits.Add(1)
			return img, nil
		}
	}
	c.misses.Add(1)
	start := time.Now()
	data, err := Render(BuildSpec(p1, p2, geometry.ComputeSlope(p1, p2)), f, c.size)
	if err != nil {
		return Image{}, err
	}
	img := Image{Key: k, Format: f, Data: data}
	c.c.SetDefault(k.String(), img)
	obs.Logger.Debug("plot_rendered",
		"key", k.String(),
		"format", string(f),
		"bytes", len(data),
		"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return img, nil
}

// Stats returns hit and miss counters and the number of cached entries.
func (c *Cache) Stats() (hits, misses uint64, entries int) {
	return c.hits.Load(), c.misses.Load(), c.c.ItemCount()
}
