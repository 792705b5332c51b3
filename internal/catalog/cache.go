package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/genricoloni/tunecord/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const sizePlaceholder = "%%"

type coverKey struct {
	artist string
	title  string
}

// coverEntry is either a resolved URL or a remembered miss (url == "")
type coverEntry struct {
	url string
}

// CoverCache resolves cover URLs through a Searcher and remembers the results
// for the life of the process. Keys are exact, case-sensitive (artist, title) pairs.
// Concurrent lookups of one key share a single search.
type CoverCache struct {
	logger   *zap.Logger
	cfg      domain.ConfigProvider
	searcher domain.Searcher
	inflight singleflight.Group

	mu      sync.Mutex
	entries map[coverKey]coverEntry
}

// NewCoverCache creates an empty cache in front of searcher
func NewCoverCache(logger *zap.Logger, cfg domain.ConfigProvider, searcher domain.Searcher) *CoverCache {
	return &CoverCache{
		logger:   logger,
		cfg:      cfg,
		searcher: searcher,
		entries:  make(map[coverKey]coverEntry),
	}
}

// ResolveCover returns the cover URL for a track. Lookup errors are logged and
// reported as "no cover"; they are never cached. Misses are cached only when
// CacheNotFound is enabled.
func (c *CoverCache) ResolveCover(ctx context.Context, title, artist string) (string, bool) {
	key := coverKey{artist: artist, title: title}

	if e, ok := c.cached(key); ok {
		return e.url, e.url != ""
	}

	v, _, _ := c.inflight.Do(artist+"\x00"+title, func() (any, error) {
		// A lookup for this key may have finished while we waited
		if e, ok := c.cached(key); ok {
			return e, nil
		}
		return c.lookup(ctx, key), nil
	})
	e := v.(coverEntry)
	return e.url, e.url != ""
}

func (c *CoverCache) cached(key coverKey) (coverEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// lookup searches the catalog and stores what may be cached
func (c *CoverCache) lookup(ctx context.Context, key coverKey) coverEntry {
	settings := c.cfg.Current()

	res, err := c.search(ctx, key.title, key.artist)
	if err != nil {
		c.logger.Warn("Cover lookup failed",
			zap.String("title", key.title),
			zap.String("artist", key.artist),
			zap.Error(err))
		return coverEntry{}
	}

	if res == nil || res.CoverTemplate == "" {
		if settings.CacheNotFound {
			c.store(key, coverEntry{})
		}
		return coverEntry{}
	}

	e := coverEntry{url: coverURL(res.CoverTemplate, settings.CoverSize)}
	c.store(key, e)

	c.logger.Debug("Cover resolved",
		zap.String("title", key.title),
		zap.String("artist", key.artist),
		zap.String("url", e.url))

	return e
}

func (c *CoverCache) store(key coverKey, e coverEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// search calls the searcher, turning a panic into an error
func (c *CoverCache) search(ctx context.Context, title, artist string) (res *domain.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, panicError(r)
		}
	}()
	return c.searcher.Search(ctx, title, artist)
}

// Len returns the number of cached keys, hits and remembered misses
func (c *CoverCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// coverURL substitutes the size placeholder and adds a scheme when missing
func coverURL(template, size string) string {
	url := strings.ReplaceAll(template, sizePlaceholder, size)
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	return url
}

func panicError(r any) error {
	return fmt.Errorf("%w: searcher panicked: %v", domain.ErrResolver, r)
}
