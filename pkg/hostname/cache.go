package hostname

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/activecm/fwgraph/pkg/metrics"
	"github.com/activecm/fwgraph/util"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	//DefaultTimeout bounds a single reverse lookup
	DefaultTimeout = time.Second
	//DefaultWorkers is the number of concurrent lookups made by PreCache
	DefaultWorkers = 50
)

// LookupFunc performs a reverse lookup of ip
type LookupFunc func(ctx context.Context, ip string) (string, error)

var errNoName = errors.New("no PTR record")

// reverseLookup asks the system resolver for the first PTR name of ip
func reverseLookup(ctx context.Context, ip string) (string, error) {
	names, err := net.DefaultResolver.LookupAddr(ctx, ip)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		name = strings.TrimSuffix(strings.TrimSpace(name), ".")
		if name != "" {
			return name, nil
		}
	}
	return "", errNoName
}

type (
	// Cache maps IP addresses to hostnames. Entries, including failed lookups,
	// are kept for TTL and persisted through a Store.
	Cache struct {
		store   Store
		log     *log.Logger
		lookup  LookupFunc
		now     func() time.Time
		timeout time.Duration
		metrics *metrics.Metrics

		loadOnce sync.Once
		mu       sync.Mutex
		entries  map[string]Entry
		dirty    bool
		session  SessionStats
		flight   singleflight.Group
	}

	// Option customizes a Cache
	Option func(*Cache)

	// SessionStats counts what happened during this process
	SessionStats struct {
		Hits     int
		Misses   int
		Resolved int
		Failed   int
	}

	// Stats describes the cache contents
	Stats struct {
		Entries  int
		Stale    int
		Failed   int
		Internal int
		External int
		Session  SessionStats
	}

	// PreCacheOptions tunes a PreCache run
	PreCacheOptions struct {
		Workers int
		Timeout time.Duration
		// Progress receives a progress bar when non nil
		Progress io.Writer
	}

	// PreCacheSummary tallies a PreCache run
	PreCacheSummary struct {
		Unique   int
		Skipped  int
		Fresh    int
		Resolved int
		Failed   int
		Duration time.Duration
	}
)

// WithLookup replaces the system resolver
func WithLookup(lookup LookupFunc) Option {
	return func(c *Cache) { c.lookup = lookup }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithTimeout sets the per lookup timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Cache) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMetrics records hits, misses and lookups
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates a cache over store. Nothing is read from the store
// until the cache is first used.
func NewCache(store Store, logger *log.Logger, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	c := &Cache{
		store:   store,
		log:     logger,
		lookup:  reverseLookup,
		now:     time.Now,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// load reads the store once. A store that cannot be read is treated as empty
// and gets rewritten on the next flush.
func (c *Cache) load() {
	c.loadOnce.Do(func() {
		entries, err := c.store.Load()
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.log.WithError(err).Warn("Hostname cache could not be read, starting with an empty cache")
			c.entries = make(map[string]Entry)
			c.dirty = true
			return
		}
		c.entries = entries
		if c.entries == nil {
			c.entries = make(map[string]Entry)
		}
		c.log.WithField("entries", len(c.entries)).Debug("Loaded hostname cache")
	})
}

// fresh returns the cached entry for ip if it is younger than the TTL
func (c *Cache) fresh(ip string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[ip]
	if !ok || entry.Stale(c.now()) {
		return Entry{}, false
	}
	return entry, true
}

// Resolve returns the hostname of ip. External addresses are never looked
// up in internal-only mode. Fresh entries, including failures, are served
// from the cache. Anything else is looked up and the outcome cached.
func (c *Cache) Resolve(ip string, mode Mode) Result {
	ip = normalize(ip)
	if ip == "" || !mode.allows(ip) {
		return Result{Status: NotAttempted}
	}
	c.load()

	if entry, ok := c.fresh(ip); ok {
		c.mu.Lock()
		c.session.Hits++
		c.mu.Unlock()
		c.metrics.IncrementCacheHit()
		return entry.Result()
	}

	c.mu.Lock()
	c.session.Misses++
	c.mu.Unlock()
	c.metrics.IncrementCacheMiss()

	return c.refresh(ip, c.timeout).Result()
}

// refresh performs one lookup for ip no matter how many callers ask at once
func (c *Cache) refresh(ip string, timeout time.Duration) Entry {
	v, _, _ := c.flight.Do(ip, func() (interface{}, error) {
		// a flight that just finished may have refreshed ip already
		if entry, ok := c.fresh(ip); ok {
			return entry, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		name, err := c.lookup(ctx, ip)
		name = strings.TrimSuffix(strings.TrimSpace(name), ".")
		if err == nil && name == "" {
			err = errNoName
		}

		entry := Entry{IP: ip, ResolvedAt: c.now()}
		if err != nil {
			c.log.WithFields(log.Fields{
				"ip":    ip,
				"error": err.Error(),
			}).Debug("Reverse lookup failed")
		} else {
			entry.Hostname = name
			entry.Resolved = true
		}

		c.mu.Lock()
		c.entries[ip] = entry
		c.dirty = true
		if entry.Resolved {
			c.session.Resolved++
		} else {
			c.session.Failed++
		}
		c.mu.Unlock()
		c.metrics.IncrementLookup(!entry.Resolved)

		return entry, nil
	})
	return v.(Entry)
}

// PreCache resolves every distinct address in ips that mode allows and is
// not already fresh, then flushes the cache. A failed lookup never stops
// the batch.
func (c *Cache) PreCache(ips []string, mode Mode, opts PreCacheOptions) (PreCacheSummary, error) {
	start := time.Now()
	c.load()

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	var summary PreCacheSummary
	seen := util.NewCache()
	var todo []string
	for _, ip := range ips {
		ip = normalize(ip)
		if ip == "" || seen.Lookup(ip) {
			continue
		}
		summary.Unique++
		if !mode.allows(ip) {
			summary.Skipped++
			continue
		}
		if _, ok := c.fresh(ip); ok {
			summary.Fresh++
			continue
		}
		todo = append(todo, ip)
	}

	var p *mpb.Progress
	var bar *mpb.Bar
	if opts.Progress != nil && len(todo) > 0 {
		p = mpb.New(mpb.WithWidth(20), mpb.WithOutput(opts.Progress))
		bar = p.AddBar(int64(len(todo)),
			mpb.PrependDecorators(
				decor.Name("\t[-] Resolving hostnames:", decor.WC{W: 30, C: decor.DidentRight}),
				decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	var tally sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)
	for _, ip := range todo {
		ip := ip
		g.Go(func() error {
			begin := time.Now()
			entry := c.refresh(ip, timeout)
			tally.Lock()
			if entry.Resolved {
				summary.Resolved++
			} else {
				summary.Failed++
			}
			tally.Unlock()
			if bar != nil {
				bar.IncrBy(1, time.Since(begin))
			}
			return nil
		})
	}
	// workers never return errors
	_ = g.Wait()
	if p != nil {
		p.Wait()
	}

	summary.Duration = time.Since(start)
	c.log.WithFields(log.Fields{
		"unique":   summary.Unique,
		"skipped":  summary.Skipped,
		"fresh":    summary.Fresh,
		"resolved": summary.Resolved,
		"failed":   summary.Failed,
	}).Info("Hostname pre-cache finished")

	return summary, c.Flush()
}

// Stats summarizes the cache contents and this session's activity
func (c *Cache) Stats() Stats {
	c.load()
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Entries: len(c.entries), Session: c.session}
	for ip, entry := range c.entries {
		if entry.Stale(now) {
			stats.Stale++
		}
		if !entry.Resolved {
			stats.Failed++
		}
		if Classify(ip) == Internal {
			stats.Internal++
		} else {
			stats.External++
		}
	}
	return stats
}

// Clear drops every entry from memory and from the store
func (c *Cache) Clear() error {
	c.load()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
	c.dirty = false
	return c.store.Clear()
}

// Flush writes the cache to the store if anything changed
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty || c.entries == nil {
		return nil
	}
	if err := c.store.Save(c.entries); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Close flushes the cache and releases the store
func (c *Cache) Close() error {
	flushErr := c.Flush()
	closeErr := c.store.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
