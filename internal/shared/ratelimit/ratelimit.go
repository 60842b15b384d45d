// Package ratelimit hands out one token bucket per client so a single caller
// cannot monopolise the prediction endpoint.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultIdleTTL = 10 * time.Minute

// Decision is the outcome of one Take.
type Decision struct {
	Allowed bool
	// RetryAfter is zero when Allowed.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds up for the Retry-After header, which has whole
// second resolution.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerClient keeps a bucket per client key and forgets clients idle for
// longer than the ttl.
type PerClient struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New starts a sweeper that runs every ttl/2 until Close.
func New(perSecond float64, burst int, ttl time.Duration) *PerClient {
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	p := &PerClient{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.sweepLoop()
	return p
}

// Take spends one token from client's bucket.
func (p *PerClient) Take(client string) Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	b, ok := p.buckets[client]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.buckets[client] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return Decision{Allowed: true}
	}
	return Decision{RetryAfter: p.nextTokenLocked(b, now)}
}

func (p *PerClient) nextTokenLocked(b *bucket, now time.Time) time.Duration {
	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return time.Second
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return delay
}

// Clients is the number of buckets currently tracked.
func (p *PerClient) Clients() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets)
}

// Close stops the sweeper and waits for it. Safe to call more than once.
func (p *PerClient) Close() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

func (p *PerClient) sweepLoop() {
	defer close(p.done)
	ticker := time.NewTicker(p.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.sweep()
		case <-p.stop:
			return
		}
	}
}

func (p *PerClient) sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for client, b := range p.buckets {
		if now.Sub(b.lastSeen) > p.ttl {
			delete(p.buckets, client)
		}
	}
}
