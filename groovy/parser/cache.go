package parser

import (
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"
)

// Cache memoizes prediction results keyed by the classes of the tokens a
// predicate examined. It is shared by concurrent parses.
//
// Parses hold the read side of the cache lock for their whole duration;
// Clear takes the write side, so it waits for in-flight parses and blocks
// new ones until it is done.
type Cache struct {
	lock deadlock.RWMutex

	// mu guards roots while several readers insert concurrently.
	mu    deadlock.Mutex
	roots [numDecisions]*dfaState

	hits   atomic.Int64
	misses atomic.Int64
	states atomic.Int64
}

type dfaState struct {
	terminal bool
	alt      bool
	next     map[uint32]*dfaState
}

func NewCache() *Cache {
	return &Cache{}
}

var defaultCache = NewCache()

// DefaultCache returns the process-wide cache used when none is injected.
func DefaultCache() *Cache {
	return defaultCache
}

// Acquire takes the read side of the cache lock. The returned function
// releases it.
func (c *Cache) Acquire() (release func()) {
	c.lock.RLock()
	return c.lock.RUnlock
}

// Clear discards every cached decision. It blocks until all parses holding
// the cache have released it.
func (c *Cache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.mu.Lock()
	c.roots = [numDecisions]*dfaState{}
	c.mu.Unlock()
	c.states.Store(0)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
	States int64
}

func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		States: c.states.Load(),
	}
}

func (c *Cache) lookup(d Decision, tokens []Token) (alt, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.roots[d]
	for i := 0; s != nil; i++ {
		if s.terminal {
			c.hits.Add(1)
			return s.alt, true
		}
		s = s.next[classAt(tokens, i)]
	}
	c.misses.Add(1)
	return false, false
}

func (c *Cache) store(d Decision, tokens []Token, n int, alt bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.roots[d] == nil {
		c.roots[d] = &dfaState{}
		c.states.Add(1)
	}
	s := c.roots[d]
	for i := 0; i < n; i++ {
		if s.terminal {
			return
		}
		if s.next == nil {
			s.next = make(map[uint32]*dfaState)
		}
		class := classAt(tokens, i)
		next := s.next[class]
		if next == nil {
			next = &dfaState{}
			s.next[class] = next
			c.states.Add(1)
		}
		s = next
	}
	s.terminal = true
	s.alt = alt
}
