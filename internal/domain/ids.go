package domain

import (
	"sync"
	"time"
)

// IDGenerator hands out session-unique integer ids. Ids start near the
// current Unix millisecond and strictly increase, so ids issued later in a
// session always sort after earlier ones.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator backed by the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh id.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

var defaultIDs = NewIDGenerator()

// NextID returns a fresh id from the process-wide generator.
func NextID() int64 {
	return defaultIDs.Next()
}
