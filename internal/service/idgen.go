package service

import (
	"sync"
	"time"
)

// IDGenerator issues wall-clock derived identifiers that never repeat within the process.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator constructs a generator backed by the system clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns max(now in milliseconds, previous+1).
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

