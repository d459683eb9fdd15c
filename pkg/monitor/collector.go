package monitor

import (
	"sync"
	"time"
)

// Collector records events and notifies registered handlers. It
// is safe for concurrent use.
type Collector struct {
	mu       sync.RWMutex
	events   []Event
	handlers []func(Event)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics over test events.
type CollectorStats struct {
	Sessions int       `json:"sessions"`
	Tests    int       `json:"tests"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Since    time.Time `json:"since"`
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		events: make([]Event, 0, 64),
		stats:  CollectorStats{Since: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
// Handlers run synchronously on the emitting goroutine, in
// registration order.
func (c *Collector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *Collector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventSessionOpened:
		c.stats.Sessions++
	case EventTestPassed:
		c.stats.Tests++
		c.stats.Passed++
	case EventTestFailed:
		c.stats.Tests++
		c.stats.Failed++
	}
	handlers := make([]func(Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *Collector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Reset clears all collected events and statistics. Handlers stay
// registered.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{Since: time.Now()}
}
