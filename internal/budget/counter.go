// Package budget tracks external-call spend through an explicit, injectable
// counter. The adjudication engine never depends on process-wide state; the
// reset policy belongs to whoever owns the counter.
package budget

import (
	"sync"

	"github.com/rmedved/concord/internal/model"
)

// Counter accumulates call counts and cost. Safe for concurrent use.
type Counter struct {
	mu       sync.Mutex
	calls    int
	costUSD  float64
	limitUSD float64 // 0 = unlimited
}

// NewCounter creates a counter with the given spend limit (0 = unlimited).
func NewCounter(limitUSD float64) *Counter {
	return &Counter{limitUSD: limitUSD}
}

// Record adds one call at the given cost.
func (c *Counter) Record(costUSD float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.costUSD += costUSD
}

// Allow reports whether another call fits within the limit.
func (c *Counter) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limitUSD == 0 || c.costUSD < c.limitUSD
}

// Snapshot returns a point-in-time view of spend.
func (c *Counter) Snapshot() model.BudgetSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.BudgetSnapshot{
		Calls:     c.calls,
		CostUSD:   c.costUSD,
		LimitUSD:  c.limitUSD,
		Exhausted: c.limitUSD > 0 && c.costUSD >= c.limitUSD,
	}
}

// Reset zeroes the counter. Owned by the caller, not the engine.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
	c.costUSD = 0
}
