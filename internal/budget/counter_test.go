package budget

import "testing"

func TestCounter_UnlimitedAlwaysAllows(t *testing.T) {
	c := NewCounter(0)
	for i := 0; i < 100; i++ {
		c.Record(1.0)
	}
	if !c.Allow() {
		t.Error("Unlimited counter must always allow")
	}
}

func TestCounter_LimitEnforced(t *testing.T) {
	c := NewCounter(0.05)

	if !c.Allow() {
		t.Fatal("Fresh counter should allow")
	}
	c.Record(0.03)
	if !c.Allow() {
		t.Error("Under limit should allow")
	}
	c.Record(0.03)
	if c.Allow() {
		t.Error("Over limit should deny")
	}

	snap := c.Snapshot()
	if !snap.Exhausted {
		t.Error("Snapshot should report exhausted")
	}
	if snap.Calls != 2 {
		t.Errorf("Expected 2 calls, got %d", snap.Calls)
	}
	if snap.CostUSD < 0.059 || snap.CostUSD > 0.061 {
		t.Errorf("Expected cost 0.06, got %f", snap.CostUSD)
	}
}

func TestCounter_Reset(t *testing.T) {
	c := NewCounter(0.01)
	c.Record(0.02)
	if c.Allow() {
		t.Fatal("Expected exhausted before reset")
	}

	c.Reset()
	if !c.Allow() {
		t.Error("Expected allow after reset")
	}
	if snap := c.Snapshot(); snap.Calls != 0 || snap.CostUSD != 0 {
		t.Errorf("Expected zeroed snapshot, got %+v", snap)
	}
}
