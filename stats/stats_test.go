package stats

import "testing"

func TestPushPopTracksDepthAndHighWater(t *testing.T) {
	c := New()
	c.Push()
	c.Push()
	c.Push()
	if c.Depth() != 3 || c.StackHighWater != 3 {
		t.Errorf(`expected depth 3 and high water 3, got depth=%d high=%d`, c.Depth(), c.StackHighWater)
	}
	c.Pop()
	if c.Depth() != 2 {
		t.Errorf(`expected depth 2 after one Pop, got %d`, c.Depth())
	}
	// High water mark must survive descents back down.
	if c.StackHighWater != 3 {
		t.Errorf(`expected high water to remain 3, got %d`, c.StackHighWater)
	}
}

func TestPopNeverGoesNegative(t *testing.T) {
	c := New()
	c.Pop()
	c.Pop()
	if c.Depth() != 0 {
		t.Errorf(`expected depth to stay at 0, got %d`, c.Depth())
	}
}

func TestSnapshotReflectsCounters(t *testing.T) {
	c := New()
	c.AllocValue()
	c.AllocValue()
	c.AllocEnvironment(`test-env`)
	c.Push()

	snap := c.Snapshot()
	if snap.ValuesAllocated != 2 || snap.EnvironmentsAllocated != 1 || snap.ExpressionsEvaluated != 1 || snap.StackHighWater != 1 {
		t.Errorf(`unexpected snapshot: %+v`, snap)
	}
}

func TestRecentEnvironmentsTracksAllocations(t *testing.T) {
	c := New()
	c.AllocEnvironment(`env-a`)
	c.AllocEnvironment(`env-b`)
	got := c.RecentEnvironments()
	if len(got) != 2 || got[0] != `env-a` || got[1] != `env-b` {
		t.Errorf(`expected [env-a env-b], got %v`, got)
	}
}

func TestRecentThunkForcesIsCappedAtTraceCap(t *testing.T) {
	c := New()
	for i := 0; i < traceCap+5; i++ {
		c.RecordThunkForce(`thunk`)
	}
	if got := len(c.RecentThunkForces()); got != traceCap {
		t.Errorf(`expected the ring capped at %d, got %d`, traceCap, got)
	}
}
