// Package stats implements the counters and stack high-water marker
// spec.md §6 says NIX_SHOW_STATS=1 should print at shutdown, grounded on
// the teacher's eval/context.go Stack()/StackPush()/StackPop() triplet
// (there used for error-location stacks; repurposed here to also drive
// the high-water counter) and evaluator/logging.go's role as the
// counters' owner.
package stats

import "sync"

// traceCap bounds the debug-ID rings below: they exist for tracing a
// live run, not for accumulating an unbounded history.
const traceCap = 16

// Counters accumulates the diagnostics named in spec.md §6: expressions
// evaluated, stack high-water bytes (here: frames, since this module
// tracks logical dispatcher recursion rather than raw stack addresses,
// per spec.md §9's recommendation), values allocated, environments
// allocated.
type Counters struct {
	mu sync.Mutex

	ExpressionsEvaluated  uint64
	ValuesAllocated       uint64
	EnvironmentsAllocated uint64

	depth          int
	StackHighWater int

	// lastThunkForces/lastEnvironments hold the most recent DebugID
	// values (SPEC_FULL.md §4) seen by RecordThunkForce/AllocEnvironment,
	// capped at traceCap, oldest first.
	lastThunkForces  []string
	lastEnvironments []string
}

// New returns a zeroed Counters.
func New() *Counters { return &Counters{} }

// Push records dispatcher entry, tracking recursion depth and its
// high-water mark. Call it once per Eval call and defer Pop.
func (c *Counters) Push() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth++
	c.ExpressionsEvaluated++
	if c.depth > c.StackHighWater {
		c.StackHighWater = c.depth
	}
}

// Pop records dispatcher exit.
func (c *Counters) Pop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.depth > 0 {
		c.depth--
	}
}

// Depth returns the current logical recursion depth, consulted by the
// evaluator to enforce config.Config.MaxCallDepth (SPEC_FULL.md §5).
func (c *Counters) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depth
}

// AllocValue records allocation of a new Value.
func (c *Counters) AllocValue() {
	c.mu.Lock()
	c.ValuesAllocated++
	c.mu.Unlock()
}

// AllocEnvironment records allocation of a new Environment, tracing its
// DebugID (SPEC_FULL.md §4) into the recent-environments ring.
func (c *Counters) AllocEnvironment(debugID string) {
	c.mu.Lock()
	c.EnvironmentsAllocated++
	c.lastEnvironments = pushCapped(c.lastEnvironments, debugID)
	c.mu.Unlock()
}

// RecordThunkForce traces a Thunk's DebugID (SPEC_FULL.md §4) into the
// recent-thunk-forces ring, called once per Force on a KThunk value.
func (c *Counters) RecordThunkForce(debugID string) {
	c.mu.Lock()
	c.lastThunkForces = pushCapped(c.lastThunkForces, debugID)
	c.mu.Unlock()
}

// RecentThunkForces returns the most recently forced thunks' DebugIDs,
// oldest first, capped at traceCap.
func (c *Counters) RecentThunkForces() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lastThunkForces))
	copy(out, c.lastThunkForces)
	return out
}

// RecentEnvironments returns the most recently allocated environments'
// DebugIDs, oldest first, capped at traceCap.
func (c *Counters) RecentEnvironments() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lastEnvironments))
	copy(out, c.lastEnvironments)
	return out
}

func pushCapped(ring []string, id string) []string {
	ring = append(ring, id)
	if len(ring) > traceCap {
		ring = ring[len(ring)-traceCap:]
	}
	return ring
}

// Snapshot is a point-in-time copy safe to hand to a logger/CLI (the
// prettification and printing themselves are out of scope, per spec.md
// §1).
type Snapshot struct {
	ExpressionsEvaluated  uint64
	ValuesAllocated       uint64
	EnvironmentsAllocated uint64
	StackHighWater        int
}

func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ExpressionsEvaluated:  c.ExpressionsEvaluated,
		ValuesAllocated:       c.ValuesAllocated,
		EnvironmentsAllocated: c.EnvironmentsAllocated,
		StackHighWater:        c.StackHighWater,
	}
}
