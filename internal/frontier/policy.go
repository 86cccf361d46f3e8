package frontier

// ChildDepth returns depth(parent)+1, the only way a child's depth is ever
// derived (spec.md §3 invariant: depth(child) = depth(parent)+1).
func ChildDepth(parentDepth int) int {
	return parentDepth + 1
}

// ExceedsMaxDepth reports whether depth is beyond maxDepth and must never be
// enqueued.
func ExceedsMaxDepth(depth, maxDepth int) bool {
	return depth > maxDepth
}

// matchBoost is the fixed priority boost applied to a matched page's
// children, per spec.md §4.2.
const matchBoost = 1

// ChildPriority computes a child link's priority: equal to its depth, minus
// a fixed boost (capped at 0) if the parent page produced at least one
// match. Per SPEC_FULL's Open Question decision, only children are boosted —
// a page's own already-dequeued priority is never revised retroactively.
func ChildPriority(childDepth int, parentMatched bool) int {
	priority := childDepth
	if parentMatched {
		priority -= matchBoost
	}
	if priority < 0 {
		priority = 0
	}
	return priority
}
