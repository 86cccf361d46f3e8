package frontier

import "testing"

func TestChildDepth(t *testing.T) {
	if got := ChildDepth(0); got != 1 {
		t.Errorf("ChildDepth(0) = %d, want 1", got)
	}
	if got := ChildDepth(3); got != 4 {
		t.Errorf("ChildDepth(3) = %d, want 4", got)
	}
}

func TestExceedsMaxDepth(t *testing.T) {
	if ExceedsMaxDepth(2, 3) {
		t.Error("depth 2 should not exceed max depth 3")
	}
	if !ExceedsMaxDepth(4, 3) {
		t.Error("depth 4 should exceed max depth 3")
	}
	if ExceedsMaxDepth(3, 3) {
		t.Error("depth equal to max depth should not exceed it")
	}
}

func TestChildPriority(t *testing.T) {
	tests := []struct {
		name          string
		childDepth    int
		parentMatched bool
		want          int
	}{
		{"no match keeps depth as priority", 2, false, 2},
		{"match boosts priority down by one", 2, true, 1},
		{"boost capped at zero", 0, true, 0},
		{"no boost at depth zero", 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChildPriority(tt.childDepth, tt.parentMatched); got != tt.want {
				t.Errorf("ChildPriority(%d, %v) = %d, want %d", tt.childDepth, tt.parentMatched, got, tt.want)
			}
		})
	}
}
