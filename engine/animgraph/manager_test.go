package animgraph

import "testing"

func TestGraphInstanceManagerTrackAndUntrack(t *testing.T) {
	m := NewGraphInstanceManager(2)
	a := newTestGraphInstance(t)
	b := newTestGraphInstance(t)

	m.Track(a)
	m.Track(b)
	if len(m.instances) != 2 {
		t.Fatalf("len(instances) = %d, want 2", len(m.instances))
	}

	m.Untrack(a)
	if len(m.instances) != 1 || m.instances[0] != b {
		t.Fatalf("after Untrack(a), instances = %+v, want [b]", m.instances)
	}
}

func TestGraphInstanceManagerUntrackUntrackedIsNoOp(t *testing.T) {
	m := NewGraphInstanceManager(2)
	a := newTestGraphInstance(t)
	m.Track(a)

	other := newTestGraphInstance(t)
	m.Untrack(other)

	if len(m.instances) != 1 {
		t.Errorf("len(instances) = %d, want 1 (untracking a non-member should be a no-op)", len(m.instances))
	}
}

func TestGraphInstanceManagerEvaluateAllAdvancesEveryInstance(t *testing.T) {
	m := NewGraphInstanceManager(4)
	instances := make([]*GraphInstance, 5)
	for i := range instances {
		instances[i] = newTestGraphInstance(t)
		m.Track(instances[i])
	}

	m.EvaluateAll(1.0 / 30.0)

	for i, inst := range instances {
		if !inst.root.IsInitialized() {
			t.Errorf("instance %d: expected root node to be initialized after EvaluateAll", i)
		}
	}
}
