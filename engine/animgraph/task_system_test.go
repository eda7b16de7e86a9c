package animgraph

import "testing"

func TestInMemoryTaskSystemAllocatesIncreasingTaskIndices(t *testing.T) {
	ts := NewInMemoryTaskSystem()

	a := ts.RegisterSampleTask(nil, 0.0)
	b := ts.RegisterSampleTask(nil, 0.5)

	if b <= a {
		t.Errorf("expected increasing task indices, got a=%d b=%d", a, b)
	}
	if len(ts.Log) != 2 {
		t.Errorf("len(Log) = %d, want 2", len(ts.Log))
	}
}

func TestInMemoryTaskSystemReleaseOfUnknownBufferPanics(t *testing.T) {
	ts := NewInMemoryTaskSystem()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic releasing a buffer never requested")
		}
	}()
	ts.ReleaseCachedPoseBuffer(99)
}

func TestInMemoryTaskSystemDoubleReleasePanics(t *testing.T) {
	ts := NewInMemoryTaskSystem()
	id := ts.RequestCachedPoseBuffer()
	ts.ReleaseCachedPoseBuffer(id)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on double-release of the same buffer")
		}
	}()
	ts.ReleaseCachedPoseBuffer(id)
}

func TestInMemoryTaskSystemReadAfterReleasePanics(t *testing.T) {
	ts := NewInMemoryTaskSystem()
	id := ts.RequestCachedPoseBuffer()
	ts.ReleaseCachedPoseBuffer(id)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic reading a released buffer")
		}
	}()
	ts.RegisterCachedPoseTask(id)
}
