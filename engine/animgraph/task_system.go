package animgraph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/model"
)

// TaskSystem is the external collaborator pose nodes register per-frame
// pose-producing work with. The evaluator never touches bone data directly;
// it only builds a dependency chain of tasks for an outside system to
// execute.
type TaskSystem interface {
	// RegisterSampleTask registers a leaf task that samples clip at
	// normalizedTime into a fresh pose buffer and returns its index.
	RegisterSampleTask(clip *model.AnimationClip, normalizedTime float32) TaskIndex

	// RegisterBlendTask registers a task that blends the poses produced by
	// source and target at weight, optionally restricted to mask.
	RegisterBlendTask(source, target TaskIndex, weight float32, mask BoneMask) TaskIndex

	// RequestCachedPoseBuffer reserves a buffer a transition can snapshot a
	// source pose into for as long as a forced interrupt needs it alive
	// past its producing node's own lifetime.
	RequestCachedPoseBuffer() BufferID

	// ReleaseCachedPoseBuffer returns a buffer requested via
	// RequestCachedPoseBuffer. Must be called exactly once per successful
	// RequestCachedPoseBuffer call.
	ReleaseCachedPoseBuffer(id BufferID)

	// RegisterCachedPoseTask registers a task that reads back a previously
	// cached pose buffer as this frame's pose contribution.
	RegisterCachedPoseTask(id BufferID) TaskIndex

	// RegisterCopyToCachedPoseTask registers a task that copies the pose
	// produced by source into the cached buffer id, for later replay via
	// RegisterCachedPoseTask.
	RegisterCopyToCachedPoseTask(source TaskIndex, id BufferID) TaskIndex
}

// InMemoryTaskSystem is a minimal reference TaskSystem sufficient for
// tests: it records the dependency graph it was handed
// without doing any real skinning, so unit tests can assert on *which*
// tasks were registered and in what order.
type InMemoryTaskSystem struct {
	nextTask   TaskIndex
	nextBuffer BufferID
	live       map[BufferID]bool

	// Log records every registration call in order, for test assertions.
	Log []string
}

// NewInMemoryTaskSystem returns an empty InMemoryTaskSystem.
func NewInMemoryTaskSystem() *InMemoryTaskSystem {
	return &InMemoryTaskSystem{live: make(map[BufferID]bool)}
}

func (s *InMemoryTaskSystem) allocTask() TaskIndex {
	idx := s.nextTask
	s.nextTask++
	return idx
}

func (s *InMemoryTaskSystem) RegisterSampleTask(clip *model.AnimationClip, normalizedTime float32) TaskIndex {
	idx := s.allocTask()
	name := "<nil>"
	if clip != nil {
		name = clip.Name
	}
	s.Log = append(s.Log, fmt.Sprintf("sample(%s@%.3f)=>t%d", name, normalizedTime, idx))
	return idx
}

func (s *InMemoryTaskSystem) RegisterBlendTask(source, target TaskIndex, weight float32, mask BoneMask) TaskIndex {
	idx := s.allocTask()
	s.Log = append(s.Log, fmt.Sprintf("blend(t%d,t%d,w=%.3f)=>t%d", source, target, weight, idx))
	return idx
}

func (s *InMemoryTaskSystem) RequestCachedPoseBuffer() BufferID {
	id := s.nextBuffer
	s.nextBuffer++
	s.live[id] = true
	s.Log = append(s.Log, fmt.Sprintf("requestBuffer=>b%d", id))
	return id
}

func (s *InMemoryTaskSystem) ReleaseCachedPoseBuffer(id BufferID) {
	if !s.live[id] {
		panic("animgraph: release of unknown or already-released cached pose buffer")
	}
	delete(s.live, id)
	s.Log = append(s.Log, fmt.Sprintf("releaseBuffer(b%d)", id))
}

func (s *InMemoryTaskSystem) RegisterCachedPoseTask(id BufferID) TaskIndex {
	if !s.live[id] {
		panic("animgraph: read of unknown or already-released cached pose buffer")
	}
	idx := s.allocTask()
	s.Log = append(s.Log, fmt.Sprintf("readBuffer(b%d)=>t%d", id, idx))
	return idx
}

func (s *InMemoryTaskSystem) RegisterCopyToCachedPoseTask(source TaskIndex, id BufferID) TaskIndex {
	if !s.live[id] {
		panic("animgraph: copy into unknown or already-released cached pose buffer")
	}
	idx := s.allocTask()
	s.Log = append(s.Log, fmt.Sprintf("copyToBuffer(t%d,b%d)=>t%d", source, id, idx))
	return idx
}
