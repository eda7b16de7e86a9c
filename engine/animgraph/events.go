package animgraph

// SampledEvent is one timeline marker sampled during a node's update, tagged
// with the branch weight (for inactive-branch fade-out) it was sampled
// under.
type SampledEvent struct {
	TrackID StringID
	EventID StringID
	Weight  float32

	// IgnoredForStateTransition marks an event sampled from a branch that is
	// not allowed to drive StateNode transition conditions (see I6).
	IgnoredForStateTransition bool
}

// SampledEventRange is a [StartIdx, EndIdx) slice of a SampledEventsBuffer.
// An empty range has StartIdx == EndIdx.
type SampledEventRange struct {
	StartIdx int32
	EndIdx   int32
}

// Len reports the number of events covered by r.
func (r SampledEventRange) Len() int32 {
	return r.EndIdx - r.StartIdx
}

// IsEmpty reports whether r covers no events.
func (r SampledEventRange) IsEmpty() bool {
	return r.EndIdx <= r.StartIdx
}

// SampledEventsBuffer is the single, frame-scoped, append-only buffer every
// pose node writes sampled events into during an update pass. Ranges
// returned by earlier nodes stay valid for the remainder of the frame
// because they are index pairs and the buffer only ever appends, even when
// the backing array grows — callers must call Reset between frames, not
// mid-update.
type SampledEventsBuffer struct {
	events []SampledEvent
}

// NewSampledEventsBuffer returns an empty buffer pre-sized for capacity
// events, avoiding reallocation for typical graph sizes.
func NewSampledEventsBuffer(capacity int) *SampledEventsBuffer {
	return &SampledEventsBuffer{events: make([]SampledEvent, 0, capacity)}
}

// Reset clears the buffer for reuse at the start of a new frame. It keeps
// the underlying array, so capacity built up across frames is retained.
func (b *SampledEventsBuffer) Reset() {
	b.events = b.events[:0]
}

// Append records a single sampled event and returns its range (a
// single-element range covering just this event).
func (b *SampledEventsBuffer) Append(ev SampledEvent) SampledEventRange {
	start := int32(len(b.events))
	b.events = append(b.events, ev)
	return SampledEventRange{StartIdx: start, EndIdx: start + 1}
}

// AppendRange appends a whole slice of events in one shot (a clip node
// dumping its sampled events in for a single update), returning the combined
// range.
func (b *SampledEventsBuffer) AppendRange(evs []SampledEvent) SampledEventRange {
	start := int32(len(b.events))
	b.events = append(b.events, evs...)
	return SampledEventRange{StartIdx: start, EndIdx: int32(len(b.events))}
}

// Get returns the events covered by r. The returned slice aliases the
// buffer's backing array and is only valid until the next Reset.
func (b *SampledEventsBuffer) Get(r SampledEventRange) []SampledEvent {
	if r.IsEmpty() {
		return nil
	}
	return b.events[r.StartIdx:r.EndIdx]
}

// ScaleWeights multiplies the Weight of every event in r by factor, used
// when a branch's contribution is being faded by a transition's blend
// weight.
func (b *SampledEventsBuffer) ScaleWeights(r SampledEventRange, factor float32) {
	for i := r.StartIdx; i < r.EndIdx; i++ {
		b.events[i].Weight *= factor
	}
}

// MarkIgnoredForStateTransition flags every event in r as not eligible to
// drive StateNode transition conditions, used for events sampled from a
// branch that's about to be discarded by a forced transition.
func (b *SampledEventsBuffer) MarkIgnoredForStateTransition(r SampledEventRange) {
	for i := r.StartIdx; i < r.EndIdx; i++ {
		b.events[i].IgnoredForStateTransition = true
	}
}

// BlendEventRanges merges two adjacent or disjoint event ranges produced by
// a source and target branch of a blend into the single contiguous range a
// parent pose node should report upward. Since the buffer is append-only,
// the two input ranges are not necessarily contiguous (other nodes may have
// appended events between them); BlendEventRanges appends copies spanning
// both so the parent can hand back one simple range.
func (b *SampledEventsBuffer) BlendEventRanges(source, target SampledEventRange) SampledEventRange {
	if source.IsEmpty() {
		return target
	}
	if target.IsEmpty() {
		return source
	}
	if source.EndIdx == target.StartIdx {
		return SampledEventRange{StartIdx: source.StartIdx, EndIdx: target.EndIdx}
	}
	if target.EndIdx == source.StartIdx {
		return SampledEventRange{StartIdx: target.StartIdx, EndIdx: source.EndIdx}
	}

	merged := make([]SampledEvent, 0, source.Len()+target.Len())
	merged = append(merged, b.events[source.StartIdx:source.EndIdx]...)
	merged = append(merged, b.events[target.StartIdx:target.EndIdx]...)
	return b.AppendRange(merged)
}
