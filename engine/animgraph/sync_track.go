package animgraph

import "github.com/Carmen-Shannon/oxy-animgraph-go/common"

// SyncEvent is a single named, timed marker along a clip's sync track.
type SyncEvent struct {
	ID StringID

	// StartTime is the normalized [0,1] time this event begins.
	StartTime float32

	// Duration is the normalized [0,1] span this event covers before the
	// next event begins (or before the track wraps).
	Duration float32
}

// SyncTrack is a named sequence of timed events along a clip, the basis for
// synchronized blending.
type SyncTrack struct {
	Events []SyncEvent
}

// SyncTrackTime is a coordinate on a SyncTrack: an event index plus the
// fractional percentage through that event.
type SyncTrackTime struct {
	EventIdx         int32
	PercentageThrough float32
}

// SyncTrackTimeRange is a [start,end) span of SyncTrackTime, used to drive a
// synchronized update over a specific slice of event-space.
type SyncTrackTimeRange struct {
	StartTime SyncTrackTime
	EndTime   SyncTrackTime
}

// GetNumEvents returns the number of events on the track. A track with no
// events behaves as a single unnamed event spanning the full clip.
func (t *SyncTrack) GetNumEvents() int32 {
	if t == nil || len(t.Events) == 0 {
		return 1
	}
	return int32(len(t.Events))
}

func (t *SyncTrack) wrapEventIdx(idx int32) int32 {
	n := t.GetNumEvents()
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

// GetEventID returns the StringID of the event at eventIdx (wrapping), or the
// empty StringID if the track has no named events.
func (t *SyncTrack) GetEventID(eventIdx int32) StringID {
	if t == nil || len(t.Events) == 0 {
		return ""
	}
	return t.Events[t.wrapEventIdx(eventIdx)].ID
}

// GetEventIndexForID returns the index of the first event matching id, or 0
// if no event matches.
func (t *SyncTrack) GetEventIndexForID(id StringID) int32 {
	if t == nil {
		return 0
	}
	for i, e := range t.Events {
		if e.ID == id {
			return int32(i)
		}
	}
	return 0
}

// GetTime converts a normalized [0,1] time into sync-track coordinates.
func (t *SyncTrack) GetTime(normalizedTime float32) SyncTrackTime {
	if t == nil || len(t.Events) == 0 {
		return SyncTrackTime{EventIdx: 0, PercentageThrough: common.ClampF(normalizedTime, 0, 1)}
	}

	wrapped, wraps := common.WrapPercentage(normalizedTime)
	for i := len(t.Events) - 1; i >= 0; i-- {
		ev := t.Events[i]
		if wrapped >= ev.StartTime {
			through := float32(0)
			if ev.Duration > 0 {
				through = (wrapped - ev.StartTime) / ev.Duration
			}
			return SyncTrackTime{EventIdx: int32(i) + wraps*int32(len(t.Events)), PercentageThrough: common.ClampF(through, 0, 1)}
		}
	}
	return SyncTrackTime{EventIdx: wraps * int32(len(t.Events)), PercentageThrough: 0}
}

// GetPercentageThrough converts a sync-track coordinate back to a normalized
// time across the whole track: [0,1] within the first lap, plus one for
// every whole lap an EventIdx beyond the track's event count encodes
// (negative for indices before the first event).
func (t *SyncTrack) GetPercentageThrough(time SyncTrackTime) float32 {
	if t == nil || len(t.Events) == 0 {
		return common.ClampF(time.PercentageThrough, 0, 1)
	}

	n := int32(len(t.Events))
	wraps := time.EventIdx / n
	idx := time.EventIdx % n
	if idx < 0 {
		idx += n
		wraps--
	}

	ev := t.Events[idx]
	normalized := ev.StartTime + ev.Duration*common.ClampF(time.PercentageThrough, 0, 1)
	return normalized + float32(wraps)
}

// GetEndTime returns the sync-track coordinate for the very end of the track
// (the end of its last event).
func (t *SyncTrack) GetEndTime() SyncTrackTime {
	n := t.GetNumEvents()
	return SyncTrackTime{EventIdx: n - 1, PercentageThrough: 1.0}
}

// CalculatePercentageCovered measures the distance between start and end in
// event-space as a fraction of one full lap of the track. On an exact tie
// (end == start) this returns 1.0 — a full lap — matching the original
// engine's fallthrough behavior rather than 0 (documented open question,
// see DESIGN.md).
func (t *SyncTrack) CalculatePercentageCovered(start, end SyncTrackTime) float32 {
	n := t.GetNumEvents()
	startEvents := float32(start.EventIdx) + start.PercentageThrough
	endEvents := float32(end.EventIdx) + end.PercentageThrough
	delta := endEvents - startEvents
	if delta <= 0 {
		delta += float32(n)
	}
	return delta / float32(n)
}

// BlendSyncTracks merges two sync tracks by matched event IDs, weighted
// toward target by weight. Each source event whose ID matches a not yet
// matched target event has its StartTime and Duration lerped toward that
// target event; the other source events are copied unchanged, in source
// order. Target events with no match are appended unchanged after all
// source events; the result is not re-sorted by StartTime.
func BlendSyncTracks(source, target *SyncTrack, weight float32) SyncTrack {
	if weight <= 0 {
		return cloneSyncTrack(source)
	}
	if weight >= 1 {
		return cloneSyncTrack(target)
	}

	srcEvents := trackEvents(source)
	tgtEvents := trackEvents(target)

	matched := make(map[int]bool, len(tgtEvents))
	out := make([]SyncEvent, 0, len(srcEvents)+len(tgtEvents))

	for _, se := range srcEvents {
		blended := se
		for j, te := range tgtEvents {
			if matched[j] || te.ID != se.ID {
				continue
			}
			blended.StartTime = common.LerpF(se.StartTime, te.StartTime, weight)
			blended.Duration = common.LerpF(se.Duration, te.Duration, weight)
			matched[j] = true
			break
		}
		out = append(out, blended)
	}
	for j, te := range tgtEvents {
		if !matched[j] {
			out = append(out, te)
		}
	}

	return SyncTrack{Events: out}
}

func trackEvents(t *SyncTrack) []SyncEvent {
	if t == nil || len(t.Events) == 0 {
		return []SyncEvent{{StartTime: 0, Duration: 1}}
	}
	return t.Events
}

func cloneSyncTrack(t *SyncTrack) SyncTrack {
	events := trackEvents(t)
	out := make([]SyncEvent, len(events))
	copy(out, events)
	return SyncTrack{Events: out}
}

// CalculateDurationSynchronized blends two durations weighted by their
// relative event density so the resulting synchronized track plays back at a
// rate consistent with both inputs' event timing.
func CalculateDurationSynchronized(sourceDuration, targetDuration float32, numSourceEvents, numTargetEvents, numBlendedEvents int32, blendWeight float32) float32 {
	if numSourceEvents <= 0 {
		numSourceEvents = 1
	}
	if numTargetEvents <= 0 {
		numTargetEvents = 1
	}
	if numBlendedEvents <= 0 {
		numBlendedEvents = 1
	}

	sourceEventDuration := sourceDuration / float32(numSourceEvents)
	targetEventDuration := targetDuration / float32(numTargetEvents)
	blendedEventDuration := common.LerpF(sourceEventDuration, targetEventDuration, blendWeight)
	return blendedEventDuration * float32(numBlendedEvents)
}
