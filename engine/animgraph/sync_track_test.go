package animgraph

import "testing"

func TestSyncTrackGetTime(t *testing.T) {
	track := &SyncTrack{Events: []SyncEvent{
		{ID: "step_l", StartTime: 0.0, Duration: 0.5},
		{ID: "step_r", StartTime: 0.5, Duration: 0.5},
	}}

	tests := []struct {
		name       string
		normalized float32
		wantIdx    int32
		wantThru   float32
	}{
		{"start of first event", 0.0, 0, 0.0},
		{"mid first event", 0.25, 0, 0.5},
		{"start of second event", 0.5, 1, 0.0},
		{"mid second event", 0.75, 1, 0.5},
		{"wraps to next lap", 1.25, 2, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := track.GetTime(tt.normalized)
			if got.EventIdx != tt.wantIdx {
				t.Errorf("EventIdx = %d, want %d", got.EventIdx, tt.wantIdx)
			}
			if diff := got.PercentageThrough - tt.wantThru; diff > 0.001 || diff < -0.001 {
				t.Errorf("PercentageThrough = %f, want %f", got.PercentageThrough, tt.wantThru)
			}
		})
	}
}

func TestSyncTrackGetEventIndexForID(t *testing.T) {
	track := &SyncTrack{Events: []SyncEvent{
		{ID: "a", StartTime: 0, Duration: 0.5},
		{ID: "b", StartTime: 0.5, Duration: 0.5},
	}}

	if idx := track.GetEventIndexForID("b"); idx != 1 {
		t.Errorf("GetEventIndexForID(b) = %d, want 1", idx)
	}
	if idx := track.GetEventIndexForID("nope"); idx != 0 {
		t.Errorf("GetEventIndexForID(unknown) = %d, want 0 (mismatch falls back to event 0)", idx)
	}
}

func TestCalculatePercentageCoveredExactTieIsFullLap(t *testing.T) {
	track := &SyncTrack{Events: []SyncEvent{
		{ID: "a", StartTime: 0, Duration: 1.0},
	}}

	same := SyncTrackTime{EventIdx: 0, PercentageThrough: 0.5}
	got := track.CalculatePercentageCovered(same, same)
	if got != 1.0 {
		t.Errorf("CalculatePercentageCovered(tie) = %f, want 1.0 (full wrap on exact tie)", got)
	}
}

func TestCalculatePercentageCoveredForwardProgress(t *testing.T) {
	track := &SyncTrack{Events: []SyncEvent{
		{ID: "a", StartTime: 0, Duration: 0.5},
		{ID: "b", StartTime: 0.5, Duration: 0.5},
	}}

	start := SyncTrackTime{EventIdx: 0, PercentageThrough: 0.0}
	end := SyncTrackTime{EventIdx: 1, PercentageThrough: 0.0}
	got := track.CalculatePercentageCovered(start, end)
	want := float32(0.5)
	if diff := got - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("CalculatePercentageCovered = %f, want %f", got, want)
	}
}

func TestBlendSyncTracksClampedWeights(t *testing.T) {
	source := &SyncTrack{Events: []SyncEvent{{ID: "a", StartTime: 0, Duration: 1.0}}}
	target := &SyncTrack{Events: []SyncEvent{{ID: "b", StartTime: 0, Duration: 1.0}}}

	atSource := BlendSyncTracks(source, target, 0.0)
	if len(atSource.Events) != 1 || atSource.Events[0].ID != "a" {
		t.Errorf("weight=0 should return source track unchanged, got %+v", atSource)
	}

	atTarget := BlendSyncTracks(source, target, 1.0)
	if len(atTarget.Events) != 1 || atTarget.Events[0].ID != "b" {
		t.Errorf("weight=1 should return target track unchanged, got %+v", atTarget)
	}
}

func TestBlendSyncTracksMatchedEventsInterpolate(t *testing.T) {
	source := &SyncTrack{Events: []SyncEvent{{ID: "step", StartTime: 0.0, Duration: 0.5}}}
	target := &SyncTrack{Events: []SyncEvent{{ID: "step", StartTime: 0.2, Duration: 0.5}}}

	blended := BlendSyncTracks(source, target, 0.5)
	if len(blended.Events) != 1 {
		t.Fatalf("expected one merged event, got %d", len(blended.Events))
	}
	want := float32(0.1)
	if diff := blended.Events[0].StartTime - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("StartTime = %f, want %f", blended.Events[0].StartTime, want)
	}
}
