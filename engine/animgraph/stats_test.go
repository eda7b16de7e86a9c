package animgraph

import "testing"

func TestRecordEvaluationAccumulatesUntilTick(t *testing.T) {
	s := NewEvaluationStats()

	s.RecordEvaluation(3, 10)
	s.RecordEvaluation(2, 5)

	// profiler.Profiler's Tick() is time-gated (a real wall-clock interval),
	// so within a single test run it should not yet have fired: counters
	// stay accumulated rather than being reset and logged.
	if s.instancesThisTick != 5 {
		t.Errorf("instancesThisTick = %d, want 5", s.instancesThisTick)
	}
	if s.tasksThisTick != 15 {
		t.Errorf("tasksThisTick = %d, want 15", s.tasksThisTick)
	}
}
