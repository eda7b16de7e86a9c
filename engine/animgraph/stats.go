package animgraph

import (
	"log"

	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/profiler"
)

// EvaluationStats wraps a profiler.Profiler to report batch-evaluation
// throughput (instances/sec, tasks registered) instead of render FPS,
// logged on the same periodic cadence the profiler already implements.
type EvaluationStats struct {
	prof              *profiler.Profiler
	instancesThisTick int
	tasksThisTick     int
}

// NewEvaluationStats returns stats ready to accumulate ticks.
func NewEvaluationStats() *EvaluationStats {
	return &EvaluationStats{prof: profiler.NewProfiler()}
}

// RecordEvaluation should be called once per GraphInstanceManager.EvaluateAll
// call, with the number of instances evaluated and the total pose tasks
// registered across them this batch.
func (s *EvaluationStats) RecordEvaluation(instanceCount, taskCount int) {
	s.instancesThisTick += instanceCount
	s.tasksThisTick += taskCount

	if s.prof.Tick() {
		log.Printf("[animgraph] instances evaluated this interval: %d, pose tasks registered: %d", s.instancesThisTick, s.tasksThisTick)
		s.instancesThisTick = 0
		s.tasksThisTick = 0
	}
}
