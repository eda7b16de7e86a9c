package animgraph

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// GraphInstanceManager fans a batch of independent GraphInstance
// evaluations out across a bounded worker pool. Instances never share arena
// state, so each frame's batch is embarrassingly parallel.
type GraphInstanceManager struct {
	pool      worker.DynamicWorkerPool
	instances []*GraphInstance
}

// NewGraphInstanceManager returns a manager backed by a pool of workers
// goroutines, reused across frames rather than spawned per evaluation.
// pool.Wait() blocks until workers idle-exit, which is unsuitable for a
// per-frame barrier, so a sync.WaitGroup is used instead.
func NewGraphInstanceManager(workers int) *GraphInstanceManager {
	return &GraphInstanceManager{
		pool: worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
	}
}

// Track registers inst so it's included in every subsequent EvaluateAll call.
func (m *GraphInstanceManager) Track(inst *GraphInstance) {
	m.instances = append(m.instances, inst)
}

// Untrack removes inst from the managed set, a no-op if it wasn't tracked.
func (m *GraphInstanceManager) Untrack(inst *GraphInstance) {
	for i, tracked := range m.instances {
		if tracked == inst {
			m.instances = append(m.instances[:i], m.instances[i+1:]...)
			return
		}
	}
}

// EvaluateAll advances every tracked instance by deltaTime, in parallel
// across the manager's worker pool, and returns once all have completed.
func (m *GraphInstanceManager) EvaluateAll(deltaTime float64) {
	var wg sync.WaitGroup
	for i, inst := range m.instances {
		wg.Add(1)
		taskID := i
		instCap := inst
		m.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				instCap.EvaluateGraph(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()
}
