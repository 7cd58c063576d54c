package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrPoolNotRunning is returned when rendering or stopping a pool that
	// has not been started
	ErrPoolNotRunning = errors.New("worker pool is not running")
	// ErrPoolRunning is returned when starting a pool twice
	ErrPoolRunning = errors.New("worker pool is already running")
)

// WorkerState is the lifecycle state of a render worker
type WorkerState int32

const (
	WorkerIdle WorkerState = iota
	WorkerRendering
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRendering:
		return "rendering"
	case WorkerStopped:
		return "stopped"
	default:
		return fmt.Sprintf("WorkerState(%d)", int32(s))
	}
}

// StripeFunc renders rows row, row+stride, row+2*stride, ... of a frame
type StripeFunc func(row, stride int) RenderStats

// RenderJob assigns one row stripe of a frame to a worker
type RenderJob struct {
	Row    int
	Stride int
	Render StripeFunc
	result *jobResult
}

type jobResult struct {
	stats RenderStats
	err   error
}

// Worker renders the stripes handed to it until its job channel closes
type Worker struct {
	ID    int
	jobs  chan RenderJob
	gate  *CompletionGate
	state atomic.Int32
}

// State returns the worker's current lifecycle state
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.state.Store(int32(WorkerStopped))

	for job := range w.jobs {
		w.state.Store(int32(WorkerRendering))
		job.result.stats, job.result.err = w.render(job)
		w.state.Store(int32(WorkerIdle))
		w.gate.Done()
	}
}

// render runs a single job, turning a panic into an error so the frame
// barrier is always released
func (w *Worker) render(job RenderJob) (stats RenderStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d panicked on row %d: %v", w.ID, job.Row, r)
		}
	}()
	return job.Render(job.Row, job.Stride), nil
}

// WorkerPool is a fixed set of render workers that live for a whole session.
// Each frame is split into interleaved row stripes, one per worker, and
// Dispatch blocks until every stripe is finished.
type WorkerPool struct {
	mu      sync.Mutex // Held for a whole frame; Stop waits for it
	workers []*Worker
	gate    *CompletionGate
	wg      sync.WaitGroup
	running bool
}

// NewWorkerPool creates a pool with no workers
func NewWorkerPool() *WorkerPool {
	return &WorkerPool{gate: NewCompletionGate()}
}

// Start launches numWorkers workers (runtime.NumCPU() if numWorkers <= 0)
func (wp *WorkerPool) Start(numWorkers int) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return ErrPoolRunning
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp.workers = make([]*Worker, numWorkers)
	for i := range wp.workers {
		worker := &Worker{
			ID:   i,
			jobs: make(chan RenderJob, 1),
			gate: wp.gate,
		}
		wp.workers[i] = worker
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
	wp.running = true
	return nil
}

// Stop closes every worker's job channel and waits for the workers to exit.
// A frame in progress is allowed to finish first.
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return ErrPoolNotRunning
	}
	for _, worker := range wp.workers {
		close(worker.jobs)
	}
	wp.wg.Wait()
	wp.running = false
	return nil
}

// NumWorkers returns the number of workers started
func (wp *WorkerPool) NumWorkers() int {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return len(wp.workers)
}

// Running reports whether the pool has been started and not stopped
func (wp *WorkerPool) Running() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.running
}

// States returns the lifecycle state of every worker
func (wp *WorkerPool) States() []WorkerState {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	states := make([]WorkerState, len(wp.workers))
	for i, worker := range wp.workers {
		states[i] = worker.State()
	}
	return states
}

// Dispatch gives worker i of N the stripe starting at row i with stride N,
// waits for all of them, and returns the merged statistics. Worker errors
// are joined; the frame is not usable if an error is returned.
func (wp *WorkerPool) Dispatch(render StripeFunc) (RenderStats, error) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return RenderStats{}, ErrPoolNotRunning
	}

	n := len(wp.workers)
	results := make([]jobResult, n)
	if err := wp.gate.Arm(n); err != nil {
		return RenderStats{}, err
	}
	for i, worker := range wp.workers {
		worker.jobs <- RenderJob{
			Row:    i,
			Stride: n,
			Render: render,
			result: &results[i],
		}
	}
	wp.gate.Wait()

	// Merge in worker order so the totals never depend on scheduling
	var stats RenderStats
	var errs []error
	for _, result := range results {
		stats.merge(result.stats)
		if result.err != nil {
			errs = append(errs, result.err)
		}
	}
	stats.finalize()
	return stats, errors.Join(errs...)
}
