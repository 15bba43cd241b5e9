package cartoons

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"HappyDog/internal/metrics"
)

// Pool is a fixed-size worker pool with a bounded FIFO submission queue.
// Submissions past capacity block up to submitTimeout, then fail with
// ErrOverloaded. Workers run on the pool's lifecycle context so request
// teardown never cancels a running job.
type Pool struct {
	pipeline      *Pipeline
	jobs          chan *Job
	workers       int
	submitTimeout time.Duration
	logger        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu coordinates submitters with Stop: senders hold the read side
	// across the channel send so Stop cannot close the channel under a
	// send in flight.
	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewPool creates a pool with the given worker count and queue size.
func NewPool(pipeline *Pipeline, workers, queueSize int, submitTimeout time.Duration, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		pipeline:      pipeline,
		jobs:          make(chan *Job, queueSize),
		workers:       workers,
		submitTimeout: submitTimeout,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("cartoon worker pool started", "workers", p.workers, "queue", cap(p.jobs))
}

// Stop drains the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	p.logger.Info("cartoon worker pool stopped")
}

// Submit enqueues a job. It blocks while the queue is full, up to the
// configured timeout.
func (p *Pool) Submit(job *Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrOverloaded
	}

	timer := time.NewTimer(p.submitTimeout)
	defer timer.Stop()

	select {
	case p.jobs <- job:
		metrics.CartoonQueueDepth.Inc()
		return nil
	case <-timer.C:
		return ErrOverloaded
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		metrics.CartoonQueueDepth.Dec()
		p.logger.Debug("worker picked job", "worker", id, "job_id", job.JobID)
		p.pipeline.Run(p.ctx, job)
	}
}
