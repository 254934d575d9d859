package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one independent unit of work. A failing task never stops the others.
type Task struct {
	ID  string
	Run func(context.Context) error
}

// Result pairs a task id with its outcome.
type Result struct {
	ID       string
	Err      error
	Duration time.Duration
}

// PoolConfig configures worker pool behaviour.
type PoolConfig struct {
	Workers int
	Logger  *zap.Logger
}

// Pool fans a batch of tasks out to a fixed number of goroutines.
type Pool struct {
	name    string
	workers int
	logger  *zap.Logger
}

// NewPool builds a pool. Workers defaults to 1.
func NewPool(name string, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{name: name, workers: cfg.Workers, logger: cfg.Logger}
}

// Run executes every task and returns the results in task order. Tasks that have not
// started when ctx is cancelled report ctx.Err() without running.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = p.runOne(ctx, tasks[i])
			}
		}()
	}

	for i := range tasks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	p.logger.Sugar().Debugw("pool batch finished", "pool", p.name, "tasks", len(tasks), "workers", workers)
	return results
}

func (p *Pool) runOne(ctx context.Context, task Task) Result {
	if err := ctx.Err(); err != nil {
		return Result{ID: task.ID, Err: err}
	}
	start := time.Now()
	err := task.Run(ctx)
	if err != nil {
		p.logger.Sugar().Warnw("task failed", "pool", p.name, "task_id", task.ID, "error", err)
	}
	return Result{ID: task.ID, Err: err, Duration: time.Since(start)}
}
