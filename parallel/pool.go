// Package parallel runs per file jobs on a bounded set of workers.
package parallel

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// Job processes one item. A returned error is logged and counted.
type Job func() error

type Stats struct {
	Processed uint64
	Failed    uint64
}

func (s Stats) Total() uint64 {
	return s.Processed + s.Failed
}

// Err reports failed jobs, nil if there were none.
func (s Stats) Err() error {
	if s.Failed > 0 {
		return fmt.Errorf("error processing %d files", s.Failed)
	}
	return nil
}

type Pool struct {
	workers int
	wg      sync.WaitGroup
	jobs    chan func()
	closed  func()

	processed atomic.Uint64
	failed    atomic.Uint64
}

// Start launches numWorkers workers, GOMAXPROCS if numWorkers < 1. With a
// single worker jobs run inline in Do.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		closed:  func() {},
	}

	if numWorkers > 1 {
		pool.jobs = make(chan func(), numWorkers)
		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.jobs {
					f()
				}
			})
		}
		pool.closed = sync.OnceFunc(func() { close(pool.jobs) })
	}

	return pool
}

func (p *Pool) Workers() int {
	return p.workers
}

// Do schedules job. name identifies the job in the error log.
func (p *Pool) Do(name string, job Job) {
	run := func() {
		if err := job(); err != nil {
			p.failed.Add(1)
			slog.Error("job failed", "job", name, "error", err)
			return
		}
		p.processed.Add(1)
	}

	if p.jobs == nil {
		run()
		return
	}
	p.jobs <- run
}

// Wait stops accepting jobs, waits for the scheduled ones and returns the
// counters. The pool can not be reused afterwards.
func (p *Pool) Wait() Stats {
	p.closed()
	p.wg.Wait()
	return Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}
