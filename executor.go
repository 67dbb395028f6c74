package wheeltimer

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// executor runs expired tasks, either inline on the worker goroutine or on a
// goroutine pool.
type executor struct {
	pool         *ants.Pool
	wg           sync.WaitGroup
	logger       Logger
	panicHandler PanicHandler
}

func newExecutor(o Options) *executor {
	e := &executor{
		logger:       o.Logger,
		panicHandler: o.PanicHandler,
	}
	if o.WorkerPoolSize <= 0 {
		return e
	}

	pool, err := ants.NewPool(o.WorkerPoolSize,
		ants.WithNonblocking(true), // a full pool degrades to running on the worker
		ants.WithPanicHandler(func(v any) {
			e.logger.Printf("worker pool recovered panic: %v\n", v)
		}),
	)
	if err != nil {
		e.logger.Printf("worker pool of size %d unavailable, running tasks inline: %v\n", o.WorkerPoolSize, err)
		return e
	}
	e.pool = pool
	return e
}

func (e *executor) execute(t *Timeout) {
	if e.pool == nil {
		t.expire(e.panicHandler)
		return
	}

	e.wg.Add(1)
	err := e.pool.Submit(func() {
		defer e.wg.Done()
		t.expire(e.panicHandler)
	})
	if err != nil {
		e.wg.Done()
		e.logger.Printf("worker pool rejected %v, running inline: %v\n", t, err)
		t.expire(e.panicHandler)
	}
}

// close waits for tasks still running on the pool and releases it.
func (e *executor) close() {
	if e.pool == nil {
		return
	}
	e.wg.Wait()
	e.pool.Release()
}
