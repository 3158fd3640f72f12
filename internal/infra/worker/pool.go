// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

type Task func(ctx context.Context)

// KeyedPool runs tasks on a fixed set of worker goroutines, routing every task
// by key so that tasks sharing a key always land on the same worker. That
// gives strict per-key ordering: two events from the same user can never race
// each other's read-modify-write of the session.
type KeyedPool struct {
	wg    sync.WaitGroup
	lanes []chan Task
	quit  chan struct{}
	log   *zerolog.Logger
}

func NewKeyedPool(workers int, logger *zerolog.Logger) *KeyedPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	lanes := make([]chan Task, workers)
	for i := range lanes {
		lanes[i] = make(chan Task, 64)
	}
	return &KeyedPool{lanes: lanes, quit: make(chan struct{}), log: logger}
}

func (p *KeyedPool) Start(ctx context.Context) {
	for i, lane := range p.lanes {
		p.wg.Add(1)
		go func(id int, jobs <-chan Task) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-jobs:
					if task != nil {
						task(ctx)
					}
				}
			}
		}(i, lane)
	}
}

func (p *KeyedPool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// Submit enqueues task on the lane owned by key. A saturated lane drops the
// task rather than blocking the dispatcher.
func (p *KeyedPool) Submit(key int64, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	lane := p.lanes[uint64(key)%uint64(len(p.lanes))]
	select {
	case lane <- task:
		return nil
	default:
		p.log.Warn().Int64("key", key).Msg("worker lane full, dropping task")
		return errors.New("worker lane full")
	}
}
