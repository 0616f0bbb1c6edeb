//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Package tasklane runs background tasks serialized on a single goroutine.
// A table-write session hands one lane to every writer it creates, which
// bounds compaction concurrency to one task at a time per session no matter
// how many bucket writers exist.
package tasklane

import (
	"context"
	"errors"
	"sync"
)

var ErrStopped = errors.New("task lane stopped")

type Task func()

type Lane struct {
	tasks chan Task
	quit  chan struct{}
	drain chan struct{}
	done  chan struct{}

	quitOnce  sync.Once
	drainOnce sync.Once
}

// New starts a lane whose queue holds up to queueLen pending tasks. Submit
// blocks once the queue is full.
func New(queueLen int) *Lane {
	l := &Lane{
		tasks: make(chan Task, queueLen),
		quit:  make(chan struct{}),
		drain: make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Lane) run() {
	defer close(l.done)

	for {
		select {
		case <-l.quit:
			return
		case task := <-l.tasks:
			// termination wins if both were ready
			select {
			case <-l.quit:
				return
			default:
			}
			task()
		case <-l.drain:
			for {
				select {
				case <-l.quit:
					return
				case task := <-l.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// Submit queues a task for background execution. It returns ErrStopped once
// the lane is terminated or draining.
func (l *Lane) Submit(task Task) error {
	select {
	case <-l.quit:
		return ErrStopped
	case <-l.drain:
		return ErrStopped
	default:
	}

	select {
	case l.tasks <- task:
		return nil
	case <-l.quit:
		return ErrStopped
	case <-l.drain:
		return ErrStopped
	}
}

// Terminate stops the lane immediately. Queued tasks are abandoned, a task
// already running is left to finish on its own. Terminate does not wait and
// is safe to call more than once.
func (l *Lane) Terminate() {
	l.quitOnce.Do(func() {
		close(l.quit)
	})
}

// Drain stops accepting new tasks, runs everything still queued and waits
// for the lane to go idle, or for ctx to expire, whichever comes first.
func (l *Lane) Drain(ctx context.Context) error {
	l.drainOnce.Do(func() {
		close(l.drain)
	})

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
