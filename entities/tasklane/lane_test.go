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

package tasklane

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasksRunSerialized(t *testing.T) {
	lane := New(32)
	defer lane.Terminate()

	var mu sync.Mutex
	var running, maxRunning int
	var order []int

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		require.Nil(t, lane.Submit(func() {
			defer wg.Done()

			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			order = append(order, i)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}))
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxRunning)

	// a single consumer preserves submission order
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestTerminateAbandonsQueuedTasks(t *testing.T) {
	lane := New(32)

	block := make(chan struct{})
	started := make(chan struct{})
	require.Nil(t, lane.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	var ran bool
	require.Nil(t, lane.Submit(func() { ran = true }))

	lane.Terminate()
	close(block)

	<-lane.done
	assert.False(t, ran)
}

func TestSubmitAfterTerminate(t *testing.T) {
	lane := New(32)
	lane.Terminate()

	err := lane.Submit(func() {})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDrainRunsQueuedTasks(t *testing.T) {
	lane := New(32)

	var mu sync.Mutex
	var ran int

	block := make(chan struct{})
	started := make(chan struct{})
	require.Nil(t, lane.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	for i := 0; i < 8; i++ {
		require.Nil(t, lane.Submit(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		}))
	}
	close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Nil(t, lane.Drain(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 8, ran)

	assert.ErrorIs(t, lane.Submit(func() {}), ErrStopped)
}

func TestDrainHonorsContext(t *testing.T) {
	lane := New(32)
	defer lane.Terminate()

	block := make(chan struct{})
	defer close(block)
	started := make(chan struct{})
	require.Nil(t, lane.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, lane.Drain(ctx), context.DeadlineExceeded)
}

func TestTerminateIsIdempotent(t *testing.T) {
	lane := New(32)
	lane.Terminate()
	lane.Terminate()

	<-lane.done
}
