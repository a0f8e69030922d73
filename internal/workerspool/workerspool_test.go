// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package workerspool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Parzival-05/spla/pkg/support/xsync"
	"github.com/stretchr/testify/assert"
)

func TestPool_Saturate(t *testing.T) {
	pool := New()
	wantTasks := 5
	pool.SetMaxParallelism(wantTasks)

	var count atomic.Int32
	allStarted := xsync.NewLatch()
	doneTest := xsync.NewLatch()
	go func() {
		pool.Saturate(func() {
			got := count.Add(1)
			runtime.Gosched()
			if int(got) == wantTasks {
				allStarted.Trigger()
				return
			}
			allStarted.Wait()
		})
		doneTest.Trigger()
	}()
	select {
	case <-doneTest.WaitChan():
	case <-time.After(time.Second):
		t.Fatal("timeout before all tasks were executed")
	}
	assert.Equal(t, int32(wantTasks), count.Load())

	// No parallelism: a single inline copy.
	pool.SetMaxParallelism(0)
	count.Store(0)
	pool.Saturate(func() { count.Add(1) })
	assert.Equal(t, int32(1), count.Load())

	// Unlimited.
	pool.SetMaxParallelism(-1)
	count.Store(0)
	pool.Saturate(func() { count.Add(1) })
	assert.Equal(t, int32(runtime.NumCPU()), count.Load())
}

func TestPool_SharedLimit(t *testing.T) {
	pool := New()
	pool.SetMaxParallelism(3)

	// Two long running tasks take two of the three workers.
	release := xsync.NewLatch()
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		assert.True(t, pool.StartIfAvailable(func() {
			defer wg.Done()
			release.Wait()
		}))
	}

	// Saturate gets the remaining worker, plus its inline copy.
	var count atomic.Int32
	pool.Saturate(func() { count.Add(1) })
	assert.Equal(t, int32(2), count.Load())

	// Once the workers are released, Saturate runs a copy per worker.
	release.Trigger()
	wg.Wait()
	assert.Eventually(t, func() bool {
		count.Store(0)
		pool.Saturate(func() { count.Add(1) })
		return count.Load() == 3
	}, time.Second, time.Millisecond)

	// Disabled: no worker is ever available.
	pool.SetMaxParallelism(0)
	assert.False(t, pool.StartIfAvailable(func() {}))
}
