// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool limits the number of goroutines the host backend uses to run the rows of its kernels.
//
// The limit is shared by all concurrent launches of a backend. It is a soft target: the goroutine calling
// Saturate always runs one copy of the task itself, without counting against the limit.
package workerspool

import (
	"runtime"
	"sync"
)

// Pool of workers. Create it with New.
type Pool struct {
	// maxParallelism: 0 disables parallelism, < 0 means unlimited.
	maxParallelism int

	mu         sync.Mutex
	numRunning int
}

// New returns a Pool with the default parallelism, runtime.NumCPU().
func New() *Pool {
	return &Pool{maxParallelism: runtime.NumCPU()}
}

// IsEnabled returns whether parallelism is enabled.
func (w *Pool) IsEnabled() bool { return w.maxParallelism != 0 }

// IsUnlimited returns whether parallelism is unlimited.
func (w *Pool) IsUnlimited() bool { return w.maxParallelism < 0 }

// MaxParallelism returns the parallelism target: 0 if disabled, -1 if unlimited.
func (w *Pool) MaxParallelism() int { return w.maxParallelism }

// SetMaxParallelism sets the parallelism target. It must be called before any task is started.
func (w *Pool) SetMaxParallelism(maxParallelism int) {
	if maxParallelism < 0 {
		maxParallelism = -1
	}
	w.maxParallelism = maxParallelism
}

// lockedIsFull returns whether all workers are in use. It must be called with w.mu held.
func (w *Pool) lockedIsFull() bool {
	if w.maxParallelism == 0 {
		return true
	} else if w.maxParallelism < 0 {
		return false
	}
	return w.numRunning >= w.maxParallelism
}

// StartIfAvailable runs task on a free worker, if there is one, and returns whether it did.
// The caller is responsible for waiting for the task to finish.
func (w *Pool) StartIfAvailable(task func()) bool {
	if w.IsUnlimited() {
		go task()
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lockedIsFull() {
		return false
	}
	w.numRunning++
	go func() {
		defer func() {
			w.mu.Lock()
			w.numRunning--
			w.mu.Unlock()
		}()
		task()
	}()
	return true
}

// Saturate runs copies of task on the free workers of the pool, up to its parallelism (runtime.NumCPU()
// if unlimited), plus one copy on the calling goroutine, and waits for all of them to finish. Tasks
// consume work from a shared channel, so any number of copies completes the work.
//
// If parallelism is disabled, a single copy runs inline.
func (w *Pool) Saturate(task func()) {
	if !w.IsEnabled() {
		task()
		return
	}
	numWorkers := w.maxParallelism
	if w.IsUnlimited() {
		numWorkers = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	for range numWorkers - 1 {
		wg.Add(1)
		if !w.StartIfAvailable(func() {
			defer wg.Done()
			task()
		}) {
			wg.Done()
			break
		}
	}
	task()
	wg.Wait()
}
