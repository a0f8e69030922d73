// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package xsync implements the synchronization tools used by the backends and the scheduler:
// latches (one-shot signals, optionally carrying a value), a wait group that accepts new work while
// being waited on, and a typed sync.Map.
package xsync

import "sync"

// Latch is a one-shot signal: it can be waited on until it is triggered, and once triggered it stays
// triggered forever.
type Latch struct {
	mu   sync.Mutex
	done chan struct{}
}

// NewLatch returns an un-triggered latch.
func NewLatch() *Latch {
	return &Latch{done: make(chan struct{})}
}

// Trigger the latch. Triggering an already triggered latch is a no-op.
func (l *Latch) Trigger() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lockedTrigger()
}

func (l *Latch) lockedTrigger() bool {
	if l.Test() {
		return false
	}
	close(l.done)
	return true
}

// Wait blocks until the latch is triggered.
func (l *Latch) Wait() {
	<-l.done
}

// Test returns whether the latch has been triggered, without blocking.
func (l *Latch) Test() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// WaitChan returns a channel closed when the latch is triggered, to be used in a select.
func (l *Latch) WaitChan() <-chan struct{} {
	return l.done
}

// LatchWithValue is a Latch that carries a value set when it is triggered.
//
// The backends use it to implement futures: the value is the outcome (an error) of a kernel launch.
type LatchWithValue[T any] struct {
	latch *Latch
	value T
}

// NewLatchWithValue returns an un-triggered latch.
func NewLatchWithValue[T any]() *LatchWithValue[T] {
	return &LatchWithValue[T]{latch: NewLatch()}
}

// Trigger the latch with the given value. Only the first trigger sets the value, later ones are discarded.
//
// It returns whether this call triggered the latch.
func (l *LatchWithValue[T]) Trigger(value T) bool {
	l.latch.mu.Lock()
	defer l.latch.mu.Unlock()
	if l.latch.Test() {
		return false
	}
	l.value = value
	return l.latch.lockedTrigger()
}

// Wait blocks until the latch is triggered and returns its value.
func (l *LatchWithValue[T]) Wait() T {
	l.latch.Wait()
	return l.value
}

// Test returns whether the latch has been triggered, without blocking.
func (l *LatchWithValue[T]) Test() bool {
	return l.latch.Test()
}

// WaitChan returns a channel closed when the latch is triggered.
func (l *LatchWithValue[T]) WaitChan() <-chan struct{} {
	return l.latch.WaitChan()
}
