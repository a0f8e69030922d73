// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import "github.com/Parzival-05/spla/pkg/support/xsync"

// Future reports the outcome of a kernel launch.
type Future interface {
	// Wait blocks until the launch is completed and returns its error, if any.
	Wait() error

	// Done returns a channel closed when the launch is completed.
	Done() <-chan struct{}
}

// Promise is a Future completed by the backend with Resolve.
type Promise struct {
	latch *xsync.LatchWithValue[error]
}

var _ Future = (*Promise)(nil)

// NewPromise returns a pending Promise.
func NewPromise() *Promise {
	return &Promise{latch: xsync.NewLatchWithValue[error]()}
}

// Resolve completes the promise with err (nil for success). Only the first call has an effect.
func (p *Promise) Resolve(err error) {
	p.latch.Trigger(err)
}

// Wait implements Future.
func (p *Promise) Wait() error { return p.latch.Wait() }

// Done implements Future.
func (p *Promise) Done() <-chan struct{} { return p.latch.WaitChan() }

// Resolved returns a completed Future with the given error.
func Resolved(err error) Future {
	p := NewPromise()
	p.Resolve(err)
	return p
}
