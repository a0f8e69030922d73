// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package schedule batches tasks into ordered steps and submits them to a backend.
//
// A Schedule is built by appending steps, each one a set of independent tasks, and then submitted once:
// the tasks of a step run concurrently, and a step starts only after every task of the previous step
// completed. Kernels are taken from the process-wide cache of the backend (see kernels.CacheFor), so tasks
// with the same specialization key share one compilation, across schedules.
//
// Example:
//
//	s := schedule.New(backend)
//	_ = s.StepTask(schedule.MxMTMasked(r, mask, a, b, c.MultInt, c.PlusInt, c.AlwaysInt, 0, nil))
//	_ = s.StepTask(schedule.VMap(out, in, c.AInvInt, nil))
//	err := s.Submit()
package schedule

import (
	"slices"
	"time"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/kernels"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/Parzival-05/spla/pkg/support/sets"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// State of a Schedule.
type State int

//go:generate go tool enumer -type=State -trimprefix=State -output=gen_state_enumer.go schedule.go

const (
	// StateBuilding accepts new steps.
	StateBuilding State = iota

	// StateSubmitted is terminal: the schedule was submitted, successfully or not.
	StateSubmitted
)

// Schedule is an ordered list of steps of tasks, executed on a backend.
//
// Building a schedule is not safe for concurrent use. Different schedules can be submitted concurrently.
type Schedule struct {
	backend backends.Backend
	cache   *kernels.Cache
	steps   [][]*Task
	state   State
}

// New returns an empty schedule running on backend.
func New(backend backends.Backend) *Schedule {
	return &Schedule{backend: backend, cache: kernels.CacheFor(backend)}
}

// NewDefault returns an empty schedule running on the default backend, see backends.New.
func NewDefault() (*Schedule, error) {
	backend, err := backends.New()
	if err != nil {
		return nil, err
	}
	return New(backend), nil
}

// Backend the schedule runs on.
func (s *Schedule) Backend() backends.Backend { return s.backend }

// State of the schedule.
func (s *Schedule) State() State { return s.state }

// NumSteps returns the number of steps.
func (s *Schedule) NumSteps() int { return len(s.steps) }

// Steps returns the tasks of each step.
func (s *Schedule) Steps() [][]*Task {
	steps := make([][]*Task, len(s.steps))
	for ii, step := range s.steps {
		steps[ii] = slices.Clone(step)
	}
	return steps
}

// StepTask appends a step with a single task.
func (s *Schedule) StepTask(task *Task) error {
	return s.StepTasks(task)
}

// StepTasks appends a step with the given tasks, which will run concurrently.
//
// Tasks with the same KeyFull are the same computation: only the first one is kept. The other tasks must be
// independent: a task can't write an object accessed by another task of the step (InvalidArgument).
// Appending to a submitted schedule returns an InvalidState error.
func (s *Schedule) StepTasks(tasks ...*Task) error {
	if s.state != StateBuilding {
		return status.Errorf(status.InvalidState, "can't add steps to a schedule in state %s", s.state)
	}
	if len(tasks) == 0 {
		return status.Errorf(status.InvalidArgument, "a step requires at least one task")
	}
	step := make([]*Task, 0, len(tasks))
	seen := sets.Make[string](len(tasks))
	for ii, task := range tasks {
		if task == nil {
			return status.Errorf(status.InvalidArgument, "task #%d of the step is nil", ii)
		}
		key := task.KeyFull()
		if seen.Has(key) {
			klog.V(2).Infof("step #%d: dropping duplicate task %s", len(s.steps), task)
			continue
		}
		seen.Insert(key)
		step = append(step, task)
	}
	if err := checkConflicts(step); err != nil {
		return err
	}
	s.steps = append(s.steps, step)
	return nil
}

// checkConflicts returns an InvalidArgument error if a task writes an object accessed by another task.
func checkConflicts(step []*Task) error {
	for ii, task := range step {
		written := sets.Make[uuid.UUID]()
		for _, obj := range task.outputs() {
			if !isNil(obj) {
				written.Insert(obj.ID())
			}
		}
		for jj, other := range step {
			if ii == jj {
				continue
			}
			for _, obj := range other.Args() {
				if !isNil(obj) && written.Has(obj.ID()) {
					return status.Errorf(status.InvalidArgument, "tasks %s and %s of the same step both access %s, written by the first",
						task, other, obj)
				}
			}
		}
	}
	return nil
}

// Submit executes the steps in order, blocking until they complete.
//
// The schedule is marked as submitted first: it can't be submitted again, even if it fails. The first
// failure stops the execution and is returned; steps already executed are not rolled back.
func (s *Schedule) Submit() error {
	if s.state != StateBuilding {
		return status.Errorf(status.InvalidState, "schedule already submitted")
	}
	s.state = StateSubmitted
	start := time.Now()
	var numTasks int
	for ii, step := range s.steps {
		if err := s.runStep(ii, step); err != nil {
			klog.V(1).Infof("schedule failed at step #%d of %d: %v", ii, len(s.steps), err)
			return errors.WithMessagef(err, "step #%d of %d", ii, len(s.steps))
		}
		numTasks += len(step)
	}
	klog.V(1).Infof("submitted schedule: %d steps, %d tasks on %s in %s (kernel cache: %d compiled, %d hits)",
		len(s.steps), numTasks, s.backend.Name(), time.Since(start), s.cache.Compilations(), s.cache.Hits())
	return nil
}

// stepBytes returns the memory used by the arguments of the step.
func stepBytes(step []*Task) uint64 {
	var total int
	for _, task := range step {
		total += task.bytes()
	}
	return uint64(total)
}

// runStep validates every task and resolves its kernel, then launches all of them and waits for their completion.
func (s *Schedule) runStep(idx int, step []*Task) error {
	start := time.Now()
	kernelsOf, err := s.resolve(step)
	if err != nil {
		return err
	}
	if err := s.dispatch(step, kernelsOf); err != nil {
		return err
	}
	if klog.V(2).Enabled() {
		klog.Infof("step #%d: %d tasks over %s of arguments in %s", idx, len(step), humanize.IBytes(stepBytes(step)),
			time.Since(start))
	}
	return nil
}
