// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"sync/atomic"
	"time"

	"github.com/Parzival-05/spla/backends"
	"github.com/Parzival-05/spla/pkg/core/status"
	"github.com/Parzival-05/spla/pkg/support/xsync"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
	"k8s.io/klog/v2"
)

// Cache of compiled kernels of one backend, keyed by specialization key.
//
// It is safe for concurrent use: racing requests for the same key trigger one compilation, whose result is
// shared. Entries are never invalidated, since operators are immutable. Failed compilations are not cached.
type Cache struct {
	backend backends.Backend

	group   singleflight.Group
	kernels xsync.SyncMap[string, backends.Kernel]

	// sources maps each operator key seen by the cache to its source fragment.
	sources xsync.SyncMap[string, string]

	compilations, hits atomic.Int64
}

// NewCache returns an empty cache for backend. Most users want the process-wide cache given by CacheFor.
func NewCache(backend backends.Backend) *Cache {
	return &Cache{backend: backend}
}

var caches xsync.SyncMap[backends.Backend, *Cache]

// CacheFor returns the process-wide kernel cache of backend, creating it on first use.
func CacheFor(backend backends.Backend) *Cache {
	return caches.LoadOrCreate(backend, func() *Cache { return NewCache(backend) })
}

// Compilations returns the number of kernels compiled by the cache.
func (c *Cache) Compilations() int { return int(c.compilations.Load()) }

// Hits returns the number of requests served without compiling.
func (c *Cache) Hits() int { return int(c.hits.Load()) }

// Len returns the number of cached kernels.
func (c *Cache) Len() int { return c.kernels.Len() }

// Lookup returns the cached kernel for key, if any.
func (c *Cache) Lookup(key string) (backends.Kernel, bool) {
	return c.kernels.Load(key)
}

// checkSources verifies that no operator of the request reuses the key of an operator with a different
// source fragment: such operators would share kernels while computing different things.
func (c *Cache) checkSources(req Request) error {
	for _, op := range req.Ops {
		if op == nil {
			continue
		}
		source, loaded := c.sources.LoadOrStore(op.Key(), op.Source())
		if loaded && source != op.Source() {
			return status.Errorf(status.CompilationError,
				"operator key %q is already bound to source %q, can't reuse it for source %q", op.Key(), source, op.Source())
		}
	}
	return nil
}

// Get returns the kernel for the request, specializing and compiling it on a miss.
func (c *Cache) Get(req Request) (backends.Kernel, error) {
	if err := c.checkSources(req); err != nil {
		return nil, err
	}
	key := req.Key()
	if kernel, found := c.kernels.Load(key); found {
		c.hits.Add(1)
		return kernel, nil
	}

	compiled := false
	kernel, err, _ := c.group.Do(key, func() (any, error) {
		if kernel, found := c.kernels.Load(key); found {
			return kernel, nil
		}
		program, err := req.Specialize()
		if err != nil {
			return nil, err
		}
		start := time.Now()
		kernel, err := c.backend.Compile(program)
		if err != nil {
			if status.Of(err) == status.Error {
				err = status.Wrapf(err, status.CompilationError, "backend %s failed to compile", c.backend.Name())
			}
			return nil, errors.WithMessagef(err, "compiling kernel %s", key)
		}
		compiled = true
		c.compilations.Add(1)
		c.kernels.Store(key, kernel)
		klog.V(1).Infof("compiled kernel %s with backend %s in %s", key, c.backend.Name(), time.Since(start))
		return kernel, nil
	})
	if err != nil {
		return nil, err
	}
	if !compiled {
		c.hits.Add(1)
	}
	return kernel.(backends.Kernel), nil
}
