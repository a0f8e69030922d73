// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ops

import (
	"sync"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/Parzival-05/spla/pkg/core/status"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"k8s.io/klog/v2"
)

//go:generate go run ../../../internal/cmd/catalog_generator

// Catalog is a registry of operators indexed by their key, which preserves registration order.
//
// It is safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	ops    *orderedmap.OrderedMap[string, *Op]
	frozen bool
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{ops: orderedmap.New[string, *Op]()}
}

// Register adds op to the catalog.
//
// Keys are unique within a catalog: registering a different operator with a key already present
// returns an InvalidArgument error. Registering the same operator again is a no-op.
func (c *Catalog) Register(op *Op) error {
	if op == nil {
		return status.Errorf(status.InvalidArgument, "can't register a nil operator")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return status.Errorf(status.InvalidState, "can't register operator %s: catalog is read-only", op.Key())
	}
	if existing, found := c.ops.Get(op.Key()); found {
		if existing == op {
			return nil
		}
		return status.Errorf(status.InvalidArgument, "operator key %q already registered (source %q), can't register %q",
			op.Key(), existing.Source(), op.Source())
	}
	c.ops.Set(op.Key(), op)
	return nil
}

func (c *Catalog) mustRegister(op *Op) *Op {
	if err := c.Register(op); err != nil {
		panic(err)
	}
	return op
}

// Lookup returns the operator with the given key.
func (c *Catalog) Lookup(key string) (op *Op, found bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ops.Get(key)
}

// Find returns the operator of the given kind and name instantiated for dtype.
func (c *Catalog) Find(kind Kind, name string, dtype dtypes.DType) (op *Op, found bool) {
	if !dtype.IsNumeric() {
		return nil, false
	}
	sig := kind.Signature(dtype)
	return c.Lookup(KeyFor(name, sig.Args, sig.Result))
}

// Len returns the number of operators in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ops.Len()
}

// All returns the operators in registration order.
func (c *Catalog) All() []*Op {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := make([]*Op, 0, c.ops.Len())
	for pair := c.ops.Oldest(); pair != nil; pair = pair.Next() {
		all = append(all, pair.Value)
	}
	return all
}

// Keys returns the keys of the operators in registration order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, c.ops.Len())
	for pair := c.ops.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// freeze makes the catalog read-only.
func (c *Catalog) freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

var builtins = sync.OnceValue(func() *BuiltinCatalog {
	c := newBuiltinCatalog()
	c.freeze()
	klog.V(1).Infof("built-in operators catalog ready: %d operators", c.Len())
	return c
})

// Builtins returns the read-only catalog of built-in operators.
//
// It is built on first use, exactly once, even if called concurrently; every call returns the same object.
func Builtins() *BuiltinCatalog {
	return builtins()
}
