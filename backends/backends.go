// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package backends defines the interface to the accelerator that compiles and runs the specialized kernels,
// and a registry of the available implementations.
//
// The core never talks to a device directly: the schedule asks the kernel cache for a compiled Kernel
// (Backend.Compile on a miss), transfers the task arguments with the DataInterface, and launches the kernel
// with Backend.Launch, waiting on the returned Future.
//
// Import a backend implementation to register it, e.g.:
//
//	import _ "github.com/Parzival-05/spla/backends/gohost"
package backends

import (
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/Parzival-05/spla/pkg/core/status"
	"k8s.io/klog/v2"
)

// Backend is the API an accelerator implementation provides to the engine.
type Backend interface {
	// Name returns the short name of the backend. E.g.: "go" for the portable host backend.
	Name() string

	// Description is a longer description of the Backend that can be used to pretty-print.
	Description() string

	// Compile a specialized program into a Kernel ready to be launched.
	//
	// Failures are reported with status.CompilationError, or status.NotImplemented if the backend
	// doesn't support the program's template.
	Compile(program *Program) (Kernel, error)

	// Launch enqueues the execution of kernel with the given arguments, one per kernel parameter (see Program.Params):
	// a Buffer for buffer parameters, or a Go scalar of the parameter dtype for scalar parameters.
	//
	// It returns as soon as the launch is enqueued; the returned Future reports its outcome.
	// Launch errors are reported with status.DispatchError or status.InvalidArgument.
	Launch(kernel Kernel, args []any, workSize WorkSize) (Future, error)

	// DataInterface is the sub-interface that transfers buffers to/from the accelerator.
	DataInterface

	// Finalize waits for the pending launches and releases all the associated resources.
	// The backend must not be used afterwards.
	Finalize()
}

// Constructor takes a config string (optionally empty) and returns a Backend.
type Constructor func(config string) (Backend, error)

var (
	muRegistry             sync.Mutex
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register backend with the given name, and a constructor that takes the backend specific configuration string.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	muRegistry.Lock()
	defer muRegistry.Unlock()
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
	klog.V(2).Infof("registered backend %q", name)
}

// List returns the names of the registered backends, sorted.
func List() []string {
	muRegistry.Lock()
	defer muRegistry.Unlock()
	names := make([]string, 0, len(registeredConstructors))
	for name := range registeredConstructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultConfig is the backend configuration used by New if SPLA_BACKEND is not set.
//
// See NewWithConfig for the format of the configuration string.
var DefaultConfig string

// SPLA_BACKEND is the environment variable with the default backend configuration to use.
//
// The format of config is "<backend_name>:<backend_configuration>".
// The "<backend_name>" is the name of a registered backend (e.g.: "go") and
// "<backend_configuration>" is backend specific (e.g.: "parallelism=4,queues=2").
const SPLA_BACKEND = "SPLA_BACKEND"

// New returns a new default Backend.
//
// The default is:
//
// 1. The environment SPLA_BACKEND is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered backend is used with an empty configuration.
func New() (Backend, error) {
	if config, found := os.LookupEnv(SPLA_BACKEND); found {
		return NewWithConfig(config)
	}
	return NewWithConfig(DefaultConfig)
}

// NewWithConfig creates a backend from a configuration string formatted as "<backend_name>:<backend_configuration>".
//
// "<backend_name>" alone selects the backend with an empty configuration, and an empty config selects the
// first registered backend. It returns a status.PlatformNotFound error if no backend matches.
func NewWithConfig(config string) (Backend, error) {
	muRegistry.Lock()
	if len(registeredConstructors) == 0 {
		muRegistry.Unlock()
		return nil, status.Errorf(status.PlatformNotFound,
			`no registered backends -- maybe import the host one with import _ "github.com/Parzival-05/spla/backends/gohost"?`)
	}
	backendName, backendConfig := firstRegistered, ""
	if idx := strings.Index(config, ":"); idx != -1 {
		backendName, backendConfig = config[:idx], config[idx+1:]
	} else if config != "" {
		backendName = config
	}
	constructor, found := registeredConstructors[backendName]
	muRegistry.Unlock()
	if !found {
		return nil, status.Errorf(status.PlatformNotFound, "can't find backend %q for configuration %q, registered backends: %q",
			backendName, config, List())
	}
	backend, err := constructor(backendConfig)
	if err != nil {
		return nil, status.Wrapf(err, status.InvalidArgument, "failed to create backend %q with configuration %q", backendName, backendConfig)
	}
	klog.V(1).Infof("created backend %s (%s)", backend.Name(), backend.Description())
	return backend, nil
}
