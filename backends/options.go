// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Options is a parsed backend configuration: comma-separated "key=value" pairs or bare "key" flags.
type Options map[string]string

// ParseOptions parses a backend configuration string, e.g. "parallelism=4,queues=2,mode=interpret".
// Keys not listed in known are rejected. An empty config returns empty Options.
func ParseOptions(backendName, config string, known ...string) (Options, error) {
	opts := make(Options)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		found := false
		for _, k := range known {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Errorf("unknown configuration option %q for backend %q, known options: %q", key, backendName, known)
		}
		if _, dup := opts[key]; dup {
			return nil, errors.Errorf("configuration option %q given more than once for backend %q", key, backendName)
		}
		opts[key] = strings.TrimSpace(value)
	}
	return opts, nil
}

// Int returns the integer value of the option, or defaultValue if it is not set.
func (o Options) Int(key string, defaultValue int) (int, error) {
	value, found := o[key]
	if !found {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer value %q for option %q", value, key)
	}
	return n, nil
}

// String returns the value of the option, or defaultValue if it is not set.
func (o Options) String(key, defaultValue string) string {
	if value, found := o[key]; found {
		return value
	}
	return defaultValue
}
