// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scarpia

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// InterpreterFactory instantiates an Interpreter from an implementation
// specific configuration; a nil configuration selects the defaults.
type InterpreterFactory func(config any) (Interpreter, error)

// interpreterRegistry is the process-wide name to factory index. Engine
// packages add themselves in their init code, so importing an engine package
// is all it takes to make it available to NewInterpreter.
var interpreterRegistry = registry{factories: map[string]InterpreterFactory{}}

type registry struct {
	mu        sync.Mutex
	factories map[string]InterpreterFactory
}

func (r *registry) register(name string, factory InterpreterFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("cannot register a nil factory for %q", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.factories[key]; found {
		return fmt.Errorf("an interpreter factory named %q is already registered", key)
	}
	r.factories[key] = factory
	return nil
}

func (r *registry) lookup(name string) InterpreterFactory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.factories[strings.ToLower(name)]
}

func (r *registry) snapshot() map[string]InterpreterFactory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.factories)
}

// RegisterInterpreterFactory makes an Interpreter implementation available
// under the given case-insensitive name. Registering a nil factory or reusing
// a taken name is an error. Intended for package initialization code.
func RegisterInterpreterFactory(name string, factory InterpreterFactory) error {
	return interpreterRegistry.register(name, factory)
}

// MustRegisterInterpreterFactory is RegisterInterpreterFactory for init
// functions: a registration failure there is a programming error, so it
// panics instead of returning it.
func MustRegisterInterpreterFactory(name string, factory InterpreterFactory) {
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		panic(err)
	}
}

// GetInterpreterFactory returns the factory registered under the given
// case-insensitive name, or nil if there is none.
func GetInterpreterFactory(name string) InterpreterFactory {
	return interpreterRegistry.lookup(name)
}

// GetAllRegisteredInterpreters returns a snapshot of the registry.
func GetAllRegisteredInterpreters() map[string]InterpreterFactory {
	return interpreterRegistry.snapshot()
}

// NewInterpreter instantiates the implementation registered under the given
// case-insensitive name, using the optional configuration. An unknown name is
// reported together with the names that are registered.
func NewInterpreter(name string, config ...any) (Interpreter, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("at most one configuration may be given")
	}
	factory := GetInterpreterFactory(name)
	if factory == nil {
		known := maps.Keys(interpreterRegistry.snapshot())
		slices.Sort(known)
		return nil, fmt.Errorf("no interpreter named %q, registered are: %s",
			name, strings.Join(known, ", "))
	}
	var c any
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}
