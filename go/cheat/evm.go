// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cheat

import (
	"github.com/Fantom-foundation/Scarpia/go/harness"
	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/Fantom-foundation/Scarpia/go/state"
)

// NewEVM assembles a harness EVM with cheat interception enabled: the given
// native backend is wrapped in a cheat-enabled backend, a fresh execution
// state is layered on top, and every execution frame is wrapped in a handler
// sharing that backend. Any interceptor present in the configuration is
// replaced. Installed cheat effects live in the backend wrapper, so they
// remain in effect until the EVM is assembled anew.
func NewEVM(interpreter scarpia.Interpreter, native scarpia.Backend, config harness.Config) *harness.EVM {
	backend := NewBackend(native)
	config.Interceptor = Interceptor(backend)
	return harness.NewEVM(interpreter, state.NewState(backend), config)
}
