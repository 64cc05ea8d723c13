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
	"github.com/Fantom-foundation/Scarpia/go/scarpia"
)

// Cheats is the set of optional environment overrides cheat operations can
// install. The override set is small and fixed, so it is kept as a struct of
// optional fields rather than a dynamic map. An unset field falls through to
// the native backend.
type Cheats struct {
	BlockTimestamp *int64
	BlockNumber    *int64
}

// Backend layers installed cheat overrides over a native backend. The
// wrapper is the only holder of overrides and the dispatch routine their
// only writer. Overrides remain in effect for all subsequent reads until the
// wrapper is replaced by a fresh one.
type Backend struct {
	scarpia.Backend
	cheats Cheats
}

// NewBackend wraps the given native backend with an empty override set.
func NewBackend(native scarpia.Backend) *Backend {
	return &Backend{Backend: native}
}

func (b *Backend) Timestamp() int64 {
	if b.cheats.BlockTimestamp != nil {
		return *b.cheats.BlockTimestamp
	}
	return b.Backend.Timestamp()
}

func (b *Backend) BlockNumber() int64 {
	if b.cheats.BlockNumber != nil {
		return *b.cheats.BlockNumber
	}
	return b.Backend.BlockNumber()
}
