// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cheat adds call interception to the execution harness. Calls
// addressed to a reserved pseudo-contract are diverted into a selector-keyed
// cheat dispatch that can manipulate otherwise-immutable execution context
// like the block timestamp, while every other operation of the execution
// surface passes through to the wrapped runtime unchanged.
package cheat

import (
	"github.com/Fantom-foundation/Scarpia/go/scarpia"
)

// ReservedAddress is the address contracts call to trigger cheat operations.
// It is the last 20 bytes of keccak256("hevm cheat code"), the convention
// shared by established Ethereum testing tools so that existing test
// contracts work unchanged. No code is ever deployed there; calls targeting
// it are diverted before regular execution is reached.
var ReservedAddress = scarpia.Address{
	0x71, 0x09, 0x70, 0x9E, 0xCf, 0xa9, 0x1a, 0x80, 0x62, 0x6f,
	0xF3, 0x98, 0x9D, 0x68, 0xf6, 0x7F, 0x5b, 0x1D, 0xD1, 0x2D,
}
