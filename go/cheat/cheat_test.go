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
	"testing"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestReservedAddress_MatchesTheConventionalDerivation(t *testing.T) {
	want := scarpia.Address(crypto.Keccak256([]byte("hevm cheat code"))[12:])
	if want != ReservedAddress {
		t.Errorf("unexpected reserved address, want %v, got %v", want, ReservedAddress)
	}
}
