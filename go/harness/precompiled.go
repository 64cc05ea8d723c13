// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package harness

import (
	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/ethereum/go-ethereum/common"
	geth "github.com/ethereum/go-ethereum/core/vm"
)

func handlePrecompiled(revision scarpia.Revision, input scarpia.Data, address scarpia.Address, gas scarpia.Gas) (scarpia.CallResult, bool) {
	contract, ok := precompiledContract(address, revision)
	if !ok {
		return scarpia.CallResult{}, false
	}
	gasCost := contract.RequiredGas(input)
	if gas < scarpia.Gas(gasCost) {
		return scarpia.CallResult{}, true
	}
	gas -= scarpia.Gas(gasCost)
	output, err := contract.Run(input)

	return scarpia.CallResult{
		Success: err == nil, // a precompile fails only on malformed input
		Output:  output,
		GasLeft: gas,
	}, true
}

func precompiledContract(address scarpia.Address, revision scarpia.Revision) (geth.PrecompiledContract, bool) {
	var precompiles map[common.Address]geth.PrecompiledContract
	switch revision {
	case scarpia.R13_Cancun:
		precompiles = geth.PrecompiledContractsCancun
	case scarpia.R12_Shanghai, scarpia.R11_Paris, scarpia.R10_London, scarpia.R09_Berlin:
		precompiles = geth.PrecompiledContractsBerlin
	default: // Istanbul is the oldest supported revision
		precompiles = geth.PrecompiledContractsIstanbul
	}
	contract, found := precompiles[common.Address(address)]
	return contract, found
}
