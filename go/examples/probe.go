// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/ethereum/go-ethereum/core/vm"
)

// Probe exposes the conventional failure flag of ds-test style contracts,
// as consumed by the harness when an expected failure terminates
// successfully. It behaves like this Solidity contract:
//
//	contract Probe {
//	    bool private flag;
//	    function fail() public { flag = true; }
//	    function failed() public returns (bool) { return flag; }
//	}
var Probe = newContract("probe", []function{
	{
		method: newMethod("fail", "nonpayable", nil, nil),
		body: func(sharedTargets) []byte {
			return []byte{
				byte(vm.JUMPDEST),
				byte(vm.PUSH1), byte(1),
				byte(vm.PUSH1), byte(0),
				byte(vm.SSTORE),
				byte(vm.STOP),
			}
		},
	},
	{
		method: newMethod("failed", "nonpayable", nil, boolResult),
		body: func(sharedTargets) []byte {
			return []byte{
				byte(vm.JUMPDEST),
				byte(vm.PUSH1), byte(0),
				byte(vm.SLOAD),
				byte(vm.PUSH1), byte(0),
				byte(vm.MSTORE),
				byte(vm.PUSH1), byte(32),
				byte(vm.PUSH1), byte(0),
				byte(vm.RETURN),
			}
		},
	},
})
