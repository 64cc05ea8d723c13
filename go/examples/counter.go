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

// Counter keeps a single number in storage, demonstrating state updates
// that persist across calls. It behaves like this Solidity contract:
//
//	contract Counter {
//	    uint256 private value;
//	    function increment() public returns (uint256) {
//	        value += 1;
//	        return value;
//	    }
//	    function current() public view returns (uint256) { return value; }
//	}
var Counter = newContract("counter", []function{
	{
		method: newMethod("increment", "nonpayable", nil, uintResult),
		body: func(sharedTargets) []byte {
			return []byte{
				byte(vm.JUMPDEST),
				byte(vm.PUSH1), byte(0),
				byte(vm.SLOAD),
				byte(vm.PUSH1), byte(1),
				byte(vm.ADD),
				byte(vm.DUP1),
				byte(vm.PUSH1), byte(0),
				byte(vm.SSTORE),
				byte(vm.PUSH1), byte(0),
				byte(vm.MSTORE),
				byte(vm.PUSH1), byte(32),
				byte(vm.PUSH1), byte(0),
				byte(vm.RETURN),
			}
		},
	},
	{
		method: newMethod("current", "view", nil, uintResult),
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
