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

// Greeter is the contract behind the end-to-end cheat scenario: setUp arms
// the contract, and checkTime succeeds only when executed at the expected
// timestamp, which an unmodified environment does not provide. It behaves
// like this Solidity contract:
//
//	contract Greeter {
//	    uint256 private armed;
//	    function setUp() public { armed = 1; }
//	    function checkTime() public {
//	        require(armed == 1 && block.timestamp == 100);
//	    }
//	    function isArmed() public view returns (bool) { return armed == 1; }
//	}
var Greeter = newContract("greeter", []function{
	{
		method: newMethod("setUp", "nonpayable", nil, nil),
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
		method: newMethod("checkTime", "nonpayable", nil, nil),
		body: func(shared sharedTargets) []byte {
			return []byte{
				byte(vm.JUMPDEST),
				byte(vm.TIMESTAMP),
				byte(vm.PUSH1), byte(100),
				byte(vm.EQ),
				byte(vm.PUSH1), byte(0),
				byte(vm.SLOAD),
				byte(vm.PUSH1), byte(1),
				byte(vm.EQ),
				byte(vm.AND),
				byte(vm.PUSH2), byte(shared.stop >> 8), byte(shared.stop),
				byte(vm.JUMPI),
				byte(vm.PUSH1), byte(0),
				byte(vm.DUP1),
				byte(vm.REVERT),
			}
		},
	},
	{
		method: newMethod("isArmed", "view", nil, boolResult),
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
