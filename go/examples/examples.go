// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package examples provides small hand-assembled contracts covering the
// call, cheat, and assertion surface of the execution harness. Each contract
// is described by its runtime code and the ABI of its functions, so tests
// and command line tools can deploy and run them on any registered
// interpreter.
package examples

import (
	"fmt"
	"sort"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Contract is a deployable example contract. The runtime code starts with a
// selector dispatch over the listed functions; calls with an unknown
// selector revert.
type Contract struct {
	Name    string
	Code    scarpia.Code
	methods map[string]abi.Method
}

// Method returns the ABI descriptor of the named function.
func (c *Contract) Method(name string) (abi.Method, bool) {
	method, found := c.methods[name]
	return method, found
}

// Methods lists the contract's functions in alphabetical order.
func (c *Contract) Methods() []abi.Method {
	methods := make([]abi.Method, 0, len(c.methods))
	for _, method := range c.methods {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].Name < methods[j].Name
	})
	return methods
}

// All lists the example contracts provided by this package.
func All() []*Contract {
	return []*Contract{Counter, Greeter, Probe}
}

// function pairs the ABI descriptor of a contract function with a builder
// for its assembly body. The body must start with a JUMPDEST and terminate
// every path; it may jump to the shared targets passed to the builder.
type function struct {
	method abi.Method
	body   func(shared sharedTargets) []byte
}

// sharedTargets lists code offsets every function body may jump to.
type sharedTargets struct {
	stop int // a JUMPDEST directly followed by a STOP
}

const (
	preludeSize  = 6  // load the selector from the calldata
	compareSize  = 11 // one selector comparison per function
	fallbackSize = 4  // revert on unmatched selectors
	stopSize     = 2  // the shared stop target
)

// assemble builds the runtime code of a contract. The code loads the first
// four bytes of the calldata and jumps to the body of the matching function;
// if no selector matches, the call reverts. All jump destinations are
// computed from the actual body sizes.
func assemble(functions []function) (scarpia.Code, map[string]abi.Method) {
	headerSize := preludeSize + len(functions)*compareSize + fallbackSize
	shared := sharedTargets{stop: headerSize}

	bodies := make([][]byte, len(functions))
	offsets := make([]int, len(functions))
	offset := headerSize + stopSize
	for i, function := range functions {
		bodies[i] = function.body(shared)
		if len(bodies[i]) == 0 || bodies[i][0] != byte(vm.JUMPDEST) {
			panic(fmt.Sprintf("body of %s does not start with a jump destination", function.method.Sig))
		}
		offsets[i] = offset
		offset += len(bodies[i])
	}
	if offset > 0xFFFF {
		panic("contract code exceeds the addressable jump range")
	}

	code := make([]byte, 0, offset)
	code = append(code,
		byte(vm.PUSH1), byte(0),
		byte(vm.CALLDATALOAD),
		byte(vm.PUSH1), byte(224),
		byte(vm.SHR),
	)
	methods := make(map[string]abi.Method, len(functions))
	for i, function := range functions {
		code = append(code, byte(vm.DUP1), byte(vm.PUSH4))
		code = append(code, function.method.ID...)
		code = append(code,
			byte(vm.EQ),
			byte(vm.PUSH2), byte(offsets[i]>>8), byte(offsets[i]),
			byte(vm.JUMPI),
		)
		methods[function.method.Name] = function.method
	}
	code = append(code,
		byte(vm.PUSH1), byte(0),
		byte(vm.DUP1),
		byte(vm.REVERT),
	)
	code = append(code, byte(vm.JUMPDEST), byte(vm.STOP))
	for _, body := range bodies {
		code = append(code, body...)
	}
	return code, methods
}

func newContract(name string, functions []function) *Contract {
	code, methods := assemble(functions)
	return &Contract{Name: name, Code: code, methods: methods}
}

func newMethod(name string, mutability string, inputs, outputs abi.Arguments) abi.Method {
	return abi.NewMethod(name, name, abi.Function, mutability, false, false, inputs, outputs)
}

func mustType(name string) abi.Type {
	res, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create ABI type %s: %v", name, err))
	}
	return res
}

var (
	boolResult = abi.Arguments{{Type: mustType("bool")}}
	uintResult = abi.Arguments{{Type: mustType("uint256")}}
)
