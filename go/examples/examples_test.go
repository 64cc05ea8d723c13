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
	"math/big"
	"testing"

	"github.com/Fantom-foundation/Scarpia/go/cheat"
	"github.com/Fantom-foundation/Scarpia/go/harness"
	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/Fantom-foundation/Scarpia/go/state"

	_ "github.com/Fantom-foundation/Scarpia/go/interpreter/geth"
)

func newExampleEVM(t *testing.T) *harness.EVM {
	t.Helper()
	interpreter, err := scarpia.NewInterpreter("geth")
	if err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}
	backend := state.NewMemoryBackend(scarpia.BlockParameters{
		BlockNumber: 1,
		Timestamp:   5,
		GasLimit:    12_000_000,
	}, scarpia.Value{}, nil)
	return cheat.NewEVM(interpreter, backend, harness.Config{GasLimit: 12_000_000})
}

func deploy(evm *harness.EVM, contract *Contract, address scarpia.Address) {
	evm.InitializeContracts(harness.Contract{Address: address, Code: contract.Code})
}

func call(t *testing.T, evm *harness.EVM, contract *Contract, address scarpia.Address, name string, args ...any) harness.Result {
	t.Helper()
	method, found := contract.Method(name)
	if !found {
		t.Fatalf("contract %s has no function %s", contract.Name, name)
	}
	result, err := evm.Call(scarpia.Address{}, address, scarpia.Value{}, method, args...)
	if err != nil {
		t.Fatalf("failed to call %s: %v", name, err)
	}
	return result
}

func warp(t *testing.T, evm *harness.EVM, time int64) {
	t.Helper()
	operation, found := cheat.OperationByName("warp")
	if !found {
		t.Fatalf("the warp operation is not available")
	}
	input, err := operation.EncodeCall(big.NewInt(time))
	if err != nil {
		t.Fatalf("failed to encode warp call: %v", err)
	}
	result, err := evm.CallRaw(scarpia.Address{}, cheat.ReservedAddress, input, scarpia.Value{})
	if err != nil {
		t.Fatalf("failed to run warp call: %v", err)
	}
	if result.Status != harness.StatusSuccess {
		t.Fatalf("warp call ended in status %v", result.Status)
	}
}

func TestGreeter_CheatScenarioRunsEndToEnd(t *testing.T) {
	address := scarpia.Address{0x10}
	evm := newExampleEVM(t)
	deploy(evm, Greeter, address)

	if result := call(t, evm, Greeter, address, "setUp"); result.Status != harness.StatusSuccess {
		t.Fatalf("setUp ended in status %v", result.Status)
	}

	// Without the timestamp override the time check cannot pass.
	if result := call(t, evm, Greeter, address, "checkTime"); result.Status != harness.StatusRevert {
		t.Fatalf("checkTime against the native timestamp ended in status %v", result.Status)
	}

	warp(t, evm, 100)

	if result := call(t, evm, Greeter, address, "checkTime"); result.Status != harness.StatusSuccess {
		t.Errorf("checkTime after the warp ended in status %v", result.Status)
	}
}

func TestGreeter_IsArmedReflectsSetUp(t *testing.T) {
	address := scarpia.Address{0x10}
	evm := newExampleEVM(t)
	deploy(evm, Greeter, address)

	result := call(t, evm, Greeter, address, "isArmed")
	if want, got := false, result.Values[0].(bool); want != got {
		t.Errorf("unexpected armed state, want %t, got %t", want, got)
	}

	call(t, evm, Greeter, address, "setUp")

	result = call(t, evm, Greeter, address, "isArmed")
	if want, got := true, result.Values[0].(bool); want != got {
		t.Errorf("unexpected armed state, want %t, got %t", want, got)
	}
}

func TestCounter_CountsAcrossCalls(t *testing.T) {
	address := scarpia.Address{0x20}
	evm := newExampleEVM(t)
	deploy(evm, Counter, address)

	for i := int64(1); i <= 3; i++ {
		result := call(t, evm, Counter, address, "increment")
		if result.Status != harness.StatusSuccess {
			t.Fatalf("increment ended in status %v", result.Status)
		}
		got, ok := result.Values[0].(*big.Int)
		if !ok {
			t.Fatalf("unexpected result type %T", result.Values[0])
		}
		if want := i; want != got.Int64() {
			t.Errorf("unexpected counter value, want %d, got %d", want, got)
		}
	}

	result := call(t, evm, Counter, address, "current")
	got, ok := result.Values[0].(*big.Int)
	if !ok {
		t.Fatalf("unexpected result type %T", result.Values[0])
	}
	if want := int64(3); want != got.Int64() {
		t.Errorf("unexpected counter value, want %d, got %d", want, got)
	}
}

func TestProbe_DrivesTheSuccessClassification(t *testing.T) {
	address := scarpia.Address{0x30}
	evm := newExampleEVM(t)
	deploy(evm, Probe, address)

	if !evm.CheckSuccess(address, harness.StatusSuccess, false) {
		t.Errorf("a successful call was not accepted")
	}
	if !evm.CheckSuccess(address, harness.StatusRevert, true) {
		t.Errorf("a reverting call was not accepted as the expected failure")
	}
	if !evm.CheckSuccess(address, harness.StatusSuccess, true) {
		t.Errorf("a clean failure flag was not accepted as the expected failure")
	}

	call(t, evm, Probe, address, "fail")

	if evm.CheckSuccess(address, harness.StatusSuccess, true) {
		t.Errorf("a raised failure flag was not detected")
	}
}

func TestCheckSuccess_ToleratesContractsWithoutTheProbe(t *testing.T) {
	address := scarpia.Address{0x10}
	evm := newExampleEVM(t)
	deploy(evm, Greeter, address)

	if !evm.CheckSuccess(address, harness.StatusSuccess, true) {
		t.Errorf("a contract without the failure flag was not treated as passing")
	}
}

func TestContracts_RevertOnUnknownSelectors(t *testing.T) {
	evm := newExampleEVM(t)
	for _, contract := range All() {
		t.Run(contract.Name, func(t *testing.T) {
			address := scarpia.Address{0x40}
			deploy(evm, contract, address)
			result, err := evm.CallRaw(scarpia.Address{}, address,
				scarpia.Data{0xde, 0xad, 0xbe, 0xef}, scarpia.Value{})
			if err != nil {
				t.Fatalf("failed to run call: %v", err)
			}
			if want, got := harness.StatusRevert, result.Status; want != got {
				t.Errorf("unexpected status, want %v, got %v", want, got)
			}
		})
	}
}

func TestAll_ContractsAreWellFormed(t *testing.T) {
	names := map[string]bool{}
	for _, contract := range All() {
		if names[contract.Name] {
			t.Errorf("duplicated contract name %s", contract.Name)
		}
		names[contract.Name] = true
		if len(contract.Code) == 0 {
			t.Errorf("contract %s has no code", contract.Name)
		}
		if len(contract.Methods()) == 0 {
			t.Errorf("contract %s has no functions", contract.Name)
		}
		for _, method := range contract.Methods() {
			if _, found := contract.Method(method.Name); !found {
				t.Errorf("function %s of %s is not retrievable", method.Name, contract.Name)
			}
		}
	}
}
