// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package geth

import (
	"errors"
	"math/big"
	"testing"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/Fantom-foundation/Scarpia/go/state"
	geth "github.com/ethereum/go-ethereum/core/vm"
)

// testContext makes an execution state usable as a run context. Code running
// in these tests never spawns nested calls.
type testContext struct {
	scarpia.TransactionContext
}

func (testContext) Call(scarpia.CallKind, scarpia.CallParameters) (scarpia.CallResult, error) {
	return scarpia.CallResult{}, nil
}

func newGethInterpreter(t *testing.T) scarpia.Interpreter {
	t.Helper()
	interpreter, err := scarpia.NewInterpreter("geth")
	if err != nil {
		t.Fatalf("failed to create geth interpreter: %v", err)
	}
	return interpreter
}

func newTestState(accounts map[scarpia.Address]state.Account) *state.State {
	return state.NewState(state.NewMemoryBackend(scarpia.BlockParameters{}, scarpia.Value{}, accounts))
}

func newTestParameters(context scarpia.RunContext, revision scarpia.Revision, code scarpia.Code) scarpia.Parameters {
	return scarpia.Parameters{
		BlockParameters: scarpia.BlockParameters{
			BlockNumber: 1234,
			Timestamp:   100,
			GasLimit:    1 << 24,
			Revision:    revision,
		},
		Context:   context,
		Gas:       40000,
		Recipient: scarpia.Address{0x42},
		Sender:    scarpia.Address{0x41},
		Code:      code,
	}
}

func TestGeth_InterpreterIsRegistered(t *testing.T) {
	interpreter, err := scarpia.NewInterpreter("geth")
	if err != nil {
		t.Fatalf("failed to create geth interpreter: %v", err)
	}
	if interpreter == nil {
		t.Fatalf("registry returned a nil interpreter")
	}
}

func TestGeth_OutcomesAreClassified(t *testing.T) {
	tests := map[string]struct {
		code      scarpia.Code
		gas       scarpia.Gas
		success   bool
		gasLeft   scarpia.Gas
		outputLen int
	}{
		"empty code": {
			code:    nil,
			gas:     40000,
			success: true,
			gasLeft: 40000,
		},
		"stop": {
			code:    scarpia.Code{byte(geth.STOP)},
			gas:     40000,
			success: true,
			gasLeft: 40000,
		},
		"return": {
			code: scarpia.Code{
				byte(geth.PUSH1), byte(5), // < output size
				byte(geth.PUSH1), byte(0), // < output offset
				byte(geth.RETURN),
			},
			gas:       40000,
			success:   true,
			gasLeft:   40000 - 9,
			outputLen: 5,
		},
		"revert": {
			code: scarpia.Code{
				byte(geth.PUSH1), byte(3),
				byte(geth.PUSH1), byte(0),
				byte(geth.REVERT),
			},
			gas:       40000,
			success:   false,
			gasLeft:   40000 - 9,
			outputLen: 3,
		},
		"invalid instruction": {
			code:    scarpia.Code{byte(geth.INVALID)},
			gas:     40000,
			success: false,
			gasLeft: 0,
		},
		"out of gas": {
			code:    scarpia.Code{byte(geth.PUSH1), byte(0)},
			gas:     2,
			success: false,
			gasLeft: 0,
		},
	}

	interpreter := newGethInterpreter(t)
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			context := testContext{newTestState(nil)}
			parameters := newTestParameters(context, scarpia.R07_Istanbul, test.code)
			parameters.Gas = test.gas

			result, err := interpreter.Run(parameters)
			if err != nil {
				t.Fatalf("execution failed: %v", err)
			}
			if want, got := test.success, result.Success; want != got {
				t.Errorf("unexpected success flag, want %t, got %t", want, got)
			}
			if want, got := test.gasLeft, result.GasLeft; want != got {
				t.Errorf("unexpected remaining gas, want %d, got %d", want, got)
			}
			if want, got := test.outputLen, len(result.Output); want != got {
				t.Errorf("unexpected output length, want %d, got %d", want, got)
			}
		})
	}
}

func TestGeth_EnvironmentIsVisibleToTheCode(t *testing.T) {
	tests := map[string]struct {
		opcode geth.OpCode
		want   int64
	}{
		"timestamp":    {opcode: geth.TIMESTAMP, want: 100},
		"block number": {opcode: geth.NUMBER, want: 1234},
	}

	interpreter := newGethInterpreter(t)
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			code := scarpia.Code{
				byte(test.opcode),
				byte(geth.PUSH1), byte(0),
				byte(geth.MSTORE),
				byte(geth.PUSH1), byte(32),
				byte(geth.PUSH1), byte(0),
				byte(geth.RETURN),
			}
			context := testContext{newTestState(nil)}
			result, err := interpreter.Run(newTestParameters(context, scarpia.R07_Istanbul, code))
			if err != nil {
				t.Fatalf("execution failed: %v", err)
			}
			if !result.Success {
				t.Fatalf("execution was not successful")
			}
			if want, got := test.want, new(big.Int).SetBytes(result.Output).Int64(); want != got {
				t.Errorf("unexpected result, want %d, got %d", want, got)
			}
		})
	}
}

func TestGeth_InputIsVisibleToTheCode(t *testing.T) {
	code := scarpia.Code{
		byte(geth.PUSH1), byte(0),
		byte(geth.CALLDATALOAD),
		byte(geth.PUSH1), byte(0),
		byte(geth.MSTORE),
		byte(geth.PUSH1), byte(32),
		byte(geth.PUSH1), byte(0),
		byte(geth.RETURN),
	}
	context := testContext{newTestState(nil)}
	parameters := newTestParameters(context, scarpia.R07_Istanbul, code)
	parameters.Input = make(scarpia.Data, 32)
	parameters.Input[31] = 7

	result, err := newGethInterpreter(t).Run(parameters)
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if want, got := int64(7), new(big.Int).SetBytes(result.Output).Int64(); want != got {
		t.Errorf("unexpected result, want %d, got %d", want, got)
	}
}

func TestGeth_BlockHashesAreServedByTheContext(t *testing.T) {
	code := scarpia.Code{
		byte(geth.PUSH1), byte(1),
		byte(geth.BLOCKHASH),
		byte(geth.PUSH1), byte(0),
		byte(geth.MSTORE),
		byte(geth.PUSH1), byte(32),
		byte(geth.PUSH1), byte(0),
		byte(geth.RETURN),
	}
	context := testContext{state.NewState(state.NewMemoryBackend(
		scarpia.BlockParameters{BlockNumber: 10}, scarpia.Value{}, nil))}
	parameters := newTestParameters(context, scarpia.R07_Istanbul, code)
	parameters.BlockNumber = 10 // < block 1 must be inside the look-back window

	result, err := newGethInterpreter(t).Run(parameters)
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("execution was not successful")
	}
	if len(result.Output) != 32 {
		t.Fatalf("unexpected output length, want 32, got %d", len(result.Output))
	}
	want := context.GetBlockHash(1)
	if want == (scarpia.Hash{}) {
		t.Fatalf("the context serves no hash for block 1")
	}
	if got := scarpia.Hash(result.Output); want != got {
		t.Errorf("unexpected block hash, want %v, got %v", want, got)
	}
}

func TestGeth_BalancesAreVisibleToTheCode(t *testing.T) {
	code := scarpia.Code{
		byte(geth.SELFBALANCE),
		byte(geth.PUSH1), byte(0),
		byte(geth.MSTORE),
		byte(geth.PUSH1), byte(32),
		byte(geth.PUSH1), byte(0),
		byte(geth.RETURN),
	}
	context := testContext{newTestState(map[scarpia.Address]state.Account{
		{0x42}: {Balance: scarpia.NewValue(123)},
	})}

	result, err := newGethInterpreter(t).Run(newTestParameters(context, scarpia.R07_Istanbul, code))
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if want, got := int64(123), new(big.Int).SetBytes(result.Output).Int64(); want != got {
		t.Errorf("unexpected balance, want %d, got %d", want, got)
	}
}

func TestGeth_StorageModificationsReachTheContext(t *testing.T) {
	code := scarpia.Code{
		byte(geth.PUSH1), byte(1), // < value
		byte(geth.PUSH1), byte(0), // < key
		byte(geth.SSTORE),
		byte(geth.STOP),
	}
	executionState := newTestState(nil)
	context := testContext{executionState}

	result, err := newGethInterpreter(t).Run(newTestParameters(context, scarpia.R07_Istanbul, code))
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("execution was not successful")
	}
	if want, got := (scarpia.Word{31: 1}), executionState.GetStorage(scarpia.Address{0x42}, scarpia.Key{}); want != got {
		t.Errorf("unexpected storage value, want %v, got %v", want, got)
	}
}

func TestGeth_StaticModeForbidsStateModifications(t *testing.T) {
	code := scarpia.Code{
		byte(geth.PUSH1), byte(1),
		byte(geth.PUSH1), byte(0),
		byte(geth.SSTORE),
		byte(geth.STOP),
	}
	context := testContext{newTestState(nil)}
	parameters := newTestParameters(context, scarpia.R07_Istanbul, code)
	parameters.Static = true

	result, err := newGethInterpreter(t).Run(parameters)
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if result.Success {
		t.Errorf("write protection was not enforced")
	}
	if want, got := scarpia.Gas(0), result.GasLeft; want != got {
		t.Errorf("unexpected remaining gas, want %d, got %d", want, got)
	}
}

func TestGeth_RefundsAreReported(t *testing.T) {
	code := scarpia.Code{
		byte(geth.PUSH1), byte(0), // < value, clearing the slot
		byte(geth.PUSH1), byte(0), // < key
		byte(geth.SSTORE),
		byte(geth.STOP),
	}
	context := testContext{newTestState(map[scarpia.Address]state.Account{
		{0x42}: {Storage: map[scarpia.Key]scarpia.Word{{}: {31: 1}}},
	})}

	result, err := newGethInterpreter(t).Run(newTestParameters(context, scarpia.R07_Istanbul, code))
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("execution was not successful")
	}
	if want, got := scarpia.Gas(15000), result.GasRefund; want != got {
		t.Errorf("unexpected gas refund, want %d, got %d", want, got)
	}
}

func TestGeth_LogsAreForwardedToTheContext(t *testing.T) {
	code := scarpia.Code{
		byte(geth.PUSH1), byte(0), // < size
		byte(geth.PUSH1), byte(0), // < offset
		byte(geth.LOG0),
		byte(geth.STOP),
	}
	executionState := newTestState(nil)
	context := testContext{executionState}

	result, err := newGethInterpreter(t).Run(newTestParameters(context, scarpia.R07_Istanbul, code))
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("execution was not successful")
	}
	logs := executionState.GetLogs()
	if len(logs) != 1 {
		t.Fatalf("unexpected number of logs, want 1, got %d", len(logs))
	}
	if want, got := (scarpia.Address{0x42}), logs[0].Address; want != got {
		t.Errorf("unexpected log address, want %v, got %v", want, got)
	}
}

func TestGeth_ChainRulesFollowTheRevision(t *testing.T) {
	push0 := scarpia.Code{byte(geth.PUSH0), byte(geth.STOP)}
	tstore := scarpia.Code{
		byte(geth.PUSH1), byte(1),
		byte(geth.PUSH1), byte(0),
		byte(geth.TSTORE),
		byte(geth.STOP),
	}

	tests := map[string]struct {
		code     scarpia.Code
		revision scarpia.Revision
		success  bool
	}{
		"push0 in London":    {code: push0, revision: scarpia.R10_London, success: false},
		"push0 in Paris":     {code: push0, revision: scarpia.R11_Paris, success: false},
		"push0 in Shanghai":  {code: push0, revision: scarpia.R12_Shanghai, success: true},
		"push0 in Cancun":    {code: push0, revision: scarpia.R13_Cancun, success: true},
		"tstore in Shanghai": {code: tstore, revision: scarpia.R12_Shanghai, success: false},
		"tstore in Cancun":   {code: tstore, revision: scarpia.R13_Cancun, success: true},
	}

	interpreter := newGethInterpreter(t)
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			context := testContext{newTestState(nil)}
			result, err := interpreter.Run(newTestParameters(context, test.revision, test.code))
			if err != nil {
				t.Fatalf("execution failed: %v", err)
			}
			if want, got := test.success, result.Success; want != got {
				t.Errorf("unexpected success flag, want %t, got %t", want, got)
			}
		})
	}
}

func TestGeth_UnsupportedRevisionsAreRejected(t *testing.T) {
	context := testContext{newTestState(nil)}
	parameters := newTestParameters(context, scarpia.R99_UnknownNextRevision, scarpia.Code{byte(geth.STOP)})

	_, err := newGethInterpreter(t).Run(parameters)
	var unsupported *scarpia.ErrUnsupportedRevision
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected an unsupported revision error, got %v", err)
	}
	if want, got := scarpia.R99_UnknownNextRevision, unsupported.Revision; want != got {
		t.Errorf("unexpected revision in error, want %v, got %v", want, got)
	}
}
