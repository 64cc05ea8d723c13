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
	"bytes"
	"math"
	"testing"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/Fantom-foundation/Scarpia/go/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/mock/gomock"
)

func newTestContext(
	interpreter scarpia.Interpreter,
	context scarpia.TransactionContext,
	revision scarpia.Revision,
) runContext {
	return runContext{
		TransactionContext: context,
		interpreter:        interpreter,
		backend:            state.NewMemoryBackend(scarpia.BlockParameters{BlockNumber: 1}, scarpia.Value{}, nil),
		revision:           revision,
	}
}

func TestRunContext_InterpreterResultIsHandledCorrectly(t *testing.T) {
	tests := map[string]struct {
		result  scarpia.Result
		success bool
		output  []byte
		gasLeft scarpia.Gas
	}{
		"successful": {
			result:  scarpia.Result{Success: true, GasLeft: 100},
			success: true,
			gasLeft: 100,
		},
		"failed": {
			result:  scarpia.Result{Success: false},
			success: false,
			gasLeft: 0,
		},
		"revert": {
			result:  scarpia.Result{Success: false, Output: []byte("reason"), GasLeft: 40},
			success: false,
			output:  []byte("reason"),
			gasLeft: 40,
		},
		"output": {
			result:  scarpia.Result{Success: true, Output: []byte("some output"), GasLeft: 100},
			success: true,
			output:  []byte("some output"),
			gasLeft: 100,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			context := scarpia.NewMockTransactionContext(ctrl)
			interpreter := scarpia.NewMockInterpreter(ctrl)

			recipient := scarpia.Address{2}
			context.EXPECT().CreateSnapshot()
			context.EXPECT().GetCodeHash(recipient).Return(scarpia.Hash{})
			context.EXPECT().GetCode(recipient).Return(scarpia.Code{})
			context.EXPECT().RestoreSnapshot(gomock.Any()).AnyTimes()
			interpreter.EXPECT().Run(gomock.Any()).Return(test.result, nil)

			run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
			result, err := run.Call(scarpia.Call, scarpia.CallParameters{
				Sender:    scarpia.Address{1},
				Recipient: recipient,
				Gas:       100,
			})
			if err != nil {
				t.Fatalf("call returned an unexpected error: %v", err)
			}
			if result.Success != test.success {
				t.Errorf("unexpected success value, want %v, got %v", test.success, result.Success)
			}
			if string(result.Output) != string(test.output) {
				t.Errorf("unexpected output, want %v, got %v", test.output, result.Output)
			}
			if result.GasLeft != test.gasLeft {
				t.Errorf("unexpected remaining gas, want %v, got %v", test.gasLeft, result.GasLeft)
			}
		})
	}
}

func TestRunContext_MaxCallDepthIsEnforced(t *testing.T) {
	kinds := []scarpia.CallKind{
		scarpia.Call,
		scarpia.StaticCall,
		scarpia.DelegateCall,
		scarpia.CallCode,
		scarpia.Create,
		scarpia.Create2,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			context := scarpia.NewMockTransactionContext(ctrl)
			interpreter := scarpia.NewMockInterpreter(ctrl)

			run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
			run.depth = MaxCallDepth + 1

			result, err := run.Call(kind, scarpia.CallParameters{Gas: 100})
			if err != nil {
				t.Fatalf("call returned an unexpected error: %v", err)
			}
			if result.Success {
				t.Errorf("call beyond the depth limit did not fail")
			}
			if want, got := scarpia.Gas(100), result.GasLeft; want != got {
				t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
			}
		})
	}
}

func TestRunContext_NestedCallsIncreaseDepth(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	context.EXPECT().CreateSnapshot().Times(2)
	context.EXPECT().GetCodeHash(gomock.Any()).Return(scarpia.Hash{}).Times(2)
	context.EXPECT().GetCode(gomock.Any()).Return(scarpia.Code{}).Times(2)

	depths := []int{}
	interpreter.EXPECT().Run(gomock.Any()).DoAndReturn(
		func(params scarpia.Parameters) (scarpia.Result, error) {
			if params.Depth == 0 {
				result, err := params.Context.Call(scarpia.Call, scarpia.CallParameters{
					Sender:    params.Recipient,
					Recipient: scarpia.Address{3},
					Gas:       50,
				})
				if err != nil || !result.Success {
					t.Fatalf("nested call failed: %v / %v", result, err)
				}
			}
			depths = append(depths, params.Depth)
			return scarpia.Result{Success: true}, nil
		}).Times(2)

	run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
	_, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    scarpia.Address{1},
		Recipient: scarpia.Address{2},
		Gas:       100,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	// the nested frame completes before the outer one
	if len(depths) != 2 || depths[0] != 1 || depths[1] != 0 {
		t.Errorf("unexpected frame depths, want [1 0], got %v", depths)
	}
}

func TestRunContext_InterceptorSeesEveryFrame(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	context.EXPECT().CreateSnapshot().Times(2)
	context.EXPECT().GetCodeHash(gomock.Any()).Return(scarpia.Hash{}).Times(2)
	context.EXPECT().GetCode(gomock.Any()).Return(scarpia.Code{}).Times(2)

	interpreter.EXPECT().Run(gomock.Any()).DoAndReturn(
		func(params scarpia.Parameters) (scarpia.Result, error) {
			if params.Depth == 0 {
				if _, err := params.Context.Call(scarpia.Call, scarpia.CallParameters{
					Recipient: scarpia.Address{3},
					Gas:       50,
				}); err != nil {
					t.Fatalf("nested call failed: %v", err)
				}
			}
			return scarpia.Result{Success: true}, nil
		}).Times(2)

	frames := 0
	run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
	run.interceptor = func(context scarpia.RunContext) scarpia.RunContext {
		frames++
		return context
	}

	_, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    scarpia.Address{1},
		Recipient: scarpia.Address{2},
		Gas:       100,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	if frames != 2 {
		t.Errorf("interceptor was applied to %d frames, wanted 2", frames)
	}
}

func TestRunContext_ValueIsTransferredInCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	sender := scarpia.Address{1}
	recipient := scarpia.Address{2}

	context.EXPECT().GetBalance(sender).Return(scarpia.NewValue(100)).Times(2)
	context.EXPECT().GetBalance(recipient).Return(scarpia.NewValue(0)).Times(2)
	context.EXPECT().CreateSnapshot()
	context.EXPECT().SetBalance(sender, scarpia.NewValue(90))
	context.EXPECT().SetBalance(recipient, scarpia.NewValue(10))
	context.EXPECT().GetCodeHash(recipient).Return(scarpia.Hash{})
	context.EXPECT().GetCode(recipient).Return(scarpia.Code{})
	interpreter.EXPECT().Run(gomock.Any()).Return(scarpia.Result{Success: true}, nil)

	run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
	result, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    sender,
		Recipient: recipient,
		Value:     scarpia.NewValue(10),
		Gas:       100,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("value transferring call failed")
	}
}

func TestRunContext_InsufficientBalanceAbortsCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	sender := scarpia.Address{1}
	context.EXPECT().GetBalance(sender).Return(scarpia.NewValue(5))

	run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
	result, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    sender,
		Recipient: scarpia.Address{2},
		Value:     scarpia.NewValue(10),
		Gas:       100,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	if result.Success {
		t.Errorf("call with insufficient balance did not fail")
	}
	if want, got := scarpia.Gas(100), result.GasLeft; want != got {
		t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
	}
}

func TestRunContext_StaticModeIsSetAndInherited(t *testing.T) {
	tests := map[string]struct {
		kind   scarpia.CallKind
		static bool
		want   bool
	}{
		"regular call":               {scarpia.Call, false, false},
		"static call":                {scarpia.StaticCall, false, true},
		"call in static context":     {scarpia.Call, true, true},
		"delegate in static context": {scarpia.DelegateCall, true, true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			context := scarpia.NewMockTransactionContext(ctrl)
			interpreter := scarpia.NewMockInterpreter(ctrl)

			context.EXPECT().CreateSnapshot()
			context.EXPECT().GetCodeHash(gomock.Any()).Return(scarpia.Hash{})
			context.EXPECT().GetCode(gomock.Any()).Return(scarpia.Code{})

			var captured scarpia.Parameters
			interpreter.EXPECT().Run(gomock.Any()).DoAndReturn(
				func(params scarpia.Parameters) (scarpia.Result, error) {
					captured = params
					return scarpia.Result{Success: true}, nil
				})

			run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
			run.static = test.static
			_, err := run.Call(test.kind, scarpia.CallParameters{
				Sender:    scarpia.Address{1},
				Recipient: scarpia.Address{2},
				Gas:       100,
			})
			if err != nil {
				t.Fatalf("call returned an unexpected error: %v", err)
			}
			if captured.Static != test.want {
				t.Errorf("unexpected static mode, want %v, got %v", test.want, captured.Static)
			}
		})
	}
}

func TestRunContext_CodeIsLoadedFromTheRightAddress(t *testing.T) {
	recipient := scarpia.Address{2}
	codeAddress := scarpia.Address{3}

	tests := map[string]struct {
		kind   scarpia.CallKind
		source scarpia.Address
	}{
		"call":          {scarpia.Call, recipient},
		"static call":   {scarpia.StaticCall, recipient},
		"delegate call": {scarpia.DelegateCall, codeAddress},
		"call code":     {scarpia.CallCode, codeAddress},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			context := scarpia.NewMockTransactionContext(ctrl)
			interpreter := scarpia.NewMockInterpreter(ctrl)

			code := scarpia.Code{0x60, 0x00}
			codeHash := scarpia.Hash{1}
			context.EXPECT().CreateSnapshot()
			context.EXPECT().GetCodeHash(test.source).Return(codeHash)
			context.EXPECT().GetCode(test.source).Return(code)

			var captured scarpia.Parameters
			interpreter.EXPECT().Run(gomock.Any()).DoAndReturn(
				func(params scarpia.Parameters) (scarpia.Result, error) {
					captured = params
					return scarpia.Result{Success: true}, nil
				})

			run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
			_, err := run.Call(test.kind, scarpia.CallParameters{
				Sender:      scarpia.Address{1},
				Recipient:   recipient,
				CodeAddress: codeAddress,
				Gas:         100,
			})
			if err != nil {
				t.Fatalf("call returned an unexpected error: %v", err)
			}
			if !bytes.Equal(captured.Code, code) {
				t.Errorf("unexpected code, want %x, got %x", code, captured.Code)
			}
			if captured.CodeHash == nil || *captured.CodeHash != codeHash {
				t.Errorf("unexpected code hash, want %v, got %v", codeHash, captured.CodeHash)
			}
			if captured.Recipient != recipient {
				t.Errorf("unexpected recipient, want %v, got %v", recipient, captured.Recipient)
			}
		})
	}
}

func TestRunContext_CallsToEmptyAccountsAreShortCircuited(t *testing.T) {
	// since Berlin, plain calls transferring no value to non-existing
	// accounts complete without running any code
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	recipient := scarpia.Address{2}
	context.EXPECT().CreateSnapshot()
	context.EXPECT().AccountExists(recipient).Return(false)

	run := newTestContext(interpreter, context, scarpia.R09_Berlin)
	result, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    scarpia.Address{1},
		Recipient: recipient,
		Gas:       100,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("call to empty account failed")
	}
	if want, got := scarpia.Gas(100), result.GasLeft; want != got {
		t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
	}
}

func TestRunContext_ExistingAccountsAreNotShortCircuited(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	recipient := scarpia.Address{2}
	context.EXPECT().CreateSnapshot()
	context.EXPECT().AccountExists(recipient).Return(true)
	context.EXPECT().GetCodeHash(recipient).Return(scarpia.Hash{})
	context.EXPECT().GetCode(recipient).Return(scarpia.Code{})
	interpreter.EXPECT().Run(gomock.Any()).Return(scarpia.Result{Success: true}, nil)

	run := newTestContext(interpreter, context, scarpia.R09_Berlin)
	result, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    scarpia.Address{1},
		Recipient: recipient,
		Gas:       100,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("call to existing account failed")
	}
}

func TestRunContext_PrecompiledContractsAreExecutedInCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	recipient := scarpia.Address{19: 0x04} // the identity contract
	context.EXPECT().CreateSnapshot()

	run := newTestContext(interpreter, context, scarpia.R09_Berlin)
	result, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    scarpia.Address{1},
		Recipient: recipient,
		Input:     scarpia.Data("data"),
		Gas:       100,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("precompiled contract call failed")
	}
	if want, got := "data", string(result.Output); want != got {
		t.Errorf("unexpected output, want %v, got %v", want, got)
	}
	if want, got := scarpia.Gas(100-18), result.GasLeft; want != got {
		t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
	}
}

func TestRunContext_FailingPrecompiledCallConsumesAllGas(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	recipient := scarpia.Address{19: 0x04}
	context.EXPECT().CreateSnapshot().Return(scarpia.Snapshot(7))
	context.EXPECT().RestoreSnapshot(scarpia.Snapshot(7))

	run := newTestContext(interpreter, context, scarpia.R09_Berlin)
	result, err := run.Call(scarpia.Call, scarpia.CallParameters{
		Sender:    scarpia.Address{1},
		Recipient: recipient,
		Input:     scarpia.Data("data"),
		Gas:       1,
	})
	if err != nil {
		t.Fatalf("call returned an unexpected error: %v", err)
	}
	if result.Success {
		t.Errorf("out-of-gas precompiled contract call succeeded")
	}
	if want, got := scarpia.Gas(0), result.GasLeft; want != got {
		t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
	}
}

func TestRunContext_CreateInitializesTheNewAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	sender := scarpia.Address{1}
	initCode := scarpia.Code{0x60, 0x00}
	deployedCode := []byte{0x01, 0x02, 0x03}
	created := scarpia.Address(crypto.CreateAddress(common.Address(sender), 5))

	context.EXPECT().GetNonce(sender).Return(uint64(5))
	context.EXPECT().SetNonce(sender, uint64(6))
	context.EXPECT().GetNonce(sender).Return(uint64(6))
	context.EXPECT().GetNonce(created).Return(uint64(0))
	context.EXPECT().GetCodeHash(created).Return(scarpia.Hash{})
	context.EXPECT().CreateSnapshot()
	context.EXPECT().SetNonce(created, uint64(1))
	context.EXPECT().SetCode(created, scarpia.Code(deployedCode))

	var captured scarpia.Parameters
	interpreter.EXPECT().Run(gomock.Any()).DoAndReturn(
		func(params scarpia.Parameters) (scarpia.Result, error) {
			captured = params
			return scarpia.Result{Success: true, Output: deployedCode, GasLeft: 100000}, nil
		})

	run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
	result, err := run.Call(scarpia.Create, scarpia.CallParameters{
		Sender: sender,
		Input:  scarpia.Data(initCode),
		Gas:    200000,
	})
	if err != nil {
		t.Fatalf("create returned an unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("create failed")
	}
	if result.CreatedAddress != created {
		t.Errorf("unexpected created address, want %v, got %v", created, result.CreatedAddress)
	}
	// the deposit costs 200 gas per byte of deployed code
	if want, got := scarpia.Gas(100000-600), result.GasLeft; want != got {
		t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
	}
	if want, got := scarpia.Create, captured.Kind; want != got {
		t.Errorf("unexpected call kind, want %v, got %v", want, got)
	}
	if captured.Recipient != created {
		t.Errorf("init code does not run in the created account")
	}
	if !bytes.Equal(captured.Code, initCode) {
		t.Errorf("unexpected code, want %x, got %x", initCode, captured.Code)
	}
	if len(captured.Input) != 0 {
		t.Errorf("init code must not receive input data, got %x", captured.Input)
	}
}

func TestRunContext_CreateAddressCollisionsAreDetected(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	interpreter := scarpia.NewMockInterpreter(ctrl)

	sender := scarpia.Address{1}
	created := scarpia.Address(crypto.CreateAddress(common.Address(sender), 0))

	context.EXPECT().GetNonce(sender).Return(uint64(0))
	context.EXPECT().SetNonce(sender, uint64(1))
	context.EXPECT().GetNonce(sender).Return(uint64(1))
	context.EXPECT().GetNonce(created).Return(uint64(1))

	run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
	result, err := run.Call(scarpia.Create, scarpia.CallParameters{
		Sender: sender,
		Gas:    100,
	})
	if err != nil {
		t.Fatalf("create returned an unexpected error: %v", err)
	}
	if result.Success {
		t.Errorf("create on an occupied address succeeded")
	}
	if want, got := scarpia.Gas(0), result.GasLeft; want != got {
		t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
	}
}

func TestRunContext_CreateCodeDepositIsValidated(t *testing.T) {
	tests := map[string]struct {
		revision scarpia.Revision
		output   []byte
		gasLeft  scarpia.Gas
		success  bool
	}{
		"accepted":              {scarpia.R07_Istanbul, []byte{1, 2, 3}, 100000, true},
		"oversized code":        {scarpia.R07_Istanbul, make([]byte, maxCodeSize+1), 100000000, false},
		"EF prefix pre-London":  {scarpia.R09_Berlin, []byte{0xEF}, 100000, true},
		"EF prefix post-London": {scarpia.R10_London, []byte{0xEF}, 100000, false},
		"deposit out of gas":    {scarpia.R07_Istanbul, []byte{1, 2, 3}, 100, false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			context := scarpia.NewMockTransactionContext(ctrl)
			interpreter := scarpia.NewMockInterpreter(ctrl)

			sender := scarpia.Address{1}
			created := scarpia.Address(crypto.CreateAddress(common.Address(sender), 0))

			context.EXPECT().GetNonce(sender).Return(uint64(0))
			context.EXPECT().SetNonce(sender, uint64(1))
			context.EXPECT().GetNonce(sender).Return(uint64(1))
			if test.revision >= scarpia.R09_Berlin {
				context.EXPECT().AccessAccount(created)
			}
			context.EXPECT().GetNonce(created).Return(uint64(0))
			context.EXPECT().GetCodeHash(created).Return(scarpia.Hash{})
			context.EXPECT().CreateSnapshot()
			context.EXPECT().SetNonce(created, uint64(1))
			if test.success {
				context.EXPECT().SetCode(created, scarpia.Code(test.output))
			} else {
				context.EXPECT().RestoreSnapshot(gomock.Any())
			}
			interpreter.EXPECT().Run(gomock.Any()).Return(
				scarpia.Result{Success: true, Output: test.output, GasLeft: test.gasLeft}, nil)

			run := newTestContext(interpreter, context, test.revision)
			result, err := run.Call(scarpia.Create, scarpia.CallParameters{
				Sender: sender,
				Gas:    200000,
			})
			if err != nil {
				t.Fatalf("create returned an unexpected error: %v", err)
			}
			if result.Success != test.success {
				t.Errorf("unexpected success value, want %v, got %v", test.success, result.Success)
			}
			if !test.success {
				if want, got := scarpia.Gas(0), result.GasLeft; want != got {
					t.Errorf("unexpected remaining gas, want %v, got %v", want, got)
				}
			}
		})
	}
}

func TestRunContext_FailedCreatesRollBack(t *testing.T) {
	tests := map[string]struct {
		result         scarpia.Result
		output         []byte
		gasLeft        scarpia.Gas
		createdAddress bool
	}{
		"revert": {
			result:         scarpia.Result{Success: false, Output: []byte("reason"), GasLeft: 42},
			output:         []byte("reason"),
			gasLeft:        42,
			createdAddress: true,
		},
		"failure": {
			result: scarpia.Result{Success: false},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			context := scarpia.NewMockTransactionContext(ctrl)
			interpreter := scarpia.NewMockInterpreter(ctrl)

			sender := scarpia.Address{1}
			created := scarpia.Address(crypto.CreateAddress(common.Address(sender), 0))

			context.EXPECT().GetNonce(sender).Return(uint64(0))
			context.EXPECT().SetNonce(sender, uint64(1))
			context.EXPECT().GetNonce(sender).Return(uint64(1))
			context.EXPECT().GetNonce(created).Return(uint64(0))
			context.EXPECT().GetCodeHash(created).Return(scarpia.Hash{})
			context.EXPECT().CreateSnapshot()
			context.EXPECT().SetNonce(created, uint64(1))
			context.EXPECT().RestoreSnapshot(gomock.Any())
			interpreter.EXPECT().Run(gomock.Any()).Return(test.result, nil)

			run := newTestContext(interpreter, context, scarpia.R07_Istanbul)
			result, err := run.Call(scarpia.Create, scarpia.CallParameters{
				Sender: sender,
				Gas:    100,
			})
			if err != nil {
				t.Fatalf("create returned an unexpected error: %v", err)
			}
			if result.Success {
				t.Errorf("failed create reported success")
			}
			if string(result.Output) != string(test.output) {
				t.Errorf("unexpected output, want %v, got %v", test.output, result.Output)
			}
			if result.GasLeft != test.gasLeft {
				t.Errorf("unexpected remaining gas, want %v, got %v", test.gasLeft, result.GasLeft)
			}
			wantAddress := scarpia.Address{}
			if test.createdAddress {
				wantAddress = created
			}
			if result.CreatedAddress != wantAddress {
				t.Errorf("unexpected created address, want %v, got %v", wantAddress, result.CreatedAddress)
			}
		})
	}
}

func TestCanTransferValue(t *testing.T) {
	sender := scarpia.Address{1}
	recipient := scarpia.Address{2}
	maxValue := scarpia.NewValue(
		math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64)

	tests := map[string]struct {
		value     scarpia.Value
		recipient *scarpia.Address
		setup     func(context *scarpia.MockTransactionContext)
		want      bool
	}{
		"zero value": {
			value: scarpia.Value{},
			want:  true,
		},
		"sufficient balance": {
			value:     scarpia.NewValue(10),
			recipient: &recipient,
			setup: func(context *scarpia.MockTransactionContext) {
				context.EXPECT().GetBalance(sender).Return(scarpia.NewValue(10))
				context.EXPECT().GetBalance(recipient).Return(scarpia.NewValue(0))
			},
			want: true,
		},
		"insufficient balance": {
			value:     scarpia.NewValue(10),
			recipient: &recipient,
			setup: func(context *scarpia.MockTransactionContext) {
				context.EXPECT().GetBalance(sender).Return(scarpia.NewValue(9))
			},
			want: false,
		},
		"self transfer": {
			value:     scarpia.NewValue(10),
			recipient: &sender,
			setup: func(context *scarpia.MockTransactionContext) {
				context.EXPECT().GetBalance(sender).Return(scarpia.NewValue(10))
			},
			want: true,
		},
		"receiver overflow": {
			value:     scarpia.NewValue(1),
			recipient: &recipient,
			setup: func(context *scarpia.MockTransactionContext) {
				context.EXPECT().GetBalance(sender).Return(scarpia.NewValue(1))
				context.EXPECT().GetBalance(recipient).Return(maxValue)
			},
			want: false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			context := scarpia.NewMockTransactionContext(ctrl)
			if test.setup != nil {
				test.setup(context)
			}
			r := runContext{TransactionContext: context}
			if want, got := test.want, r.canTransferValue(test.value, sender, test.recipient); want != got {
				t.Errorf("unexpected transfer check result, want %v, got %v", want, got)
			}
		})
	}
}

func TestTransferValue_NoOpTransfersSkipBalanceUpdates(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	r := runContext{TransactionContext: context}

	// neither zero-value transfers nor self transfers touch any balance
	r.transferValue(scarpia.Value{}, scarpia.Address{1}, scarpia.Address{2})
	r.transferValue(scarpia.NewValue(10), scarpia.Address{1}, scarpia.Address{1})
}

func TestIncrementNonce_OverflowIsDetected(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := scarpia.NewMockTransactionContext(ctrl)
	r := runContext{TransactionContext: context}

	context.EXPECT().GetNonce(scarpia.Address{1}).Return(uint64(math.MaxUint64))
	if err := r.incrementNonce(scarpia.Address{1}); err == nil {
		t.Errorf("nonce overflow was not detected")
	}
}

func TestIsRevert(t *testing.T) {
	tests := map[string]struct {
		result scarpia.Result
		err    error
		want   bool
	}{
		"successful":           {scarpia.Result{Success: true}, nil, false},
		"revert with gas":      {scarpia.Result{GasLeft: 1}, nil, true},
		"revert with output":   {scarpia.Result{Output: []byte{1}}, nil, true},
		"failure":              {scarpia.Result{}, nil, false},
		"error from the engine": {scarpia.Result{GasLeft: 1}, scarpia.ConstError("boom"), false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, isRevert(test.result, test.err); want != got {
				t.Errorf("unexpected revert classification, want %v, got %v", want, got)
			}
		})
	}
}
