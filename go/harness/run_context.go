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
	"fmt"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"

	// geth dependencies
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MaxCallDepth is the maximum nesting depth of calls, as defined by the
// chain specification.
const MaxCallDepth = 1024

const (
	maxCodeSize          = 24576
	createGasCostPerByte = 200
)

var emptyCodeHash = scarpia.Hash(crypto.Keccak256(nil))

// ContextInterceptor wraps the run context handed to an engine for an
// execution frame. The returned context is free to divert individual
// operations before delegating to the wrapped one; the cheat layer is
// implemented this way. Interceptors are applied to every frame, so calls
// issued by nested contract executions pass through them as well.
type ContextInterceptor func(scarpia.RunContext) scarpia.RunContext

// runContext implements the scarpia.RunContext interface for the execution
// of a call tree on a transaction context. Each frame operates on its own
// copy, carrying the frame's depth and static mode.
type runContext struct {
	scarpia.TransactionContext
	interpreter           scarpia.Interpreter
	backend               scarpia.Backend
	transactionParameters scarpia.TransactionParameters
	revision              scarpia.Revision
	interceptor           ContextInterceptor
	depth                 int
	static                bool
}

// withInterception produces the context surface handed to the engine.
func (r runContext) withInterception() scarpia.RunContext {
	if r.interceptor == nil {
		return r
	}
	return r.interceptor(r)
}

// blockParameters assembles the chain environment of the current frame. The
// backend is consulted anew for every frame, so context overrides installed
// during execution are visible to all subsequently started frames.
func (r runContext) blockParameters() scarpia.BlockParameters {
	return scarpia.BlockParameters{
		ChainID:     r.backend.ChainID(),
		BlockNumber: r.backend.BlockNumber(),
		Timestamp:   r.backend.Timestamp(),
		Coinbase:    r.backend.Coinbase(),
		GasLimit:    r.backend.GasLimit(),
		PrevRandao:  r.backend.PrevRandao(),
		BaseFee:     r.backend.BaseFee(),
		BlobBaseFee: r.backend.BlobBaseFee(),
		Revision:    r.revision,
	}
}

// runFrame hands a prepared frame to the engine. The context the engine sees
// is the interception surface, so nested calls issued by the frame come back
// through this run context.
func (r runContext) runFrame(
	kind scarpia.CallKind,
	parameters scarpia.CallParameters,
	recipient scarpia.Address,
	input scarpia.Data,
	codeHash scarpia.Hash,
	code scarpia.Code,
) (scarpia.Result, error) {
	return r.interpreter.Run(scarpia.Parameters{
		BlockParameters:       r.blockParameters(),
		TransactionParameters: r.transactionParameters,
		Context:               r.withInterception(),
		Kind:                  kind,
		Static:                r.static,
		Depth:                 r.depth - 1, // depth has already been incremented
		Gas:                   parameters.Gas,
		Recipient:             recipient,
		Sender:                parameters.Sender,
		Input:                 input,
		Value:                 parameters.Value,
		CodeHash:              &codeHash,
		Code:                  code,
	})
}

func (r runContext) Call(kind scarpia.CallKind, parameters scarpia.CallParameters) (scarpia.CallResult, error) {
	if kind == scarpia.Create || kind == scarpia.Create2 {
		return r.executeCreate(kind, parameters)
	}
	return r.executeCall(kind, parameters)
}

func (r runContext) executeCall(kind scarpia.CallKind, parameters scarpia.CallParameters) (scarpia.CallResult, error) {
	failure := scarpia.CallResult{Success: false, GasLeft: parameters.Gas}
	if r.depth > MaxCallDepth {
		return failure, nil
	}
	r.depth++

	transfersValue := kind == scarpia.Call || kind == scarpia.CallCode
	if transfersValue && !r.canTransferValue(parameters.Value, parameters.Sender, &parameters.Recipient) {
		return failure, nil
	}
	snapshot := r.CreateSnapshot()
	recipient := parameters.Recipient

	if kind == scarpia.StaticCall {
		r.static = true
	}

	if r.revision >= scarpia.R09_Berlin &&
		!scarpia.IsPrecompiledContract(recipient, r.revision) &&
		!r.AccountExists(recipient) &&
		parameters.Value.Cmp(scarpia.Value{}) == 0 {
		return scarpia.CallResult{Success: true, GasLeft: parameters.Gas}, nil
	}

	if transfersValue {
		r.transferValue(parameters.Value, parameters.Sender, recipient)
	}

	if result, ok := handlePrecompiled(r.revision, parameters.Input, recipient, parameters.Gas); ok {
		if !result.Success {
			r.RestoreSnapshot(snapshot)
			result.GasLeft = 0
		}
		return result, nil
	}

	codeSource := recipient
	if kind == scarpia.DelegateCall || kind == scarpia.CallCode {
		codeSource = parameters.CodeAddress
	}
	codeHash := r.GetCodeHash(codeSource)

	result, err := r.runFrame(kind, parameters, recipient, parameters.Input, codeHash, r.GetCode(codeSource))
	if err != nil || !result.Success {
		r.RestoreSnapshot(snapshot)
		if !isRevert(result, err) {
			// reverts hand the remaining gas back, all other failures consume it
			result.GasLeft = 0
		}
	}

	return scarpia.CallResult{
		Output:    result.Output,
		GasLeft:   result.GasLeft,
		GasRefund: result.GasRefund,
		Success:   result.Success,
	}, err
}

func (r runContext) executeCreate(kind scarpia.CallKind, parameters scarpia.CallParameters) (scarpia.CallResult, error) {
	failure := scarpia.CallResult{Success: false, GasLeft: parameters.Gas}
	if r.depth > MaxCallDepth {
		return failure, nil
	}
	r.depth++

	if !r.canTransferValue(parameters.Value, parameters.Sender, &parameters.Recipient) {
		return failure, nil
	}
	if err := r.incrementNonce(parameters.Sender); err != nil {
		return failure, nil
	}

	initCode := scarpia.Code(parameters.Input)
	initCodeHash := scarpia.Hash(crypto.Keccak256(initCode))
	createdAddress := createAddress(kind, parameters.Sender, r.GetNonce(parameters.Sender)-1,
		parameters.Salt, initCodeHash)

	if r.revision >= scarpia.R09_Berlin {
		r.AccessAccount(createdAddress)
	}

	// a non-zero nonce or non-empty code at the target address is a collision
	if r.GetNonce(createdAddress) != 0 ||
		(r.GetCodeHash(createdAddress) != (scarpia.Hash{}) &&
			r.GetCodeHash(createdAddress) != emptyCodeHash) {
		return scarpia.CallResult{}, nil
	}
	snapshot := r.CreateSnapshot()
	r.SetNonce(createdAddress, 1)
	r.transferValue(parameters.Value, parameters.Sender, createdAddress)

	result, err := r.runFrame(kind, parameters, createdAddress, nil, initCodeHash, initCode)
	if err != nil || !result.Success {
		r.RestoreSnapshot(snapshot)
		if !isRevert(result, err) {
			return scarpia.CallResult{}, err
		}
		return scarpia.CallResult{Output: result.Output, GasLeft: result.GasLeft, CreatedAddress: createdAddress}, nil
	}

	deployed := result.Output
	depositGas := scarpia.Gas(len(deployed) * createGasCostPerByte)
	deployable := len(deployed) <= maxCodeSize &&
		result.GasLeft >= depositGas &&
		!(r.revision >= scarpia.R10_London && len(deployed) > 0 && deployed[0] == 0xEF)

	if deployable {
		result.GasLeft -= depositGas
		r.SetCode(createdAddress, scarpia.Code(deployed))
	} else {
		r.RestoreSnapshot(snapshot)
		result.GasLeft = 0
		deployed = nil
	}

	return scarpia.CallResult{
		Output:         deployed,
		GasLeft:        result.GasLeft,
		GasRefund:      result.GasRefund,
		Success:        deployable,
		CreatedAddress: createdAddress,
	}, nil
}

// canTransferValue checks that the sender covers the given value and that the
// transfer would not overflow the recipient's balance.
func (r runContext) canTransferValue(value scarpia.Value, sender scarpia.Address, recipient *scarpia.Address) bool {
	if value == (scarpia.Value{}) {
		return true
	}
	if r.GetBalance(sender).Cmp(value) < 0 {
		return false
	}
	if recipient == nil || sender == *recipient {
		return true
	}
	current := r.GetBalance(*recipient)
	updated := scarpia.Add(current, value)
	return updated.Cmp(current) >= 0 && updated.Cmp(value) >= 0
}

// transferValue moves the given value between the two accounts. Only to be
// called after canTransferValue approved the transfer.
func (r runContext) transferValue(value scarpia.Value, sender scarpia.Address, recipient scarpia.Address) {
	if value == (scarpia.Value{}) || sender == recipient {
		return
	}
	r.SetBalance(sender, scarpia.Sub(r.GetBalance(sender), value))
	r.SetBalance(recipient, scarpia.Add(r.GetBalance(recipient), value))
}

func (r runContext) incrementNonce(address scarpia.Address) error {
	nonce := r.GetNonce(address)
	if nonce+1 < nonce {
		return fmt.Errorf("nonce overflow")
	}
	r.SetNonce(address, nonce+1)
	return nil
}

func createAddress(kind scarpia.CallKind, sender scarpia.Address, nonce uint64, salt scarpia.Hash, initHash scarpia.Hash) scarpia.Address {
	if kind == scarpia.Create2 {
		return scarpia.Address(crypto.CreateAddress2(common.Address(sender), common.Hash(salt), initHash[:]))
	}
	return scarpia.Address(crypto.CreateAddress(common.Address(sender), nonce))
}

// isRevert tells an orderly revert apart from other failures. A revert is an
// unsuccessful execution that still reports remaining gas or output data.
func isRevert(result scarpia.Result, err error) bool {
	return err == nil && !result.Success && (result.GasLeft > 0 || len(result.Output) > 0)
}
