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
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Operation is one entry of the cheat dispatch table.
type Operation struct {
	Name      string
	Signature string
	Selector  [4]byte

	method abi.Method
	apply  applyFunc
}

type applyFunc func(
	backend *Backend,
	context scarpia.TransactionContext,
	method abi.Method,
	args []any,
) (scarpia.Data, error)

// EncodeCall encodes a call to this operation, selector plus ABI-encoded
// arguments, ready to be sent to the reserved address.
func (o Operation) EncodeCall(args ...any) (scarpia.Data, error) {
	arguments, err := o.method.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments for %s: %w", o.Signature, err)
	}
	calldata := make(scarpia.Data, 0, len(o.method.ID)+len(arguments))
	calldata = append(calldata, o.method.ID...)
	return append(calldata, arguments...), nil
}

// DecodeOutput decodes the output of a successful call to this operation
// according to its declared return types.
func (o Operation) DecodeOutput(output scarpia.Data) ([]any, error) {
	return o.method.Outputs.Unpack(output)
}

var operations = buildOperations()

// OperationByName looks up a cheat operation by its short name.
func OperationByName(name string) (Operation, bool) {
	for _, operation := range operations {
		if operation.Name == name {
			return operation, true
		}
	}
	return Operation{}, false
}

// Operations lists the supported cheat operations sorted by name.
func Operations() []Operation {
	list := make([]Operation, 0, len(operations))
	for _, operation := range operations {
		list = append(list, operation)
	}
	slices.SortFunc(list, func(a, b Operation) int {
		return strings.Compare(a.Name, b.Name)
	})
	return list
}

func buildOperations() map[[4]byte]Operation {
	var (
		typeUint8   = mustType("uint8")
		typeUint256 = mustType("uint256")
		typeAddress = mustType("address")
		typeBytes32 = mustType("bytes32")
	)

	entries := []struct {
		name    string
		inputs  abi.Arguments
		outputs abi.Arguments
		apply   applyFunc
	}{
		{
			name:   "warp",
			inputs: abi.Arguments{{Type: typeUint256}},
			apply:  applyWarp,
		},
		{
			name:   "roll",
			inputs: abi.Arguments{{Type: typeUint256}},
			apply:  applyRoll,
		},
		{
			name:   "store",
			inputs: abi.Arguments{{Type: typeAddress}, {Type: typeBytes32}, {Type: typeBytes32}},
			apply:  applyStore,
		},
		{
			name:    "load",
			inputs:  abi.Arguments{{Type: typeAddress}, {Type: typeBytes32}},
			outputs: abi.Arguments{{Type: typeBytes32}},
			apply:   applyLoad,
		},
		{
			name:    "addr",
			inputs:  abi.Arguments{{Type: typeUint256}},
			outputs: abi.Arguments{{Type: typeAddress}},
			apply:   applyAddr,
		},
		{
			name:    "sign",
			inputs:  abi.Arguments{{Type: typeUint256}, {Type: typeBytes32}},
			outputs: abi.Arguments{{Type: typeUint8}, {Type: typeBytes32}, {Type: typeBytes32}},
			apply:   applySign,
		},
	}

	table := make(map[[4]byte]Operation, len(entries))
	for _, entry := range entries {
		method := abi.NewMethod(entry.name, entry.name, abi.Function, "nonpayable",
			false, false, entry.inputs, entry.outputs)
		table[[4]byte(method.ID)] = Operation{
			Name:      entry.name,
			Signature: method.Sig,
			Selector:  [4]byte(method.ID),
			method:    method,
			apply:     entry.apply,
		}
	}
	return table
}

// dispatch decodes the call data of an intercepted call and applies the
// requested cheat operation. Failures never surface as errors but as
// revert-shaped results, keeping them observable to the calling contract.
func dispatch(
	backend *Backend,
	context scarpia.TransactionContext,
	parameters scarpia.CallParameters,
) (scarpia.CallResult, error) {
	input := parameters.Input
	if len(input) < 4 {
		return revertWith(parameters.Gas, "unknown cheatcode"), nil
	}
	operation, found := operations[[4]byte(input[:4])]
	if !found {
		return revertWith(parameters.Gas, "unknown cheatcode"), nil
	}
	args, err := operation.method.Inputs.Unpack(input[4:])
	if err != nil {
		return revertWith(parameters.Gas,
			fmt.Sprintf("malformed calldata for %s", operation.Signature)), nil
	}
	output, err := operation.apply(backend, context, operation.method, args)
	if err != nil {
		return revertWith(parameters.Gas,
			fmt.Sprintf("%s: %v", operation.Name, err)), nil
	}
	return scarpia.CallResult{
		Output:  output,
		GasLeft: parameters.Gas, // cheat operations are not metered
		Success: true,
	}, nil
}

func applyWarp(backend *Backend, _ scarpia.TransactionContext, _ abi.Method, args []any) (scarpia.Data, error) {
	timestamp, err := asInt64(args[0])
	if err != nil {
		return nil, err
	}
	backend.cheats.BlockTimestamp = &timestamp
	return successOutput(), nil
}

func applyRoll(backend *Backend, _ scarpia.TransactionContext, _ abi.Method, args []any) (scarpia.Data, error) {
	number, err := asInt64(args[0])
	if err != nil {
		return nil, err
	}
	backend.cheats.BlockNumber = &number
	return successOutput(), nil
}

func applyStore(_ *Backend, context scarpia.TransactionContext, _ abi.Method, args []any) (scarpia.Data, error) {
	address := scarpia.Address(args[0].(common.Address))
	key := scarpia.Key(args[1].([32]byte))
	value := scarpia.Word(args[2].([32]byte))
	context.SetStorage(address, key, value)
	return successOutput(), nil
}

func applyLoad(_ *Backend, context scarpia.TransactionContext, method abi.Method, args []any) (scarpia.Data, error) {
	address := scarpia.Address(args[0].(common.Address))
	key := scarpia.Key(args[1].([32]byte))
	value := context.GetStorage(address, key)
	return method.Outputs.Pack([32]byte(value))
}

func applyAddr(_ *Backend, _ scarpia.TransactionContext, method abi.Method, args []any) (scarpia.Data, error) {
	key, err := privateKey(args[0])
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(crypto.PubkeyToAddress(key.PublicKey))
}

func applySign(_ *Backend, _ scarpia.TransactionContext, method abi.Method, args []any) (scarpia.Data, error) {
	key, err := privateKey(args[0])
	if err != nil {
		return nil, err
	}
	digest := args[1].([32]byte)
	signature, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, err
	}
	var r, s [32]byte
	copy(r[:], signature[:32])
	copy(s[:], signature[32:64])
	// the recovery id is reported in its pre-EIP-155 form
	return method.Outputs.Pack(signature[64]+27, r, s)
}

// successOutput is the fixed reply of effect-only cheat operations, as
// established by the reference tooling.
func successOutput() scarpia.Data {
	return bytes.Repeat([]byte{0x01}, 32)
}

var (
	revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]
	revertArgument = abi.Arguments{{Type: mustType("string")}}
)

// revertWith synthesizes a revert-shaped result carrying a standard
// Error(string) reason, so that cheat failures are distinguishable from
// ordinary execution reverts by decoding the payload.
func revertWith(gas scarpia.Gas, reason string) scarpia.CallResult {
	payload, err := revertArgument.Pack(reason)
	if err != nil {
		panic(fmt.Sprintf("failed to encode revert reason: %v", err))
	}
	return scarpia.CallResult{
		Output:  append(bytes.Clone(revertSelector), payload...),
		GasLeft: gas,
		Success: false,
	}
}

func asInt64(arg any) (int64, error) {
	value := arg.(*big.Int)
	if !value.IsInt64() {
		return 0, fmt.Errorf("value %v is out of range", value)
	}
	return value.Int64(), nil
}

func privateKey(arg any) (*ecdsa.PrivateKey, error) {
	buffer := make([]byte, 32)
	arg.(*big.Int).FillBytes(buffer)
	key, err := crypto.ToECDSA(buffer)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func mustType(name string) abi.Type {
	result, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create ABI type %s: %v", name, err))
	}
	return result
}
