// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package harness provides a uniform facade for executing contract calls on
// interchangeable interpreters. An EVM instance owns a mutable execution
// state, deploys code into it, runs ABI-described calls through any
// registered interpreter, and classifies outcomes for test assertions.
package harness

import (
	"fmt"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/log"
)

// Status classifies the outcome of a completed call.
type Status int

const (
	StatusSuccess Status = iota // < regular successful termination
	StatusRevert                // < execution ended in a revert
	StatusFailed                // < any other failure, consuming all gas
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRevert:
		return "revert"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ExecutionState is the mutable state an EVM executes calls on. It combines
// the transaction-level modification surface with the ability to deploy code
// directly and to mark transaction boundaries. An execution state is held
// exclusively by its EVM; cheat effects installed during a call remain
// visible to the rest of the call tree and to later calls.
type ExecutionState interface {
	scarpia.TransactionContext
	scarpia.CodeStore

	// Backend grants access to the committed view this state is layered on.
	Backend() scarpia.Backend

	// BeginTransaction discards transaction-scoped artifacts like access
	// lists, transient storage, and collected logs.
	BeginTransaction()
}

// Config collects the parameters shaping the execution of calls on an EVM.
type Config struct {
	// GasLimit is the gas budget of each top-level call. If zero, the block
	// gas limit reported by the backend is used instead.
	GasLimit scarpia.Gas

	// Revision selects the chain rules contracts are executed under,
	// defaulting to Istanbul.
	Revision scarpia.Revision

	// Interceptor, if set, wraps the run context of every execution frame,
	// enabling call diversions like the cheat dispatch.
	Interceptor ContextInterceptor
}

// EVM drives an interpreter against an exclusively owned execution state.
// It is the single entry point for tests: the same call, deployment, and
// assertion surface works identically for every registered interpreter.
// Instances are not safe for concurrent use.
type EVM struct {
	interpreter scarpia.Interpreter
	state       ExecutionState
	config      Config
}

// NewEVM creates an EVM running calls with the given interpreter on the
// given state. The EVM takes ownership of the state.
func NewEVM(interpreter scarpia.Interpreter, state ExecutionState, config Config) *EVM {
	return &EVM{
		interpreter: interpreter,
		state:       state,
		config:      config,
	}
}

// Reset replaces the owned execution state. Deployed contracts and all
// buffered modifications are dropped; the configuration, including an
// installed interceptor, is retained.
func (e *EVM) Reset(state ExecutionState) {
	e.state = state
}

// State grants access to the owned execution state for inspection and
// direct manipulation between calls.
func (e *EVM) State() ExecutionState {
	return e.state
}

// Contract pairs an address with the code to be deployed there.
type Contract struct {
	Address scarpia.Address
	Code    scarpia.Code
}

// InitializeContracts installs the given contracts in the owned state,
// without running any constructor code. Deploying to the same address twice
// retains the last code. Balances and nonces are left untouched.
func (e *EVM) InitializeContracts(contracts ...Contract) {
	for _, contract := range contracts {
		e.state.InstallCode(contract.Address, contract.Code)
	}
}

// ErrNoContract is returned when a call targets an address without any
// deployed code.
type ErrNoContract struct {
	Address scarpia.Address
}

func (e *ErrNoContract) Error() string {
	return fmt.Sprintf("no contract deployed at address %v", e.Address)
}

// RawResult is the outcome of an un-decoded call.
type RawResult struct {
	Output  scarpia.Data
	Status  Status
	GasLeft scarpia.Gas
	Logs    []scarpia.Log
}

// CallRaw runs a plain call with the given calldata on the owned state and
// reports the raw outcome. No code lookup is enforced, so calls to addresses
// served entirely by an interceptor are possible.
func (e *EVM) CallRaw(from, to scarpia.Address, input scarpia.Data, value scarpia.Value) (RawResult, error) {
	return e.execute(from, to, input, value, false)
}

// Result is the outcome of an ABI-described call.
type Result struct {
	// Values holds the decoded return values in declaration order. It is
	// only populated for calls ending in StatusSuccess.
	Values []any

	Status Status

	// GasUsed is the gas consumed by the call as metered by the engine.
	GasUsed scarpia.Gas

	Logs []scarpia.Log
}

// Call encodes and runs a call of the given method on the contract deployed
// at the given address. The execution is static if the method's declared
// mutability is view or pure. The raw output of successful calls is decoded
// according to the method's return signature; encode and decode failures
// and a missing contract at the destination abort the call with an error.
func (e *EVM) Call(from, to scarpia.Address, value scarpia.Value, method abi.Method, args ...any) (Result, error) {
	if _, found := e.state.LookupCode(to); !found {
		return Result{}, &ErrNoContract{Address: to}
	}

	arguments, err := method.Inputs.Pack(args...)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode arguments for %s: %w", method.Name, err)
	}
	input := make(scarpia.Data, 0, len(method.ID)+len(arguments))
	input = append(input, method.ID...)
	input = append(input, arguments...)

	static := method.Constant ||
		method.StateMutability == "view" ||
		method.StateMutability == "pure"

	raw, err := e.execute(from, to, input, value, static)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Status:  raw.Status,
		GasUsed: e.gasLimit() - raw.GasLeft,
		Logs:    raw.Logs,
	}
	if raw.Status == StatusSuccess && len(method.Outputs) > 0 {
		values, err := method.Outputs.Unpack(raw.Output)
		if err != nil {
			return Result{}, fmt.Errorf("failed to decode output of %s: %w", method.Name, err)
		}
		result.Values = values
	}
	return result, nil
}

// CheckSuccess classifies whether a call outcome meets the test's
// expectation. Without an expected failure, only a successful status counts.
// With an expected failure, a revert counts, and a successful termination
// counts unless the contract's conventional failure flag is set.
func (e *EVM) CheckSuccess(addr scarpia.Address, status Status, shouldFail bool) bool {
	if !shouldFail {
		return status == StatusSuccess
	}
	switch status {
	case StatusRevert:
		return true
	case StatusSuccess:
		failed, err := e.Failed(addr)
		if err != nil {
			// contracts without the probe are treated as not failed
			return true
		}
		return !failed
	default:
		log.Error("unexpected status of an expected failure", "addr", addr, "status", status)
		return false
	}
}

// Failed probes the conventional `failed()` flag of a ds-test style test
// contract. The probe fails if the contract does not expose the flag.
func (e *EVM) Failed(addr scarpia.Address) (bool, error) {
	result, err := e.Call(scarpia.Address{}, addr, scarpia.Value{}, failedMethod)
	if err != nil {
		return false, err
	}
	if result.Status != StatusSuccess {
		return false, fmt.Errorf("failure probe ended in status %v", result.Status)
	}
	if len(result.Values) != 1 {
		return false, fmt.Errorf("unexpected number of probe results: %d", len(result.Values))
	}
	failed, ok := result.Values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected probe result type %T", result.Values[0])
	}
	return failed, nil
}

func (e *EVM) execute(from, to scarpia.Address, input scarpia.Data, value scarpia.Value, static bool) (RawResult, error) {
	e.state.BeginTransaction()
	e.prepareAccessList(from, to)

	backend := e.state.Backend()
	context := runContext{
		TransactionContext: e.state,
		interpreter:        e.interpreter,
		backend:            backend,
		transactionParameters: scarpia.TransactionParameters{
			Origin:   from,
			GasPrice: backend.GasPrice(),
		},
		revision:    e.config.Revision,
		interceptor: e.config.Interceptor,
		static:      static,
	}

	result, err := context.withInterception().Call(scarpia.Call, scarpia.CallParameters{
		Sender:    from,
		Recipient: to,
		Value:     value,
		Input:     input,
		Gas:       e.gasLimit(),
	})
	if err != nil {
		return RawResult{}, err
	}

	status := StatusSuccess
	if !result.Success {
		status = StatusFailed
		if result.GasLeft > 0 || len(result.Output) > 0 {
			status = StatusRevert
		}
	}

	return RawResult{
		Output:  result.Output,
		Status:  status,
		GasLeft: result.GasLeft,
		Logs:    e.state.GetLogs(),
	}, nil
}

func (e *EVM) gasLimit() scarpia.Gas {
	if e.config.GasLimit != 0 {
		return e.config.GasLimit
	}
	return e.state.Backend().GasLimit()
}

// prepareAccessList warms up the addresses known to be accessed before the
// first instruction executes, as required since the Berlin revision.
func (e *EVM) prepareAccessList(from, to scarpia.Address) {
	if e.config.Revision < scarpia.R09_Berlin {
		return
	}
	e.state.AccessAccount(from)
	e.state.AccessAccount(to)
	numPrecompiled := byte(9)
	if e.config.Revision >= scarpia.R13_Cancun {
		numPrecompiled = 10
	}
	for i := byte(1); i <= numPrecompiled; i++ {
		e.state.AccessAccount(scarpia.Address{19: i})
	}
	if e.config.Revision >= scarpia.R12_Shanghai {
		e.state.AccessAccount(e.state.Backend().Coinbase())
	}
}

var failedMethod = newFailedMethod()

func newFailedMethod() abi.Method {
	boolType, err := abi.NewType("bool", "", nil)
	if err != nil {
		panic("failed to create bool type: " + err.Error())
	}
	return abi.NewMethod("failed", "failed()", abi.Function, "nonpayable",
		false, false, nil, abi.Arguments{{Type: boolType}})
}
