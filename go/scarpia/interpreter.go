// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scarpia

import "fmt"

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package scarpia

// Interpreter is a component capable of executing EVM byte-code. It is the
// engine at the bottom of every execution harness. Interpreters are opaque:
// harness code configures them, runs them, and consumes their results, but
// never reaches into their internals.
// To obtain an Interpreter instance, client code should use NewInterpreter()
// provided by the registry file in this package.
type Interpreter interface {
	// Run executes the given code in the given context and reports the
	// outcome. A nil error means the code was processed correctly, even if
	// the execution itself ended in a revert or ran out of gas. A non-nil
	// error indicates a problem inside the interpreter, in which case the
	// result is undefined. Asking for a revision the interpreter does not
	// support yields an ErrUnsupportedRevision error.
	// Implementations must be safe for concurrent use, so multiple runs may
	// be conducted in parallel.
	Run(Parameters) (Result, error)
}

// Parameters bundles everything needed for a single code execution: the
// enclosing block and transaction, the run context granting state access,
// and the properties of the call frame itself.
type Parameters struct {
	BlockParameters
	TransactionParameters
	Context   RunContext
	Kind      CallKind
	Static    bool
	Depth     int
	Gas       Gas
	Recipient Address
	Sender    Address
	Input     Data
	Value     Value
	CodeHash  *Hash
	Code      Code
}

// BlockParameters describes the block an execution is embedded in.
type BlockParameters struct {
	ChainID     Word
	BlockNumber int64
	Timestamp   int64
	Coinbase    Address
	GasLimit    Gas
	PrevRandao  Hash
	BaseFee     Value
	BlobBaseFee Value
	Revision    Revision
}

// TransactionParameters describes the transaction an execution is part of.
type TransactionParameters struct {
	Origin     Address
	GasPrice   Value
	BlobHashes []Hash
}

// AccessStatus signals whether an account or storage slot was already on
// the access list when it was touched.
type AccessStatus bool

const (
	ColdAccess AccessStatus = false
	WarmAccess AccessStatus = true
)

// Result carries the outcome of an EVM code execution.
type Result struct {
	Success   bool // false when the execution ended in a revert
	Output    Data
	GasLeft   Gas
	GasRefund Gas
}

// Data is the raw input or output of a contract invocation.
type Data []byte

// Gas measures the computational budget of an execution.
type Gas int64

// Snapshot identifies a recoverable world-state checkpoint within a
// transaction context.
type Snapshot int

// Log is a single log record emitted during a contract execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    Data
}

// CallKind names the flavor of a nested contract call.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	StaticCall
	CallCode
	Create
	Create2
)

// CallParameters summarizes the parameters of a nested contract call issued
// through a RunContext.
type CallParameters struct {
	Sender      Address
	Recipient   Address // < not relevant for CREATE and CREATE2
	Value       Value   // < ignored by static calls, considered to be 0
	Input       Data
	Gas         Gas
	Salt        Hash // < only relevant for CREATE2 calls
	CodeAddress Address
}

// CallResult summarizes the outcome of a nested contract call issued through
// a RunContext.
type CallResult struct {
	Output         Data
	GasLeft        Gas
	GasRefund      Gas
	CreatedAddress Address // < only meaningful for CREATE and CREATE2
	Success        bool    // false when the execution ended in a revert
}

// Revision identifies an EVM specification revision (a hard fork).
type Revision int

// The revisions known to Scarpia, in chronological order.
const (
	R07_Istanbul Revision = iota
	R09_Berlin
	R10_London
	R11_Paris
	R12_Shanghai
	R13_Cancun
	numRevisions int = iota
)

// R99_UnknownNextRevision is a placeholder for a future revision no engine
// supports yet. It is used by tests probing unsupported-revision handling.
const R99_UnknownNextRevision Revision = 99

// ErrUnsupportedRevision is returned by engines asked to run a revision newer
// than the one they support.
type ErrUnsupportedRevision struct {
	Revision Revision
}

func (e *ErrUnsupportedRevision) Error() string {
	return fmt.Sprintf("unsupported revision %d", e.Revision)
}
