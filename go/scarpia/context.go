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

//go:generate mockgen -source context.go -destination context_mock.go -package scarpia

// WorldState is an interface to access and manipulate the state of the block
// chain. The state of the chain is a collection of accounts, each with a
// balance, a nonce, optional code and storage.
type WorldState interface {
	AccountExists(Address) bool

	GetBalance(Address) Value
	SetBalance(Address, Value)

	GetNonce(Address) uint64
	SetNonce(Address, uint64)

	GetCode(Address) Code
	GetCodeHash(Address) Hash
	GetCodeSize(Address) int
	SetCode(Address, Code)

	GetStorage(Address, Key) Word
	SetStorage(Address, Key, Word) StorageStatus

	// Destroys addr and transfers its balance to beneficiary.
	// If beneficiary does not exist, the balance is transferred anyway.
	// Returns true if it is the first time destroying this addr in the ongoing
	// transaction, false otherwise.
	SelfDestruct(addr Address, beneficiary Address) bool
}

// TransactionContext is an interface to access and manipulate the world state
// within a transaction. All modifications on the world state are buffered in
// a transaction context, which can be snapshotted and restored. Additionally,
// a transaction context provides infrastructure for tracking transaction
// state information beyond the world state. In particular, transient storage,
// access lists, and logs are managed.
type TransactionContext interface {
	WorldState

	CreateSnapshot() Snapshot
	RestoreSnapshot(Snapshot)

	GetTransientStorage(Address, Key) Word
	SetTransientStorage(Address, Key, Word)

	AccessAccount(Address) AccessStatus
	AccessStorage(Address, Key) AccessStatus

	EmitLog(Log)
	GetLogs() []Log

	// GetBlockHash returns the hash of the block with the given number.
	GetBlockHash(number int64) Hash

	// -- legacy API needed by the geth bridge, to be removed in the future ---

	// Deprecated: should not be needed when using result of SetStorage(..)
	GetCommittedStorage(addr Address, key Key) Word
	// Deprecated: should not be needed when using result of SetStorage(..)
	IsAddressInAccessList(addr Address) bool
	// Deprecated: should not be needed when using result of SetStorage(..)
	IsSlotInAccessList(addr Address, key Key) (addressPresent, slotPresent bool)
	// Deprecated: should not be needed
	HasSelfDestructed(addr Address) bool
}

// RunContext is the full operation surface an engine may invoke during the
// execution of a contract. Since a call-interception layer has to be able to
// wrap this surface completely, any extension of this interface must be
// mirrored there.
type RunContext interface {
	TransactionContext

	Call(kind CallKind, parameters CallParameters) (CallResult, error)
}

// CodeStore is implemented by execution states that can report and install
// contract code outside of transaction execution. It is the seam used by
// harnesses to deploy test contracts without running deployment transactions.
type CodeStore interface {
	// LookupCode returns the code deployed at the given address and whether
	// the account carries any recorded code at all. An account without code
	// is distinguishable from an account with empty code.
	LookupCode(Address) (Code, bool)

	// InstallCode records the given code for the given address, creating the
	// account as needed. The code hash is updated to the keccak256 hash of
	// the provided code.
	InstallCode(Address, Code)
}
