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

//go:generate mockgen -source backend.go -destination backend_mock.go -package scarpia

// Backend is the source of committed chain state and chain environment
// information an execution state is built on. A Backend is read-only; all
// modifications produced by contract executions are buffered in the execution
// state layered on top of it.
//
// Backends may be wrapped to alter the environment they report. The cheat
// layer uses this to override individual environment values without touching
// the underlying chain data.
type Backend interface {
	// --- chain environment ---

	ChainID() Word
	BlockNumber() int64
	Timestamp() int64
	Coinbase() Address
	GasLimit() Gas
	PrevRandao() Hash
	BaseFee() Value
	BlobBaseFee() Value
	GasPrice() Value

	// BlockHash returns the hash of the block with the given number, or the
	// zero hash if the block is not part of the known history.
	BlockHash(number int64) Hash

	// --- committed account state ---

	AccountExists(Address) bool
	Balance(Address) Value
	Nonce(Address) uint64
	CommittedCode(Address) Code
	CommittedCodeHash(Address) Hash
	CommittedStorage(Address, Key) Word
}
