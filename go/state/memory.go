// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"bytes"
	"maps"
	"strconv"
	"sync"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

// blockHashCacheSize bounds the number of synthetic block hashes retained by
// a memory backend. It matches the BLOCKHASH window of the EVM, so within a
// single execution no hash is ever computed twice.
const blockHashCacheSize = 256

// Account describes the committed state of a single account as held by a
// MemoryBackend. The default account is an empty account.
type Account struct {
	Balance scarpia.Value
	Nonce   uint64
	Code    scarpia.Code
	Storage map[scarpia.Key]scarpia.Word
}

func (a *Account) Clone() Account {
	return Account{
		Balance: a.Balance,
		Nonce:   a.Nonce,
		Code:    bytes.Clone(a.Code),
		Storage: maps.Clone(a.Storage),
	}
}

// MemoryBackend is an in-memory implementation of the scarpia.Backend
// interface. It serves a fixed chain environment and a fixed set of committed
// accounts, making it the canonical backend for tests and local harnesses.
//
// Block hashes are synthesized as the keccak256 hash of the decimal string
// representation of the block number, following the convention used by
// go-ethereum's test environments. A backend is read-only after construction.
type MemoryBackend struct {
	block    scarpia.BlockParameters
	gasPrice scarpia.Value
	accounts map[scarpia.Address]Account
	hashes   *lru.Cache[int64, scarpia.Hash]
}

// NewMemoryBackend creates a backend serving the given chain environment and
// genesis accounts. The genesis map is deep-copied, later modifications of
// the argument do not affect the backend.
func NewMemoryBackend(
	block scarpia.BlockParameters,
	gasPrice scarpia.Value,
	genesis map[scarpia.Address]Account,
) *MemoryBackend {
	accounts := make(map[scarpia.Address]Account, len(genesis))
	for addr, account := range genesis {
		accounts[addr] = account.Clone()
	}
	hashes, err := lru.New[int64, scarpia.Hash](blockHashCacheSize)
	if err != nil {
		panic("failed to create block hash cache: " + err.Error())
	}
	return &MemoryBackend{
		block:    block,
		gasPrice: gasPrice,
		accounts: accounts,
		hashes:   hashes,
	}
}

func (b *MemoryBackend) ChainID() scarpia.Word {
	return b.block.ChainID
}

func (b *MemoryBackend) BlockNumber() int64 {
	return b.block.BlockNumber
}

func (b *MemoryBackend) Timestamp() int64 {
	return b.block.Timestamp
}

func (b *MemoryBackend) Coinbase() scarpia.Address {
	return b.block.Coinbase
}

func (b *MemoryBackend) GasLimit() scarpia.Gas {
	return b.block.GasLimit
}

func (b *MemoryBackend) PrevRandao() scarpia.Hash {
	return b.block.PrevRandao
}

func (b *MemoryBackend) BaseFee() scarpia.Value {
	return b.block.BaseFee
}

func (b *MemoryBackend) BlobBaseFee() scarpia.Value {
	return b.block.BlobBaseFee
}

func (b *MemoryBackend) GasPrice() scarpia.Value {
	return b.gasPrice
}

func (b *MemoryBackend) BlockHash(number int64) scarpia.Hash {
	if number < 0 || number >= b.block.BlockNumber {
		return scarpia.Hash{}
	}
	if hash, found := b.hashes.Get(number); found {
		return hash
	}
	hash := Keccak256Hash([]byte(strconv.FormatInt(number, 10)))
	b.hashes.Add(number, hash)
	return hash
}

func (b *MemoryBackend) AccountExists(addr scarpia.Address) bool {
	account, found := b.accounts[addr]
	if !found {
		return false
	}
	return account.Balance != (scarpia.Value{}) ||
		account.Nonce != 0 ||
		len(account.Code) != 0
}

func (b *MemoryBackend) Balance(addr scarpia.Address) scarpia.Value {
	return b.accounts[addr].Balance
}

func (b *MemoryBackend) Nonce(addr scarpia.Address) uint64 {
	return b.accounts[addr].Nonce
}

func (b *MemoryBackend) CommittedCode(addr scarpia.Address) scarpia.Code {
	return bytes.Clone(b.accounts[addr].Code)
}

func (b *MemoryBackend) CommittedCodeHash(addr scarpia.Address) scarpia.Hash {
	return Keccak256Hash(b.accounts[addr].Code)
}

func (b *MemoryBackend) CommittedStorage(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	return b.accounts[addr].Storage[key]
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

// Keccak256Hash computes the keccak256 hash of the given data.
func Keccak256Hash(data []byte) scarpia.Hash {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	var res scarpia.Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}
