// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides an in-memory execution state for running contracts
// against a committed backend. All modifications are buffered in an overlay
// that supports snapshots, and persist across transactions until the state is
// replaced. Execution states are owned by their harness and not safe for
// concurrent use.
package state

import (
	"bytes"
	"slices"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	mapset "github.com/deckarep/golang-set/v2"
)

// slot identifies a single storage location.
type slot struct {
	addr scarpia.Address
	key  scarpia.Key
}

// State is a journaled overlay over a read-only backend, implementing the
// scarpia.TransactionContext and scarpia.CodeStore interfaces. Reads fall
// through to the backend for untouched locations, writes are buffered in the
// overlay and can be rolled back to any previously created snapshot.
type State struct {
	backend scarpia.Backend

	balances  map[scarpia.Address]scarpia.Value
	nonces    map[scarpia.Address]uint64
	codes     map[scarpia.Address]scarpia.Code
	storage   map[slot]scarpia.Word
	transient map[slot]scarpia.Word

	// destructed tracks self-destructs of the ongoing transaction, destroyed
	// holds accounts whose destruction has been finalized. Destroyed accounts
	// mask the backend until new code is installed.
	destructed mapset.Set[scarpia.Address]
	destroyed  mapset.Set[scarpia.Address]

	warmAccounts mapset.Set[scarpia.Address]
	warmSlots    mapset.Set[slot]

	logs []scarpia.Log
	undo []func()
}

// NewState creates an empty execution state on top of the given backend.
func NewState(backend scarpia.Backend) *State {
	return &State{
		backend:      backend,
		balances:     map[scarpia.Address]scarpia.Value{},
		nonces:       map[scarpia.Address]uint64{},
		codes:        map[scarpia.Address]scarpia.Code{},
		storage:      map[slot]scarpia.Word{},
		transient:    map[slot]scarpia.Word{},
		destructed:   mapset.NewThreadUnsafeSet[scarpia.Address](),
		destroyed:    mapset.NewThreadUnsafeSet[scarpia.Address](),
		warmAccounts: mapset.NewThreadUnsafeSet[scarpia.Address](),
		warmSlots:    mapset.NewThreadUnsafeSet[slot](),
	}
}

// Backend returns the committed view this state is layered on.
func (s *State) Backend() scarpia.Backend {
	return s.backend
}

// BeginTransaction marks a transaction boundary. Pending self-destructs of
// the previous transaction are finalized, and all transaction-scoped
// artifacts are discarded: access lists, transient storage, logs, and the
// snapshot journal. Overlay modifications of previous transactions remain
// visible.
func (s *State) BeginTransaction() {
	s.finalizeDestructions()
	s.warmAccounts.Clear()
	s.warmSlots.Clear()
	clear(s.transient)
	s.logs = nil
	s.undo = s.undo[:0]
}

func (s *State) finalizeDestructions() {
	for _, addr := range s.destructed.ToSlice() {
		s.balances[addr] = scarpia.Value{}
		s.nonces[addr] = 0
		delete(s.codes, addr)
		for id := range s.storage {
			if id.addr == addr {
				delete(s.storage, id)
			}
		}
		s.destroyed.Add(addr)
	}
	s.destructed.Clear()
}

// restore captures the presence and value of a map entry and produces the
// journal operation reverting the entry to that state.
func restore[K comparable, V any](m map[K]V, k K) func() {
	prior, found := m[k]
	return func() {
		if found {
			m[k] = prior
		} else {
			delete(m, k)
		}
	}
}

func (s *State) AccountExists(addr scarpia.Address) bool {
	if s.GetBalance(addr) != (scarpia.Value{}) ||
		s.GetNonce(addr) != 0 ||
		s.GetCodeSize(addr) != 0 {
		return true
	}
	return !s.destroyed.Contains(addr) && s.backend.AccountExists(addr)
}

func (s *State) GetBalance(addr scarpia.Address) scarpia.Value {
	if value, found := s.balances[addr]; found {
		return value
	}
	if s.destroyed.Contains(addr) {
		return scarpia.Value{}
	}
	return s.backend.Balance(addr)
}

func (s *State) SetBalance(addr scarpia.Address, value scarpia.Value) {
	s.undo = append(s.undo, restore(s.balances, addr))
	s.balances[addr] = value
}

func (s *State) GetNonce(addr scarpia.Address) uint64 {
	if nonce, found := s.nonces[addr]; found {
		return nonce
	}
	if s.destroyed.Contains(addr) {
		return 0
	}
	return s.backend.Nonce(addr)
}

func (s *State) SetNonce(addr scarpia.Address, nonce uint64) {
	s.undo = append(s.undo, restore(s.nonces, addr))
	s.nonces[addr] = nonce
}

func (s *State) GetCode(addr scarpia.Address) scarpia.Code {
	if code, found := s.codes[addr]; found {
		return bytes.Clone(code)
	}
	if s.destroyed.Contains(addr) {
		return nil
	}
	return s.backend.CommittedCode(addr)
}

func (s *State) GetCodeHash(addr scarpia.Address) scarpia.Hash {
	if code, found := s.codes[addr]; found {
		return Keccak256Hash(code)
	}
	if s.destroyed.Contains(addr) {
		return Keccak256Hash(nil)
	}
	return s.backend.CommittedCodeHash(addr)
}

func (s *State) GetCodeSize(addr scarpia.Address) int {
	if code, found := s.codes[addr]; found {
		return len(code)
	}
	if s.destroyed.Contains(addr) {
		return 0
	}
	return len(s.backend.CommittedCode(addr))
}

func (s *State) SetCode(addr scarpia.Address, code scarpia.Code) {
	s.undo = append(s.undo, restore(s.codes, addr))
	s.codes[addr] = bytes.Clone(code)
}

func (s *State) GetStorage(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	if value, found := s.storage[slot{addr, key}]; found {
		return value
	}
	if s.destroyed.Contains(addr) {
		return scarpia.Word{}
	}
	return s.backend.CommittedStorage(addr, key)
}

func (s *State) SetStorage(addr scarpia.Address, key scarpia.Key, value scarpia.Word) scarpia.StorageStatus {
	original := s.GetCommittedStorage(addr, key)
	current := s.GetStorage(addr, key)
	s.undo = append(s.undo, restore(s.storage, slot{addr, key}))
	s.storage[slot{addr, key}] = value
	return scarpia.GetStorageStatus(original, current, value)
}

func (s *State) SelfDestruct(addr scarpia.Address, beneficiary scarpia.Address) bool {
	balance := s.GetBalance(addr)
	s.SetBalance(beneficiary, scarpia.Add(s.GetBalance(beneficiary), balance))
	s.SetBalance(addr, scarpia.Value{})
	if !s.destructed.Add(addr) {
		return false
	}
	s.undo = append(s.undo, func() { s.destructed.Remove(addr) })
	return true
}

func (s *State) CreateSnapshot() scarpia.Snapshot {
	return scarpia.Snapshot(len(s.undo))
}

func (s *State) RestoreSnapshot(snapshot scarpia.Snapshot) {
	for len(s.undo) > int(snapshot) {
		s.undo[len(s.undo)-1]()
		s.undo = s.undo[:len(s.undo)-1]
	}
}

func (s *State) GetTransientStorage(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	return s.transient[slot{addr, key}]
}

func (s *State) SetTransientStorage(addr scarpia.Address, key scarpia.Key, value scarpia.Word) {
	s.undo = append(s.undo, restore(s.transient, slot{addr, key}))
	s.transient[slot{addr, key}] = value
}

func (s *State) AccessAccount(addr scarpia.Address) scarpia.AccessStatus {
	if !s.warmAccounts.Add(addr) {
		return scarpia.WarmAccess
	}
	s.undo = append(s.undo, func() { s.warmAccounts.Remove(addr) })
	return scarpia.ColdAccess
}

func (s *State) AccessStorage(addr scarpia.Address, key scarpia.Key) scarpia.AccessStatus {
	// accessing a slot also warms up the owning account
	if s.warmAccounts.Add(addr) {
		s.undo = append(s.undo, func() { s.warmAccounts.Remove(addr) })
	}
	id := slot{addr, key}
	if !s.warmSlots.Add(id) {
		return scarpia.WarmAccess
	}
	s.undo = append(s.undo, func() { s.warmSlots.Remove(id) })
	return scarpia.ColdAccess
}

func (s *State) EmitLog(log scarpia.Log) {
	length := len(s.logs)
	s.logs = append(s.logs, log)
	s.undo = append(s.undo, func() { s.logs = s.logs[:length] })
}

func (s *State) GetLogs() []scarpia.Log {
	return slices.Clone(s.logs)
}

func (s *State) GetBlockHash(number int64) scarpia.Hash {
	return s.backend.BlockHash(number)
}

func (s *State) GetCommittedStorage(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	if s.destroyed.Contains(addr) {
		return scarpia.Word{}
	}
	return s.backend.CommittedStorage(addr, key)
}

func (s *State) IsAddressInAccessList(addr scarpia.Address) bool {
	return s.warmAccounts.Contains(addr)
}

func (s *State) IsSlotInAccessList(addr scarpia.Address, key scarpia.Key) (addressPresent, slotPresent bool) {
	return s.warmAccounts.Contains(addr), s.warmSlots.Contains(slot{addr, key})
}

func (s *State) HasSelfDestructed(addr scarpia.Address) bool {
	return s.destructed.Contains(addr)
}

func (s *State) LookupCode(addr scarpia.Address) (scarpia.Code, bool) {
	if code, found := s.codes[addr]; found {
		return bytes.Clone(code), true
	}
	if s.destroyed.Contains(addr) {
		return nil, false
	}
	if code := s.backend.CommittedCode(addr); len(code) > 0 {
		return code, true
	}
	return nil, false
}

func (s *State) InstallCode(addr scarpia.Address, code scarpia.Code) {
	s.SetCode(addr, code)
}
