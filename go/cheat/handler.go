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
	"github.com/Fantom-foundation/Scarpia/go/harness"
	"github.com/Fantom-foundation/Scarpia/go/scarpia"
)

// Handler wraps a run context and intercepts exactly one operation: calls
// whose destination is the reserved cheat address are routed into cheat
// dispatch and never reach the wrapped context's call path. Every other
// operation is forwarded unchanged, one method per operation, so the
// delegation surface stays mechanically auditable.
type Handler struct {
	context scarpia.RunContext
	backend *Backend
}

// NewHandler wraps the given run context. Cheat effects are stored in the
// given backend, which is shared by all handlers of a call tree.
func NewHandler(context scarpia.RunContext, backend *Backend) *Handler {
	return &Handler{context: context, backend: backend}
}

// Interceptor produces the context interceptor that wraps a handler around
// every execution frame, all sharing the given cheat backend.
func Interceptor(backend *Backend) harness.ContextInterceptor {
	return func(context scarpia.RunContext) scarpia.RunContext {
		return NewHandler(context, backend)
	}
}

func (h *Handler) Call(kind scarpia.CallKind, parameters scarpia.CallParameters) (scarpia.CallResult, error) {
	if parameters.Recipient == ReservedAddress {
		return dispatch(h.backend, h.context, parameters)
	}
	return h.context.Call(kind, parameters)
}

// Everything below is forwarded unchanged.

func (h *Handler) AccountExists(addr scarpia.Address) bool {
	return h.context.AccountExists(addr)
}

func (h *Handler) GetBalance(addr scarpia.Address) scarpia.Value {
	return h.context.GetBalance(addr)
}

func (h *Handler) SetBalance(addr scarpia.Address, balance scarpia.Value) {
	h.context.SetBalance(addr, balance)
}

func (h *Handler) GetNonce(addr scarpia.Address) uint64 {
	return h.context.GetNonce(addr)
}

func (h *Handler) SetNonce(addr scarpia.Address, nonce uint64) {
	h.context.SetNonce(addr, nonce)
}

func (h *Handler) GetCode(addr scarpia.Address) scarpia.Code {
	return h.context.GetCode(addr)
}

func (h *Handler) GetCodeHash(addr scarpia.Address) scarpia.Hash {
	return h.context.GetCodeHash(addr)
}

func (h *Handler) GetCodeSize(addr scarpia.Address) int {
	return h.context.GetCodeSize(addr)
}

func (h *Handler) SetCode(addr scarpia.Address, code scarpia.Code) {
	h.context.SetCode(addr, code)
}

func (h *Handler) GetStorage(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	return h.context.GetStorage(addr, key)
}

func (h *Handler) SetStorage(addr scarpia.Address, key scarpia.Key, value scarpia.Word) scarpia.StorageStatus {
	return h.context.SetStorage(addr, key, value)
}

func (h *Handler) SelfDestruct(addr scarpia.Address, beneficiary scarpia.Address) bool {
	return h.context.SelfDestruct(addr, beneficiary)
}

func (h *Handler) CreateSnapshot() scarpia.Snapshot {
	return h.context.CreateSnapshot()
}

func (h *Handler) RestoreSnapshot(snapshot scarpia.Snapshot) {
	h.context.RestoreSnapshot(snapshot)
}

func (h *Handler) GetTransientStorage(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	return h.context.GetTransientStorage(addr, key)
}

func (h *Handler) SetTransientStorage(addr scarpia.Address, key scarpia.Key, value scarpia.Word) {
	h.context.SetTransientStorage(addr, key, value)
}

func (h *Handler) AccessAccount(addr scarpia.Address) scarpia.AccessStatus {
	return h.context.AccessAccount(addr)
}

func (h *Handler) AccessStorage(addr scarpia.Address, key scarpia.Key) scarpia.AccessStatus {
	return h.context.AccessStorage(addr, key)
}

func (h *Handler) EmitLog(log scarpia.Log) {
	h.context.EmitLog(log)
}

func (h *Handler) GetLogs() []scarpia.Log {
	return h.context.GetLogs()
}

func (h *Handler) GetBlockHash(number int64) scarpia.Hash {
	return h.context.GetBlockHash(number)
}

func (h *Handler) GetCommittedStorage(addr scarpia.Address, key scarpia.Key) scarpia.Word {
	return h.context.GetCommittedStorage(addr, key)
}

func (h *Handler) IsAddressInAccessList(addr scarpia.Address) bool {
	return h.context.IsAddressInAccessList(addr)
}

func (h *Handler) IsSlotInAccessList(addr scarpia.Address, key scarpia.Key) (addressPresent, slotPresent bool) {
	return h.context.IsSlotInAccessList(addr, key)
}

func (h *Handler) HasSelfDestructed(addr scarpia.Address) bool {
	return h.context.HasSelfDestructed(addr)
}
