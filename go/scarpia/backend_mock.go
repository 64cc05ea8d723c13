// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package scarpia is a generated GoMock package.
package scarpia

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockBackend is a mock of Backend interface.
type MockBackend struct {
	ctrl     *gomock.Controller
	recorder *MockBackendMockRecorder
}

// MockBackendMockRecorder is the mock recorder for MockBackend.
type MockBackendMockRecorder struct {
	mock *MockBackend
}

// NewMockBackend creates a new mock instance.
func NewMockBackend(ctrl *gomock.Controller) *MockBackend {
	mock := &MockBackend{ctrl: ctrl}
	mock.recorder = &MockBackendMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockBackend) EXPECT() *MockBackendMockRecorder {
	return m.recorder
}

// AccountExists mocks base method.
func (m *MockBackend) AccountExists(arg0 Address) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AccountExists", arg0)
	ret0, _ := ret[0].(bool)
	return ret0
}

// AccountExists indicates an expected call of AccountExists.
func (mr *MockBackendMockRecorder) AccountExists(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AccountExists", reflect.TypeOf((*MockBackend)(nil).AccountExists), arg0)
}

// Balance mocks base method.
func (m *MockBackend) Balance(arg0 Address) Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Balance", arg0)
	ret0, _ := ret[0].(Value)
	return ret0
}

// Balance indicates an expected call of Balance.
func (mr *MockBackendMockRecorder) Balance(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Balance", reflect.TypeOf((*MockBackend)(nil).Balance), arg0)
}

// BaseFee mocks base method.
func (m *MockBackend) BaseFee() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BaseFee")
	ret0, _ := ret[0].(Value)
	return ret0
}

// BaseFee indicates an expected call of BaseFee.
func (mr *MockBackendMockRecorder) BaseFee() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BaseFee", reflect.TypeOf((*MockBackend)(nil).BaseFee))
}

// BlobBaseFee mocks base method.
func (m *MockBackend) BlobBaseFee() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlobBaseFee")
	ret0, _ := ret[0].(Value)
	return ret0
}

// BlobBaseFee indicates an expected call of BlobBaseFee.
func (mr *MockBackendMockRecorder) BlobBaseFee() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlobBaseFee", reflect.TypeOf((*MockBackend)(nil).BlobBaseFee))
}

// BlockHash mocks base method.
func (m *MockBackend) BlockHash(arg0 int64) Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockHash", arg0)
	ret0, _ := ret[0].(Hash)
	return ret0
}

// BlockHash indicates an expected call of BlockHash.
func (mr *MockBackendMockRecorder) BlockHash(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockHash", reflect.TypeOf((*MockBackend)(nil).BlockHash), arg0)
}

// BlockNumber mocks base method.
func (m *MockBackend) BlockNumber() int64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockNumber")
	ret0, _ := ret[0].(int64)
	return ret0
}

// BlockNumber indicates an expected call of BlockNumber.
func (mr *MockBackendMockRecorder) BlockNumber() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockNumber", reflect.TypeOf((*MockBackend)(nil).BlockNumber))
}

// ChainID mocks base method.
func (m *MockBackend) ChainID() Word {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ChainID")
	ret0, _ := ret[0].(Word)
	return ret0
}

// ChainID indicates an expected call of ChainID.
func (mr *MockBackendMockRecorder) ChainID() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ChainID", reflect.TypeOf((*MockBackend)(nil).ChainID))
}

// Coinbase mocks base method.
func (m *MockBackend) Coinbase() Address {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Coinbase")
	ret0, _ := ret[0].(Address)
	return ret0
}

// Coinbase indicates an expected call of Coinbase.
func (mr *MockBackendMockRecorder) Coinbase() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Coinbase", reflect.TypeOf((*MockBackend)(nil).Coinbase))
}

// CommittedCode mocks base method.
func (m *MockBackend) CommittedCode(arg0 Address) Code {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CommittedCode", arg0)
	ret0, _ := ret[0].(Code)
	return ret0
}

// CommittedCode indicates an expected call of CommittedCode.
func (mr *MockBackendMockRecorder) CommittedCode(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CommittedCode", reflect.TypeOf((*MockBackend)(nil).CommittedCode), arg0)
}

// CommittedCodeHash mocks base method.
func (m *MockBackend) CommittedCodeHash(arg0 Address) Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CommittedCodeHash", arg0)
	ret0, _ := ret[0].(Hash)
	return ret0
}

// CommittedCodeHash indicates an expected call of CommittedCodeHash.
func (mr *MockBackendMockRecorder) CommittedCodeHash(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CommittedCodeHash", reflect.TypeOf((*MockBackend)(nil).CommittedCodeHash), arg0)
}

// CommittedStorage mocks base method.
func (m *MockBackend) CommittedStorage(arg0 Address, arg1 Key) Word {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CommittedStorage", arg0, arg1)
	ret0, _ := ret[0].(Word)
	return ret0
}

// CommittedStorage indicates an expected call of CommittedStorage.
func (mr *MockBackendMockRecorder) CommittedStorage(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CommittedStorage", reflect.TypeOf((*MockBackend)(nil).CommittedStorage), arg0, arg1)
}

// GasLimit mocks base method.
func (m *MockBackend) GasLimit() Gas {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GasLimit")
	ret0, _ := ret[0].(Gas)
	return ret0
}

// GasLimit indicates an expected call of GasLimit.
func (mr *MockBackendMockRecorder) GasLimit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GasLimit", reflect.TypeOf((*MockBackend)(nil).GasLimit))
}

// GasPrice mocks base method.
func (m *MockBackend) GasPrice() Value {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GasPrice")
	ret0, _ := ret[0].(Value)
	return ret0
}

// GasPrice indicates an expected call of GasPrice.
func (mr *MockBackendMockRecorder) GasPrice() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GasPrice", reflect.TypeOf((*MockBackend)(nil).GasPrice))
}

// Nonce mocks base method.
func (m *MockBackend) Nonce(arg0 Address) uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Nonce", arg0)
	ret0, _ := ret[0].(uint64)
	return ret0
}

// Nonce indicates an expected call of Nonce.
func (mr *MockBackendMockRecorder) Nonce(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Nonce", reflect.TypeOf((*MockBackend)(nil).Nonce), arg0)
}

// PrevRandao mocks base method.
func (m *MockBackend) PrevRandao() Hash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PrevRandao")
	ret0, _ := ret[0].(Hash)
	return ret0
}

// PrevRandao indicates an expected call of PrevRandao.
func (mr *MockBackendMockRecorder) PrevRandao() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PrevRandao", reflect.TypeOf((*MockBackend)(nil).PrevRandao))
}

// Timestamp mocks base method.
func (m *MockBackend) Timestamp() int64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Timestamp")
	ret0, _ := ret[0].(int64)
	return ret0
}

// Timestamp indicates an expected call of Timestamp.
func (mr *MockBackendMockRecorder) Timestamp() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Timestamp", reflect.TypeOf((*MockBackend)(nil).Timestamp))
}
