// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package geth

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/Scarpia/go/scarpia"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/stateless"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	geth "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/trie/utils"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
)

func init() {
	scarpia.MustRegisterInterpreterFactory("geth", func(any) (scarpia.Interpreter, error) {
		return &gethVm{}, nil
	})
}

type gethVm struct{}

// newestSupportedRevision caps the revisions this engine accepts.
const newestSupportedRevision = scarpia.R13_Cancun

func (m *gethVm) Run(parameters scarpia.Parameters) (scarpia.Result, error) {
	if parameters.Revision > newestSupportedRevision {
		return scarpia.Result{}, &scarpia.ErrUnsupportedRevision{Revision: parameters.Revision}
	}
	evm, contract, stateDb := newRunEnvironment(parameters)

	output, err := evm.Interpreter().Run(contract, parameters.Input, parameters.Static)
	switch {
	case err == nil:
		// the code terminated orderly with a STOP, RETURN, or SELFDESTRUCT
		return scarpia.Result{
			Output:    output,
			GasLeft:   scarpia.Gas(contract.Gas),
			GasRefund: scarpia.Gas(stateDb.refund),
			Success:   true,
		}, nil
	case errors.Is(err, geth.ErrExecutionReverted):
		// reverts keep their output and remaining gas but count as failed
		return scarpia.Result{
			Output:    output,
			GasLeft:   scarpia.Gas(contract.Gas),
			GasRefund: scarpia.Gas(stateDb.refund),
			Success:   false,
		}, nil
	case isCodeFailure(err):
		// failures caused by the executed code consume all gas and output
		return scarpia.Result{Success: false}, nil
	default:
		return scarpia.Result{}, fmt.Errorf("internal EVM error in geth: %v", err)
	}
}

// isCodeFailure reports whether the given execution error was produced by
// the executed code, as opposed to a malfunction of the engine itself.
func isCodeFailure(err error) bool {
	switch err.(type) {
	case *geth.ErrStackOverflow, *geth.ErrStackUnderflow, *geth.ErrInvalidOpCode:
		return true
	}
	return errors.Is(err, geth.ErrOutOfGas) ||
		errors.Is(err, geth.ErrCodeStoreOutOfGas) ||
		errors.Is(err, geth.ErrDepth) ||
		errors.Is(err, geth.ErrInsufficientBalance) ||
		errors.Is(err, geth.ErrContractAddressCollision) ||
		errors.Is(err, geth.ErrMaxCodeSizeExceeded) ||
		errors.Is(err, geth.ErrMaxInitCodeSizeExceeded) ||
		errors.Is(err, geth.ErrInvalidJump) ||
		errors.Is(err, geth.ErrWriteProtection) ||
		errors.Is(err, geth.ErrReturnDataOutOfBounds) ||
		errors.Is(err, geth.ErrGasUintOverflow) ||
		errors.Is(err, geth.ErrNonceUintOverflow) ||
		errors.Is(err, geth.ErrInvalidCode)
}

// forkBlock returns the block height at which the given revision activates in
// the synthetic fork schedule used for chain-rule selection. The time-based
// revisions Shanghai and Cancun share the Paris fork block and are enabled
// through fork times instead.
func forkBlock(revision scarpia.Revision) int64 {
	switch revision {
	case scarpia.R07_Istanbul:
		return 0
	case scarpia.R09_Berlin:
		return 10
	case scarpia.R10_London:
		return 20
	}
	return 30
}

// ruleBlock is the block height chain rules are selected at, placed safely
// inside the block range of the given revision.
func ruleBlock(revision scarpia.Revision) *big.Int {
	return big.NewInt(forkBlock(revision) + 2)
}

type chainConfigKey struct {
	chainID  scarpia.Word
	revision scarpia.Revision
}

// chainConfigs caches chain configurations by chain ID and revision. Configs
// are never modified after creation and can be shared by concurrent runs.
var chainConfigs = func() *lru.Cache[chainConfigKey, *params.ChainConfig] {
	cache, err := lru.New[chainConfigKey, *params.ChainConfig](16)
	if err != nil {
		panic("failed to create chain config cache: " + err.Error())
	}
	return cache
}()

func getChainConfig(chainID scarpia.Word, revision scarpia.Revision) *params.ChainConfig {
	key := chainConfigKey{chainID: chainID, revision: revision}
	if config, found := chainConfigs.Get(key); found {
		return config
	}
	config := makeChainConfig(chainID, revision)
	chainConfigs.Add(key, config)
	return config
}

// makeChainConfig derives a chain configuration activating the given revision
// from the go-ethereum test baseline. The chain ID needs to be prefilled as
// it may be accessed with the CHAINID opcode; fork blocks and fork times are
// set according to the synthetic schedule.
func makeChainConfig(chainID scarpia.Word, revision scarpia.Revision) *params.ChainConfig {
	config := *params.AllEthashProtocolChanges
	config.ChainID = new(big.Int).SetBytes(chainID[:])
	config.ByzantiumBlock = big.NewInt(0)
	config.IstanbulBlock = big.NewInt(forkBlock(scarpia.R07_Istanbul))
	config.BerlinBlock = big.NewInt(forkBlock(scarpia.R09_Berlin))
	config.LondonBlock = big.NewInt(forkBlock(scarpia.R10_London))

	if revision >= scarpia.R11_Paris {
		config.MergeNetsplitBlock = big.NewInt(forkBlock(scarpia.R11_Paris))
	}
	if revision >= scarpia.R12_Shanghai {
		config.ShanghaiTime = new(uint64)
	}
	if revision >= scarpia.R13_Cancun {
		config.CancunTime = new(uint64)
	}

	return &config
}

// newRunEnvironment assembles the go-ethereum EVM, the contract frame to be
// executed, and the state adapter backing both for a single run.
func newRunEnvironment(parameters scarpia.Parameters) (*geth.EVM, *geth.Contract, *stateDbAdapter) {
	stateDb := &stateDbAdapter{context: parameters.Context}
	evm := geth.NewEVM(
		newBlockContext(parameters),
		newTxContext(parameters),
		stateDb,
		getChainConfig(parameters.ChainID, parameters.Revision),
		geth.Config{},
	)

	// Chain rules are selected from the synthetic schedule above; the block
	// number visible to the executed code is the real one.
	evm.Context.BlockNumber = big.NewInt(parameters.BlockNumber)

	self := geth.AccountRef(parameters.Recipient)
	contract := geth.NewContract(self, self, parameters.Value.ToUint256(), uint64(parameters.Gas))
	contract.CallerAddress = common.Address(parameters.Sender)
	contract.Code = parameters.Code
	if parameters.CodeHash != nil {
		contract.CodeHash = common.Hash(*parameters.CodeHash)
	} else {
		contract.CodeHash = crypto.Keccak256Hash(parameters.Code)
	}
	contract.Input = parameters.Input

	return evm, contract, stateDb
}

func newBlockContext(parameters scarpia.Parameters) geth.BlockContext {
	context := geth.BlockContext{
		CanTransfer: canTransfer,
		Transfer:    transfer,
		GetHash: func(num uint64) common.Hash {
			// serves the BLOCKHASH instruction
			return common.Hash(parameters.Context.GetBlockHash(int64(num)))
		},
		Coinbase:    common.Address(parameters.Coinbase),
		BlockNumber: ruleBlock(parameters.Revision),
		Time:        uint64(parameters.Timestamp),
		Difficulty:  new(big.Int).SetBytes(parameters.PrevRandao[:]),
		GasLimit:    uint64(parameters.GasLimit),
		BaseFee:     new(big.Int).SetBytes(parameters.BaseFee[:]),
		BlobBaseFee: new(big.Int).SetBytes(parameters.BlobBaseFee[:]),
	}
	if parameters.Revision >= scarpia.R11_Paris {
		// a non-nil Random is geth's signal that the merge has happened
		hash := common.Hash(parameters.PrevRandao)
		context.Random = &hash
	}
	return context
}

func newTxContext(parameters scarpia.Parameters) geth.TxContext {
	context := geth.TxContext{
		Origin:     common.Address(parameters.Origin),
		GasPrice:   new(big.Int).SetBytes(parameters.GasPrice[:]),
		BlobFeeCap: new(big.Int).SetBytes(parameters.BlobBaseFee[:]),
	}
	for _, hash := range parameters.BlobHashes {
		context.BlobHashes = append(context.BlobHashes, common.Hash(hash))
	}
	return context
}

// --- Adapter ---

// transfer moves the given value between two accounts of the state database.
func transfer(stateDB geth.StateDB, from common.Address, to common.Address, value *uint256.Int) {
	stateDB.SubBalance(from, value, tracing.BalanceChangeTransfer)
	stateDB.AddBalance(to, value, tracing.BalanceChangeTransfer)
}

// canTransfer checks that the sender's balance covers the given value.
func canTransfer(stateDB geth.StateDB, from common.Address, value *uint256.Int) bool {
	return stateDB.GetBalance(from).Cmp(value) >= 0
}

// stateDbAdapter makes a scarpia.TransactionContext usable as a geth.StateDB,
// so that all state effects of code running inside the go-ethereum engine are
// applied to the harness-owned execution state.
type stateDbAdapter struct {
	context         scarpia.TransactionContext
	refund          uint64
	lastBeneficiary scarpia.Address
	refundBackups   map[scarpia.Snapshot]uint64
}

func (s *stateDbAdapter) CreateAccount(common.Address) {
	// accounts spring into existence on first use
}

func (s *stateDbAdapter) CreateContract(common.Address) {
	// accounts spring into existence on first use
}

// SubBalance and AddBalance are used by the engine to apply value transfers
// of calls nested inside the executed code.

func (s *stateDbAdapter) SubBalance(addr common.Address, diff *uint256.Int, _ tracing.BalanceChangeReason) {
	account := scarpia.Address(addr)
	balance := s.context.GetBalance(account)
	s.context.SetBalance(account, scarpia.Sub(balance, scarpia.ValueFromUint256(diff)))
}

func (s *stateDbAdapter) AddBalance(addr common.Address, diff *uint256.Int, _ tracing.BalanceChangeReason) {
	account := scarpia.Address(addr)
	balance := s.context.GetBalance(account)
	s.context.SetBalance(account, scarpia.Add(balance, scarpia.ValueFromUint256(diff)))

	// a selfdestruct credits its beneficiary right before the destruction,
	// so the last credited account identifies the beneficiary
	s.lastBeneficiary = account
}

func (s *stateDbAdapter) GetBalance(addr common.Address) *uint256.Int {
	value := s.context.GetBalance(scarpia.Address(addr))
	return value.ToUint256()
}

func (s *stateDbAdapter) GetNonce(addr common.Address) uint64 {
	return s.context.GetNonce(scarpia.Address(addr))
}

func (s *stateDbAdapter) SetNonce(addr common.Address, nonce uint64) {
	s.context.SetNonce(scarpia.Address(addr), nonce)
}

func (s *stateDbAdapter) GetCodeHash(addr common.Address) common.Hash {
	return common.Hash(s.context.GetCodeHash(scarpia.Address(addr)))
}

func (s *stateDbAdapter) GetCode(addr common.Address) []byte {
	return s.context.GetCode(scarpia.Address(addr))
}

func (s *stateDbAdapter) SetCode(addr common.Address, code []byte) {
	s.context.SetCode(scarpia.Address(addr), code)
}

func (s *stateDbAdapter) GetCodeSize(addr common.Address) int {
	return s.context.GetCodeSize(scarpia.Address(addr))
}

func (s *stateDbAdapter) AddRefund(value uint64) {
	s.refund += value
}

func (s *stateDbAdapter) SubRefund(value uint64) {
	s.refund -= value
}

func (s *stateDbAdapter) GetRefund() uint64 {
	return s.refund
}

func (s *stateDbAdapter) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	return common.Hash(s.context.GetCommittedStorage(scarpia.Address(addr), scarpia.Key(key)))
}

func (s *stateDbAdapter) GetState(addr common.Address, key common.Hash) common.Hash {
	return common.Hash(s.context.GetStorage(scarpia.Address(addr), scarpia.Key(key)))
}

func (s *stateDbAdapter) SetState(addr common.Address, key common.Hash, value common.Hash) {
	s.context.SetStorage(scarpia.Address(addr), scarpia.Key(key), scarpia.Word(value))
}

func (s *stateDbAdapter) GetStorageRoot(addr common.Address) common.Hash {
	// only consulted for create collisions on a trie-backed state
	return common.Hash{}
}

func (s *stateDbAdapter) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	return common.Hash(s.context.GetTransientStorage(scarpia.Address(addr), scarpia.Key(key)))
}

func (s *stateDbAdapter) SetTransientState(addr common.Address, key, value common.Hash) {
	s.context.SetTransientStorage(scarpia.Address(addr), scarpia.Key(key), scarpia.Word(value))
}

func (s *stateDbAdapter) SelfDestruct(addr common.Address) {
	s.context.SelfDestruct(scarpia.Address(addr), s.lastBeneficiary)
}

func (s *stateDbAdapter) HasSelfDestructed(addr common.Address) bool {
	return s.context.HasSelfDestructed(scarpia.Address(addr))
}

func (s *stateDbAdapter) Selfdestruct6780(addr common.Address) {
	s.context.SelfDestruct(scarpia.Address(addr), s.lastBeneficiary)
}

func (s *stateDbAdapter) Exist(addr common.Address) bool {
	return s.context.AccountExists(scarpia.Address(addr))
}

func (s *stateDbAdapter) Empty(addr common.Address) bool {
	return s.GetBalance(addr).IsZero() && s.GetNonce(addr) == 0 && s.GetCodeSize(addr) == 0
}

func (s *stateDbAdapter) Prepare(rules params.Rules, sender, coinbase common.Address, dest *common.Address, precompiles []common.Address, txAccesses types.AccessList) {
	if !rules.IsBerlin {
		return
	}
	s.context.AccessAccount(scarpia.Address(sender))
	if dest != nil {
		s.context.AccessAccount(scarpia.Address(*dest))
	}
	for _, addr := range precompiles {
		s.context.AccessAccount(scarpia.Address(addr))
	}
	for _, el := range txAccesses {
		s.context.AccessAccount(scarpia.Address(el.Address))
		for _, key := range el.StorageKeys {
			s.context.AccessStorage(scarpia.Address(el.Address), scarpia.Key(key))
		}
	}
	if rules.IsShanghai {
		s.context.AccessAccount(scarpia.Address(coinbase))
	}
}

func (s *stateDbAdapter) AddressInAccessList(addr common.Address) bool {
	return s.context.IsAddressInAccessList(scarpia.Address(addr))
}

func (s *stateDbAdapter) SlotInAccessList(addr common.Address, slot common.Hash) (addressOk bool, slotOk bool) {
	return s.context.IsSlotInAccessList(scarpia.Address(addr), scarpia.Key(slot))
}

func (s *stateDbAdapter) AddAddressToAccessList(addr common.Address) {
	s.context.AccessAccount(scarpia.Address(addr))
}

func (s *stateDbAdapter) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	s.context.AccessStorage(scarpia.Address(addr), scarpia.Key(slot))
}

func (s *stateDbAdapter) RevertToSnapshot(snapshot int) {
	s.context.RestoreSnapshot(scarpia.Snapshot(snapshot))
	s.refund = s.refundBackups[scarpia.Snapshot(snapshot)]
}

func (s *stateDbAdapter) Snapshot() int {
	id := s.context.CreateSnapshot()
	if s.refundBackups == nil {
		s.refundBackups = make(map[scarpia.Snapshot]uint64)
	}
	s.refundBackups[id] = s.refund
	return int(id)
}

func (s *stateDbAdapter) AddLog(log *types.Log) {
	topics := make([]scarpia.Hash, 0, len(log.Topics))
	for _, topic := range log.Topics {
		topics = append(topics, scarpia.Hash(topic))
	}
	s.context.EmitLog(scarpia.Log{
		Address: scarpia.Address(log.Address),
		Topics:  topics,
		Data:    log.Data,
	})
}

func (s *stateDbAdapter) AddPreimage(common.Hash, []byte) {
	// ignored: preimage recording is disabled in the engine configuration
}

func (s *stateDbAdapter) PointCache() *utils.PointCache {
	// verkle-tree access (EIP-4762) is beyond the supported revisions
	panic("point cache not available for revisions up to Cancun")
}

func (s *stateDbAdapter) Witness() *stateless.Witness {
	// witness collection is disabled in the engine configuration
	return nil
}
