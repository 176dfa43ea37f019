// Package evmsim provides a minimal in-memory EVM so tests can execute the
// initcode this repo emits against an empty storage state and read back the
// resulting storage values. It is adapted from the standalone StateDB/EVM
// wiring The-Sharding-Resurrection-test_v1 uses to run transactions against
// an in-memory trie (internal/shard/evm.go's NewMemoryEVMState/DeployContract),
// trimmed to the single operation this repo needs: deploy code, read storage.
package evmsim

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/holiman/uint256"
)

// State wraps a fresh in-memory StateDB with just enough EVM plumbing to
// deploy a contract and read its storage back out.
type State struct {
	db       state.Database
	stateDB  *state.StateDB
	chainCfg *params.ChainConfig
}

// New creates an empty in-memory EVM state, rooted at the empty trie.
func New() (*State, error) {
	memDB := rawdb.NewMemoryDatabase()
	trieDB := triedb.NewDatabase(memDB, nil)
	db := state.NewDatabase(trieDB, nil)

	stateDB, err := state.New(types.EmptyRootHash, db)
	if err != nil {
		return nil, fmt.Errorf("evmsim: new state: %w", err)
	}

	chainCfg := &params.ChainConfig{
		ChainID:             big.NewInt(1337),
		HomesteadBlock:      big.NewInt(0),
		EIP150Block:         big.NewInt(0),
		EIP155Block:         big.NewInt(0),
		EIP158Block:         big.NewInt(0),
		ByzantiumBlock:      big.NewInt(0),
		ConstantinopleBlock: big.NewInt(0),
		PetersburgBlock:     big.NewInt(0),
		IstanbulBlock:       big.NewInt(0),
		BerlinBlock:         big.NewInt(0),
		LondonBlock:         big.NewInt(0),
		ShanghaiTime:        new(uint64),
	}

	return &State{db: db, stateDB: stateDB, chainCfg: chainCfg}, nil
}

// Deploy runs code as init code from a zero-value deployer account and
// returns the deployed contract's address.
func (s *State) Deploy(code []byte) (common.Address, error) {
	deployer := common.Address{}
	s.stateDB.AddBalance(deployer, uint256.NewInt(0), tracing.BalanceChangeUnspecified)

	evm := s.newEVM(deployer)
	_, contractAddr, _, err := evm.Create(deployer, code, 30_000_000, uint256.NewInt(0))
	if err != nil {
		return common.Address{}, fmt.Errorf("evmsim: create: %w", err)
	}
	return contractAddr, nil
}

// StorageAt reads a single storage slot of addr.
func (s *State) StorageAt(addr common.Address, slotKey common.Hash) common.Hash {
	return s.stateDB.GetState(addr, slotKey)
}

func (s *State) newEVM(caller common.Address) *vm.EVM {
	blockCtx := vm.BlockContext{
		CanTransfer: func(db vm.StateDB, addr common.Address, amount *uint256.Int) bool {
			return db.GetBalance(addr).Cmp(amount) >= 0
		},
		Transfer: func(db vm.StateDB, from, to common.Address, amount *uint256.Int) {
			db.SubBalance(from, amount, tracing.BalanceChangeTransfer)
			db.AddBalance(to, amount, tracing.BalanceChangeTransfer)
		},
		GetHash:     func(n uint64) common.Hash { return common.Hash{} },
		Coinbase:    common.Address{},
		GasLimit:    30_000_000,
		BlockNumber: big.NewInt(1),
		Time:        0,
		Difficulty:  big.NewInt(0),
		BaseFee:     big.NewInt(0),
		Random:      &common.Hash{},
	}

	evm := vm.NewEVM(blockCtx, s.stateDB, s.chainCfg, vm.Config{})
	evm.TxContext = vm.TxContext{
		Origin:   caller,
		GasPrice: big.NewInt(0),
	}
	return evm
}
