package state

import (
	"github.com/hashchain/hashchain/foundation/blockchain/database"
	"github.com/hashchain/hashchain/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	gen := s.genesis
	gen.Transactions = append([]string(nil), s.genesis.Transactions...)
	return gen
}

// Difficulty returns the number of leading zeros every mined block needs.
func (s *State) Difficulty() uint {
	return s.genesis.Difficulty
}

// Length returns the number of blocks in the chain, genesis included.
func (s *State) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blocks)
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blocks[len(s.blocks)-1].Clone()
}

// RetrieveBlock returns a copy of the block at the specified index.
func (s *State) RetrieveBlock(index uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index >= uint64(len(s.blocks)) {
		return database.Block{}, ErrBlockNotFound
	}

	return s.blocks[index].Clone(), nil
}

// RetrieveBlocks returns a copy of every block in the chain.
func (s *State) RetrieveBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.blocks))
	for i, block := range s.blocks {
		blocks[i] = block.Clone()
	}

	return blocks
}
