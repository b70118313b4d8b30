package state

import (
	"context"

	"github.com/hashchain/hashchain/foundation/blockchain/database"
)

// AddBlock builds the next block for the specified transactions, mines it
// at the configured difficulty and appends it to the chain. Only one block
// is mined at a time. The mining can be cancelled through the context.
func (s *State) AddBlock(ctx context.Context, transactions []string) (database.Block, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tip := s.RetrieveLatestBlock()

	s.evHandler("state: AddBlock: MINING: build block: blk[%d]: trans[%d]", tip.Index+1, len(transactions))

	block := database.NewBlock(tip.Index+1, uint64(s.now().UTC().Unix()), transactions, tip.Hash)

	s.evHandler("state: AddBlock: MINING: perform POW: difficulty[%d]", s.genesis.Difficulty)

	if err := block.MineParallel(ctx, s.genesis.Difficulty, s.workers, database.EventHandler(s.evHandler)); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: AddBlock: MINING: append block: blk[%d]: hash[%s]", block.Index, block.Hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks = append(s.blocks, block)

	return block.Clone(), nil
}
