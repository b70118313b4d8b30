// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashchain/hashchain/foundation/blockchain/database"
	"github.com/hashchain/hashchain/foundation/blockchain/digest"
	"github.com/hashchain/hashchain/foundation/blockchain/genesis"
)

// ErrBlockNotFound is returned when a block index is outside the chain.
var ErrBlockNotFound = errors.New("block not found")

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	Genesis       genesis.Genesis
	MiningWorkers int
	EvHandler     EventHandler
	Now           func() time.Time
}

// State manages the chain of blocks. There is a single writer at a time and
// mining happens outside the lock readers use.
type State struct {
	genesis   genesis.Genesis
	workers   int
	evHandler EventHandler
	now       func() time.Time

	writeMu sync.Mutex
	mu      sync.RWMutex
	blocks  []database.Block
}

// New constructs a new blockchain holding only the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("validating genesis: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// The genesis block has fixed content and the zero hash as its parent.
	// It is only mined when the genesis asks for it.
	gen := cfg.Genesis
	block := database.NewBlock(0, uint64(gen.Date.UTC().Unix()), gen.Transactions, digest.ZeroHash)
	if gen.GenesisDifficulty > 0 {
		ev("state: New: mining genesis block: difficulty[%d]", gen.GenesisDifficulty)
		if err := block.MineParallel(context.Background(), gen.GenesisDifficulty, cfg.MiningWorkers, database.EventHandler(ev)); err != nil {
			return nil, fmt.Errorf("mining genesis: %w", err)
		}
	}

	ev("state: New: genesis block: hash[%s]", block.Hash)

	state := State{
		genesis:   gen,
		workers:   cfg.MiningWorkers,
		evHandler: ev,
		now:       now,
		blocks:    []database.Block{block},
	}

	return &state, nil
}
