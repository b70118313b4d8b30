package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashchain/hashchain/foundation/blockchain/digest"
)

// ErrInvalidDifficulty is returned when a mining difficulty asks for more
// leading zeros than a digest has characters.
var ErrInvalidDifficulty = errors.New("difficulty exceeds digest length")

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Block represents a group of transactions sealed by a proof of work and
// linked to the block before it.
type Block struct {
	Index         uint64   `json:"index"`         // Position of the block in the chain, genesis is 0.
	TimeStamp     uint64   `json:"timestamp"`     // Unix time in seconds the block was created.
	Transactions  []string `json:"transactions"`  // Opaque transaction records.
	PrevBlockHash string   `json:"previous_hash"` // Hash of the previous block in the chain.
	Nonce         uint64   `json:"nonce"`         // Value identified to solve the hash solution.
	Hash          string   `json:"hash"`          // Hash of the fields above as they were last sealed.
}

// blockData is the canonical form of a block that is hashed. The field order
// here is the serialization order and must not change. Transactions are
// carried as raw bytes, which encode as base64, so every byte of a record
// reaches the digest even when the text is not valid UTF-8.
type blockData struct {
	Index         uint64   `json:"index"`
	Nonce         uint64   `json:"nonce"`
	PrevBlockHash string   `json:"previous_hash"`
	TimeStamp     uint64   `json:"timestamp"`
	Transactions  [][]byte `json:"transactions"`
}

// NewBlock constructs a block with a zero nonce and its initial hash.
func NewBlock(index uint64, timeStamp uint64, transactions []string, prevBlockHash string) Block {
	b := Block{
		Index:         index,
		TimeStamp:     timeStamp,
		Transactions:  copyTransactions(transactions),
		PrevBlockHash: prevBlockHash,
		Nonce:         0,
	}
	b.Hash = b.ComputeHash()

	return b
}

// ComputeHash returns the digest of the block's current field values. The
// stored Hash field is not part of the calculation.
func (b Block) ComputeHash() string {
	trans := make([][]byte, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = []byte(tx)
	}

	return digest.Hash(blockData{
		Index:         b.Index,
		Nonce:         b.Nonce,
		PrevBlockHash: b.PrevBlockHash,
		TimeStamp:     b.TimeStamp,
		Transactions:  trans,
	})
}

// Mine does the work of finding a nonce that produces a hash with the
// specified number of leading zeros. The search starts at the current nonce
// and only stops when a solution is found or the context is done. Pointer
// semantics are being used since a nonce is being discovered.
func (b *Block) Mine(ctx context.Context, difficulty uint, ev EventHandler) error {
	if difficulty > digest.Length {
		return ErrInvalidDifficulty
	}
	ev = safeHandler(ev)

	ev("database: Mine: MINING: started: blk[%d]", b.Index)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Index)

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if err := ctx.Err(); err != nil {
			ev("database: Mine: MINING: CANCELLED")
			return err
		}

		// Hash the block and check if we have solved the puzzle.
		b.Hash = b.ComputeHash()
		if IsHashSolved(difficulty, b.Hash) {
			break
		}

		b.Nonce++
	}

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevBlockHash, b.Hash, b.Nonce)
	ev("database: Mine: MINING: attempts[%d]", attempts)

	return nil
}

// MineParallel splits the nonce search across the specified number of
// workers. Worker i tries nonces start+i, start+i+workers, ... and the first
// worker to find a solution wins. With one worker or less this is Mine.
func (b *Block) MineParallel(ctx context.Context, difficulty uint, workers int, ev EventHandler) error {
	if workers <= 1 {
		return b.Mine(ctx, difficulty, ev)
	}
	if difficulty > digest.Length {
		return ErrInvalidDifficulty
	}
	ev = safeHandler(ev)

	ev("database: MineParallel: MINING: started: blk[%d]: workers[%d]", b.Index, workers)
	defer ev("database: MineParallel: MINING: completed: blk[%d]", b.Index)

	// Cancelling this context is the signal a solution has been found.
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu     sync.Mutex
		winner *Block
		wg     sync.WaitGroup
	)

	start := *b
	stride := uint64(workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(offset uint64) {
			defer wg.Done()

			candidate := start
			candidate.Nonce = start.Nonce + offset

			for workCtx.Err() == nil {
				candidate.Hash = candidate.ComputeHash()
				if !IsHashSolved(difficulty, candidate.Hash) {
					candidate.Nonce += stride
					continue
				}

				mu.Lock()
				defer mu.Unlock()

				if winner == nil {
					winner = &candidate
					cancel()
				}
				return
			}
		}(uint64(i))
	}

	wg.Wait()

	if winner == nil {
		ev("database: MineParallel: MINING: CANCELLED")
		return ctx.Err()
	}

	b.Nonce = winner.Nonce
	b.Hash = winner.Hash

	ev("database: MineParallel: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevBlockHash, b.Hash, b.Nonce)

	return nil
}

// ValidateBlock checks the block seals its own fields, links to the specified
// previous block and satisfies the proof of work difficulty. The checks run
// in that order and the first failure is returned as a *ValidationError.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint, ev EventHandler) error {
	ev = safeHandler(ev)

	ev("database: ValidateBlock: validate: blk[%d]: check: hash matches block fields", b.Index)

	if hash := b.ComputeHash(); b.Hash != hash {
		return &ValidationError{Index: b.Index, Reason: ReasonDigest, Got: b.Hash, Exp: hash}
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Index)

	if b.PrevBlockHash != previousBlock.Hash {
		return &ValidationError{Index: b.Index, Reason: ReasonLinkage, Got: b.PrevBlockHash, Exp: previousBlock.Hash}
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Index)

	if !IsHashSolved(difficulty, b.Hash) {
		return &ValidationError{Index: b.Index, Reason: ReasonProofOfWork, Got: b.Hash, Exp: fmt.Sprintf("%d leading zeros", difficulty)}
	}

	return nil
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	b.Transactions = copyTransactions(b.Transactions)
	return b
}

// Time returns the block timestamp as a time value in UTC.
func (b Block) Time() time.Time {
	return time.Unix(int64(b.TimeStamp), 0).UTC()
}

// String implements the Stringer interface for rendering a block.
func (b Block) String() string {
	return fmt.Sprintf("Block #%d\nTimestamp: %s\nTransactions: %q\nPrevious Hash: %s\nCurrent Hash: %s\nNonce: %d",
		b.Index, b.Time().Format(time.ANSIC), b.Transactions, b.PrevBlockHash, b.Hash, b.Nonce)
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	return digest.HasZeroPrefix(difficulty, hash)
}

// copyTransactions makes sure a block never shares its transactions with
// the caller.
func copyTransactions(trans []string) []string {
	if trans == nil {
		return nil
	}

	cpy := make([]string, len(trans))
	copy(cpy, trans)
	return cpy
}

// safeHandler returns a handler that is safe to call when none is provided.
func safeHandler(ev EventHandler) EventHandler {
	if ev == nil {
		return func(string, ...any) {}
	}
	return ev
}
