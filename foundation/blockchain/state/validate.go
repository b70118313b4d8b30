package state

import (
	"fmt"

	"github.com/hashchain/hashchain/foundation/blockchain/database"
)

// IsValid reports whether every block in the chain seals its own fields,
// links to its parent and satisfies the proof of work. Nothing is cached,
// each call checks the chain as it is right now. No events are raised, so
// it can back frequent health checks.
func (s *State) IsValid() bool {
	return s.validate(nil) == nil
}

// Validate walks the chain and returns a *database.ValidationError for the
// first block that breaks an invariant, nil when the chain is valid. The
// progress of the walk is reported to the event handler.
func (s *State) Validate() error {
	return s.validate(s.evHandler)
}

func (s *State) validate(ev EventHandler) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ev("state: Validate: started: blocks[%d]", len(s.blocks))

	// The genesis block has no parent to link to, so only its own
	// hash and the genesis difficulty are checked.
	gen := s.blocks[0]
	if hash := gen.ComputeHash(); gen.Hash != hash {
		return &database.ValidationError{Index: gen.Index, Reason: database.ReasonDigest, Got: gen.Hash, Exp: hash}
	}
	if !database.IsHashSolved(s.genesis.GenesisDifficulty, gen.Hash) {
		return &database.ValidationError{Index: gen.Index, Reason: database.ReasonProofOfWork, Got: gen.Hash, Exp: fmt.Sprintf("%d leading zeros", s.genesis.GenesisDifficulty)}
	}

	for i := 1; i < len(s.blocks); i++ {
		if err := s.blocks[i].ValidateBlock(s.blocks[i-1], s.genesis.Difficulty, database.EventHandler(ev)); err != nil {
			ev("state: Validate: INVALID: %s", err)
			return err
		}
	}

	ev("state: Validate: completed: VALID")

	return nil
}
