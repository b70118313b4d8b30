package state

import "github.com/hashchain/hashchain/foundation/blockchain/database"

// Tamper applies the function to the stored block at the specified index.
// This bypasses mining and exists to demonstrate that any change to a block
// after the fact is caught by the next validation.
func (s *State) Tamper(index uint64, fn func(b *database.Block)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if index >= uint64(len(s.blocks)) {
		return ErrBlockNotFound
	}

	s.evHandler("state: Tamper: WARNING: blk[%d] modified out of band", index)

	fn(&s.blocks[index])

	return nil
}
