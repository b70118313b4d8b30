// Package genesis maintains access to the genesis configuration.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashchain/hashchain/foundation/blockchain/digest"
	"gopkg.in/yaml.v3"
)

// Genesis represents the genesis configuration.
type Genesis struct {
	Date              time.Time `json:"date" yaml:"date"`                             // Timestamp stamped into the genesis block.
	Difficulty        uint      `json:"difficulty" yaml:"difficulty"`                 // How difficult it needs to be to solve the work problem.
	GenesisDifficulty uint      `json:"genesis_difficulty" yaml:"genesis_difficulty"` // Zero means the genesis block is stamped and not mined.
	Transactions      []string  `json:"transactions" yaml:"transactions"`             // Fixed content of the genesis block.
}

// Default returns the genesis used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:              time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:        4,
		GenesisDifficulty: 0,
		Transactions:      []string{"Genesis Block Transaction"},
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &genesis)
	default:
		err = json.Unmarshal(content, &genesis)
	}
	if err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis %q: %w", path, err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis values can be used to build a chain.
func (g Genesis) Validate() error {
	if g.Date.IsZero() {
		return errors.New("genesis date is required")
	}

	// Block timestamps are unsigned seconds since the epoch.
	if g.Date.Unix() < 0 {
		return fmt.Errorf("genesis date %s is before the unix epoch", g.Date.Format(time.RFC3339))
	}

	if g.Difficulty > digest.Length {
		return fmt.Errorf("difficulty %d exceeds digest length %d", g.Difficulty, digest.Length)
	}

	if g.GenesisDifficulty > digest.Length {
		return fmt.Errorf("genesis difficulty %d exceeds digest length %d", g.GenesisDifficulty, digest.Length)
	}

	return nil
}
