// Package digest provides the hashing support used to seal and link blocks.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Length is the number of hex characters in a rendered digest.
const Length = sha256.Size * 2

// ZeroHash is the sentinel used as the previous hash of the genesis block.
var ZeroHash = strings.Repeat("0", Length)

// =============================================================================

// Hash returns the SHA-256 digest of the JSON encoding of the value rendered
// as lowercase hex. The encoding follows the declared field order of the
// value, so callers control the canonical form through their struct layout.
// HTML characters are written as is and there is no trailing newline.
func Hash(value any) string {
	data, err := Canonical(value)
	if err != nil {
		return ZeroHash
	}

	return HashBytes(data)
}

// Canonical returns the compact JSON encoding of the value that Hash digests.
func Canonical(value any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// HashBytes returns the SHA-256 digest of the data rendered as lowercase hex.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// HasZeroPrefix reports whether the first n characters of the hash are zeros.
// A hash that is not a full digest never qualifies.
func HasZeroPrefix(n uint, hash string) bool {
	if len(hash) != Length || n > Length {
		return false
	}

	return hash[:n] == ZeroHash[:n]
}
