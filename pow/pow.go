// Package pow implements the proof-of-work fee bypass available on
// non-mainnet networks: a wrapper transaction may skip fee payment if it
// carries a solution over its ciphertext commitment reaching the configured
// difficulty.
package pow

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/veilchain/go-veilchain/common/types"
	"github.com/veilchain/go-veilchain/hash"
)

// ErrNotFound is returned by Find when no solution exists within the
// iteration bound.
var ErrNotFound = errors.New("pow: no solution found")

// Verify reports whether nonce is a valid solution for the challenge at the
// given difficulty (leading zero bits of the solution digest).
func Verify(challenge types.Hash32, nonce uint64, difficulty uint8) bool {
	return leadingZeros(digest(challenge, nonce)) >= int(difficulty)
}

// Find searches nonces up to maxIter for a solution at the given difficulty.
func Find(challenge types.Hash32, difficulty uint8, maxIter uint64) (uint64, error) {
	for nonce := uint64(0); nonce < maxIter; nonce++ {
		if Verify(challenge, nonce, difficulty) {
			return nonce, nil
		}
	}
	return 0, ErrNotFound
}

func digest(challenge types.Hash32, nonce uint64) [hash.Size]byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], nonce)
	return hash.Sum(challenge.Bytes(), buf[:])
}

func leadingZeros(digest [hash.Size]byte) int {
	zeros := 0
	for _, b := range digest {
		if b == 0 {
			zeros += 8
			continue
		}
		zeros += bits.LeadingZeros8(b)
		break
	}
	return zeros
}
