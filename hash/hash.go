// Package hash provides the blake3 hash used to commit to transaction
// headers and sections.
package hash

const (
	// Size of the hash output in bytes.
	Size = 32
)

// Sum computes the blake3 hash of the concatenation of chunks.
func Sum(chunks ...[]byte) (sum [Size]byte) {
	hasher := GetHasher()
	defer func() {
		hasher.Reset()
		PutHasher(hasher)
	}()
	for _, chunk := range chunks {
		hasher.Write(chunk)
	}
	digest := hasher.Digest()
	digest.Read(sum[:])
	return sum
}
