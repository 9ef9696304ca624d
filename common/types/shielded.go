package types

import "crypto/ed25519"

// The shielded pool pays wrapper fees on behalf of transactions that must
// not reveal a payer identity. A wrapper declaring the reserved sentinel
// key is charged to the fixed pool address instead of the address derived
// from the declared key.
//
// The sentinel secret is public knowledge: anyone may sign a shielded
// wrapper with it. See signing.ShieldedPoolSigner.

// ShieldedSentinelSeed derives the well-known sentinel keypair.
var ShieldedSentinelSeed = CalcHash32([]byte("veilchain/shielded-pool/sentinel-key"))

// ShieldedSentinelKey is the reserved public key wrappers declare to draw
// fees from the shielded pool.
var ShieldedSentinelKey = BytesToPublicKey(
	ed25519.NewKeyFromSeed(ShieldedSentinelSeed.Bytes()).Public().(ed25519.PublicKey))

// ShieldedPoolAddress is the account charged for sentinel-keyed wrappers.
var ShieldedPoolAddress = GenerateAddress(CalcHash32([]byte("veilchain/shielded-pool/address")).Bytes())
