package types

import (
	"errors"
	"fmt"

	"github.com/cosmos/btcutil/bech32"
	"github.com/spacemeshos/go-scale"
)

const (
	// AddressLength is the expected length of the address.
	AddressLength = 24
)

var (
	// ErrWrongAddressLength is returned when the length of the address is not correct.
	ErrWrongAddressLength = errors.New("wrong address length")
	// ErrUnsupportedNetwork is returned when an address belongs to another network.
	ErrUnsupportedNetwork = errors.New("unsupported network")
	// ErrDecodeBech32 is returned when an error occurs during decoding bech32.
	ErrDecodeBech32 = errors.New("error decoding bech32")
)

// networkHrp is the Human-Readable-Part of bech32 addresses on this network.
var networkHrp = "vc"

// SetAddressHRP overrides the bech32 Human-Readable-Part, e.g. for testnets.
func SetAddressHRP(update string) {
	networkHrp = update
}

// NetworkHRP returns the configured bech32 Human-Readable-Part.
func NetworkHRP() string {
	return networkHrp
}

// Address represents the address of a veilchain account with AddressLength length.
type Address [AddressLength]byte

// StringToAddress returns a new Address from a given string like `vc1abc...`.
func StringToAddress(src string) (Address, error) {
	var addr Address
	hrp, data, err := bech32.DecodeNoLimit(src)
	if err != nil {
		return addr, fmt.Errorf("%s: %w", ErrDecodeBech32, err)
	}
	if hrp != networkHrp {
		return addr, fmt.Errorf("%w: expected %s, got %s", ErrUnsupportedNetwork, networkHrp, hrp)
	}

	// bech32 uses slices of 5-bit unsigned integers. convert back to 8-bit.
	dataConverted, err := bech32.ConvertBits(data, 5, 8, true)
	if err != nil {
		return addr, fmt.Errorf("error converting bech32 bits: %w", err)
	}
	// the last byte is a padding artifact of the bits conversion.
	if len(dataConverted)-1 != AddressLength {
		return addr, fmt.Errorf("%w: expected %d, got %d", ErrWrongAddressLength, AddressLength, len(dataConverted)-1)
	}
	copy(addr[:], dataConverted)
	return addr, nil
}

// Bytes gets the byte representation of the underlying address.
func (a Address) Bytes() []byte { return a[:] }

// String implements fmt.Stringer, encoding the address in bech32.
func (a Address) String() string {
	dataConverted, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(fmt.Sprintf("error converting bech32 bits: %v", err))
	}
	result, err := bech32.Encode(networkHrp, dataConverted)
	if err != nil {
		panic(fmt.Sprintf("error encoding to bech32: %v", err))
	}
	return result
}

// IsEmpty returns true if the address is the zero value.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// EncodeScale implements scale codec interface.
func (a *Address) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, a[:])
}

// DecodeScale implements scale codec interface.
func (a *Address) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, a[:])
}

// GenerateAddress generates an account address from an ed25519 public key.
func GenerateAddress(publicKey []byte) Address {
	var addr Address
	if len(publicKey) > len(addr) {
		publicKey = publicKey[len(publicKey)-AddressLength:]
	}
	copy(addr[AddressLength-len(publicKey):], publicKey)
	return addr
}
