package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_StringRoundtrip(t *testing.T) {
	addr := GenerateAddress([]byte("some public key material here"))
	encoded := addr.String()
	require.True(t, strings.HasPrefix(encoded, NetworkHRP()+"1"))

	got, err := StringToAddress(encoded)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestAddress_WrongNetwork(t *testing.T) {
	addr := GenerateAddress([]byte("some public key material here"))
	encoded := addr.String()

	SetAddressHRP("other")
	t.Cleanup(func() { SetAddressHRP("vc") })

	_, err := StringToAddress(encoded)
	require.ErrorIs(t, err, ErrUnsupportedNetwork)
}

func TestAddress_NotBech32(t *testing.T) {
	_, err := StringToAddress("definitely not bech32")
	require.ErrorIs(t, err, ErrDecodeBech32)
}

func TestGenerateAddress(t *testing.T) {
	// long input keeps the rightmost AddressLength bytes
	pub := make([]byte, 32)
	for i := range pub {
		pub[i] = byte(i)
	}
	addr := GenerateAddress(pub)
	assert.Equal(t, pub[32-AddressLength:], addr.Bytes())

	// short input is right-aligned
	short := GenerateAddress([]byte{0xaa})
	assert.Equal(t, byte(0xaa), short[AddressLength-1])
	assert.Equal(t, byte(0), short[0])

	assert.True(t, Address{}.IsEmpty())
	assert.False(t, short.IsEmpty())
}
