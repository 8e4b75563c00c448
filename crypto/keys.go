// Package crypto holds the secp256k1 key and bech32 legacy-address types
// shared by genesis loading and the CLI: objects.PubKey/objects.LegacyAddress
// are plain byte arrays so the object store itself never needs this package,
// but anything that handles raw operator keys (genesis specs, the node's
// validator signing key, a CLI's "what address is this pubkey" helper) does.
// Graphene has a single core asset rather than a fee/collateral-vs-governance
// token pair, so there is one bech32 address prefix rather than two.
package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/graphene-chain/core/objects"
)

// AddressPrefix defines the different types of human-readable address prefixes.
type AddressPrefix string

// GraphenePrefix is the bech32 human-readable prefix for legacy addresses
// (objects.LegacyAddress), the account-identification format a witness's or
// committee member's genesis entry is keyed by before it owns a named
// objects.Account.
const GraphenePrefix AddressPrefix = "gph"

// Address represents a 20-byte legacy address with a specific prefix.
type Address struct {
	prefix AddressPrefix
	bytes  []byte
}

func NewAddress(prefix AddressPrefix, b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("address must be 20 bytes long, got %d", len(b))
	}
	cloned := append([]byte(nil), b...)
	return Address{prefix: prefix, bytes: cloned}, nil
}

// MustNewAddress constructs an address and panics if the input is invalid.
func MustNewAddress(prefix AddressPrefix, b []byte) Address {
	addr, err := NewAddress(prefix, b)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

func (a Address) Bytes() []byte {
	return append([]byte(nil), a.bytes...)
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	addr, err := NewAddress(AddressPrefix(prefix), conv)
	if err != nil {
		return Address{}, err
	}
	return addr, nil
}

// --- Key Management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the byte representation of the private key.
func (k *PrivateKey) Bytes() []byte {
	return crypto.FromECDSA(k.PrivateKey)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

func (k *PublicKey) Address() Address {
	addrBytes := crypto.PubkeyToAddress(*k.PublicKey).Bytes()
	return MustNewAddress(GraphenePrefix, addrBytes)
}

// Compressed returns the 33-byte SEC1-compressed public key, the form
// genesis specs and objects.Witness/objects.Account authorities store keys
// in (objects.PubKey).
func (k *PublicKey) Compressed() objects.PubKey {
	var out objects.PubKey
	copy(out[:], crypto.CompressPubkey(k.PublicKey))
	return out
}

// Legacy returns the address as an objects.LegacyAddress, the form a
// GenesisBalance or a pre-account-creation authority key reduces to.
func (a Address) Legacy() objects.LegacyAddress {
	var out objects.LegacyAddress
	copy(out[:], a.bytes)
	return out
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}
