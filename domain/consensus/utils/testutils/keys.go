package testutils

import (
	"crypto/ed25519"
	"math/rand"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
)

// KeyGenerator deterministically generates ed25519 key pairs from a seed
type KeyGenerator struct {
	random *rand.Rand
}

// NewKeyGenerator returns a KeyGenerator for the given seed
func NewKeyGenerator(seed int64) *KeyGenerator {
	return &KeyGenerator{random: rand.New(rand.NewSource(seed))}
}

// Next returns the next private key together with its account
func (g *KeyGenerator) Next() (ed25519.PrivateKey, externalapi.DomainAccount) {
	publicKey, privateKey, err := ed25519.GenerateKey(g.random)
	if err != nil {
		panic(err)
	}
	account, err := externalapi.NewDomainAccountFromPublicKey(publicKey)
	if err != nil {
		panic(err)
	}
	return privateKey, account
}

// Hash returns a hash whose first byte is b, so that hashes built from
// ascending values sort in ascending order
func Hash(b byte) externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b, 0xaa, b})
}

// Account returns an account whose first byte is b
func Account(b byte) externalapi.DomainAccount {
	return Hash(b).AsAccount()
}
