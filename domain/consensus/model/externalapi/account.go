package externalapi

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainAccountSize is the size of an account, which is an ed25519
// public key.
const DomainAccountSize = ed25519.PublicKeySize

// DomainAccount identifies an account chain by the public key that signs it.
type DomainAccount struct {
	publicKey [DomainAccountSize]byte
}

// BurnAccount is the all-zero account. It may receive sends but can
// never be opened.
var BurnAccount = DomainAccount{}

// NewDomainAccountFromPublicKey constructs a DomainAccount out of an ed25519 public key
func NewDomainAccountFromPublicKey(publicKey ed25519.PublicKey) (DomainAccount, error) {
	if len(publicKey) != DomainAccountSize {
		return DomainAccount{}, errors.Errorf("invalid public key size. Want: %d, got: %d",
			DomainAccountSize, len(publicKey))
	}
	account := DomainAccount{}
	copy(account.publicKey[:], publicKey)
	return account, nil
}

// NewDomainAccountFromString constructs a DomainAccount out of a hex-encoded public key.
func NewDomainAccountFromString(accountString string) (DomainAccount, error) {
	accountBytes, err := hex.DecodeString(accountString)
	if err != nil {
		return DomainAccount{}, errors.WithStack(err)
	}
	return NewDomainAccountFromPublicKey(accountBytes)
}

// PublicKey returns the ed25519 public key of this account.
func (account DomainAccount) PublicKey() ed25519.PublicKey {
	publicKey := make(ed25519.PublicKey, DomainAccountSize)
	copy(publicKey, account.publicKey[:])
	return publicKey
}

// ByteSlice returns a copy of the account bytes.
func (account DomainAccount) ByteSlice() []byte {
	return account.PublicKey()
}

// AsHash reinterprets the account bytes as a hash, for use as a block
// root or as a state block link.
func (account DomainAccount) AsHash() DomainHash {
	return DomainHash{hashArray: account.publicKey}
}

// IsZero returns whether this is the burn account
func (account DomainAccount) IsZero() bool {
	return account == BurnAccount
}

// String returns the hex representation of the account public key
func (account DomainAccount) String() string {
	return hex.EncodeToString(account.publicKey[:])
}

// DomainSignatureSize is the size of an ed25519 signature
const DomainSignatureSize = ed25519.SignatureSize

// DomainSignature is a block signature
type DomainSignature [DomainSignatureSize]byte

// NewDomainSignatureFromByteSlice constructs a DomainSignature out of a byte slice
func NewDomainSignatureFromByteSlice(signatureBytes []byte) (DomainSignature, error) {
	if len(signatureBytes) != DomainSignatureSize {
		return DomainSignature{}, errors.Errorf("invalid signature size. Want: %d, got: %d",
			DomainSignatureSize, len(signatureBytes))
	}
	signature := DomainSignature{}
	copy(signature[:], signatureBytes)
	return signature, nil
}

// String returns the hex representation of the signature
func (signature DomainSignature) String() string {
	return hex.EncodeToString(signature[:])
}
