package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainHashSize of array used to store hashes.
const DomainHashSize = 32

// DomainHash is the domain representation of a Hash
type DomainHash struct {
	hashArray [DomainHashSize]byte
}

// ZeroHash is the all-zero hash, used by chain roots as their previous
// and by blocks that carry no link.
var ZeroHash = DomainHash{}

// NewDomainHashFromByteArray constructs a new DomainHash out of a byte array
func NewDomainHashFromByteArray(hashBytes *[DomainHashSize]byte) DomainHash {
	return DomainHash{
		hashArray: *hashBytes,
	}
}

// NewDomainHashFromByteSlice constructs a new DomainHash out of a byte slice.
// Returns an error if the length of the byte slice is not exactly `DomainHashSize`
func NewDomainHashFromByteSlice(hashBytes []byte) (DomainHash, error) {
	if len(hashBytes) != DomainHashSize {
		return DomainHash{}, errors.Errorf("invalid hash size. Want: %d, got: %d",
			DomainHashSize, len(hashBytes))
	}
	domainHash := DomainHash{}
	copy(domainHash.hashArray[:], hashBytes)
	return domainHash, nil
}

// NewDomainHashFromString constructs a new DomainHash out of a hex-encoded string.
func NewDomainHashFromString(hashString string) (DomainHash, error) {
	expectedLength := DomainHashSize * 2
	// Return error if hash string is too long.
	if len(hashString) != expectedLength {
		return DomainHash{}, errors.Errorf("hash string length is %d, while it should be be %d",
			len(hashString), expectedLength)
	}

	hashBytes, err := hex.DecodeString(hashString)
	if err != nil {
		return DomainHash{}, errors.WithStack(err)
	}

	return NewDomainHashFromByteSlice(hashBytes)
}

// String returns the Hash as the hexadecimal string of the hash.
func (hash DomainHash) String() string {
	return hex.EncodeToString(hash.hashArray[:])
}

// ByteArray returns the bytes in this hash represented as a bytes array.
func (hash DomainHash) ByteArray() *[DomainHashSize]byte {
	arrayClone := hash.hashArray
	return &arrayClone
}

// ByteSlice returns the bytes in this hash represented as a bytes slice.
// The hash bytes are cloned, therefore it is safe to modify the resulting slice.
func (hash DomainHash) ByteSlice() []byte {
	return hash.ByteArray()[:]
}

// IsZero returns whether this is the all-zero hash
func (hash DomainHash) IsZero() bool {
	return hash == ZeroHash
}

// Equal returns whether hash equals to other
func (hash DomainHash) Equal(other DomainHash) bool {
	return hash.hashArray == other.hashArray
}

// Less returns whether hash sorts strictly before other when both
// are compared as big-endian numbers.
func (hash DomainHash) Less(other DomainHash) bool {
	for i := 0; i < DomainHashSize; i++ {
		if hash.hashArray[i] != other.hashArray[i] {
			return hash.hashArray[i] < other.hashArray[i]
		}
	}
	return false
}

// AsAccount reinterprets the hash bytes as an account. Used for the
// link field of state blocks, which holds a destination account on sends.
func (hash DomainHash) AsAccount() DomainAccount {
	return DomainAccount{publicKey: hash.hashArray}
}
