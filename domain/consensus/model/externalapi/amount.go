package externalapi

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// DomainAmountSize is the serialized size of an amount
const DomainAmountSize = 16

// DomainAmount is a 128-bit unsigned balance or transfer amount.
type DomainAmount struct {
	value uint256.Int
}

// ZeroAmount is the zero amount
var ZeroAmount = DomainAmount{}

// NewDomainAmountFromUint64 returns an amount equal to value
func NewDomainAmountFromUint64(value uint64) DomainAmount {
	return DomainAmount{value: *uint256.NewInt(value)}
}

// NewDomainAmountFromDecimal parses a base 10 amount
func NewDomainAmountFromDecimal(decimal string) (DomainAmount, error) {
	value, err := uint256.FromDecimal(decimal)
	if err != nil {
		return DomainAmount{}, errors.Wrapf(err, "invalid amount %s", decimal)
	}
	if value.BitLen() > DomainAmountSize*8 {
		return DomainAmount{}, errors.Errorf("amount %s does not fit in 128 bits", decimal)
	}
	return DomainAmount{value: *value}, nil
}

// NewDomainAmountFromByteSlice deserializes a big-endian 16 byte amount
func NewDomainAmountFromByteSlice(amountBytes []byte) (DomainAmount, error) {
	if len(amountBytes) != DomainAmountSize {
		return DomainAmount{}, errors.Errorf("invalid amount size. Want: %d, got: %d",
			DomainAmountSize, len(amountBytes))
	}
	amount := DomainAmount{}
	amount.value.SetBytes(amountBytes)
	return amount, nil
}

// ByteArray serializes the amount as 16 big-endian bytes
func (amount DomainAmount) ByteArray() [DomainAmountSize]byte {
	full := amount.value.Bytes32()
	var result [DomainAmountSize]byte
	copy(result[:], full[32-DomainAmountSize:])
	return result
}

// Cmp compares amount and other and returns -1, 0 or 1
func (amount DomainAmount) Cmp(other DomainAmount) int {
	return amount.value.Cmp(&other.value)
}

// Equal returns whether amount equals other
func (amount DomainAmount) Equal(other DomainAmount) bool {
	return amount.value.Eq(&other.value)
}

// IsZero returns whether the amount is zero
func (amount DomainAmount) IsZero() bool {
	return amount.value.IsZero()
}

// Add returns amount + other, and false if the sum overflows 128 bits
func (amount DomainAmount) Add(other DomainAmount) (DomainAmount, bool) {
	result := DomainAmount{}
	result.value.Add(&amount.value, &other.value)
	if result.value.BitLen() > DomainAmountSize*8 {
		return DomainAmount{}, false
	}
	return result, true
}

// Sub returns amount - other, and false if other is greater than amount
func (amount DomainAmount) Sub(other DomainAmount) (DomainAmount, bool) {
	if amount.Cmp(other) < 0 {
		return DomainAmount{}, false
	}
	result := DomainAmount{}
	result.value.Sub(&amount.value, &other.value)
	return result, true
}

// String returns the base 10 representation of the amount
func (amount DomainAmount) String() string {
	return amount.value.Dec()
}
