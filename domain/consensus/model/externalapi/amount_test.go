package externalapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainAmountArithmetic(t *testing.T) {
	maxAmount, err := NewDomainAmountFromDecimal("340282366920938463463374607431768211455")
	require.NoError(t, err)

	_, ok := maxAmount.Add(NewDomainAmountFromUint64(1))
	require.False(t, ok, "adding to the maximal amount must overflow")

	_, ok = NewDomainAmountFromUint64(1).Sub(NewDomainAmountFromUint64(2))
	require.False(t, ok, "subtracting a larger amount must underflow")

	difference, ok := maxAmount.Sub(maxAmount)
	require.True(t, ok)
	require.True(t, difference.IsZero())

	sum, ok := NewDomainAmountFromUint64(40).Add(NewDomainAmountFromUint64(2))
	require.True(t, ok)
	require.Equal(t, "42", sum.String())
	require.Equal(t, -1, sum.Cmp(maxAmount))

	_, err = NewDomainAmountFromDecimal("340282366920938463463374607431768211456")
	require.Error(t, err, "amounts above 128 bits must be rejected")
}

func TestDomainAmountBytes(t *testing.T) {
	amount, err := NewDomainAmountFromDecimal("18446744073709551616")
	require.NoError(t, err)

	amountBytes := amount.ByteArray()
	require.Equal(t, byte(1), amountBytes[7])

	restored, err := NewDomainAmountFromByteSlice(amountBytes[:])
	require.NoError(t, err)
	require.True(t, restored.Equal(amount))

	_, err = NewDomainAmountFromByteSlice(amountBytes[1:])
	require.Error(t, err)
}

func TestAccountHashConversion(t *testing.T) {
	accountString := "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"
	account, err := NewDomainAccountFromString(accountString)
	require.NoError(t, err)
	require.Equal(t, accountString, account.String())
	require.Equal(t, account, account.AsHash().AsAccount())
	require.False(t, account.IsZero())
	require.True(t, BurnAccount.AsHash().IsZero())

	_, err = NewDomainAccountFromString("0102")
	require.Error(t, err)

	lower, err := NewDomainHashFromString("00" + accountString[2:])
	require.NoError(t, err)
	require.True(t, lower.Less(account.AsHash()))
	require.False(t, account.AsHash().Less(lower))
	require.False(t, lower.Less(lower))
}
