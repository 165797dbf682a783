package binaryserialization

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// SerializeHash serializes hash to a slice of bytes
func SerializeHash(hash externalapi.DomainHash) []byte {
	return hash.ByteSlice()
}

// DeserializeHash a slice of bytes to a hash
func DeserializeHash(hashBytes []byte) (externalapi.DomainHash, error) {
	return externalapi.NewDomainHashFromByteSlice(hashBytes)
}

// SerializeAccount serializes account to a slice of bytes
func SerializeAccount(account externalapi.DomainAccount) []byte {
	return account.ByteSlice()
}

// DeserializeAccount a slice of bytes to an account
func DeserializeAccount(accountBytes []byte) (externalapi.DomainAccount, error) {
	return externalapi.NewDomainAccountFromPublicKey(accountBytes)
}

// SerializeUint64 serializes a counter to a slice of bytes
func SerializeUint64(value uint64) []byte {
	w := newWriter(8)
	w.uint64(value)
	return w.buf
}

// DeserializeUint64 a slice of bytes to a counter
func DeserializeUint64(valueBytes []byte) (uint64, error) {
	r := newReader(valueBytes)
	value := r.uint64()
	return value, r.finish()
}
