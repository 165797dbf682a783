package binaryserialization

import (
	"encoding/binary"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// writer appends fixed-size fields to a byte slice
type writer struct {
	buf []byte
}

func newWriter(capacity int) *writer {
	return &writer{buf: make([]byte, 0, capacity)}
}

func (w *writer) bytes(data []byte) {
	w.buf = append(w.buf, data...)
}

func (w *writer) uint8(value uint8) {
	w.buf = append(w.buf, value)
}

func (w *writer) bool(value bool) {
	if value {
		w.uint8(1)
		return
	}
	w.uint8(0)
}

func (w *writer) uint64(value uint64) {
	var valueBytes [8]byte
	binary.LittleEndian.PutUint64(valueBytes[:], value)
	w.bytes(valueBytes[:])
}

func (w *writer) hash(hash externalapi.DomainHash) {
	w.bytes(hash.ByteSlice())
}

func (w *writer) account(account externalapi.DomainAccount) {
	w.bytes(account.ByteSlice())
}

func (w *writer) amount(amount externalapi.DomainAmount) {
	amountBytes := amount.ByteArray()
	w.bytes(amountBytes[:])
}

// reader reads fixed-size fields out of a byte slice. The first failure
// is kept in err and every following read returns zero values.
type reader struct {
	data   []byte
	offset int
	err    error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) next(size int) []byte {
	if r.err != nil {
		return nil
	}
	if r.offset+size > len(r.data) {
		r.err = errors.Errorf("unexpected end of data: need %d bytes at offset %d, have %d",
			size, r.offset, len(r.data))
		return nil
	}
	result := r.data[r.offset : r.offset+size]
	r.offset += size
	return result
}

func (r *reader) uint8() uint8 {
	data := r.next(1)
	if data == nil {
		return 0
	}
	return data[0]
}

func (r *reader) bool() bool {
	return r.uint8() != 0
}

func (r *reader) uint64() uint64 {
	data := r.next(8)
	if data == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(data)
}

func (r *reader) hash() externalapi.DomainHash {
	data := r.next(externalapi.DomainHashSize)
	if data == nil {
		return externalapi.DomainHash{}
	}
	hash, err := externalapi.NewDomainHashFromByteSlice(data)
	if err != nil {
		r.err = err
	}
	return hash
}

func (r *reader) account() externalapi.DomainAccount {
	data := r.next(externalapi.DomainAccountSize)
	if data == nil {
		return externalapi.DomainAccount{}
	}
	account, err := externalapi.NewDomainAccountFromPublicKey(data)
	if err != nil {
		r.err = err
	}
	return account
}

func (r *reader) amount() externalapi.DomainAmount {
	data := r.next(externalapi.DomainAmountSize)
	if data == nil {
		return externalapi.DomainAmount{}
	}
	amount, err := externalapi.NewDomainAmountFromByteSlice(data)
	if err != nil {
		r.err = err
	}
	return amount
}

func (r *reader) signature() externalapi.DomainSignature {
	data := r.next(externalapi.DomainSignatureSize)
	if data == nil {
		return externalapi.DomainSignature{}
	}
	signature, err := externalapi.NewDomainSignatureFromByteSlice(data)
	if err != nil {
		r.err = err
	}
	return signature
}

// finish returns the first read error, or an error if bytes were left unread
func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.offset != len(r.data) {
		return errors.Errorf("%d unexpected trailing bytes", len(r.data)-r.offset)
	}
	return nil
}
