package binaryserialization

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// SerializeAccountInfo serializes an account info to a slice of bytes
func SerializeAccountInfo(info *externalapi.AccountInfo) []byte {
	w := newWriter(2*externalapi.DomainHashSize + externalapi.DomainAccountSize +
		externalapi.DomainAmountSize + 8 + 8 + 1)
	w.hash(info.Head)
	w.hash(info.Open)
	w.account(info.Representative)
	w.amount(info.Balance)
	w.uint64(uint64(info.Modified))
	w.uint64(info.BlockCount)
	w.uint8(uint8(info.Epoch))
	return w.buf
}

// DeserializeAccountInfo deserializes an account info
func DeserializeAccountInfo(infoBytes []byte) (*externalapi.AccountInfo, error) {
	r := newReader(infoBytes)
	info := &externalapi.AccountInfo{}
	info.Head = r.hash()
	info.Open = r.hash()
	info.Representative = r.account()
	info.Balance = r.amount()
	info.Modified = int64(r.uint64())
	info.BlockCount = r.uint64()
	info.Epoch = externalapi.Epoch(r.uint8())
	err := r.finish()
	if err != nil {
		return nil, err
	}
	return info, nil
}

// SerializePendingKey serializes a pending key. Entries of the same
// account share the account as a prefix.
func SerializePendingKey(key *externalapi.PendingKey) []byte {
	w := newWriter(externalapi.DomainAccountSize + externalapi.DomainHashSize)
	w.account(key.Account)
	w.hash(key.Hash)
	return w.buf
}

// DeserializePendingKey deserializes a pending key
func DeserializePendingKey(keyBytes []byte) (*externalapi.PendingKey, error) {
	r := newReader(keyBytes)
	key := &externalapi.PendingKey{}
	key.Account = r.account()
	key.Hash = r.hash()
	err := r.finish()
	if err != nil {
		return nil, err
	}
	return key, nil
}

// SerializePendingInfo serializes a pending info
func SerializePendingInfo(info *externalapi.PendingInfo) []byte {
	w := newWriter(externalapi.DomainAccountSize + externalapi.DomainAmountSize + 1)
	w.account(info.Source)
	w.amount(info.Amount)
	w.uint8(uint8(info.Epoch))
	return w.buf
}

// DeserializePendingInfo deserializes a pending info
func DeserializePendingInfo(infoBytes []byte) (*externalapi.PendingInfo, error) {
	r := newReader(infoBytes)
	info := &externalapi.PendingInfo{}
	info.Source = r.account()
	info.Amount = r.amount()
	info.Epoch = externalapi.Epoch(r.uint8())
	err := r.finish()
	if err != nil {
		return nil, err
	}
	return info, nil
}

// SerializeConfirmationHeightInfo serializes a confirmation height info
func SerializeConfirmationHeightInfo(info *externalapi.ConfirmationHeightInfo) []byte {
	w := newWriter(8 + externalapi.DomainHashSize)
	w.uint64(info.Height)
	w.hash(info.Frontier)
	return w.buf
}

// DeserializeConfirmationHeightInfo deserializes a confirmation height info
func DeserializeConfirmationHeightInfo(infoBytes []byte) (*externalapi.ConfirmationHeightInfo, error) {
	r := newReader(infoBytes)
	info := &externalapi.ConfirmationHeightInfo{}
	info.Height = r.uint64()
	info.Frontier = r.hash()
	err := r.finish()
	if err != nil {
		return nil, err
	}
	return info, nil
}

// SerializeUncheckedKey serializes an unchecked key. Entries waiting
// for the same dependency share it as a prefix.
func SerializeUncheckedKey(key *externalapi.UncheckedKey) []byte {
	w := newWriter(2 * externalapi.DomainHashSize)
	w.hash(key.Dependency)
	w.hash(key.Hash)
	return w.buf
}

// DeserializeUncheckedKey deserializes an unchecked key
func DeserializeUncheckedKey(keyBytes []byte) (*externalapi.UncheckedKey, error) {
	r := newReader(keyBytes)
	key := &externalapi.UncheckedKey{}
	key.Dependency = r.hash()
	key.Hash = r.hash()
	err := r.finish()
	if err != nil {
		return nil, err
	}
	return key, nil
}

// SerializeUncheckedInfo serializes an unchecked info
func SerializeUncheckedInfo(info *externalapi.UncheckedInfo) []byte {
	w := newWriter(1 + 5*externalapi.DomainHashSize + blockTrailerSize + 8 + 2)
	serializeBlockTo(w, info.Block)
	w.uint64(uint64(info.Arrival))
	w.uint8(uint8(info.Verified))
	w.uint8(uint8(info.Source))
	return w.buf
}

// DeserializeUncheckedInfo deserializes an unchecked info
func DeserializeUncheckedInfo(infoBytes []byte) (*externalapi.UncheckedInfo, error) {
	r := newReader(infoBytes)
	block, err := deserializeBlockFrom(r)
	if err != nil {
		return nil, err
	}
	info := &externalapi.UncheckedInfo{Block: block}
	info.Arrival = int64(r.uint64())
	info.Verified = externalapi.SignatureVerification(r.uint8())
	info.Source = externalapi.BlockSource(r.uint8())
	err = r.finish()
	if err != nil {
		return nil, err
	}
	return info, nil
}
