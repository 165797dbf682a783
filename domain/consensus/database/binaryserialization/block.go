package binaryserialization

import (
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

const blockTrailerSize = externalapi.DomainSignatureSize + 8

// SerializeBlock serializes a block as its type followed by its fields
// in hashing order, its signature and its work
func SerializeBlock(block externalapi.DomainBlock) []byte {
	w := newWriter(1 + 5*externalapi.DomainHashSize + blockTrailerSize)
	serializeBlockTo(w, block)
	return w.buf
}

func serializeBlockTo(w *writer, block externalapi.DomainBlock) {
	w.uint8(uint8(block.Type()))
	switch block.Type() {
	case externalapi.BlockTypeSend:
		destination, _ := block.Destination()
		balance, _ := block.Balance()
		w.hash(block.Previous())
		w.account(destination)
		w.amount(balance)
	case externalapi.BlockTypeReceive:
		source, _ := block.Source()
		w.hash(block.Previous())
		w.hash(source)
	case externalapi.BlockTypeOpen:
		source, _ := block.Source()
		representative, _ := block.Representative()
		account, _ := block.Account()
		w.hash(source)
		w.account(representative)
		w.account(account)
	case externalapi.BlockTypeChange:
		representative, _ := block.Representative()
		w.hash(block.Previous())
		w.account(representative)
	case externalapi.BlockTypeState:
		account, _ := block.Account()
		representative, _ := block.Representative()
		balance, _ := block.Balance()
		link, _ := block.Link()
		w.account(account)
		w.hash(block.Previous())
		w.account(representative)
		w.amount(balance)
		w.hash(link)
	}
	signature := block.Signature()
	w.bytes(signature[:])
	w.uint64(block.Work())
}

// DeserializeBlock deserializes a block serialized by SerializeBlock
func DeserializeBlock(blockBytes []byte) (externalapi.DomainBlock, error) {
	r := newReader(blockBytes)
	block, err := deserializeBlockFrom(r)
	if err != nil {
		return nil, err
	}
	return block, r.finish()
}

func deserializeBlockFrom(r *reader) (externalapi.DomainBlock, error) {
	var block externalapi.DomainBlock
	blockType := externalapi.BlockType(r.uint8())
	switch blockType {
	case externalapi.BlockTypeSend:
		previous := r.hash()
		destination := r.account()
		balance := r.amount()
		block = externalapi.NewSendBlock(previous, destination, balance)
	case externalapi.BlockTypeReceive:
		previous := r.hash()
		source := r.hash()
		block = externalapi.NewReceiveBlock(previous, source)
	case externalapi.BlockTypeOpen:
		source := r.hash()
		representative := r.account()
		account := r.account()
		block = externalapi.NewOpenBlock(source, representative, account)
	case externalapi.BlockTypeChange:
		previous := r.hash()
		representative := r.account()
		block = externalapi.NewChangeBlock(previous, representative)
	case externalapi.BlockTypeState:
		account := r.account()
		previous := r.hash()
		representative := r.account()
		balance := r.amount()
		link := r.hash()
		block = externalapi.NewStateBlock(account, previous, representative, balance, link)
	default:
		if r.err != nil {
			return nil, r.err
		}
		return nil, errors.Errorf("unknown block type %d", blockType)
	}
	block.SetSignature(r.signature())
	block.SetWork(r.uint64())
	if r.err != nil {
		return nil, r.err
	}
	return block, nil
}

// SerializeBlockWithSideband serializes a stored block: the block
// followed by its sideband
func SerializeBlockWithSideband(block *externalapi.BlockWithSideband) []byte {
	w := newWriter(1 + 5*externalapi.DomainHashSize + blockTrailerSize + sidebandSize)
	serializeBlockTo(w, block.Block)
	serializeSidebandTo(w, block.Sideband)
	return w.buf
}

// DeserializeBlockWithSideband deserializes a stored block
func DeserializeBlockWithSideband(blockBytes []byte) (*externalapi.BlockWithSideband, error) {
	r := newReader(blockBytes)
	block, err := deserializeBlockFrom(r)
	if err != nil {
		return nil, err
	}
	sideband := deserializeSidebandFrom(r)
	err = r.finish()
	if err != nil {
		return nil, err
	}
	return &externalapi.BlockWithSideband{Block: block, Sideband: sideband}, nil
}
