package work

import (
	"encoding/binary"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/dagconfig"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Oracle computes block difficulties and the thresholds of a network
type Oracle struct {
	thresholds dagconfig.WorkThresholds
}

// NewOracle returns a work oracle using the given thresholds
func NewOracle(thresholds dagconfig.WorkThresholds) *Oracle {
	return &Oracle{thresholds: thresholds}
}

// Threshold returns the minimal difficulty of a block with the given details
func (o *Oracle) Threshold(details externalapi.BlockDetails) uint64 {
	if details.Epoch < externalapi.Epoch2 {
		return o.thresholds.Epoch1
	}
	if details.IsSend || details.IsReceive || details.IsEpoch {
		return o.thresholds.Epoch2
	}
	return o.thresholds.Epoch2NoOp
}

// ThresholdEntry returns the lowest threshold the block could be held
// to, before anything about its account is known
func (o *Oracle) ThresholdEntry(block externalapi.DomainBlock) uint64 {
	if block.Type() == externalapi.BlockTypeState {
		return o.thresholds.Entry()
	}
	return o.thresholds.Epoch1
}

// Difficulty returns the difficulty of the proof of work of the block
func (o *Oracle) Difficulty(block externalapi.DomainBlock) uint64 {
	return Difficulty(externalapi.BlockRoot(block), block.Work())
}

// Difficulty returns the difficulty of a nonce over a root. It is the
// little-endian value of the 8 byte blake2b digest of the nonce
// followed by the root.
func Difficulty(root externalapi.DomainHash, nonce uint64) uint64 {
	blake, err := blake2b.New(8, nil)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. blake2b.New with a valid size never fails"))
	}
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)
	_, _ = blake.Write(nonceBytes[:])
	_, _ = blake.Write(root.ByteSlice())
	return binary.LittleEndian.Uint64(blake.Sum(nil))
}

// Generate searches for a nonce over root reaching threshold, starting
// at startNonce.
func Generate(root externalapi.DomainHash, threshold uint64, startNonce uint64) uint64 {
	nonce := startNonce
	for Difficulty(root, nonce) < threshold {
		nonce++
	}
	return nonce
}
