package consensushashing

import (
	"hash"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// statePreamble is hashed in front of state blocks so that their hash
// can never collide with the hash of a legacy block.
var statePreamble = func() [32]byte {
	var preamble [32]byte
	preamble[31] = byte(externalapi.BlockTypeState)
	return preamble
}()

// BlockHash returns the given block's hash. The signature and the proof
// of work are not part of the hash.
func BlockHash(block externalapi.DomainBlock) externalapi.DomainHash {
	writer := newBlockHashWriter()

	switch block.Type() {
	case externalapi.BlockTypeSend:
		destination, _ := block.Destination()
		balance, _ := block.Balance()
		balanceBytes := balance.ByteArray()
		writer.write(block.Previous().ByteSlice(), destination.ByteSlice(), balanceBytes[:])
	case externalapi.BlockTypeReceive:
		source, _ := block.Source()
		writer.write(block.Previous().ByteSlice(), source.ByteSlice())
	case externalapi.BlockTypeOpen:
		source, _ := block.Source()
		representative, _ := block.Representative()
		account, _ := block.Account()
		writer.write(source.ByteSlice(), representative.ByteSlice(), account.ByteSlice())
	case externalapi.BlockTypeChange:
		representative, _ := block.Representative()
		writer.write(block.Previous().ByteSlice(), representative.ByteSlice())
	case externalapi.BlockTypeState:
		account, _ := block.Account()
		representative, _ := block.Representative()
		balance, _ := block.Balance()
		balanceBytes := balance.ByteArray()
		link, _ := block.Link()
		writer.write(statePreamble[:], account.ByteSlice(), block.Previous().ByteSlice(),
			representative.ByteSlice(), balanceBytes[:], link.ByteSlice())
	default:
		panic(errors.Errorf("cannot hash a block of type %s", block.Type()))
	}

	return writer.finalize()
}

type blockHashWriter struct {
	hash.Hash
}

func newBlockHashWriter() *blockHashWriter {
	blake, err := blake2b.New256(nil)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. blake2b.New256 without a key never fails"))
	}
	return &blockHashWriter{Hash: blake}
}

func (w *blockHashWriter) write(parts ...[]byte) {
	for _, part := range parts {
		// Hash.Write never returns an error
		_, _ = w.Hash.Write(part)
	}
}

func (w *blockHashWriter) finalize() externalapi.DomainHash {
	var sum [externalapi.DomainHashSize]byte
	copy(sum[:], w.Hash.Sum(nil))
	return externalapi.NewDomainHashFromByteArray(&sum)
}
