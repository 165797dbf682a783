package signing

import (
	"crypto/ed25519"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
)

// SignBlock signs the hash of the block with the given private key and
// sets the resulting signature on it
func SignBlock(block externalapi.DomainBlock, privateKey ed25519.PrivateKey) {
	blockHash := consensushashing.BlockHash(block)
	var signature externalapi.DomainSignature
	copy(signature[:], ed25519.Sign(privateKey, blockHash.ByteSlice()))
	block.SetSignature(signature)
}

// VerifyBlockSignature returns whether the signature of the block was
// made by signer over the block hash
func VerifyBlockSignature(block externalapi.DomainBlock, blockHash externalapi.DomainHash,
	signer externalapi.DomainAccount) bool {

	signature := block.Signature()
	return ed25519.Verify(signer.PublicKey(), blockHash.ByteSlice(), signature[:])
}
