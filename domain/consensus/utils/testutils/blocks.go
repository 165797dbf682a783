package testutils

import (
	"crypto/ed25519"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/signing"
	"github.com/latticenet/latticed/domain/consensus/utils/work"
)

// Solve sets on the block a work nonce reaching threshold
func Solve(block externalapi.DomainBlock, threshold uint64) {
	block.SetWork(work.Generate(externalapi.BlockRoot(block), threshold, 0))
}

// SignAndSolve signs the block with privateKey and solves its work for
// threshold. It returns the block for chaining.
func SignAndSolve(block externalapi.DomainBlock, privateKey ed25519.PrivateKey, threshold uint64) externalapi.DomainBlock {
	signing.SignBlock(block, privateKey)
	Solve(block, threshold)
	return block
}
