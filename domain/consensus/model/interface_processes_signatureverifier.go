package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// SignatureVerifier checks the signatures of state blocks in batches.
// The result has one entry per input block.
type SignatureVerifier interface {
	VerifyBatch(blocks []externalapi.DomainBlock) []externalapi.SignatureVerification
}
