package signatureverifier

import (
	"sync"

	"github.com/latticenet/latticed/domain/consensus/model"
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/signing"
	"github.com/latticenet/latticed/domain/dagconfig"
)

// minBlocksPerWorker keeps small batches from being split across
// goroutines for no gain
const minBlocksPerWorker = 64

type signatureVerifier struct {
	params  *dagconfig.Params
	threads int
}

// New instantiates a new SignatureVerifier spreading batches over up to
// threads goroutines
func New(params *dagconfig.Params, threads int) model.SignatureVerifier {
	if threads < 1 {
		threads = 1
	}
	return &signatureVerifier{
		params:  params,
		threads: threads,
	}
}

// VerifyBatch verifies the signatures of blocks. State blocks whose
// link is an epoch link are first checked against the epoch signer.
// Legacy blocks are left unknown since their signer depends on the
// ledger.
func (sv *signatureVerifier) VerifyBatch(blocks []externalapi.DomainBlock) []externalapi.SignatureVerification {
	results := make([]externalapi.SignatureVerification, len(blocks))

	workers := (len(blocks) + minBlocksPerWorker - 1) / minBlocksPerWorker
	if workers > sv.threads {
		workers = sv.threads
	}
	if workers <= 1 {
		sv.verifyRange(blocks, results, 0, len(blocks))
		return results
	}

	chunkSize := (len(blocks) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(blocks); start += chunkSize {
		end := start + chunkSize
		if end > len(blocks) {
			end = len(blocks)
		}
		wg.Add(1)
		spawn(func() {
			defer wg.Done()
			sv.verifyRange(blocks, results, start, end)
		})
	}
	wg.Wait()

	log.Tracef("Verified %d signatures using %d workers", len(blocks), workers)
	return results
}

func (sv *signatureVerifier) verifyRange(blocks []externalapi.DomainBlock,
	results []externalapi.SignatureVerification, start, end int) {

	for i := start; i < end; i++ {
		results[i] = sv.verify(blocks[i])
	}
}

func (sv *signatureVerifier) verify(block externalapi.DomainBlock) externalapi.SignatureVerification {
	if block.Type() != externalapi.BlockTypeState {
		return externalapi.SignatureVerificationUnknown
	}
	blockHash := consensushashing.BlockHash(block)

	link, _ := block.Link()
	if epoch, ok := sv.params.EpochForLink(link); ok {
		signer, ok := sv.params.EpochSigner(epoch)
		if ok && signing.VerifyBlockSignature(block, blockHash, signer) {
			return externalapi.SignatureVerificationValidEpoch
		}
	}

	account, _ := block.Account()
	if signing.VerifyBlockSignature(block, blockHash, account) {
		return externalapi.SignatureVerificationValid
	}
	return externalapi.SignatureVerificationInvalid
}
