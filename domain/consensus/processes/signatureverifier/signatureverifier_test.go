package signatureverifier_test

import (
	"testing"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/processes/signatureverifier"
	"github.com/latticenet/latticed/domain/consensus/utils/signing"
	"github.com/latticenet/latticed/domain/consensus/utils/testutils"
	"github.com/latticenet/latticed/domain/dagconfig"
)

func TestVerifyBatch(t *testing.T) {
	params := &dagconfig.SimnetParams
	keys := testutils.NewKeyGenerator(7)

	const blockCount = 300
	blocks := make([]externalapi.DomainBlock, 0, blockCount+3)
	expected := make([]externalapi.SignatureVerification, 0, blockCount+3)
	for i := 0; i < blockCount; i++ {
		privateKey, account := keys.Next()
		block := externalapi.NewStateBlock(account, testutils.Hash(byte(i)), account,
			externalapi.NewDomainAmountFromUint64(uint64(i)), testutils.Hash(1))
		signing.SignBlock(block, privateKey)
		blocks = append(blocks, block)
		expected = append(expected, externalapi.SignatureVerificationValid)
	}

	otherKey, _ := keys.Next()
	_, account := keys.Next()
	badBlock := externalapi.NewStateBlock(account, testutils.Hash(2), account,
		externalapi.NewDomainAmountFromUint64(5), testutils.Hash(3))
	signing.SignBlock(badBlock, otherKey)
	blocks = append(blocks, badBlock)
	expected = append(expected, externalapi.SignatureVerificationInvalid)

	epochLink, _ := params.EpochLink(externalapi.Epoch1)
	epochBlock := externalapi.NewStateBlock(account, testutils.Hash(4), account,
		externalapi.NewDomainAmountFromUint64(5), epochLink)
	signing.SignBlock(epochBlock, params.GenesisPrivateKey)
	blocks = append(blocks, epochBlock)
	expected = append(expected, externalapi.SignatureVerificationValidEpoch)

	legacyBlock := externalapi.NewChangeBlock(testutils.Hash(5), account)
	blocks = append(blocks, legacyBlock)
	expected = append(expected, externalapi.SignatureVerificationUnknown)

	for _, threads := range []int{1, 4} {
		verifier := signatureverifier.New(params, threads)
		results := verifier.VerifyBatch(blocks)
		if len(results) != len(blocks) {
			t.Fatalf("threads %d: unexpected number of results. Want: %d, got: %d",
				threads, len(blocks), len(results))
		}
		for i := range results {
			if results[i] != expected[i] {
				t.Fatalf("threads %d: unexpected verification of block %d. Want: %s, got: %s",
					threads, i, expected[i], results[i])
			}
		}
	}
}
