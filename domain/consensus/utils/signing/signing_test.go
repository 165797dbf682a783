package signing

import (
	"crypto/ed25519"
	"testing"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
)

func TestSignAndVerify(t *testing.T) {
	privateKey := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
	account, err := externalapi.NewDomainAccountFromPublicKey(privateKey.Public().(ed25519.PublicKey))
	if err != nil {
		t.Fatalf("NewDomainAccountFromPublicKey: %+v", err)
	}

	block := externalapi.NewStateBlock(account, externalapi.ZeroHash, account,
		externalapi.NewDomainAmountFromUint64(1), externalapi.ZeroHash)
	SignBlock(block, privateKey)
	blockHash := consensushashing.BlockHash(block)

	if !VerifyBlockSignature(block, blockHash, account) {
		t.Fatalf("signature didn't verify against its signer")
	}

	other := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1}).AsAccount()
	if VerifyBlockSignature(block, blockHash, other) {
		t.Fatalf("signature verified against the wrong signer")
	}
}
