package dagconfig

import (
	"testing"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/signing"
)

func TestGenesisBlocks(t *testing.T) {
	for _, params := range []*Params{&MainnetParams, &TestnetParams, &DevnetParams, &SimnetParams} {
		if consensushashing.BlockHash(params.GenesisBlock) != params.GenesisHash {
			t.Errorf("%s: genesis hash doesn't match the genesis block", params.Name)
		}
		if !signing.VerifyBlockSignature(params.GenesisBlock, params.GenesisHash, params.GenesisAccount) {
			t.Errorf("%s: genesis block isn't signed by the genesis account", params.Name)
		}
		account, ok := params.GenesisBlock.Account()
		if !ok || account != params.GenesisAccount {
			t.Errorf("%s: genesis block doesn't open the genesis account", params.Name)
		}
	}

	if MainnetParams.GenesisPrivateKey != nil {
		t.Errorf("mainnet parameters shouldn't carry a genesis private key")
	}
	if MainnetParams.GenesisHash == TestnetParams.GenesisHash {
		t.Errorf("mainnet and testnet share a genesis block")
	}
}

func TestEpochLinks(t *testing.T) {
	params := &SimnetParams
	link, ok := params.EpochLink(externalapi.Epoch1)
	if !ok {
		t.Fatalf("epoch 1 has no link")
	}
	expected := [externalapi.DomainHashSize]byte{}
	copy(expected[:], "epoch v1 block")
	if link != externalapi.NewDomainHashFromByteArray(&expected) {
		t.Fatalf("unexpected epoch 1 link %s", link)
	}

	epoch, ok := params.EpochForLink(link)
	if !ok || epoch != externalapi.Epoch1 {
		t.Fatalf("EpochForLink returned %s, %t", epoch, ok)
	}
	if params.IsEpochLink(externalapi.ZeroHash) {
		t.Fatalf("the zero hash shouldn't be an epoch link")
	}
	signer, ok := params.EpochSigner(externalapi.Epoch2)
	if !ok || signer != params.GenesisAccount {
		t.Fatalf("epoch 2 should be signed by the genesis account")
	}
	if params.WorkThresholds.Entry() != 0xe000000000000000 {
		t.Fatalf("unexpected entry threshold %x", params.WorkThresholds.Entry())
	}
}
