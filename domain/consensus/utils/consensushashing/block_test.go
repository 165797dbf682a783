package consensushashing

import (
	"testing"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
)

func testHash(b byte) externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}

func TestBlockHashIgnoresSignatureAndWork(t *testing.T) {
	block := externalapi.NewReceiveBlock(testHash(1), testHash(2))
	before := BlockHash(block)

	block.SetWork(12345)
	block.SetSignature(externalapi.DomainSignature{1, 2, 3})
	after := BlockHash(block)

	if before != after {
		t.Fatalf("hash changed after setting signature and work: %s != %s", before, after)
	}
}

func TestBlockHashCoversFields(t *testing.T) {
	account := testHash(3).AsAccount()
	representative := testHash(4).AsAccount()
	balance := externalapi.NewDomainAmountFromUint64(100)

	first := BlockHash(externalapi.NewStateBlock(account, testHash(1), representative, balance, testHash(5)))
	otherLink := BlockHash(externalapi.NewStateBlock(account, testHash(1), representative, balance, testHash(6)))
	otherBalance := BlockHash(externalapi.NewStateBlock(account, testHash(1), representative,
		externalapi.NewDomainAmountFromUint64(101), testHash(5)))

	if first == otherLink || first == otherBalance {
		t.Fatalf("state block hash doesn't cover all of its fields")
	}

	// A legacy change block with the same previous and representative
	// hashes differently from every state block
	change := BlockHash(externalapi.NewChangeBlock(testHash(1), representative))
	if change == first {
		t.Fatalf("legacy and state hashes collide")
	}
}
