// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"crypto/ed25519"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/consensus/utils/signing"
	"golang.org/x/crypto/blake2b"
)

// genesisAmount is the whole supply, held by the genesis account until
// it sends it away. It is the value 2^128 - 1.
const genesisAmount = "340282366920938463463374607431768211455"

type genesis struct {
	privateKey ed25519.PrivateKey
	account    externalapi.DomainAccount
	block      externalapi.DomainBlock
	hash       externalapi.DomainHash
	amount     externalapi.DomainAmount
}

// newGenesis derives the genesis key pair of a network from its seed
// phrase and builds the legacy open block that starts the genesis chain.
// The genesis open block has no pending entry to receive: it is
// inserted at initialization with the whole supply as its balance.
func newGenesis(seedPhrase string) *genesis {
	seed := blake2b.Sum256([]byte(seedPhrase))
	privateKey := ed25519.NewKeyFromSeed(seed[:])
	account, err := externalapi.NewDomainAccountFromPublicKey(privateKey.Public().(ed25519.PublicKey))
	if err != nil {
		panic(err)
	}
	amount, err := externalapi.NewDomainAmountFromDecimal(genesisAmount)
	if err != nil {
		panic(err)
	}

	block := externalapi.NewOpenBlock(account.AsHash(), account, account)
	signing.SignBlock(block, privateKey)

	return &genesis{
		privateKey: privateKey,
		account:    account,
		block:      block,
		hash:       consensushashing.BlockHash(block),
		amount:     amount,
	}
}

var (
	mainnetGenesis = newGenesis("latticed mainnet genesis")
	testnetGenesis = newGenesis("latticed testnet genesis")
	devnetGenesis  = newGenesis("latticed devnet genesis")
	simnetGenesis  = newGenesis("latticed simnet genesis")
)
