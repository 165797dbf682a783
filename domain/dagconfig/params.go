// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"crypto/ed25519"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
)

// WorkThresholds are the minimal proof of work difficulties of blocks.
// Up to epoch 1 every block has the same threshold. From epoch 2 on,
// blocks moving funds or upgrading the account pay more than
// representative changes.
type WorkThresholds struct {
	Epoch1     uint64
	Epoch2     uint64
	Epoch2NoOp uint64
}

// Entry returns the lowest threshold any block can be held to. Blocks
// below it are dropped before being queued.
func (thresholds *WorkThresholds) Entry() uint64 {
	entry := thresholds.Epoch1
	if thresholds.Epoch2 < entry {
		entry = thresholds.Epoch2
	}
	if thresholds.Epoch2NoOp < entry {
		entry = thresholds.Epoch2NoOp
	}
	return entry
}

// Params defines a lattice network by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock defines the first block of the genesis account.
	GenesisBlock externalapi.DomainBlock

	// GenesisHash is the hash of GenesisBlock.
	GenesisHash externalapi.DomainHash

	// GenesisAccount is the account holding the whole supply at genesis.
	GenesisAccount externalapi.DomainAccount

	// GenesisAmount is the balance of GenesisBlock.
	GenesisAmount externalapi.DomainAmount

	// GenesisPrivateKey signs for the genesis account. It is only set for
	// networks used for development and testing.
	GenesisPrivateKey ed25519.PrivateKey

	// Epochs lists the known epoch upgrades in ascending order.
	Epochs []EpochParams

	// WorkThresholds defines the minimal proof of work of blocks.
	WorkThresholds WorkThresholds
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:           "latticed-mainnet",
	GenesisBlock:   mainnetGenesis.block,
	GenesisHash:    mainnetGenesis.hash,
	GenesisAccount: mainnetGenesis.account,
	GenesisAmount:  mainnetGenesis.amount,
	Epochs:         newEpochs(mainnetGenesis.account),
	WorkThresholds: WorkThresholds{
		Epoch1:     0xffffffc000000000,
		Epoch2:     0xfffffff800000000,
		Epoch2NoOp: 0xfffffe0000000000,
	},
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:              "latticed-testnet",
	GenesisBlock:      testnetGenesis.block,
	GenesisHash:       testnetGenesis.hash,
	GenesisAccount:    testnetGenesis.account,
	GenesisAmount:     testnetGenesis.amount,
	GenesisPrivateKey: testnetGenesis.privateKey,
	Epochs:            newEpochs(testnetGenesis.account),
	WorkThresholds: WorkThresholds{
		Epoch1:     0xfffff00000000000,
		Epoch2:     0xfffff80000000000,
		Epoch2NoOp: 0xffffe00000000000,
	},
}

// DevnetParams defines the network parameters for the development network.
var DevnetParams = Params{
	Name:              "latticed-devnet",
	GenesisBlock:      devnetGenesis.block,
	GenesisHash:       devnetGenesis.hash,
	GenesisAccount:    devnetGenesis.account,
	GenesisAmount:     devnetGenesis.amount,
	GenesisPrivateKey: devnetGenesis.privateKey,
	Epochs:            newEpochs(devnetGenesis.account),
	WorkThresholds: WorkThresholds{
		Epoch1:     0xfe00000000000000,
		Epoch2:     0xff00000000000000,
		Epoch2NoOp: 0xfc00000000000000,
	},
}

// SimnetParams defines the network parameters for the simulation test
// network, which is meant for automated tests. Its thresholds make
// proof of work nearly free.
var SimnetParams = Params{
	Name:              "latticed-simnet",
	GenesisBlock:      simnetGenesis.block,
	GenesisHash:       simnetGenesis.hash,
	GenesisAccount:    simnetGenesis.account,
	GenesisAmount:     simnetGenesis.amount,
	GenesisPrivateKey: simnetGenesis.privateKey,
	Epochs:            newEpochs(simnetGenesis.account),
	WorkThresholds: WorkThresholds{
		Epoch1:     0xf000000000000000,
		Epoch2:     0xf800000000000000,
		Epoch2NoOp: 0xe000000000000000,
	},
}
