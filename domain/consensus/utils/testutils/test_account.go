package testutils

import (
	"crypto/ed25519"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/latticenet/latticed/domain/consensus/utils/consensushashing"
	"github.com/latticenet/latticed/domain/dagconfig"
)

// TestAccount builds the chain of a single account. Every block it
// returns is signed and carries enough work for any threshold of the
// network. It assumes every block it built was accepted.
type TestAccount struct {
	PrivateKey     ed25519.PrivateKey
	Account        externalapi.DomainAccount
	Head           externalapi.DomainHash
	Balance        externalapi.DomainAmount
	Representative externalapi.DomainAccount

	params *dagconfig.Params
}

// NewTestAccount returns a TestAccount for an account that was not
// opened yet. It represents itself.
func NewTestAccount(params *dagconfig.Params, privateKey ed25519.PrivateKey, account externalapi.DomainAccount) *TestAccount {
	return &TestAccount{
		PrivateKey:     privateKey,
		Account:        account,
		Representative: account,
		params:         params,
	}
}

// GenesisTestAccount returns a TestAccount for the genesis account of
// the network, right after initialization
func GenesisTestAccount(params *dagconfig.Params) *TestAccount {
	representative, _ := params.GenesisBlock.Representative()
	return &TestAccount{
		PrivateKey:     params.GenesisPrivateKey,
		Account:        params.GenesisAccount,
		Head:           params.GenesisHash,
		Balance:        params.GenesisAmount,
		Representative: representative,
		params:         params,
	}
}

// MaxThreshold returns the highest work threshold of the network
func MaxThreshold(params *dagconfig.Params) uint64 {
	thresholds := params.WorkThresholds
	threshold := thresholds.Epoch1
	if thresholds.Epoch2 > threshold {
		threshold = thresholds.Epoch2
	}
	if thresholds.Epoch2NoOp > threshold {
		threshold = thresholds.Epoch2NoOp
	}
	return threshold
}

// Send builds a state block sending amount to destination
func (a *TestAccount) Send(destination externalapi.DomainAccount, amount uint64) externalapi.DomainBlock {
	balance, ok := a.Balance.Sub(externalapi.NewDomainAmountFromUint64(amount))
	if !ok {
		panic("sending more than the balance")
	}
	block := externalapi.NewStateBlock(a.Account, a.Head, a.Representative, balance, destination.AsHash())
	return a.append(block, balance)
}

// Receive builds a state block receiving amount from the send
// sourceHash. It opens the account if it has no blocks yet.
func (a *TestAccount) Receive(sourceHash externalapi.DomainHash, amount uint64) externalapi.DomainBlock {
	balance, ok := a.Balance.Add(externalapi.NewDomainAmountFromUint64(amount))
	if !ok {
		panic("receiving overflows the balance")
	}
	block := externalapi.NewStateBlock(a.Account, a.Head, a.Representative, balance, sourceHash)
	return a.append(block, balance)
}

// Change builds a state block changing the representative
func (a *TestAccount) Change(representative externalapi.DomainAccount) externalapi.DomainBlock {
	a.Representative = representative
	block := externalapi.NewStateBlock(a.Account, a.Head, representative, a.Balance, externalapi.ZeroHash)
	return a.append(block, a.Balance)
}

// Upgrade builds an epoch block upgrading the account to epoch, signed
// by the epoch signer of the network
func (a *TestAccount) Upgrade(epoch externalapi.Epoch) externalapi.DomainBlock {
	link, ok := a.params.EpochLink(epoch)
	if !ok {
		panic("unknown epoch")
	}
	representative := a.Representative
	if a.Head.IsZero() {
		representative = externalapi.DomainAccount{}
	}
	block := externalapi.NewStateBlock(a.Account, a.Head, representative, a.Balance, link)
	SignAndSolve(block, a.params.GenesisPrivateKey, MaxThreshold(a.params))
	a.Head = consensushashing.BlockHash(block)
	a.Representative = representative
	return block
}

// LegacySend builds a legacy send block
func (a *TestAccount) LegacySend(destination externalapi.DomainAccount, amount uint64) externalapi.DomainBlock {
	balance, ok := a.Balance.Sub(externalapi.NewDomainAmountFromUint64(amount))
	if !ok {
		panic("sending more than the balance")
	}
	return a.append(externalapi.NewSendBlock(a.Head, destination, balance), balance)
}

// LegacyReceive builds a legacy receive block, or a legacy open block
// if the account has no blocks yet
func (a *TestAccount) LegacyReceive(sourceHash externalapi.DomainHash, amount uint64) externalapi.DomainBlock {
	balance, ok := a.Balance.Add(externalapi.NewDomainAmountFromUint64(amount))
	if !ok {
		panic("receiving overflows the balance")
	}
	if a.Head.IsZero() {
		return a.append(externalapi.NewOpenBlock(sourceHash, a.Representative, a.Account), balance)
	}
	return a.append(externalapi.NewReceiveBlock(a.Head, sourceHash), balance)
}

func (a *TestAccount) append(block externalapi.DomainBlock, balance externalapi.DomainAmount) externalapi.DomainBlock {
	SignAndSolve(block, a.PrivateKey, MaxThreshold(a.params))
	a.Head = consensushashing.BlockHash(block)
	a.Balance = balance
	return block
}
