package dagconfig

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// EpochParams binds an epoch to the link that upgrades accounts to it
// and to the account allowed to sign such upgrades.
type EpochParams struct {
	Epoch  externalapi.Epoch
	Link   externalapi.DomainHash
	Signer externalapi.DomainAccount
}

// epochLink returns the link of an epoch upgrade: the ASCII text
// "epoch vN block" padded with zeros.
func epochLink(version byte) externalapi.DomainHash {
	var link [externalapi.DomainHashSize]byte
	copy(link[:], "epoch v"+string('0'+version)+" block")
	return externalapi.NewDomainHashFromByteArray(&link)
}

func newEpochs(signer externalapi.DomainAccount) []EpochParams {
	return []EpochParams{
		{Epoch: externalapi.Epoch1, Link: epochLink(1), Signer: signer},
		{Epoch: externalapi.Epoch2, Link: epochLink(2), Signer: signer},
	}
}

// EpochForLink returns the epoch upgraded to by blocks with the given link
func (p *Params) EpochForLink(link externalapi.DomainHash) (externalapi.Epoch, bool) {
	for _, epoch := range p.Epochs {
		if epoch.Link == link {
			return epoch.Epoch, true
		}
	}
	return externalapi.Epoch0, false
}

// IsEpochLink returns whether link upgrades accounts to some epoch
func (p *Params) IsEpochLink(link externalapi.DomainHash) bool {
	_, ok := p.EpochForLink(link)
	return ok
}

// EpochLink returns the link of the given epoch
func (p *Params) EpochLink(epoch externalapi.Epoch) (externalapi.DomainHash, bool) {
	for _, epochParams := range p.Epochs {
		if epochParams.Epoch == epoch {
			return epochParams.Link, true
		}
	}
	return externalapi.DomainHash{}, false
}

// EpochSigner returns the account allowed to sign upgrades to the given epoch
func (p *Params) EpochSigner(epoch externalapi.Epoch) (externalapi.DomainAccount, bool) {
	for _, epochParams := range p.Epochs {
		if epochParams.Epoch == epoch {
			return epochParams.Signer, true
		}
	}
	return externalapi.DomainAccount{}, false
}
