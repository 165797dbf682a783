package app

import (
	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
)

// autoCementer queues every live block for cementing as soon as it is
// accepted. Development networks have no voting, so nothing else would
// ever confirm their blocks.
type autoCementer struct {
	consensus externalapi.Consensus
}

func newAutoCementer(consensus externalapi.Consensus) *autoCementer {
	return &autoCementer{consensus: consensus}
}

func (ac *autoCementer) OnLiveBlock(_ *externalapi.BlockWithSideband, blockHash externalapi.DomainHash) {
	ac.consensus.Cement(blockHash)
}

func (ac *autoCementer) OnBlockRolledBack(_ *externalapi.BlockWithSideband, blockHash externalapi.DomainHash) {
	log.Debugf("Block %s was rolled back before it was cemented", blockHash)
}
