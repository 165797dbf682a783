package model

import "github.com/latticenet/latticed/domain/consensus/model/externalapi"

// ConfirmationHeightStore represents a store of per-account confirmation
// heights. Accounts without a record have a confirmation height of zero.
type ConfirmationHeightStore interface {
	Put(dbTx DBWriter, account externalapi.DomainAccount, info *externalapi.ConfirmationHeightInfo) error
	ConfirmationHeight(dbContext DBReader, account externalapi.DomainAccount) (*externalapi.ConfirmationHeightInfo, error)
	CementedCount(dbContext DBReader) (uint64, error)
}
