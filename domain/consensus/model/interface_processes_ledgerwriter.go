package model

// LedgerWriter writes accepted blocks to the ledger
type LedgerWriter interface {
	ApplyDelta(dbTx DBWriter, delta *BlockDelta) error
	InsertGenesis(dbTx DBWriter) error
}
