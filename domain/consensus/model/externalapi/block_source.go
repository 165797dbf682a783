package externalapi

// BlockSource tells where a block handed to the ledger came from
type BlockSource uint8

// BlockSource constants
const (
	BlockSourceLive BlockSource = iota
	BlockSourceBootstrap
	BlockSourceLocal
	BlockSourceUnchecked
	BlockSourceForced
)

var blockSourceStrings = [...]string{"live", "bootstrap", "local", "unchecked", "forced"}

func (source BlockSource) String() string {
	if int(source) < len(blockSourceStrings) {
		return blockSourceStrings[source]
	}
	return "unknown"
}
