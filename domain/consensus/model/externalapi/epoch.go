package externalapi

import "fmt"

// Epoch is a ledger-wide version marker carried by accounts and by the
// blocks and pending entries they produce.
type Epoch uint8

// Epoch constants
const (
	Epoch0 Epoch = iota
	Epoch1
	Epoch2

	// EpochMax is the highest epoch known to this node
	EpochMax = Epoch2
)

func (epoch Epoch) String() string {
	return fmt.Sprintf("epoch_%d", uint8(epoch))
}

// MaxEpoch returns the greater of the two epochs
func MaxEpoch(a, b Epoch) Epoch {
	if a > b {
		return a
	}
	return b
}
