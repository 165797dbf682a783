package externalapi

// AccountInfo is the latest state of an opened account
type AccountInfo struct {
	Head           DomainHash
	Open           DomainHash
	Representative DomainAccount
	Balance        DomainAmount
	Modified       int64
	BlockCount     uint64
	Epoch          Epoch
}

// Clone returns a copy of the account info
func (info *AccountInfo) Clone() *AccountInfo {
	clone := *info
	return &clone
}

// PendingKey identifies a pending entry: the receiving account and
// the hash of the send that created it.
type PendingKey struct {
	Account DomainAccount
	Hash    DomainHash
}

// PendingInfo is an amount sent to an account and not yet received
type PendingInfo struct {
	Source DomainAccount
	Amount DomainAmount
	Epoch  Epoch
}

// ConfirmationHeightInfo is the cemented prefix of an account chain.
// Frontier is the hash of the highest cemented block.
type ConfirmationHeightInfo struct {
	Height   uint64
	Frontier DomainHash
}

// SignatureVerification records what is known about a block signature
type SignatureVerification uint8

// SignatureVerification constants
const (
	SignatureVerificationUnknown SignatureVerification = iota
	SignatureVerificationInvalid
	SignatureVerificationValid
	SignatureVerificationValidEpoch
)

func (verification SignatureVerification) String() string {
	switch verification {
	case SignatureVerificationInvalid:
		return "invalid"
	case SignatureVerificationValid:
		return "valid"
	case SignatureVerificationValidEpoch:
		return "valid_epoch"
	}
	return "unknown"
}

// UncheckedKey identifies a parked block: the dependency it waits for
// and its own hash.
type UncheckedKey struct {
	Dependency DomainHash
	Hash       DomainHash
}

// UncheckedInfo is a block waiting for a missing previous or source.
// Source is where the block came from before it was parked.
type UncheckedInfo struct {
	Block    DomainBlock
	Arrival  int64
	Verified SignatureVerification
	Source   BlockSource
}

// PendingEntry is a pending key together with its info
type PendingEntry struct {
	Key  *PendingKey
	Info *PendingInfo
}

// Frontier is the head block of an account chain
type Frontier struct {
	Account DomainAccount
	Head    DomainHash
}

// LedgerCounts are the sizes of the ledger tables
type LedgerCounts struct {
	Blocks    uint64
	Cemented  uint64
	Accounts  uint64
	Unchecked uint64
}
