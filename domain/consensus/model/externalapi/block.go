package externalapi

import "fmt"

// BlockType identifies the variant of a DomainBlock
type BlockType uint8

// BlockType constants. The values are part of the serialized block format.
const (
	BlockTypeInvalid BlockType = iota
	BlockTypeSend
	BlockTypeReceive
	BlockTypeOpen
	BlockTypeChange
	BlockTypeState
)

var blockTypeStrings = map[BlockType]string{
	BlockTypeInvalid: "invalid",
	BlockTypeSend:    "send",
	BlockTypeReceive: "receive",
	BlockTypeOpen:    "open",
	BlockTypeChange:  "change",
	BlockTypeState:   "state",
}

func (blockType BlockType) String() string {
	if str, ok := blockTypeStrings[blockType]; ok {
		return str
	}
	return fmt.Sprintf("unknown(%d)", uint8(blockType))
}

// IsLegacy returns whether blocks of this type predate state blocks
func (blockType BlockType) IsLegacy() bool {
	return blockType == BlockTypeSend || blockType == BlockTypeReceive ||
		blockType == BlockTypeOpen || blockType == BlockTypeChange
}

// DomainBlock is a single block of an account chain. Every variant has
// a previous hash (zero for chain roots), a signature and a proof of
// work. Accessors for fields that only some variants carry return false
// as their second value on the other variants.
type DomainBlock interface {
	Type() BlockType
	Previous() DomainHash
	Signature() DomainSignature
	Work() uint64

	// Account is carried by open and state blocks.
	Account() (DomainAccount, bool)

	// Balance is carried by send and state blocks.
	Balance() (DomainAmount, bool)

	// Representative is carried by open, change and state blocks.
	Representative() (DomainAccount, bool)

	// Source is carried by receive and open blocks.
	Source() (DomainHash, bool)

	// Destination is carried by send blocks.
	Destination() (DomainAccount, bool)

	// Link is carried by state blocks.
	Link() (DomainHash, bool)

	// SetSignature and SetWork do not change the block hash.
	SetSignature(signature DomainSignature)
	SetWork(work uint64)

	Clone() DomainBlock
}

type blockBase struct {
	previous  DomainHash
	signature DomainSignature
	work      uint64
}

func (b *blockBase) Previous() DomainHash                   { return b.previous }
func (b *blockBase) Signature() DomainSignature             { return b.signature }
func (b *blockBase) Work() uint64                           { return b.work }
func (b *blockBase) SetSignature(signature DomainSignature) { b.signature = signature }
func (b *blockBase) SetWork(work uint64)                    { b.work = work }
func (b *blockBase) Account() (DomainAccount, bool)         { return DomainAccount{}, false }
func (b *blockBase) Balance() (DomainAmount, bool)          { return DomainAmount{}, false }
func (b *blockBase) Representative() (DomainAccount, bool)  { return DomainAccount{}, false }
func (b *blockBase) Source() (DomainHash, bool)             { return DomainHash{}, false }
func (b *blockBase) Destination() (DomainAccount, bool)     { return DomainAccount{}, false }
func (b *blockBase) Link() (DomainHash, bool)               { return DomainHash{}, false }

// SendBlock is a legacy block moving funds out of the chain.
type SendBlock struct {
	blockBase
	destination DomainAccount
	balance     DomainAmount
}

// NewSendBlock returns an unsigned send block
func NewSendBlock(previous DomainHash, destination DomainAccount, balance DomainAmount) *SendBlock {
	return &SendBlock{blockBase: blockBase{previous: previous}, destination: destination, balance: balance}
}

// Type returns BlockTypeSend
func (b *SendBlock) Type() BlockType { return BlockTypeSend }

// Destination returns the receiving account
func (b *SendBlock) Destination() (DomainAccount, bool) { return b.destination, true }

// Balance returns the chain balance after the send
func (b *SendBlock) Balance() (DomainAmount, bool) { return b.balance, true }

// Clone returns a copy of the block
func (b *SendBlock) Clone() DomainBlock {
	clone := *b
	return &clone
}

// ReceiveBlock is a legacy block claiming a pending send.
type ReceiveBlock struct {
	blockBase
	source DomainHash
}

// NewReceiveBlock returns an unsigned receive block
func NewReceiveBlock(previous DomainHash, source DomainHash) *ReceiveBlock {
	return &ReceiveBlock{blockBase: blockBase{previous: previous}, source: source}
}

// Type returns BlockTypeReceive
func (b *ReceiveBlock) Type() BlockType { return BlockTypeReceive }

// Source returns the hash of the send being received
func (b *ReceiveBlock) Source() (DomainHash, bool) { return b.source, true }

// Clone returns a copy of the block
func (b *ReceiveBlock) Clone() DomainBlock {
	clone := *b
	return &clone
}

// OpenBlock is the legacy first block of a chain. It has no previous.
type OpenBlock struct {
	blockBase
	source         DomainHash
	representative DomainAccount
	account        DomainAccount
}

// NewOpenBlock returns an unsigned open block
func NewOpenBlock(source DomainHash, representative DomainAccount, account DomainAccount) *OpenBlock {
	return &OpenBlock{source: source, representative: representative, account: account}
}

// Type returns BlockTypeOpen
func (b *OpenBlock) Type() BlockType { return BlockTypeOpen }

// Source returns the hash of the send being received
func (b *OpenBlock) Source() (DomainHash, bool) { return b.source, true }

// Representative returns the representative chosen by the opened account
func (b *OpenBlock) Representative() (DomainAccount, bool) { return b.representative, true }

// Account returns the opened account
func (b *OpenBlock) Account() (DomainAccount, bool) { return b.account, true }

// Clone returns a copy of the block
func (b *OpenBlock) Clone() DomainBlock {
	clone := *b
	return &clone
}

// ChangeBlock is a legacy block changing the representative of a chain.
type ChangeBlock struct {
	blockBase
	representative DomainAccount
}

// NewChangeBlock returns an unsigned change block
func NewChangeBlock(previous DomainHash, representative DomainAccount) *ChangeBlock {
	return &ChangeBlock{blockBase: blockBase{previous: previous}, representative: representative}
}

// Type returns BlockTypeChange
func (b *ChangeBlock) Type() BlockType { return BlockTypeChange }

// Representative returns the new representative
func (b *ChangeBlock) Representative() (DomainAccount, bool) { return b.representative, true }

// Clone returns a copy of the block
func (b *ChangeBlock) Clone() DomainBlock {
	clone := *b
	return &clone
}

// StateBlock carries the full account state. What it does is derived
// from the balance change and the link, see BlockDetails.
type StateBlock struct {
	blockBase
	account        DomainAccount
	representative DomainAccount
	balance        DomainAmount
	link           DomainHash
}

// NewStateBlock returns an unsigned state block
func NewStateBlock(account DomainAccount, previous DomainHash, representative DomainAccount,
	balance DomainAmount, link DomainHash) *StateBlock {

	return &StateBlock{
		blockBase:      blockBase{previous: previous},
		account:        account,
		representative: representative,
		balance:        balance,
		link:           link,
	}
}

// Type returns BlockTypeState
func (b *StateBlock) Type() BlockType { return BlockTypeState }

// Account returns the owning account
func (b *StateBlock) Account() (DomainAccount, bool) { return b.account, true }

// Representative returns the account representative after this block
func (b *StateBlock) Representative() (DomainAccount, bool) { return b.representative, true }

// Balance returns the account balance after this block
func (b *StateBlock) Balance() (DomainAmount, bool) { return b.balance, true }

// Link returns the source hash, destination account or epoch link
func (b *StateBlock) Link() (DomainHash, bool) { return b.link, true }

// Clone returns a copy of the block
func (b *StateBlock) Clone() DomainBlock {
	clone := *b
	return &clone
}

// BlockRoot returns the hash proof of work is computed over: the
// previous hash, or the account for the first block of a chain.
func BlockRoot(block DomainBlock) DomainHash {
	previous := block.Previous()
	if previous.IsZero() {
		if account, ok := block.Account(); ok {
			return account.AsHash()
		}
	}
	return previous
}

// QualifiedRoot identifies a chain position. Two different blocks with
// the same qualified root are forks of each other.
type QualifiedRoot struct {
	Root     DomainHash
	Previous DomainHash
}

// BlockQualifiedRoot returns the qualified root of the block
func BlockQualifiedRoot(block DomainBlock) QualifiedRoot {
	return QualifiedRoot{Root: BlockRoot(block), Previous: block.Previous()}
}
