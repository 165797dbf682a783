package ruleerrors

import (
	"fmt"

	"github.com/latticenet/latticed/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrOld indicates a block with the same hash already exists in
	// the ledger.
	ErrOld = newRuleError("ErrOld", "old")

	// ErrInsufficientWork indicates the block proof of work is below
	// the threshold for what the block does.
	ErrInsufficientWork = newRuleError("ErrInsufficientWork", "insufficient_work")

	// ErrOpenedBurnAccount indicates an attempt to open the all-zero
	// account.
	ErrOpenedBurnAccount = newRuleError("ErrOpenedBurnAccount", "opened_burn_account")

	// ErrGapPrevious indicates the previous block is not in the ledger.
	ErrGapPrevious = newRuleError("ErrGapPrevious", "gap_previous")

	// ErrGapSource indicates the send being received is not in the ledger.
	ErrGapSource = newRuleError("ErrGapSource", "gap_source")

	// ErrBlockPosition indicates the block may not appear at this point
	// of the chain: a legacy block after a state block or on an upgraded
	// account, a chain starting with a representative change, or an
	// epoch block skipping an epoch.
	ErrBlockPosition = newRuleError("ErrBlockPosition", "block_position")

	// ErrUnreceivable indicates the pending entry being received does
	// not exist, or is not receivable by this kind of block.
	ErrUnreceivable = newRuleError("ErrUnreceivable", "unreceivable")

	// ErrGapEpochOpenPending indicates an epoch block opening an account
	// that has nothing pending.
	ErrGapEpochOpenPending = newRuleError("ErrGapEpochOpenPending", "gap_epoch_open_pending")

	// ErrBadSignature indicates the block is not signed by its signer.
	ErrBadSignature = newRuleError("ErrBadSignature", "bad_signature")

	// ErrFork indicates the block does not extend the current head of
	// its account, or opens an account that is already open.
	ErrFork = newRuleError("ErrFork", "fork")

	// ErrNegativeSpend indicates a legacy send increasing the balance.
	ErrNegativeSpend = newRuleError("ErrNegativeSpend", "negative_spend")

	// ErrBalanceMismatch indicates the declared balance does not match
	// what the block does.
	ErrBalanceMismatch = newRuleError("ErrBalanceMismatch", "balance_mismatch")

	// ErrRepresentativeMismatch indicates an epoch block changing the
	// representative.
	ErrRepresentativeMismatch = newRuleError("ErrRepresentativeMismatch", "representative_mismatch")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message string
	detail  string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is reports whether target is the same rule, regardless of the
// inner error carried by either side.
func (e RuleError) Is(target error) bool {
	targetRuleError, ok := target.(RuleError)
	return ok && targetRuleError.message == e.message
}

// Detail returns the snake_case name of the rule, as used in statistics.
func (e RuleError) Detail() string {
	return e.detail
}

func newRuleError(message string, detail string) RuleError {
	return RuleError{message: message, detail: detail, inner: nil}
}

// ErrMissingDependency is the block a gap error is waiting for
type ErrMissingDependency struct {
	Hash externalapi.DomainHash
}

func (e ErrMissingDependency) Error() string {
	return fmt.Sprintf("missing dependency %s", e.Hash)
}

// NewErrGapPrevious creates a new ErrGapPrevious error carrying the
// missing previous hash
func NewErrGapPrevious(missingPrevious externalapi.DomainHash) error {
	return errors.WithStack(RuleError{
		message: ErrGapPrevious.message,
		detail:  ErrGapPrevious.detail,
		inner:   ErrMissingDependency{Hash: missingPrevious},
	})
}

// NewErrGapSource creates a new ErrGapSource error carrying the
// missing source hash
func NewErrGapSource(missingSource externalapi.DomainHash) error {
	return errors.WithStack(RuleError{
		message: ErrGapSource.message,
		detail:  ErrGapSource.detail,
		inner:   ErrMissingDependency{Hash: missingSource},
	})
}

// AsRuleError returns the RuleError in err's chain, if any
func AsRuleError(err error) (RuleError, bool) {
	var ruleErr RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr, true
	}
	return RuleError{}, false
}

// MissingDependency returns the hash a gap error is waiting for
func MissingDependency(err error) (externalapi.DomainHash, bool) {
	var missing ErrMissingDependency
	if errors.As(err, &missing) {
		return missing.Hash, true
	}
	return externalapi.DomainHash{}, false
}
