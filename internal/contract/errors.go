package contract

import (
	"errors"
	"fmt"
)

// Errors surfaced by the contract boundary. Reverts arrive wrapped in a
// *TxError on the failed TxUpdate; call-site errors are returned directly.
var (
	ErrWalletNotConnected = errors.New("contract: wallet not connected")

	ErrUnknownMethod = errors.New("contract: method not in interface description")

	ErrNotPayable = errors.New("contract: method does not accept value")

	ErrUnknownTx = errors.New("contract: unknown transaction")

	ErrClosed = errors.New("contract: client closed")

	ErrAlreadyRegistered = errors.New("contract: artist already registered")

	ErrArtistNotRegistered = errors.New("contract: sender is not a registered artist")

	ErrUnknownArtist = errors.New("contract: unknown artist")

	ErrUnknownTrack = errors.New("contract: unknown track")

	ErrInactiveTrack = errors.New("contract: track is not active")

	ErrInvalidArgument = errors.New("contract: invalid argument")

	ErrInvalidRoyaltyRate = errors.New("contract: royalty rate must be between 0 and 100")

	ErrZeroPayment = errors.New("contract: stream payment must be positive")
)

// TxError is a reverted transaction.
type TxError struct {
	Hash    TxHash
	Method  string
	Wrapped error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%s %s reverted: %v", e.Method, e.Hash.Short(), e.Wrapped)
}

func (e *TxError) Unwrap() error {
	return e.Wrapped
}
