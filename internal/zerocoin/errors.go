package zerocoin

import "errors"

// Error kinds. Call sites wrap them with context; test with errors.Is.
//
// A failed Verify is not an error: verification methods report a plain bool.
var (
	// ErrConfiguration means parameters are missing, unvalidated or inconsistent.
	ErrConfiguration = errors.New("invalid zerocoin parameters")
	// ErrValidation means an input was rejected: wrong denomination, invalid coin, or
	// commitments that do not hide the same value.
	ErrValidation = errors.New("zerocoin validation failed")
	// ErrExhausted means minting ran out of attempts without finding a valid coin.
	ErrExhausted = errors.New("unable to mint a new coin")
)
