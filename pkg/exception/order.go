package exception

import "github.com/yanun0323/errors"

var (
	ErrOrderUnknownSide        = errors.New("order: unknown side")
	ErrOrderEmptyID            = errors.New("order: empty order id")
	ErrOrderDecodeResponseBody = errors.New("order: decode response body")
	ErrOrderVenueRejected      = errors.New("order: venue rejected request")
	ErrAccountNotInitialized   = errors.New("order: account not initialized on this network")
	ErrMissingCredentials      = errors.New("order: missing PK or ADDRESS credentials")
	ErrNilSigner               = errors.New("order: nil signer")
)
