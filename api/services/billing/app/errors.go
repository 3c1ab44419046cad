package app

import "errors"

// Typed errors for the billing app layer. These enable HTTP status mapping
// without leaking SDK or driver error types into the transport layer.
var (

	// ErrNotFound indicates a plan or subscription lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrGateway indicates the payment provider rejected the call or returned
	// an unparsable response.
	ErrGateway = errors.New("gateway error")
	// ErrInvalidSignature indicates a webhook whose MAC did not verify.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrDatabase indicates a local persistence failure.
	ErrDatabase = errors.New("database error")
	// ErrConflict indicates a data-integrity invariant violation, such as two
	// pending subscriptions sharing one payment request id.
	ErrConflict = errors.New("conflict")
)
