package sigs

import (
	"github.com/iov-one/splitweave/errors"
)

// ErrInvalidSequence is returned when a signature nonce does not match the
// one stored for the signer.
var ErrInvalidSequence = errors.Register(240, "invalid sequence number")
