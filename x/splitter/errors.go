package splitter

import "github.com/iov-one/splitweave/errors"

var (
	ErrAlreadyInitialized = errors.Register(200, "splitter already initialized")
	ErrNotInitialized     = errors.Register(201, "splitter not initialized")
	ErrLengthMismatch     = errors.Register(202, "recipients and weights length mismatch")
	ErrZeroTotalWeight    = errors.Register(203, "total weight is zero")
	ErrReentrancy         = errors.Register(204, "reentrancy detected")
	ErrInvalidBalance     = errors.Register(205, "invalid balance")
)
