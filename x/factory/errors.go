package factory

import "github.com/iov-one/splitweave/errors"

var (
	ErrFactoryNotInitialized = errors.Register(210, "factory not initialized")
	ErrAlreadyInitialized    = errors.Register(211, "factory already initialized")
)
