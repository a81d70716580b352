package deploy

import "github.com/iov-one/splitweave/errors"

// ErrCollision is returned when an instance already exists at the derived
// address.
var ErrCollision = errors.Register(220, "deployment address collision")
