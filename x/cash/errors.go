package cash

import "github.com/iov-one/splitweave/errors"

// ErrHookDepth is returned when receiver hooks trigger transfers nested
// deeper than the ledger allows.
var ErrHookDepth = errors.Register(230, "receiver hook nesting too deep")
