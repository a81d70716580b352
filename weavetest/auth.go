package weavetest

import (
	weave "github.com/iov-one/splitweave"
)

// Auth is an x.Authenticator that authenticates a single condition, as if
// its owner signed the transaction. A zero Auth authenticates nothing.
type Auth struct {
	Signer weave.Condition
}

func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	if a.Signer == nil {
		return nil
	}
	return []weave.Condition{a.Signer}
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return a.Signer != nil && addr.Equals(a.Signer.Address())
}
