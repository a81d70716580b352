package sigs

import (
	"context"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/x"
)

type contextKey int

const signersKey contextKey = 0

// withSigners is unexported, so that only verified signatures ever end up
// in the context.
func withSigners(ctx weave.Context, signers []weave.Condition) weave.Context {
	return context.WithValue(ctx, signersKey, signers)
}

// Authenticate is the x.Authenticator of signature conditions.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the conditions of all keys that signed the
// transaction.
func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	signers, _ := ctx.Value(signersKey).([]weave.Condition)
	return signers
}

// HasAddress returns true if the key with the address signed the
// transaction.
func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
