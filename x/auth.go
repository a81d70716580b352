package x

import (
	weave "github.com/iov-one/splitweave"
)

// Authenticator tells which conditions are fulfilled for the transaction
// being processed. Handlers receive it in their constructor, so that they
// never depend on how a transaction was authenticated.
//
// A source of funds or an asset issuer authorizes an operation only if its
// address is authenticated. Splitter instances are never authenticated, so
// nothing but a distribution can move their funds.
type Authenticator interface {
	// GetConditions returns all fulfilled conditions.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress returns true if any fulfilled condition has this address.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth combines several Authenticators. A condition is fulfilled if
// any of them fulfills it.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth returns an Authenticator combining all given ones.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions returns conditions of all Authenticators, in order and
// without duplicates.
func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	for _, impl := range m.impls {
	next:
		for _, c := range impl.GetConditions(ctx) {
			for _, seen := range res {
				if seen.Equals(c) {
					continue next
				}
			}
			res = append(res, c)
		}
	}
	return res
}

// HasAddress returns true if any Authenticator has this address.
func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}
