package weavetest

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/crypto"
)

// NewCondition returns the signature condition of a freshly generated key.
func NewCondition() weave.Condition {
	return crypto.GenPrivKeyEd25519().PublicKey().Condition()
}
