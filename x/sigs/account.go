package sigs

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/crypto"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// BucketName is the name of the bucket keeping an Account for every key
// that ever signed a transaction.
const BucketName = "sigs"

// maxNonce is the largest integer a javascript client represents exactly.
const maxNonce = 1<<53 - 1

// Account is stored under the address of its key. Nonce is the value the
// next signature of that key must carry, so that a signed transaction
// cannot be delivered twice.
type Account struct {
	Pubkey *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Nonce  int64             `protobuf:"varint,2,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

var _ orm.CloneableData = (*Account)(nil)

func (a *Account) Reset()         { *a = Account{} }
func (a *Account) String() string { return proto.CompactTextString(a) }
func (*Account) ProtoMessage()    {}

func (a *Account) Validate() error {
	if a.Pubkey == nil || len(a.Pubkey.Ed25519) != crypto.PublicKeySize {
		return errors.Wrap(errors.ErrModel, "invalid public key")
	}
	if a.Nonce < 0 || a.Nonce > maxNonce {
		return errors.Wrapf(ErrInvalidSequence, "nonce %d out of range", a.Nonce)
	}
	return nil
}

func (a *Account) Copy() orm.CloneableData {
	cpy := &Account{Nonce: a.Nonce}
	if a.Pubkey != nil {
		cpy.Pubkey = &crypto.PublicKey{Ed25519: append([]byte(nil), a.Pubkey.Ed25519...)}
	}
	return cpy
}

// Use consumes the nonce n, which must be the expected one.
func (a *Account) Use(n int64) error {
	if n != a.Nonce {
		return errors.Wrapf(ErrInvalidSequence, "want nonce %d, got %d", a.Nonce, n)
	}
	if a.Nonce >= maxNonce {
		return errors.Wrap(errors.ErrOverflow, "nonce exhausted")
	}
	a.Nonce++
	return nil
}

// Bucket stores accounts.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns the bucket of all accounts.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Account{})),
	}
}

// Account returns the account of the key. A key that never signed gets a
// new account, expecting nonce zero. It is stored only by Save.
func (b Bucket) Account(db weave.ReadOnlyKVStore, key *crypto.PublicKey) (*Account, error) {
	obj, err := b.Get(db, key.Address())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &Account{Pubkey: key}, nil
	}
	acc, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return acc, nil
}

// SaveAccount stores the account under the address of its key.
func (b Bucket) SaveAccount(db weave.KVStore, acc *Account) error {
	if err := acc.Validate(); err != nil {
		return err
	}
	return b.Save(db, orm.NewSimpleObj(acc.Pubkey.Address(), acc))
}

// NextNonce returns the nonce the next signature of the key with the given
// address must use.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil || obj == nil {
		return 0, err
	}
	acc, ok := obj.Value().(*Account)
	if !ok {
		return 0, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return acc.Nonce, nil
}

// RegisterQuery exposes the accounts as "/auth".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("auth", qr)
}
