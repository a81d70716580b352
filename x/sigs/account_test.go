package sigs

import (
	"math"
	"testing"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/crypto"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountBucket(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	// an unknown key starts at zero and is not stored yet
	acc, err := b.Account(db, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Nonce)
	assert.Equal(t, pub, acc.Pubkey)
	has, err := b.Has(db, pub.Address())
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, acc.Use(0))
	require.NoError(t, acc.Use(1))
	assert.True(t, ErrInvalidSequence.Is(acc.Use(1)))
	assert.True(t, ErrInvalidSequence.Is(acc.Use(7)))
	require.NoError(t, b.SaveAccount(db, acc))

	loaded, err := b.Account(db, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.Nonce)

	nonce, err := NextNonce(db, pub.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), nonce)
	nonce, err = NextNonce(db, crypto.GenPrivKeyEd25519().PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(0), nonce)

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)
	models, err := qr.Handler("/auth").Query(db, weave.KeyQueryMod, pub.Address())
	require.NoError(t, err)
	assert.Equal(t, 1, len(models))
}

func TestAccountValidation(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		acc     *Account
		wantErr *errors.Error
	}{
		"valid":              {acc: &Account{Pubkey: pub, Nonce: 17}},
		"missing key":        {acc: &Account{Nonce: 1}, wantErr: errors.ErrModel},
		"short key":          {acc: &Account{Pubkey: &crypto.PublicKey{Ed25519: []byte{1, 2}}}, wantErr: errors.ErrModel},
		"negative nonce":     {acc: &Account{Pubkey: pub, Nonce: -30}, wantErr: ErrInvalidSequence},
		"nonce out of range": {acc: &Account{Pubkey: pub, Nonce: maxNonce + 1}, wantErr: ErrInvalidSequence},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.acc.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			}
		})
	}
}

func TestNonceExhausted(t *testing.T) {
	acc := &Account{Nonce: maxNonce - 1}
	assert.NoError(t, acc.Use(maxNonce-1))
	assert.True(t, errors.ErrOverflow.Is(acc.Use(maxNonce)))
	assert.Equal(t, int64(maxNonce), acc.Nonce)

	acc = &Account{Nonce: math.MaxInt64}
	assert.True(t, errors.ErrOverflow.Is(acc.Use(math.MaxInt64)))
}

func TestAccountCopy(t *testing.T) {
	acc := &Account{Pubkey: crypto.GenPrivKeyEd25519().PublicKey(), Nonce: 3}
	cpy := acc.Copy().(*Account)
	assert.Equal(t, acc, cpy)
	cpy.Pubkey.Ed25519[0]++
	assert.NotEqual(t, acc.Pubkey, cpy.Pubkey)

	// the bucket prototype has no key
	assert.Equal(t, &Account{}, (&Account{}).Copy())
}
