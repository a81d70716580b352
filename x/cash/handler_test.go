package cash

import (
	"context"
	"testing"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/store"
	"github.com/iov-one/splitweave/weavetest"
	"github.com/iov-one/splitweave/weavetest/assert"
)

func TestHandlers(t *testing.T) {
	issuer := weavetest.NewCondition()
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	asset := issuer.Address()

	cases := map[string]struct {
		signer    weave.Condition
		mint      bool
		msg       weave.Msg
		wantErr   *errors.Error
		wantAlice int64
		wantBob   int64
	}{
		"valid send": {
			signer: alice,
			msg: &SendMsg{Asset: asset, Source: alice.Address(),
				Destination: bob.Address(), Amount: 30},
			wantAlice: 70,
			wantBob:   30,
		},
		"missing signature": {
			signer: bob,
			msg: &SendMsg{Asset: asset, Source: alice.Address(),
				Destination: bob.Address(), Amount: 30},
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 100,
		},
		"invalid message": {
			signer: alice,
			msg: &SendMsg{Asset: asset, Source: alice.Address(),
				Destination: bob.Address()},
			wantErr:   errors.ErrInvalidAmount,
			wantAlice: 100,
		},
		"wrong message type": {
			signer:    alice,
			msg:       &MintMsg{Asset: asset, Recipient: alice.Address(), Amount: 1},
			wantErr:   errors.ErrInvalidType,
			wantAlice: 100,
		},
		"mint by the issuer": {
			signer:    issuer,
			mint:      true,
			msg:       &MintMsg{Asset: asset, Recipient: bob.Address(), Amount: 5},
			wantAlice: 100,
			wantBob:   5,
		},
		"mint without the issuer": {
			signer:    alice,
			mint:      true,
			msg:       &MintMsg{Asset: asset, Recipient: alice.Address(), Amount: 5},
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBalanceBucket())
			assert.Nil(t, ctrl.Mint(context.Background(), db, asset, alice.Address(), 100))

			auth := &weavetest.Auth{Signer: tc.signer}
			var h weave.Handler = NewSendHandler(auth, ctrl)
			if tc.mint {
				h = NewMintHandler(auth, ctrl)
			}
			tx := &weavetest.Tx{Msg: tc.msg}

			_, err := h.Check(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}

			_, err = h.Deliver(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}

			got, err := ctrl.Balance(db, asset, alice.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = ctrl.Balance(db, asset, bob.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}

func TestBalanceQuery(t *testing.T) {
	asset := weavetest.NewCondition().Address()
	alice := weavetest.NewCondition().Address()
	db := store.MemStore()
	ctrl := NewController(NewBalanceBucket())
	assert.Nil(t, ctrl.Mint(context.Background(), db, asset, alice, 42))

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)

	h := qr.Handler("/cash/balance")
	if h == nil {
		t.Fatal("balance query not registered")
	}
	models, err := h.Query(db, weave.KeyQueryMod, BalanceKey(asset, alice))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))

	var b Balance
	assert.Nil(t, proto.Unmarshal(models[0].Value, &b))
	assert.Equal(t, int64(42), b.Amount)

	models, err = qr.Handler("/cash/balance/holder").Query(db, weave.KeyQueryMod, alice)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
}
