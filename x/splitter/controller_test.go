package splitter

import (
	"context"
	"testing"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/gconf"
	"github.com/iov-one/splitweave/store"
	"github.com/iov-one/splitweave/weavetest"
	"github.com/iov-one/splitweave/weavetest/assert"
	"github.com/iov-one/splitweave/x/cash"
	"github.com/iov-one/splitweave/x/events"
	"github.com/iov-one/splitweave/x/lifetime"
)

func TestDistributeScenarios(t *testing.T) {
	cases := map[string]struct {
		weights      []uint32
		balance      int64
		wantPayouts  []int64
		wantRetained int64
	}{
		"two equal recipients": {
			weights: []uint32{1, 1}, balance: 100,
			wantPayouts: []int64{50, 50}, wantRetained: 0,
		},
		"three equal recipients keep the dust": {
			weights: []uint32{1, 1, 1}, balance: 100,
			wantPayouts: []int64{33, 33, 33}, wantRetained: 1,
		},
		"zero weight recipient is skipped": {
			weights: []uint32{2, 0, 1}, balance: 90,
			wantPayouts: []int64{60, 0, 30}, wantRetained: 0,
		},
		"uneven weights": {
			weights: []uint32{2, 1}, balance: 99,
			wantPayouts: []int64{66, 33}, wantRetained: 0,
		},
		"nothing to distribute": {
			weights: []uint32{1, 3}, balance: 0,
			wantPayouts: []int64{0, 0}, wantRetained: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t)
			recipients := env.recipients(len(tc.weights))
			assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, recipients, tc.weights))
			env.fund(tc.balance)

			d, err := env.ctrl.Distribute(env.ctx, env.db, env.instance)
			assert.Nil(t, err)
			assert.Equal(t, tc.balance, d.Balance)
			assert.Equal(t, tc.wantRetained, d.Retained)
			assert.Equal(t, len(recipients), len(d.Payouts))

			var wantCalls int
			for i, want := range tc.wantPayouts {
				assert.Equal(t, want, d.Payouts[i].Amount)
				assert.Equal(t, recipients[i], d.Payouts[i].Recipient)
				assert.Equal(t, want, env.balance(recipients[i]))
				if want > 0 {
					wantCalls++
				} else if env.ledger.calls[string(recipients[i])] != 0 {
					t.Fatalf("transfer made to recipient %d with a zero share", i)
				}
			}
			assert.Equal(t, wantCalls, env.ledger.total)
			assert.Equal(t, tc.wantRetained, env.balance(env.instance))

			// the lock is released and the instance can distribute again
			s, err := NewBucket().GetSplitter(env.db, env.instance)
			assert.Nil(t, err)
			assert.Equal(t, false, s.Locked)
			_, err = env.ctrl.Distribute(env.ctx, env.db, env.instance)
			assert.Nil(t, err)
		})
	}
}

func TestInitGuards(t *testing.T) {
	env := newTestEnv(t)
	two := env.recipients(2)

	err := env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, two, []uint32{1})
	assert.IsErr(t, ErrLengthMismatch, err)
	_, err = env.ctrl.Config(env.ctx, env.db, env.instance)
	assert.IsErr(t, ErrNotInitialized, err)

	err = env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, two, []uint32{0, 0})
	assert.IsErr(t, ErrZeroTotalWeight, err)
	_, err = env.ctrl.Config(env.ctx, env.db, env.instance)
	assert.IsErr(t, ErrNotInitialized, err)

	err = env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, nil, nil)
	assert.IsErr(t, ErrZeroTotalWeight, err)

	assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, two, []uint32{3, 1}))

	// the initialization guard is checked before any other
	err = env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, two, []uint32{1})
	assert.IsErr(t, ErrAlreadyInitialized, err)
	err = env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, two, []uint32{5, 5})
	assert.IsErr(t, ErrAlreadyInitialized, err)

	conf, err := env.ctrl.Config(env.ctx, env.db, env.instance)
	assert.Nil(t, err)
	assert.Equal(t, env.asset, conf.Asset)
	assert.Equal(t, two, conf.Recipients)
	assert.Equal(t, []uint32{3, 1}, conf.Weights)
}

func TestInitTooManyRecipients(t *testing.T) {
	env := newTestEnv(t)
	conf := DefaultConfiguration()
	conf.MaxRecipients = 2
	assert.Nil(t, gconf.Save(env.db, packageName, &conf))

	err := env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, env.recipients(3), []uint32{1, 1, 1})
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestDistributeNotInitialized(t *testing.T) {
	env := newTestEnv(t)
	env.fund(100)

	_, err := env.ctrl.Distribute(env.ctx, env.db, env.instance)
	assert.IsErr(t, ErrNotInitialized, err)
	assert.Equal(t, 0, env.ledger.total)
	assert.Equal(t, int64(100), env.balance(env.instance))
}

func TestDistributeNegativeBalance(t *testing.T) {
	env := newTestEnv(t)
	assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, env.recipients(2), []uint32{1, 1}))
	assert.Nil(t, cash.NewBalanceBucket().Set(env.db, env.asset, env.instance, -10))

	_, err := env.ctrl.Distribute(env.ctx, env.db, env.instance)
	assert.IsErr(t, ErrInvalidBalance, err)
	assert.Equal(t, 0, env.ledger.total)

	// the lock was released on the error path
	s, err := NewBucket().GetSplitter(env.db, env.instance)
	assert.Nil(t, err)
	assert.Equal(t, false, s.Locked)
}

func TestDistributeReentrancy(t *testing.T) {
	env := newTestEnv(t)
	recipients := env.recipients(2)
	assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, recipients, []uint32{1, 1}))
	env.fund(100)

	// the first recipient calls back into distribute when paid
	var innerErr error
	env.ledger.RegisterReceiver(recipients[0], cash.ReceiverFunc(func(ctx weave.Context, db weave.KVStore, asset, from weave.Address, amount int64) error {
		_, innerErr = env.ctrl.Distribute(ctx, db, env.instance)
		return innerErr
	}))

	db := env.db.CacheWrap()
	_, err := env.ctrl.Distribute(env.ctx, db, env.instance)
	assert.IsErr(t, ErrReentrancy, innerErr)
	assert.IsErr(t, ErrReentrancy, err)
	// only the transfer that triggered the callback was attempted
	assert.Equal(t, 1, env.ledger.total)
	db.Discard()

	// after the rollback nothing moved and the lock is not stuck
	assert.Equal(t, int64(100), env.balance(env.instance))
	s, err := NewBucket().GetSplitter(env.db, env.instance)
	assert.Nil(t, err)
	assert.Equal(t, false, s.Locked)
}

func TestDistributeReentrancySwallowed(t *testing.T) {
	env := newTestEnv(t)
	recipients := env.recipients(2)
	assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, recipients, []uint32{1, 1}))
	env.fund(10)

	// a receiver that ignores the failure of its nested call does not
	// abort the outer distribution
	var innerErr error
	env.ledger.RegisterReceiver(recipients[0], cash.ReceiverFunc(func(ctx weave.Context, db weave.KVStore, asset, from weave.Address, amount int64) error {
		_, innerErr = env.ctrl.Distribute(ctx, db, env.instance)
		return nil
	}))

	d, err := env.ctrl.Distribute(env.ctx, env.db, env.instance)
	assert.Nil(t, err)
	assert.IsErr(t, ErrReentrancy, innerErr)
	assert.Equal(t, int64(0), d.Retained)
	assert.Equal(t, 2, env.ledger.total)
	assert.Equal(t, int64(5), env.balance(recipients[0]))
	assert.Equal(t, int64(5), env.balance(recipients[1]))
}

func TestDistributePublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	recipients := env.recipients(3)
	assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, recipients, []uint32{1, 1, 1}))
	env.fund(100)

	_, err := env.ctrl.Distribute(env.ctx, env.db, env.instance)
	assert.Nil(t, err)

	evts, err := events.NewBucket().ByTopic(env.db, "distributed")
	assert.Nil(t, err)
	assert.Equal(t, 1, len(evts))
	assert.Equal(t, env.instance, evts[0].Emitter)

	var d Distribution
	assert.Nil(t, proto.Unmarshal(evts[0].Payload, &d))
	assert.Equal(t, int64(100), d.Balance)
	assert.Equal(t, int64(1), d.Retained)
	assert.Equal(t, 3, len(d.Payouts))
	assert.Equal(t, recipients[2], d.Payouts[2].Recipient)
	assert.Equal(t, int64(33), d.Payouts[2].Amount)
}

func TestLifetimeIsExtended(t *testing.T) {
	env := newTestEnv(t)
	assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, env.recipients(1), []uint32{1}))

	until, tracked, err := lifetime.NewBucket().LiveUntil(env.db, env.instance)
	assert.Nil(t, err)
	assert.Equal(t, true, tracked)
	assert.Equal(t, int64(10+5000), until)

	// close to expiry, reading the configuration renews it
	ctx := weave.WithHeight(context.Background(), 5000)
	_, err = env.ctrl.Config(ctx, env.db, env.instance)
	assert.Nil(t, err)
	until, _, err = lifetime.NewBucket().LiveUntil(env.db, env.instance)
	assert.Nil(t, err)
	assert.Equal(t, int64(5000+5000), until)

	// once expired the instance is unusable
	ctx = weave.WithHeight(context.Background(), 20000)
	_, err = env.ctrl.Distribute(ctx, env.db, env.instance)
	assert.IsErr(t, errors.ErrExpired, err)
}

func TestControllerBalance(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.ctrl.Balance(env.ctx, env.db, env.instance)
	assert.IsErr(t, ErrNotInitialized, err)

	assert.Nil(t, env.ctrl.Init(env.ctx, env.db, env.instance, env.asset, env.recipients(1), []uint32{1}))
	env.fund(77)
	got, err := env.ctrl.Balance(env.ctx, env.db, env.instance)
	assert.Nil(t, err)
	assert.Equal(t, int64(77), got)
}

type testEnv struct {
	t        testing.TB
	ctx      weave.Context
	db       weave.CacheableKVStore
	asset    weave.Address
	instance weave.Address
	ledger   *countingLedger
	ctrl     Controller
}

func newTestEnv(t testing.TB) *testEnv {
	ledger := &countingLedger{
		BaseController: cash.NewController(cash.NewBalanceBucket()),
		calls:          make(map[string]int),
	}
	return &testEnv{
		t:        t,
		ctx:      weave.WithHeight(context.Background(), 10),
		db:       store.MemStore(),
		asset:    weavetest.NewCondition().Address(),
		instance: weavetest.NewCondition().Address(),
		ledger:   ledger,
		ctrl:     NewController(NewBucket(), ledger),
	}
}

func (e *testEnv) recipients(n int) []weave.Address {
	res := make([]weave.Address, n)
	for i := range res {
		res[i] = weavetest.NewCondition().Address()
	}
	return res
}

func (e *testEnv) fund(amount int64) {
	if amount == 0 {
		return
	}
	if err := e.ledger.Mint(e.ctx, e.db, e.asset, e.instance, amount); err != nil {
		e.t.Fatalf("cannot fund instance: %s", err)
	}
}

func (e *testEnv) balance(holder weave.Address) int64 {
	got, err := e.ledger.Balance(e.db, e.asset, holder)
	if err != nil {
		e.t.Fatalf("cannot read balance: %s", err)
	}
	return got
}

// countingLedger records every transfer attempt per destination.
type countingLedger struct {
	*cash.BaseController
	calls map[string]int
	total int
}

func (l *countingLedger) Transfer(ctx weave.Context, db weave.KVStore, asset, from, to weave.Address, amount int64) error {
	l.calls[string(to)]++
	l.total++
	return l.BaseController.Transfer(ctx, db, asset, from, to, amount)
}
