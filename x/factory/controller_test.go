package factory

import (
	"bytes"
	"testing"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/gconf"
	"github.com/iov-one/splitweave/store"
	"github.com/iov-one/splitweave/weavetest"
	"github.com/iov-one/splitweave/weavetest/assert"
	"github.com/iov-one/splitweave/x/cash"
	"github.com/iov-one/splitweave/x/deploy"
	"github.com/iov-one/splitweave/x/events"
	"github.com/iov-one/splitweave/x/splitter"
)

func TestInit(t *testing.T) {
	db := store.MemStore()
	ctx := blockCtx(1, 1000)
	ctrl := newController()
	factory := weavetest.NewCondition().Address()
	first := install(t, db, "first")
	second := install(t, db, "second")

	err := ctrl.Init(ctx, db, factory, deploy.TemplateID([]byte("unknown")))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = ctrl.Template(ctx, db, factory)
	assert.IsErr(t, ErrFactoryNotInitialized, err)

	assert.Nil(t, ctrl.Init(ctx, db, factory, first))
	err = ctrl.Init(ctx, db, factory, second)
	assert.IsErr(t, ErrAlreadyInitialized, err)

	got, err := ctrl.Template(ctx, db, factory)
	assert.Nil(t, err)
	assert.Equal(t, first, got)

	conf := DefaultConfiguration()
	conf.AllowReinit = true
	assert.Nil(t, gconf.Save(db, packageName, &conf))
	assert.Nil(t, ctrl.Init(ctx, db, factory, second))
	got, err = ctrl.Template(ctx, db, factory)
	assert.Nil(t, err)
	assert.Equal(t, second, got)
}

func TestCreateNotInitialized(t *testing.T) {
	db := store.MemStore()
	ctrl := newController()
	asset := weavetest.NewCondition().Address()
	alice := weavetest.NewCondition().Address()

	_, err := ctrl.Create(blockCtx(1, 1000), db, weavetest.NewCondition().Address(),
		asset, []weave.Address{alice}, []uint32{1}, nil)
	assert.IsErr(t, ErrFactoryNotInitialized, err)
}

func TestCreateContextSalt(t *testing.T) {
	db := store.MemStore()
	ctrl := newController()
	factory := weavetest.NewCondition().Address()
	asset := weavetest.NewCondition().Address()
	recipients := []weave.Address{weavetest.NewCondition().Address(), weavetest.NewCondition().Address()}
	weights := []uint32{1, 3}

	ctx := blockCtx(4, 1000)
	assert.Nil(t, ctrl.Init(ctx, db, factory, install(t, db, "splitter")))

	a, err := ctrl.Create(ctx, db, factory, asset, recipients, weights, []byte("salt-a"))
	assert.Nil(t, err)
	b, err := ctrl.Create(ctx, db, factory, asset, recipients, weights, []byte("salt-b"))
	assert.Nil(t, err)
	if a.Equals(b) {
		t.Fatal("distinct salts must give distinct instances")
	}

	_, err = ctrl.Create(ctx, db, factory, asset, recipients, weights, []byte("salt-a"))
	assert.IsErr(t, deploy.ErrCollision, err)

	// without a salt the block decides
	c, err := ctrl.Create(ctx, db, factory, asset, recipients, weights, nil)
	assert.Nil(t, err)
	_, err = ctrl.Create(ctx, db, factory, asset, recipients, weights, nil)
	assert.IsErr(t, deploy.ErrCollision, err)
	d, err := ctrl.Create(blockCtx(5, 1005), db, factory, asset, recipients, weights, nil)
	assert.Nil(t, err)
	if c.Equals(d) {
		t.Fatal("different blocks must give distinct instances")
	}

	// the instance address can be computed ahead of time
	tmpl, err := ctrl.Template(ctx, db, factory)
	assert.Nil(t, err)
	assert.Equal(t, deploy.InstanceAddress(tmpl, []byte("salt-a"), factory), a)

	conf, err := splitter.NewController(splitter.NewBucket(), nil).Config(ctx, db, a)
	assert.Nil(t, err)
	assert.Equal(t, asset, conf.Asset)
	assert.Equal(t, recipients, conf.Recipients)
	assert.Equal(t, weights, conf.Weights)

	created, err := events.NewBucket().ByEmitter(db, factory)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(created))
	var found bool
	for _, e := range created {
		assert.Equal(t, "created", e.Topic)
		if bytes.Equal(e.Payload, a) {
			found = true
		}
	}
	if !found {
		t.Fatal("no created event for the instance")
	}
}

func TestCreateContentSalt(t *testing.T) {
	db := store.MemStore()
	ctrl := newController()
	factory := weavetest.NewCondition().Address()
	recipients := []weave.Address{weavetest.NewCondition().Address()}

	conf := DefaultConfiguration()
	conf.SaltPolicy = "content"
	assert.Nil(t, gconf.Save(db, packageName, &conf))

	ctx := blockCtx(1, 1000)
	assert.Nil(t, ctrl.Init(ctx, db, factory, install(t, db, "splitter")))

	asset := weavetest.NewCondition().Address()
	_, err := ctrl.Create(ctx, db, factory, asset, recipients, []uint32{1}, nil)
	assert.Nil(t, err)
	// one splitter per asset, whatever the block
	_, err = ctrl.Create(blockCtx(2, 2000), db, factory, asset, recipients, []uint32{1}, nil)
	assert.IsErr(t, deploy.ErrCollision, err)

	_, err = ctrl.Create(ctx, db, factory, weavetest.NewCondition().Address(), recipients, []uint32{1}, nil)
	assert.Nil(t, err)

	_, err = ctrl.Create(ctx, db, factory, weavetest.NewCondition().Address(), recipients, []uint32{1}, []byte("salt"))
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestCreateFailedSplitterInit(t *testing.T) {
	db := store.MemStore()
	ctrl := newController()
	factory := weavetest.NewCondition().Address()
	asset := weavetest.NewCondition().Address()
	recipients := []weave.Address{weavetest.NewCondition().Address()}

	ctx := blockCtx(1, 1000)
	assert.Nil(t, ctrl.Init(ctx, db, factory, install(t, db, "splitter")))

	cache := db.CacheWrap()
	_, err := ctrl.Create(ctx, cache, factory, asset, recipients, []uint32{1, 2}, []byte("s"))
	assert.IsErr(t, splitter.ErrLengthMismatch, err)
	cache.Discard()

	tmpl, err := ctrl.Template(ctx, db, factory)
	assert.Nil(t, err)
	addr := deploy.InstanceAddress(tmpl, []byte("s"), factory)
	ok, err := deploy.NewInstanceBucket().Has(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	// the same salt can be used once the configuration is fixed
	got, err := ctrl.Create(ctx, db, factory, asset, recipients, []uint32{1}, []byte("s"))
	assert.Nil(t, err)
	assert.Equal(t, addr, got)
}

func newController() Controller {
	ledger := cash.NewController(cash.NewBalanceBucket())
	return NewController(NewBucket(), splitter.NewController(splitter.NewBucket(), ledger))
}

func install(t testing.TB, db weave.KVStore, code string) []byte {
	t.Helper()
	id, err := deploy.Install(db, []byte(code))
	if err != nil {
		t.Fatalf("cannot install %q: %s", code, err)
	}
	return id
}
