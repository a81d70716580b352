package app

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/store/iavl"
	"github.com/iov-one/splitweave/weavetest"
	"github.com/iov-one/splitweave/weavetest/assert"
	"github.com/iov-one/splitweave/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestBaseApp(t *testing.T) {
	qr := weave.NewQueryRouter()
	qr.Register("/", rawQuery{})

	router := NewRouter()
	router.Handle("test/write", &heightWriter{})
	handler := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)

	store := NewStoreApp("unit-test", iavl.NewMemCommitStore(), qr, context.Background())
	store = store.WithInit(ChainInitializers(dummyInit{}))
	app := NewBaseApp(store, pathDecoder, handler, false)

	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"dummy": "hello"}`),
	})
	assert.Equal(t, "test-chain-1", app.GetChainID())

	now := time.Now()
	app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: 1, Time: now},
	})
	h, ok := weave.GetHeight(app.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(1), h)

	dres := app.DeliverTx([]byte("test/write"))
	assert.Equal(t, uint32(0), dres.Code)
	assert.Equal(t, "1", string(dres.Data))

	dres = app.DeliverTx([]byte("test/unknown"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), dres.Code)

	cres := app.CheckTx([]byte(""))
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), cres.Code)

	// nothing is visible to queries before the commit
	qres := app.Query(abci.RequestQuery{Path: "/", Data: []byte("height")})
	assert.Equal(t, uint32(0), qres.Code)
	assertQueryValue(t, qres, "")

	commit := app.Commit()
	assert.Equal(t, true, len(commit.Data) > 0)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, "unit-test", info.Data)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	qres = app.Query(abci.RequestQuery{Path: "/", Data: []byte("height")})
	assertQueryValue(t, qres, "1")
	qres = app.Query(abci.RequestQuery{Path: "/", Data: []byte(dummyKey)})
	assertQueryValue(t, qres, "hello")

	qres = app.Query(abci.RequestQuery{Path: "/nope", Data: []byte("height")})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), qres.Code)
}

func TestInitChainTwicePanics(t *testing.T) {
	store := NewStoreApp("unit-test", iavl.NewMemCommitStore(), weave.NewQueryRouter(), context.Background())
	req := abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: []byte(`{}`)}
	store.InitChain(req)
	assert.Panics(t, func() { store.InitChain(req) })
}

func TestSplitPath(t *testing.T) {
	path, mod := splitPath("/splitters?prefix")
	assert.Equal(t, "/splitters", path)
	assert.Equal(t, "prefix", mod)

	path, mod = splitPath("/splitters")
	assert.Equal(t, "/splitters", path)
	assert.Equal(t, "", mod)
}

func assertQueryValue(t *testing.T, res abci.ResponseQuery, want string) {
	t.Helper()
	var values ResultSet
	assert.Nil(t, proto.Unmarshal(res.Value, &values))
	if want == "" {
		assert.Equal(t, 0, len(values.Results))
		return
	}
	assert.Equal(t, 1, len(values.Results))
	assert.Equal(t, want, string(values.Results[0]))
}

// pathDecoder returns a transaction with a message routed to the path given
// as the raw transaction bytes.
func pathDecoder(raw []byte) (weave.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "tx")
	}
	return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: string(raw)}}, nil
}

// heightWriter stores the current block height under the "height" key.
type heightWriter struct{}

func (heightWriter) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return &weave.CheckResult{}, nil
}

func (heightWriter) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h, _ := weave.GetHeight(ctx)
	v := []byte(strconv.FormatInt(h, 10))
	if err := db.Set([]byte("height"), v); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: v}, nil
}

// rawQuery returns the value stored under the exact key given.
type rawQuery struct{}

func (rawQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	v, err := db.Get(data)
	if err != nil || v == nil {
		return nil, err
	}
	return []weave.Model{weave.Pair(data, v)}, nil
}
