/*
Package app links together all the various components
to construct the splitter ledger application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/app"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/store/iavl"
	"github.com/iov-one/splitweave/x"
	"github.com/iov-one/splitweave/x/cash"
	"github.com/iov-one/splitweave/x/deploy"
	"github.com/iov-one/splitweave/x/events"
	"github.com/iov-one/splitweave/x/factory"
	"github.com/iov-one/splitweave/x/lifetime"
	"github.com/iov-one/splitweave/x/sigs"
	"github.com/iov-one/splitweave/x/splitter"
	"github.com/iov-one/splitweave/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Controllers groups the extension controllers shared by the handlers and
// the genesis initializers.
type Controllers struct {
	Cash     *cash.BaseController
	Splitter splitter.Controller
	Factory  factory.Controller
}

// NewControllers returns the controllers of all extensions, moving funds
// through a single ledger.
func NewControllers() Controllers {
	ledger := cash.NewController(cash.NewBalanceBucket())
	splitters := splitter.NewController(splitter.NewBucket(), ledger)
	return Controllers{
		Cash:     ledger,
		Splitter: splitters,
		Factory:  factory.NewController(factory.NewBucket(), splitters),
	}
}

// Authenticator returns the authentication used by the handlers. Only
// conditions of verified signatures are granted.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// distribute and create can be sent by anyone
		sigs.NewDecorator().AllowMissingSigs(),
		// on DeliverTx, a failed message leaves no trace
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching all messages of the ledger.
func Router(authFn x.Authenticator, ctrls Controllers) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, ctrls.Cash)
	deploy.RegisterRoutes(r)
	splitter.RegisterRoutes(r, ctrls.Splitter)
	factory.RegisterRoutes(r, authFn, ctrls.Factory)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/cash/balance", "/templates", "/instances", "/splitters",
// "/factories", "/events", "/lifetimes" and "/auth".
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		deploy.RegisterQuery,
		splitter.RegisterQuery,
		factory.RegisterQuery,
		events.RegisterQuery,
		lifetime.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(ctrls Controllers) weave.Handler {
	return Chain().WithHandler(Router(Authenticator(), ctrls))
}

// Initializers returns the genesis initializers of all extensions.
// Templates are installed before factories refer to them.
func Initializers(ctrls Controllers) weave.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		deploy.Initializer{},
		splitter.Initializer{},
		&factory.Initializer{Controller: ctrls.Factory},
	)
}

// Application constructs the ABCI application. An empty dbPath keeps the
// state in memory.
func Application(name string, dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	return NewApplication(name, kv, logger, debug), nil
}

// NewApplication constructs the ABCI application on top of given store.
func NewApplication(name string, kv weave.CommitKVStore, logger log.Logger, debug bool) app.BaseApp {
	ctrls := NewControllers()
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background()).
		WithLogger(logger).
		WithInit(Initializers(ctrls))
	return app.NewBaseApp(store, TxDecoder, Stack(ctrls), debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid database name %q", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
