package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/app"
	splitterd "github.com/iov-one/splitweave/cmd/splitterd/app"
	"github.com/iov-one/splitweave/commands/server"
	"github.com/iov-one/splitweave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// openApp returns the application persisting its state under home. The
// returned function releases the database.
func openApp(logger log.Logger, home string, debug bool) (app.BaseApp, func(), error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "splitter.db")
	}
	kv, err := splitterd.CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, nil, err
	}
	closeFn := func() {}
	if c, ok := kv.(interface{ Close() }); ok {
		closeFn = c.Close
	}
	return splitterd.NewApplication("splitter", kv, logger, debug), closeFn, nil
}

// initChain loads the genesis file the first time the application runs.
func initChain(a app.BaseApp, home string) error {
	if a.GetChainID() != "" {
		return nil
	}
	gen, err := app.LoadGenesis(server.GenesisPath(home))
	if err != nil {
		return errors.Wrap(err, "splitterd init must be called first")
	}
	a.InitChain(abci.RequestInitChain{
		ChainId:       gen.ChainID,
		AppStateBytes: gen.AppState,
	})
	return nil
}

// RunCmd executes a script file against the application state under home.
func RunCmd(logger log.Logger, home string, args []string, out io.Writer) error {
	var debug bool
	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	runFlags.BoolVar(&debug, "debug", false, "call stack returned on error")
	if err := runFlags.Parse(args); err != nil {
		return err
	}
	if runFlags.NArg() != 1 {
		return errors.Wrap(errors.ErrInvalidInput, "usage: run [-debug] <script.json>")
	}

	fd, err := os.Open(runFlags.Arg(0))
	if err != nil {
		return errors.Wrap(err, "cannot open script")
	}
	defer fd.Close()
	script, err := splitterd.ParseScript(fd)
	if err != nil {
		return err
	}

	a, closeDB, err := openApp(logger, home, debug)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := initChain(a, home); err != nil {
		return err
	}
	_, err = script.Run(a, out)
	return err
}

// QueryCmd prints the models found under given query path. The optional
// data argument is hex encoded, or an address when prefixed with "addr:".
func QueryCmd(logger log.Logger, home string, args []string, out io.Writer) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.Wrap(errors.ErrInvalidInput, "usage: query <path> [data]")
	}
	var data []byte
	if len(args) == 2 {
		var err error
		if data, err = parseQueryData(args[1]); err != nil {
			return err
		}
	}

	a, closeDB, err := openApp(logger, home, false)
	if err != nil {
		return err
	}
	defer closeDB()
	res := a.Query(abci.RequestQuery{Path: args[0], Data: data})
	if res.Code != 0 {
		return errors.Wrapf(errors.ErrHuman, "query failed with code %d: %s", res.Code, res.Log)
	}

	var keys, values app.ResultSet
	if err := proto.Unmarshal(res.Key, &keys); err != nil {
		return errors.Wrap(err, "keys")
	}
	if err := proto.Unmarshal(res.Value, &values); err != nil {
		return errors.Wrap(err, "values")
	}
	models, err := app.JoinResults(&keys, &values)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "height %d, %d results\n", res.Height, len(models))
	for _, m := range models {
		fmt.Fprintf(out, "%s\t%X\n", renderKey(m.Key), m.Value)
	}
	return nil
}

func parseQueryData(raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "addr:") {
		return weave.ParseAddress(strings.TrimPrefix(raw, "addr:"))
	}
	data, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid hex data: %s", err)
	}
	return data, nil
}

// renderKey prints the bucket prefix of a key in clear text and address
// ids in their bech32 form as well.
func renderKey(key []byte) string {
	var prefix string
	if i := bytes.IndexByte(key, ':'); i > 0 {
		prefix, key = string(key[:i+1]), key[i+1:]
	}
	if len(key) != weave.AddressLength {
		return fmt.Sprintf("%s%X", prefix, key)
	}
	b32, err := weave.Address(key).Bech32()
	if err != nil {
		return fmt.Sprintf("%s%X", prefix, key)
	}
	return fmt.Sprintf("%s%X (%s)", prefix, key, b32)
}
