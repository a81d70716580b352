package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/splitweave/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const flagChainID = "chain-id"

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the genesis file under home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd writes the genesis file under home. An existing genesis file
// keeps all its content but the app_state, which is replaced with the
// generated one.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var chainID string
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.StringVar(&chainID, flagChainID, "", "chain id of a new genesis file (default random)")
	if err := initFlags.Parse(args); err != nil {
		return err
	}

	genFile := GenesisPath(home)
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
	} else {
		if chainID == "" {
			chainID = fmt.Sprintf("splitter-%v", cmn.RandStr(6))
		}
		if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
			return errors.Wrap(err, "cannot create config directory")
		}
		doc := GenesisDoc{"chain_id": mustJSON(chainID)}
		if err := writeGenesis(genFile, doc); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)
	}

	// no app_options, leave the file as it is
	if gen == nil {
		return nil
	}
	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	return addGenesisOptions(genFile, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot parse %s: %s", filename, err)
	}
	doc["app_state"] = options
	return writeGenesis(filename, doc)
}

func writeGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func mustJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
