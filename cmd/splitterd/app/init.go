package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/x/deploy"
	"github.com/iov-one/splitweave/x/factory"
	"github.com/iov-one/splitweave/x/splitter"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// TemplateCode is the splitter template installed by the default genesis.
const TemplateCode = "splitter/v1"

// GenInitOptions produces the default app state: the package configuration
// and the splitter template. When an address is given, a factory owned by
// it is initialized with the template.
//
// Arguments: [salt policy] [factory address]
func GenInitOptions(args []string) (json.RawMessage, error) {
	factoryConf := factory.DefaultConfiguration()
	if len(args) > 0 {
		factoryConf.SaltPolicy = args[0]
	}
	if err := factoryConf.Validate(); err != nil {
		return nil, err
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"splitter": splitter.DefaultConfiguration(),
			"factory":  factoryConf,
		},
		"templates": []string{TemplateCode},
	}
	if len(args) > 1 {
		addr, err := weave.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		state["factories"] = []factory.GenesisFactory{{
			Address:  addr,
			Template: deploy.TemplateID([]byte(TemplateCode)),
		}}
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "splitter.db")
	}
	application, err := Application("splitter", dbPath, logger, debug)
	if err != nil {
		return nil, fmt.Errorf("cannot create application: %s", err)
	}
	return application, nil
}
