package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	weave "github.com/iov-one/splitweave"
	splitterd "github.com/iov-one/splitweave/cmd/splitterd/app"
	"github.com/iov-one/splitweave/commands"
	"github.com/iov-one/splitweave/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".splitter")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("splitterd")
	fmt.Println("          Splitter ledger node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("run       Execute a JSON script of blocks without a tendermint node")
	fmt.Println("query     Query the committed state")
	fmt.Println("validate  Check genesis files")
	fmt.Println("testgen   Write example encodings to a directory")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.splitter")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "splitter")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(splitterd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(splitterd.GenerateApp, logger, *varHome, rest)
	case "run":
		err = RunCmd(logger, *varHome, rest, os.Stdout)
	case "query":
		err = QueryCmd(logger, *varHome, rest, os.Stdout)
	case "validate":
		err = server.ValidateGenesis(splitterd.Initializers(splitterd.NewControllers()), rest)
	case "testgen":
		err = commands.TestGenCmd(splitterd.Examples(), rest)
	case "version":
		fmt.Println(weave.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
