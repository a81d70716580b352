package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/x/deploy"
	"github.com/iov-one/splitweave/x/factory"
)

// salter returns the salts for which instance addresses are listed.
type salter func(args []string, offset, limit int) ([][]byte, error)

var salters = map[string]salter{
	// Explicit caller provided salts, as accepted by the context policy.
	// The salt is the big endian representation of a sequence number.
	"sequence": func(args []string, offset, limit int) ([][]byte, error) {
		var salts [][]byte
		for i := offset; i < limit+offset; i++ {
			salts = append(salts, seq(i))
		}
		return salts, nil
	},
	// Salts derived from the asset address, as the content policy does.
	"content": func(args []string, offset, limit int) ([][]byte, error) {
		var salts [][]byte
		for _, raw := range args {
			asset, err := weave.ParseAddress(raw)
			if err != nil {
				return nil, fmt.Errorf("asset %q: %s", raw, err)
			}
			salt, err := factory.ContentSalt{}.Salt(context.Background(), asset, nil)
			if err != nil {
				return nil, fmt.Errorf("asset %q: %s", raw, err)
			}
			salts = append(salts, salt)
		}
		return salts, nil
	},
}

//nolint
func main() {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	offsetFl := fl.Int("offset", 1, "Ignore first N sequence salts.")
	limitFl := fl.Int("limit", 20, "Print N sequence addresses.")
	headerFl := fl.Bool("header", true, "Display header")
	templateFl := fl.String("template", "splitter/v1", "Code of the installed splitter template.")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s <salt source> <factory address> [asset address...] [options]

Print splitter instance addresses that given factory deploys.

Available salt sources are: %s

Instance addresses are derived from the template, the factory and the salt
only. That means they can be precomputed, which is helpful when creating a
genesis file or a script that references a splitter before it exists.

`, os.Args[0], salterNames())
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	if fl.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Salt source and factory address are required.")
		fmt.Fprintf(os.Stderr, "Available salt sources: %s\n", salterNames())
		os.Exit(2)
	}
	if *offsetFl < 1 {
		fmt.Fprintln(os.Stderr, "Offset must be greater than zero.")
		os.Exit(2)
	}
	if *limitFl < 1 {
		fmt.Fprintln(os.Stderr, "Limit must be greater than zero.")
		os.Exit(2)
	}

	saltFn, ok := salters[fl.Arg(0)]
	if !ok {
		fmt.Fprintln(os.Stderr, "Unknown salt source.")
		os.Exit(2)
	}
	factoryAddr, err := weave.ParseAddress(fl.Arg(1))
	if err == nil {
		err = factoryAddr.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid factory address: %s\n", err)
		os.Exit(2)
	}
	salts, err := saltFn(fl.Args()[2:], *offsetFl, *limitFl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	templateID := deploy.TemplateID([]byte(*templateFl))
	printAddresses(os.Stdout, templateID, factoryAddr, salts, *headerFl)
}

func salterNames() string {
	var names []string
	for n := range salters {
		names = append(names, n)
	}
	return strings.Join(names, ", ")
}

func printAddresses(out io.Writer, templateID []byte, factoryAddr weave.Address, salts [][]byte, header bool) {
	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	if header {
		fmt.Fprintln(w, "salt\taddress\tbech32")
	}
	for _, salt := range salts {
		a := deploy.InstanceAddress(templateID, salt, factoryAddr)
		b, err := a.Bech32()
		if err != nil {
			b = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", strings.ToUpper(hex.EncodeToString(salt)), a, b)
	}
}

// seq returns binary representation of a sequence number.
func seq(i int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}
