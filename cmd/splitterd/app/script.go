package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/app"
	"github.com/iov-one/splitweave/crypto"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// Script is a list of blocks executed one after another against the
// application, without a tendermint node. Keys maps a name to the seed of
// an ed25519 key that transactions of the script are signed with.
type Script struct {
	Keys   map[string]cmn.HexBytes `json:"keys,omitempty"`
	Blocks []Block                 `json:"blocks"`
}

// Block groups transactions delivered at the same height. A zero height
// means the height following the previous block. Heights must grow within
// a script. A zero time means the block has no time.
type Block struct {
	Height int64      `json:"height,omitempty"`
	Time   time.Time  `json:"time,omitempty"`
	Txs    []ScriptTx `json:"txs"`
}

// ScriptTx is a transaction together with the names of the script keys
// signing it. Signatures are created when the script runs, using the next
// nonce of every key.
type ScriptTx struct {
	SignedBy []string `json:"signed_by,omitempty"`
	Tx
}

// ParseScript decodes a JSON encoded script.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for name, seed := range s.Keys {
		if len(seed) != crypto.SeedSize {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "key %q: seed must be %d bytes", name, crypto.SeedSize)
		}
	}
	return &s, nil
}

// Key returns the private key of given name.
func (s *Script) Key(name string) (*crypto.PrivateKey, error) {
	seed, ok := s.Keys[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "key %q", name)
	}
	if len(seed) != crypto.SeedSize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "key %q: seed must be %d bytes", name, crypto.SeedSize)
	}
	return crypto.PrivKeyEd25519FromSeed(seed), nil
}

// TxResult is the outcome of a single delivered transaction.
type TxResult struct {
	Height int64
	Index  int
	Path   string
	Code   uint32
	Log    string
	Data   []byte
	Tags   []cmn.KVPair
}

// Tag returns the value of the first tag with the given key.
func (r TxResult) Tag(key string) string {
	for _, t := range r.Tags {
		if string(t.Key) == key {
			return string(t.Value)
		}
	}
	return ""
}

func (r TxResult) String() string {
	status := "ok"
	if r.Code != 0 {
		status = fmt.Sprintf("error %d", r.Code)
	}
	s := fmt.Sprintf("%d/%d %s: %s", r.Height, r.Index, r.Path, status)
	if r.Log != "" {
		s += " " + r.Log
	}
	if len(r.Data) != 0 {
		s += " data=" + hex.EncodeToString(r.Data)
	}
	return s
}

// Run delivers every block of the script. Each block is committed before
// the next one begins. Failed transactions do not stop the execution, their
// result carries the error code.
func (s *Script) Run(a app.BaseApp, out io.Writer) ([]TxResult, error) {
	var results []TxResult
	last := a.Info(abci.RequestInfo{}).LastBlockHeight
	nonces := make(map[string]int64)
	for bi, b := range s.Blocks {
		height := b.Height
		if height == 0 {
			height = last + 1
		} else if height <= last {
			return results, errors.Wrapf(errors.ErrInvalidInput, "block %d: height %d not after %d", bi, height, last)
		}

		a.BeginBlock(abci.RequestBeginBlock{
			Header: abci.Header{Height: height, Time: b.Time},
		})
		for ti, stx := range b.Txs {
			tx, err := s.sign(a, stx, nonces)
			if err != nil {
				return results, errors.Wrapf(err, "block %d, tx %d", bi, ti)
			}
			raw, err := proto.Marshal(tx)
			if err != nil {
				return results, errors.Wrapf(err, "block %d, tx %d", bi, ti)
			}
			res := a.DeliverTx(raw)
			r := TxResult{
				Height: height,
				Index:  ti,
				Path:   weave.GetPath(tx),
				Code:   res.Code,
				Log:    res.Log,
				Data:   res.Data,
				Tags:   res.Tags,
			}
			results = append(results, r)
			if out != nil {
				fmt.Fprintln(out, r)
			}
		}
		a.EndBlock(abci.RequestEndBlock{Height: height})
		commit := a.Commit()
		last = height
		if out != nil {
			fmt.Fprintf(out, "%d committed %X\n", height, commit.Data)
		}
	}
	return results, nil
}

// sign returns the transaction signed by all keys it names. The nonce of a
// key is read from the committed state on its first use and counted locally
// afterwards, as every delivered signature consumes one.
func (s *Script) sign(a app.BaseApp, stx ScriptTx, nonces map[string]int64) (*Tx, error) {
	tx := stx.Tx
	tx.Signatures = append([]*sigs.StdSignature(nil), stx.Signatures...)
	for _, name := range stx.SignedBy {
		key, err := s.Key(name)
		if err != nil {
			return nil, err
		}
		seq, ok := nonces[name]
		if !ok {
			seq, err = queryNonce(a, key.PublicKey().Address())
			if err != nil {
				return nil, errors.Wrapf(err, "nonce of %q", name)
			}
		}
		sig, err := sigs.SignTx(key, &stx.Tx, a.GetChainID(), seq)
		if err != nil {
			return nil, errors.Wrapf(err, "sign with %q", name)
		}
		tx.Signatures = append(tx.Signatures, sig)
		nonces[name] = seq + 1
	}
	return &tx, nil
}

// queryNonce returns the next nonce of the key with given address.
func queryNonce(a app.BaseApp, addr weave.Address) (int64, error) {
	res := a.Query(abci.RequestQuery{Path: "/auth", Data: addr})
	if res.Code != 0 {
		return 0, errors.Wrapf(errors.ErrHuman, "query failed with code %d: %s", res.Code, res.Log)
	}
	var acc sigs.Account
	if err := app.UnmarshalOneResult(res.Value, &acc); err != nil {
		return 0, err
	}
	return acc.Nonce, nil
}
