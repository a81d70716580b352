package app

import (
	"bytes"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/commands"
	"github.com/iov-one/splitweave/crypto"
	"github.com/iov-one/splitweave/x/cash"
	"github.com/iov-one/splitweave/x/deploy"
	"github.com/iov-one/splitweave/x/factory"
	"github.com/iov-one/splitweave/x/sigs"
	"github.com/iov-one/splitweave/x/splitter"
)

// ExampleChainID is the chain id the example transactions are signed for.
const ExampleChainID = "example-chain"

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	ownerKey := crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{1}, crypto.SeedSize))
	issuerKey := crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{3}, crypto.SeedSize))
	owner := ownerKey.PublicKey().Address()
	alice := weave.NewCondition("local", "user", []byte("alice")).Address()
	bob := weave.NewCondition("local", "user", []byte("bob")).Address()
	asset := issuerKey.PublicKey().Address()
	tmpl := deploy.TemplateID([]byte(TemplateCode))
	salt := []byte("example")
	instance := deploy.InstanceAddress(tmpl, salt, owner)

	split := &splitter.Splitter{
		Asset:       asset,
		Recipients:  []weave.Address{alice, bob},
		Weights:     []uint32{1, 2},
		Initialized: true,
	}
	dist := &splitter.Distribution{
		Balance:  100,
		Retained: 1,
		Payouts: []*splitter.Payout{
			{Recipient: alice, Amount: 33},
			{Recipient: bob, Amount: 66},
		},
	}

	return []commands.Example{
		{Filename: "splitter", Obj: split},
		{Filename: "distribution", Obj: dist},
		{Filename: "factory_config", Obj: &factory.FactoryConfig{Template: tmpl}},
		{Filename: "balance", Obj: &cash.Balance{Asset: asset, Holder: instance, Amount: 100}},
		{Filename: "install_tx", Obj: &Tx{
			Install: &deploy.InstallMsg{Code: TemplateCode},
		}},
		{Filename: "init_factory_tx", Obj: signed(ownerKey, &Tx{
			InitFactory: &factory.InitMsg{Factory: owner, Template: tmpl},
		})},
		{Filename: "create_tx", Obj: &Tx{
			Create: &factory.CreateMsg{
				Factory:    owner,
				Asset:      asset,
				Recipients: []weave.Address{alice, bob},
				Weights:    []uint32{1, 2},
				Salt:       salt,
			},
		}},
		{Filename: "mint_tx", Obj: signed(issuerKey, &Tx{
			Mint: &cash.MintMsg{Asset: asset, Recipient: instance, Amount: 100},
		})},
		{Filename: "distribute_tx", Obj: &Tx{
			Distribute: &splitter.DistributeMsg{Instance: instance},
		}},
	}
}

// signed adds a first signature of the key to the transaction, for the
// example chain id.
func signed(key *crypto.PrivateKey, tx *Tx) *Tx {
	sig, err := sigs.SignTx(key, tx, ExampleChainID, 0)
	if err != nil {
		panic(err)
	}
	tx.Signatures = append(tx.Signatures, sig)
	return tx
}
