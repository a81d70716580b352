package app

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/x/cash"
	"github.com/iov-one/splitweave/x/deploy"
	"github.com/iov-one/splitweave/x/factory"
	"github.com/iov-one/splitweave/x/sigs"
	"github.com/iov-one/splitweave/x/splitter"
)

// Tx is the transaction of the splitter ledger. It carries exactly one
// message and the signatures authenticating it.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	Send         *cash.SendMsg           `protobuf:"bytes,10,opt,name=send,proto3" json:"send,omitempty"`
	Mint         *cash.MintMsg           `protobuf:"bytes,11,opt,name=mint,proto3" json:"mint,omitempty"`
	Install      *deploy.InstallMsg      `protobuf:"bytes,12,opt,name=install,proto3" json:"install,omitempty"`
	InitSplitter *splitter.InitMsg       `protobuf:"bytes,13,opt,name=init_splitter,proto3" json:"init_splitter,omitempty"`
	Distribute   *splitter.DistributeMsg `protobuf:"bytes,14,opt,name=distribute,proto3" json:"distribute,omitempty"`
	InitFactory  *factory.InitMsg        `protobuf:"bytes,15,opt,name=init_factory,proto3" json:"init_factory,omitempty"`
	Create       *factory.CreateMsg      `protobuf:"bytes,16,opt,name=create,proto3" json:"create,omitempty"`
}

var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return proto.CompactTextString(tx) }
func (*Tx) ProtoMessage()     {}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := proto.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return tx, nil
}

// GetMsg returns the single message set on the transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	var msgs []weave.Msg
	// Typed nil pointers must not end up in the interface.
	if tx.Send != nil {
		msgs = append(msgs, tx.Send)
	}
	if tx.Mint != nil {
		msgs = append(msgs, tx.Mint)
	}
	if tx.Install != nil {
		msgs = append(msgs, tx.Install)
	}
	if tx.InitSplitter != nil {
		msgs = append(msgs, tx.InitSplitter)
	}
	if tx.Distribute != nil {
		msgs = append(msgs, tx.Distribute)
	}
	if tx.InitFactory != nil {
		msgs = append(msgs, tx.InitFactory)
	}
	if tx.Create != nil {
		msgs = append(msgs, tx.Create)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrInvalidInput, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%d messages, expected one", len(msgs))
	}
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without the signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cpy := *tx
	cpy.Signatures = nil
	return proto.Marshal(&cpy)
}
