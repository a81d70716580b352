package factory

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
)

const (
	pathInitMsg   = "factory/init"
	pathCreateMsg = "factory/create"
)

// InitMsg sets the template of a factory. It must be signed by the factory.
type InitMsg struct {
	Factory  weave.Address `protobuf:"bytes,1,opt,name=factory,proto3" json:"factory"`
	Template cmn.HexBytes  `protobuf:"bytes,2,opt,name=template,proto3" json:"template"`
}

var _ weave.Msg = (*InitMsg)(nil)

func (m *InitMsg) Reset()         { *m = InitMsg{} }
func (m *InitMsg) String() string { return proto.CompactTextString(m) }
func (*InitMsg) ProtoMessage()    {}

func (InitMsg) Path() string {
	return pathInitMsg
}

func (m *InitMsg) Validate() error {
	if err := m.Factory.Validate(); err != nil {
		return errors.Wrap(err, "factory")
	}
	if len(m.Template) == 0 {
		return errors.Wrap(errors.ErrEmpty, "template")
	}
	return nil
}

// CreateMsg creates a new splitter through a factory. Salt is optional and
// only accepted by the context salt policy.
type CreateMsg struct {
	Factory    weave.Address   `protobuf:"bytes,1,opt,name=factory,proto3" json:"factory"`
	Asset      weave.Address   `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset"`
	Recipients []weave.Address `protobuf:"bytes,3,rep,name=recipients,proto3" json:"recipients"`
	Weights    []uint32        `protobuf:"varint,4,rep,packed,name=weights,proto3" json:"weights"`
	Salt       cmn.HexBytes    `protobuf:"bytes,5,opt,name=salt,proto3" json:"salt,omitempty"`
}

var _ weave.Msg = (*CreateMsg)(nil)

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	if err := m.Factory.Validate(); err != nil {
		return errors.Wrap(err, "factory")
	}
	if err := m.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	for i, r := range m.Recipients {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(err, "recipient %d", i)
		}
	}
	if len(m.Salt) > maxSaltLength {
		return errors.Wrapf(errors.ErrInvalidInput, "salt longer than %d bytes", maxSaltLength)
	}
	return nil
}
