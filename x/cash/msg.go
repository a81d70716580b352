package cash

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

const (
	pathSendMsg = "cash/send"
	pathMintMsg = "cash/mint"

	maxMemoSize = 128
)

// SendMsg moves funds between two holders. The source must sign.
type SendMsg struct {
	Asset       weave.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset"`
	Source      weave.Address `protobuf:"bytes,2,opt,name=source,proto3" json:"source"`
	Destination weave.Address `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination"`
	Amount      int64         `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	Memo        string        `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ weave.Msg = (*SendMsg)(nil)

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible.
func (m *SendMsg) Validate() error {
	if err := m.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount <= 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive amount")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInvalidInput, "memo longer than %d", maxMemoSize)
	}
	return nil
}

// MintMsg issues new units of an asset. The asset address must sign.
type MintMsg struct {
	Asset     weave.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset"`
	Recipient weave.Address `protobuf:"bytes,2,opt,name=recipient,proto3" json:"recipient"`
	Amount    int64         `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

var _ weave.Msg = (*MintMsg)(nil)

func (m *MintMsg) Reset()         { *m = MintMsg{} }
func (m *MintMsg) String() string { return proto.CompactTextString(m) }
func (*MintMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (MintMsg) Path() string {
	return pathMintMsg
}

// Validate makes sure that this is sensible.
func (m *MintMsg) Validate() error {
	if err := m.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if m.Amount <= 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive amount")
	}
	return nil
}
