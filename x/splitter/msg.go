package splitter

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

const (
	pathInitMsg       = "splitter/init"
	pathDistributeMsg = "splitter/distribute"
)

// InitMsg configures a deployed instance. Recipient and weight checks are
// left to the controller so they run after the initialization guard.
type InitMsg struct {
	Instance   weave.Address   `protobuf:"bytes,1,opt,name=instance,proto3" json:"instance"`
	Asset      weave.Address   `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset"`
	Recipients []weave.Address `protobuf:"bytes,3,rep,name=recipients,proto3" json:"recipients"`
	Weights    []uint32        `protobuf:"varint,4,rep,packed,name=weights,proto3" json:"weights"`
}

var _ weave.Msg = (*InitMsg)(nil)

func (m *InitMsg) Reset()         { *m = InitMsg{} }
func (m *InitMsg) String() string { return proto.CompactTextString(m) }
func (*InitMsg) ProtoMessage()    {}

func (InitMsg) Path() string {
	return pathInitMsg
}

func (m *InitMsg) Validate() error {
	if err := m.Instance.Validate(); err != nil {
		return errors.Wrap(err, "instance")
	}
	if err := m.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	for i, r := range m.Recipients {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(err, "recipient %d", i)
		}
	}
	return nil
}

// DistributeMsg pays out the balance of an instance. Anyone may send it.
type DistributeMsg struct {
	Instance weave.Address `protobuf:"bytes,1,opt,name=instance,proto3" json:"instance"`
}

var _ weave.Msg = (*DistributeMsg)(nil)

func (m *DistributeMsg) Reset()         { *m = DistributeMsg{} }
func (m *DistributeMsg) String() string { return proto.CompactTextString(m) }
func (*DistributeMsg) ProtoMessage()    {}

func (DistributeMsg) Path() string {
	return pathDistributeMsg
}

func (m *DistributeMsg) Validate() error {
	return errors.Wrap(m.Instance.Validate(), "instance")
}
