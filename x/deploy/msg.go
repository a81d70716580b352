package deploy

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

const pathInstallMsg = "deploy/install"

// InstallMsg installs contract code as a template.
type InstallMsg struct {
	Code string `protobuf:"bytes,1,opt,name=code,proto3" json:"code"`
}

var _ weave.Msg = (*InstallMsg)(nil)

func (m *InstallMsg) Reset()         { *m = InstallMsg{} }
func (m *InstallMsg) String() string { return proto.CompactTextString(m) }
func (*InstallMsg) ProtoMessage()    {}

func (InstallMsg) Path() string {
	return pathInstallMsg
}

func (m *InstallMsg) Validate() error {
	if len(m.Code) == 0 {
		return errors.Wrap(errors.ErrEmpty, "code")
	}
	if len(m.Code) > maxCodeSize {
		return errors.Wrapf(errors.ErrInvalidInput, "code longer than %d", maxCodeSize)
	}
	return nil
}
