package factory

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// FactoryConfig is stored under the factory address once initialized.
type FactoryConfig struct {
	Template []byte `protobuf:"bytes,1,opt,name=template,proto3" json:"template,omitempty"`
}

var _ orm.CloneableData = (*FactoryConfig)(nil)

func (f *FactoryConfig) Reset()         { *f = FactoryConfig{} }
func (f *FactoryConfig) String() string { return proto.CompactTextString(f) }
func (*FactoryConfig) ProtoMessage()    {}

func (f *FactoryConfig) Validate() error {
	if len(f.Template) == 0 {
		return errors.Wrap(errors.ErrEmpty, "template")
	}
	return nil
}

func (f *FactoryConfig) Copy() orm.CloneableData {
	return &FactoryConfig{Template: append([]byte(nil), f.Template...)}
}

// Bucket stores factory configurations under the factory address.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("factory", orm.NewSimpleObj(nil, &FactoryConfig{})),
	}
}

// GetConfig returns the configuration of the factory or nil if it was
// never initialized.
func (b Bucket) GetConfig(db weave.ReadOnlyKVStore, factory weave.Address) (*FactoryConfig, error) {
	obj, err := b.Get(db, factory)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	c, ok := obj.Value().(*FactoryConfig)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return c, nil
}
