package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/splitweave/errors"
)

// counter is a minimal model used to test buckets.
type counter struct {
	Count int64  `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
	Label string `protobuf:"bytes,2,opt,name=label,proto3" json:"label,omitempty"`
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Reset()         { *c = counter{} }
func (c *counter) String() string { return proto.CompactTextString(c) }
func (*counter) ProtoMessage()    {}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative count")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	cpy := *c
	return &cpy
}

func newCounterObj(key string, count int64, label string) *SimpleObj {
	return NewSimpleObj([]byte(key), &counter{Count: count, Label: label})
}

func labelIndexer(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	if c.Label == "" {
		return nil, nil
	}
	return []byte(c.Label), nil
}
