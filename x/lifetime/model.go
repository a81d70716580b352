package lifetime

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// Record holds the last block height at which the tracked state is live.
type Record struct {
	LiveUntil int64 `protobuf:"varint,1,opt,name=live_until,proto3" json:"live_until,omitempty"`
}

var _ orm.CloneableData = (*Record)(nil)

func (r *Record) Reset()         { *r = Record{} }
func (r *Record) String() string { return proto.CompactTextString(r) }
func (*Record) ProtoMessage()    {}

func (r *Record) Validate() error {
	if r.LiveUntil <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "live until must be positive")
	}
	return nil
}

func (r *Record) Copy() orm.CloneableData {
	cpy := *r
	return &cpy
}

// Bucket stores lifetime records under the key of the tracked state.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for managing lifetime records.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("lifetime", orm.NewSimpleObj(nil, &Record{})),
	}
}

// LiveUntil returns the recorded height. The second value is false when the
// key is not tracked.
func (b Bucket) LiveUntil(db weave.ReadOnlyKVStore, key []byte) (int64, bool, error) {
	obj, err := b.Get(db, key)
	if err != nil {
		return 0, false, err
	}
	if obj == nil {
		return 0, false, nil
	}
	r, ok := obj.Value().(*Record)
	if !ok {
		return 0, false, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return r.LiveUntil, true, nil
}

// RegisterQuery exposes the records as "/lifetime"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("lifetime", qr)
}
