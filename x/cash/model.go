package cash

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// Balance is the amount of an asset owned by a single holder.
type Balance struct {
	Asset  weave.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	Holder weave.Address `protobuf:"bytes,2,opt,name=holder,proto3" json:"holder,omitempty"`
	Amount int64         `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ orm.CloneableData = (*Balance)(nil)

func (b *Balance) Reset()         { *b = Balance{} }
func (b *Balance) String() string { return proto.CompactTextString(b) }
func (*Balance) ProtoMessage()    {}

// Validate ensures both addresses are present.
func (b *Balance) Validate() error {
	if err := b.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if err := b.Holder.Validate(); err != nil {
		return errors.Wrap(err, "holder")
	}
	return nil
}

// Copy returns a deep copy.
func (b *Balance) Copy() orm.CloneableData {
	return &Balance{
		Asset:  b.Asset.Clone(),
		Holder: b.Holder.Clone(),
		Amount: b.Amount,
	}
}

// BalanceKey returns the bucket key of the balance of given holder.
func BalanceKey(asset, holder weave.Address) []byte {
	key := make([]byte, 0, len(asset)+len(holder))
	key = append(key, asset...)
	return append(key, holder...)
}

// BalanceBucket stores Balance entities under the asset and holder address
// and indexes them by holder.
type BalanceBucket struct {
	orm.Bucket
}

// NewBalanceBucket returns a bucket for managing balances.
func NewBalanceBucket() BalanceBucket {
	b := orm.NewBucket("cash", orm.NewSimpleObj(nil, &Balance{})).
		WithIndex("holder", holderIndexer, false)
	return BalanceBucket{Bucket: b}
}

func holderIndexer(obj orm.Object) ([]byte, error) {
	b, ok := obj.Value().(*Balance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return b.Holder, nil
}

// Amount returns the stored amount or zero if nothing is stored.
func (bb BalanceBucket) Amount(db weave.ReadOnlyKVStore, asset, holder weave.Address) (int64, error) {
	obj, err := bb.Get(db, BalanceKey(asset, holder))
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	b, ok := obj.Value().(*Balance)
	if !ok {
		return 0, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return b.Amount, nil
}

// Set stores the amount for given holder.
func (bb BalanceBucket) Set(db weave.KVStore, asset, holder weave.Address, amount int64) error {
	b := &Balance{Asset: asset, Holder: holder, Amount: amount}
	return bb.Save(db, orm.NewSimpleObj(BalanceKey(asset, holder), b))
}

// ByHolder returns all balances of given holder, one per asset.
func (bb BalanceBucket) ByHolder(db weave.ReadOnlyKVStore, holder weave.Address) ([]*Balance, error) {
	objs, err := bb.GetIndexed(db, "holder", holder)
	if err != nil {
		return nil, err
	}
	res := make([]*Balance, 0, len(objs))
	for _, obj := range objs {
		b, ok := obj.Value().(*Balance)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
		}
		res = append(res, b)
	}
	return res, nil
}
