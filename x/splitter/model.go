package splitter

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// Splitter is the state owned by a single instance. The configuration is
// set once by initialize and never changes. Locked is true only while a
// distribution is in flight.
type Splitter struct {
	Asset       weave.Address   `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	Recipients  []weave.Address `protobuf:"bytes,2,rep,name=recipients,proto3" json:"recipients,omitempty"`
	Weights     []uint32        `protobuf:"varint,3,rep,packed,name=weights,proto3" json:"weights,omitempty"`
	Initialized bool            `protobuf:"varint,4,opt,name=initialized,proto3" json:"initialized,omitempty"`
	Locked      bool            `protobuf:"varint,5,opt,name=locked,proto3" json:"locked,omitempty"`
}

var _ orm.CloneableData = (*Splitter)(nil)

func (s *Splitter) Reset()         { *s = Splitter{} }
func (s *Splitter) String() string { return proto.CompactTextString(s) }
func (*Splitter) ProtoMessage()    {}

// initialize sets the configuration. Guards are checked in order:
// already initialized, length mismatch, zero total weight.
func (s *Splitter) initialize(asset weave.Address, recipients []weave.Address, weights []uint32) error {
	if s.Initialized {
		return ErrAlreadyInitialized
	}
	if len(recipients) != len(weights) {
		return errors.Wrapf(ErrLengthMismatch, "%d recipients, %d weights", len(recipients), len(weights))
	}
	total, err := TotalWeight(weights)
	if err != nil {
		return err
	}
	if total == 0 {
		return ErrZeroTotalWeight
	}

	s.Asset = asset.Clone()
	s.Recipients = make([]weave.Address, len(recipients))
	for i, r := range recipients {
		s.Recipients[i] = r.Clone()
	}
	s.Weights = append([]uint32(nil), weights...)
	s.Initialized = true
	return nil
}

// lock marks a distribution as in flight.
func (s *Splitter) lock() error {
	if !s.Initialized {
		return ErrNotInitialized
	}
	if s.Locked {
		return ErrReentrancy
	}
	s.Locked = true
	return nil
}

// unlock marks the end of a distribution.
func (s *Splitter) unlock() {
	s.Locked = false
}

// Config returns a copy of the configuration.
func (s *Splitter) Config() *Config {
	cpy := s.Copy().(*Splitter)
	return &Config{
		Asset:      cpy.Asset,
		Recipients: cpy.Recipients,
		Weights:    cpy.Weights,
	}
}

// Validate checks the invariants of an initialized splitter.
func (s *Splitter) Validate() error {
	if !s.Initialized {
		return errors.Wrap(ErrNotInitialized, "only initialized splitters are stored")
	}
	if err := s.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if len(s.Recipients) != len(s.Weights) {
		return ErrLengthMismatch
	}
	for i, r := range s.Recipients {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(err, "recipient %d", i)
		}
	}
	total, err := TotalWeight(s.Weights)
	if err != nil {
		return err
	}
	if total == 0 {
		return ErrZeroTotalWeight
	}
	return nil
}

func (s *Splitter) Copy() orm.CloneableData {
	cpy := &Splitter{
		Asset:       s.Asset.Clone(),
		Weights:     append([]uint32(nil), s.Weights...),
		Initialized: s.Initialized,
		Locked:      s.Locked,
	}
	if s.Recipients != nil {
		cpy.Recipients = make([]weave.Address, len(s.Recipients))
		for i, r := range s.Recipients {
			cpy.Recipients[i] = r.Clone()
		}
	}
	return cpy
}

// Config is the immutable part of a splitter.
type Config struct {
	Asset      weave.Address   `json:"asset"`
	Recipients []weave.Address `json:"recipients"`
	Weights    []uint32        `json:"weights"`
}

// Bucket stores splitters under their instance address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for managing splitters.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("splitter", orm.NewSimpleObj(nil, &Splitter{})),
	}
}

// GetSplitter returns the splitter of the instance or nil when none was
// initialized.
func (b Bucket) GetSplitter(db weave.ReadOnlyKVStore, instance weave.Address) (*Splitter, error) {
	obj, err := b.Get(db, instance)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	s, ok := obj.Value().(*Splitter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return s, nil
}

// Put stores the splitter of the instance.
func (b Bucket) Put(db weave.KVStore, instance weave.Address, s *Splitter) error {
	return b.Save(db, orm.NewSimpleObj(instance, s))
}

// Payout is the amount paid to a recipient by a distribution.
type Payout struct {
	Recipient weave.Address `protobuf:"bytes,1,opt,name=recipient,proto3" json:"recipient"`
	Amount    int64         `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

func (p *Payout) Reset()         { *p = Payout{} }
func (p *Payout) String() string { return proto.CompactTextString(p) }
func (*Payout) ProtoMessage()    {}

// Distribution summarizes one distribute call. It is the payload of the
// "distributed" event and the result data of the distribute message.
type Distribution struct {
	Balance  int64     `protobuf:"varint,1,opt,name=balance,proto3" json:"balance,omitempty"`
	Retained int64     `protobuf:"varint,2,opt,name=retained,proto3" json:"retained,omitempty"`
	Payouts  []*Payout `protobuf:"bytes,3,rep,name=payouts,proto3" json:"payouts,omitempty"`
}

func (d *Distribution) Reset()         { *d = Distribution{} }
func (d *Distribution) String() string { return proto.CompactTextString(d) }
func (*Distribution) ProtoMessage()    {}

