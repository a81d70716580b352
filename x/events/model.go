package events

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

var isTopic = regexp.MustCompile(`^[a-z][a-z0-9_]{2,31}$`).MatchString

// Event is a single published record.
type Event struct {
	Emitter weave.Address `protobuf:"bytes,1,opt,name=emitter,proto3" json:"emitter,omitempty"`
	Topic   string        `protobuf:"bytes,2,opt,name=topic,proto3" json:"topic,omitempty"`
	Payload []byte        `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
	Height  int64         `protobuf:"varint,4,opt,name=height,proto3" json:"height,omitempty"`
	// Time is the block time, zero when the block declared none.
	Time weave.UnixTime `protobuf:"varint,5,opt,name=time,proto3,casttype=github.com/iov-one/splitweave.UnixTime" json:"time,omitempty"`
}

var _ orm.CloneableData = (*Event)(nil)

func (e *Event) Reset()         { *e = Event{} }
func (e *Event) String() string { return proto.CompactTextString(e) }
func (*Event) ProtoMessage()    {}

func (e *Event) Validate() error {
	if err := e.Emitter.Validate(); err != nil {
		return errors.Wrap(err, "emitter")
	}
	if !isTopic(e.Topic) {
		return errors.Wrapf(errors.ErrInvalidInput, "topic %q", e.Topic)
	}
	if e.Height < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative height")
	}
	if err := e.Time.Validate(); err != nil {
		return errors.Wrap(err, "time")
	}
	return nil
}

func (e *Event) Copy() orm.CloneableData {
	return &Event{
		Emitter: e.Emitter.Clone(),
		Topic:   e.Topic,
		Payload: append([]byte(nil), e.Payload...),
		Height:  e.Height,
		Time:    e.Time,
	}
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with default name and the topic and
// emitter indexes.
func NewBucket() Bucket {
	b := orm.NewBucket("events", orm.NewSimpleObj(nil, &Event{})).
		WithIndex("topic", topicIndexer, false).
		WithIndex("emitter", emitterIndexer, false)
	return Bucket{Bucket: b}
}

func topicIndexer(obj orm.Object) ([]byte, error) {
	e, err := asEvent(obj)
	if err != nil {
		return nil, err
	}
	return []byte(e.Topic), nil
}

func emitterIndexer(obj orm.Object) ([]byte, error) {
	e, err := asEvent(obj)
	if err != nil {
		return nil, err
	}
	return e.Emitter, nil
}

func asEvent(obj orm.Object) (*Event, error) {
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	e, ok := obj.Value().(*Event)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return e, nil
}

// ByTopic returns all events published under topic, oldest first.
func (b Bucket) ByTopic(db weave.ReadOnlyKVStore, topic string) ([]*Event, error) {
	return b.indexed(db, "topic", []byte(topic))
}

// ByEmitter returns all events published by emitter, oldest first.
func (b Bucket) ByEmitter(db weave.ReadOnlyKVStore, emitter weave.Address) ([]*Event, error) {
	return b.indexed(db, "emitter", emitter)
}

func (b Bucket) indexed(db weave.ReadOnlyKVStore, index string, value []byte) ([]*Event, error) {
	objs, err := b.GetIndexed(db, index, value)
	if err != nil {
		return nil, err
	}
	res := make([]*Event, 0, len(objs))
	for _, obj := range objs {
		e, err := asEvent(obj)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

// RegisterQuery exposes the log as "/events", "/events/topic" and
// "/events/emitter"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("events", qr)
}
