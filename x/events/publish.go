package events

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// Publish appends an event to the log and returns its sequence id.
func Publish(ctx weave.Context, db weave.KVStore, emitter weave.Address, topic string, payload []byte) ([]byte, error) {
	height, _ := weave.GetHeight(ctx)
	e := &Event{
		Emitter: emitter,
		Topic:   topic,
		Payload: payload,
		Height:  height,
	}
	if now, ok := weave.BlockTime(ctx); ok {
		e.Time = weave.AsUnixTime(now)
	}
	if err := e.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid event")
	}

	b := NewBucket()
	seq := b.Sequence(orm.SeqID)
	id, err := seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire ID")
	}
	if err := b.Save(db, orm.NewSimpleObj(id, e)); err != nil {
		return nil, errors.Wrap(err, "cannot save event")
	}
	weave.GetLogger(ctx).Debug("event published", "topic", topic, "emitter", emitter)
	return id, nil
}
