package utils

import (
	weave "github.com/iov-one/splitweave"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key under which the message path of every
// successful delivery is indexed.
const ActionKey = "action"

// ActionTagger tags a successful delivery with `action = msg.Path()`, so
// that clients can search for or subscribe to splitter creations and
// distributions the same way.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

// NewActionTagger creates an ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check passes the request along
func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends the action tag. A failed delivery is not tagged.
func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	// a broken message fails before the handler runs
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
