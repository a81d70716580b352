package splitter

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/x/deploy"
)

// RegisterRoutes registers handlers for splitter messages.
func RegisterRoutes(r weave.Registry, ctrl Controller) {
	r.Handle(pathInitMsg, NewInitHandler(ctrl))
	r.Handle(pathDistributeMsg, NewDistributeHandler(ctrl))
}

// RegisterQuery exposes splitters as "/splitters"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("splitters", qr)
}

// InitHandler configures an already deployed instance.
type InitHandler struct {
	ctrl      Controller
	instances deploy.InstanceBucket
}

var _ weave.Handler = InitHandler{}

func NewInitHandler(ctrl Controller) InitHandler {
	return InitHandler{
		ctrl:      ctrl,
		instances: deploy.NewInstanceBucket(),
	}
}

func (h InitHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h InitHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Init(ctx, db, msg.Instance, msg.Asset, msg.Recipients, msg.Weights); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h InitHandler) validate(db weave.KVStore, tx weave.Tx) (*InitMsg, error) {
	var msg InitMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.instances.GetInstance(db, msg.Instance); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DistributeHandler pays out the balance of an instance. The serialized
// Distribution is returned as the result data.
type DistributeHandler struct {
	ctrl Controller
}

var _ weave.Handler = DistributeHandler{}

func NewDistributeHandler(ctrl Controller) DistributeHandler {
	return DistributeHandler{ctrl: ctrl}
}

func (h DistributeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg DistributeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &weave.CheckResult{}, nil
}

func (h DistributeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg DistributeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	d, err := h.ctrl.Distribute(ctx, db, msg.Instance)
	if err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize distribution")
	}
	return &weave.DeliverResult{
		Data: raw,
		Log:  fmt.Sprintf("distributed %d, retained %d", d.Balance-d.Retained, d.Retained),
	}, nil
}
