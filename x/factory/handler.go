package factory

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/x"
)

// RegisterRoutes registers handlers for factory messages.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathInitMsg, NewInitHandler(auth, ctrl))
	r.Handle(pathCreateMsg, NewCreateHandler(ctrl))
}

// RegisterQuery exposes factories as "/factories"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("factories", qr)
}

// InitHandler sets the template of a factory.
type InitHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = InitHandler{}

func NewInitHandler(auth x.Authenticator, ctrl Controller) InitHandler {
	return InitHandler{auth: auth, ctrl: ctrl}
}

func (h InitHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h InitHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Init(ctx, db, msg.Factory, msg.Template); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h InitHandler) validate(ctx weave.Context, tx weave.Tx) (*InitMsg, error) {
	var msg InitMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Factory) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "factory signature required")
	}
	return &msg, nil
}

// CreateHandler creates a splitter. The instance address is returned as
// the result data.
type CreateHandler struct {
	ctrl Controller
}

var _ weave.Handler = CreateHandler{}

func NewCreateHandler(ctrl Controller) CreateHandler {
	return CreateHandler{ctrl: ctrl}
}

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.Template(ctx, db, msg.Factory); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	instance, err := h.ctrl.Create(ctx, db, msg.Factory, msg.Asset, msg.Recipients, msg.Weights, msg.Salt)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: instance, Log: instance.String()}, nil
}
