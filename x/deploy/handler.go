package deploy

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// RegisterRoutes registers the install handler.
func RegisterRoutes(r weave.Registry) {
	r.Handle(pathInstallMsg, InstallHandler{})
}

// RegisterQuery exposes templates as "/templates" and instances as
// "/instances" with a "/instances/template" index.
func RegisterQuery(qr weave.QueryRouter) {
	NewTemplateBucket().Register("templates", qr)
	NewInstanceBucket().Register("instances", qr)
}

// InstallHandler stores template code. The template id is returned as the
// result data.
type InstallHandler struct{}

var _ weave.Handler = InstallHandler{}

func (InstallHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg InstallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &weave.CheckResult{}, nil
}

func (InstallHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg InstallMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	id, err := Install(db, []byte(msg.Code))
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: id}, nil
}
