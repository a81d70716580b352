package weavetest

import (
	"testing"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/weavetest/assert"
)

func TestHandlerResults(t *testing.T) {
	h := Handler{
		CheckResult:   weave.CheckResult{Log: "checked"},
		DeliverResult: weave.DeliverResult{Data: []byte("instance"), Log: "created"},
	}
	cres, err := h.Check(nil, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, "checked", cres.Log)
	dres, err := h.Deliver(nil, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, []byte("instance"), dres.Data)

	// a returned result never aliases the configured one
	dres.Log = "changed"
	assert.Equal(t, "created", h.DeliverResult.Log)

	h.CheckErr = errors.ErrUnauthorized
	h.DeliverErr = errors.ErrNotFound
	_, err = h.Check(nil, nil, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = h.Deliver(nil, nil, nil)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Equal(t, 2, h.CheckCallCount())
	assert.Equal(t, 2, h.DeliverCallCount())
	assert.Equal(t, 4, h.CallCount())
}

func TestDecorate(t *testing.T) {
	outer, inner := &Decorator{}, &Decorator{}
	h := &Handler{}
	stack := Decorate(h, outer, inner)

	_, err := stack.Check(nil, nil, nil)
	assert.Nil(t, err)
	_, err = stack.Deliver(nil, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, outer.CallCount())
	assert.Equal(t, 2, inner.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a failing decorator stops the call before the handler
	inner.DeliverErr = errors.ErrState
	_, err = stack.Deliver(nil, nil, nil)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 2, outer.DeliverCallCount())
	assert.Equal(t, 2, inner.DeliverCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}
