package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/store"
	"github.com/iov-one/splitweave/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := weave.WithLogger(context.Background(), log.NewTMLogger(&buf))
	ctx = weave.WithHeight(ctx, 42)
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "splitter/distribute"}}

	h := &weavetest.Handler{DeliverResult: weave.DeliverResult{Log: "distributed"}}
	_, err := NewLogging().Deliver(ctx, db, tx, h)
	assert.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "distributed"), out)
	assert.True(t, strings.Contains(out, "splitter/distribute"), out)
	assert.True(t, strings.Contains(out, "height=42"), out)

	buf.Reset()
	h = &weavetest.Handler{DeliverErr: errors.ErrUnauthorized}
	_, err = NewLogging().Deliver(ctx, db, tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.True(t, strings.Contains(buf.String(), "delivery failed"), buf.String())
	assert.True(t, strings.Contains(buf.String(), "unauthorized"), buf.String())

	// a failed check is an error too
	buf.Reset()
	h = &weavetest.Handler{CheckErr: errors.ErrEmpty}
	_, err = NewLogging().Check(ctx, db, tx, h)
	assert.True(t, errors.ErrEmpty.Is(err))
	assert.True(t, strings.Contains(buf.String(), "check failed"), buf.String())
}
