package utils

import (
	"time"

	weave "github.com/iov-one/splitweave"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one entry per transaction with its path, block height and
// duration. Failures are logged as errors. A successful delivery is logged
// at info level and a successful check at debug level.
type Logging struct{}

var _ weave.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Error("check failed", "err", err)
	} else {
		logger.Debug(res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Error("delivery failed", "err", err)
	} else {
		logger.Info(res.Log)
	}
	return res, err
}

func txLogger(ctx weave.Context, tx weave.Tx, start time.Time) log.Logger {
	height, _ := weave.GetHeight(ctx)
	return weave.GetLogger(ctx).With(
		"path", weave.GetPath(tx),
		"height", height,
		"duration", time.Since(start)/time.Microsecond,
	)
}
