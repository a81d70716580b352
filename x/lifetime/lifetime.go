package lifetime

import (
	"math"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/orm"
)

// Extend makes sure the state stored under key stays live. When fewer than
// threshold blocks remain, the live-until height becomes height+extendTo.
// A lifetime is never shortened.
func Extend(ctx weave.Context, db weave.KVStore, key []byte, threshold, extendTo int64) error {
	if threshold < 0 || extendTo <= 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "threshold %d, extend to %d", threshold, extendTo)
	}
	height, ok := weave.GetHeight(ctx)
	if !ok {
		return errors.Wrap(errors.ErrState, "block height not in context")
	}
	if height > math.MaxInt64-extendTo {
		return errors.Wrap(errors.ErrOverflow, "live until height")
	}

	bucket := NewBucket()
	until, tracked, err := bucket.LiveUntil(db, key)
	if err != nil {
		return errors.Wrap(err, "cannot load lifetime")
	}
	if tracked && until-height >= threshold {
		return nil
	}
	target := height + extendTo
	if target <= until {
		return nil
	}
	obj := orm.NewSimpleObj(key, &Record{LiveUntil: target})
	if err := bucket.Save(db, obj); err != nil {
		return errors.Wrap(err, "cannot save lifetime")
	}
	weave.GetLogger(ctx).Debug("lifetime extended", "key", key, "until", target)
	return nil
}

// Check returns ErrExpired if the state under key is no longer live.
func Check(ctx weave.Context, db weave.ReadOnlyKVStore, key []byte) error {
	until, tracked, err := NewBucket().LiveUntil(db, key)
	if err != nil {
		return errors.Wrap(err, "cannot load lifetime")
	}
	if !tracked {
		return nil
	}
	height, ok := weave.GetHeight(ctx)
	if !ok {
		return errors.Wrap(errors.ErrState, "block height not in context")
	}
	if height > until {
		return errors.Wrapf(errors.ErrExpired, "live until %d, now %d", until, height)
	}
	return nil
}
