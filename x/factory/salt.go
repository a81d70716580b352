package factory

import (
	"crypto/sha256"
	"encoding/binary"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

const (
	maxSaltLength = 64

	contentPolicy = "content"
	contextPolicy = "context"
)

// SaltPolicy derives the salt used to compute the address of a new
// instance.
type SaltPolicy interface {
	Salt(ctx weave.Context, asset weave.Address, explicit []byte) ([]byte, error)
}

// PolicyByName returns the salt policy registered under given name.
func PolicyByName(name string) (SaltPolicy, error) {
	switch name {
	case contentPolicy:
		return ContentSalt{}, nil
	case contextPolicy:
		return ContextSalt{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown salt policy %q", name)
	}
}

// ContentSalt derives the salt from the asset only. Creating a second
// splitter for the same asset results in an address collision.
type ContentSalt struct{}

var _ SaltPolicy = ContentSalt{}

func (ContentSalt) Salt(ctx weave.Context, asset weave.Address, explicit []byte) ([]byte, error) {
	if len(explicit) != 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "salt is derived from the asset")
	}
	if err := asset.Validate(); err != nil {
		return nil, errors.Wrap(err, "asset")
	}
	sum := sha256.Sum256(asset)
	return sum[:], nil
}

// ContextSalt uses the salt provided by the caller. Without one the salt is
// derived from the current block, so two creations in the same block
// without a salt collide.
type ContextSalt struct{}

var _ SaltPolicy = ContextSalt{}

func (ContextSalt) Salt(ctx weave.Context, asset weave.Address, explicit []byte) ([]byte, error) {
	if len(explicit) > maxSaltLength {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "salt longer than %d bytes", maxSaltLength)
	}
	if len(explicit) != 0 {
		return append([]byte(nil), explicit...), nil
	}

	height, ok := weave.GetHeight(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrState, "block height not in context")
	}
	blockTime, ok := weave.BlockTime(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrState, "block time not in context")
	}
	var raw [16]byte
	binary.BigEndian.PutUint64(raw[:8], uint64(height))
	binary.BigEndian.PutUint64(raw[8:], uint64(blockTime.Unix()))
	sum := sha256.Sum256(raw[:])
	return sum[:], nil
}
