package sigs

import (
	"testing"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/crypto"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	db := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	owner := priv.PublicKey().Condition()

	const chainID = "split-chain-7"
	payload := []byte("send from owner")
	tx := NewStdTx(payload)
	sign := func(nonce int64) *StdSignature {
		sig, err := SignTx(priv, tx, chainID, nonce)
		require.NoError(t, err)
		return sig
	}

	// the first signature of a key uses nonce zero
	_, err := VerifySignature(db, sign(1), payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(db, nil, payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(db, &StdSignature{}, payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	got, err := VerifySignature(db, sign(0), payload, chainID)
	require.NoError(t, err)
	assert.Equal(t, owner, got)
	got, err = VerifySignature(db, sign(1), payload, chainID)
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	// replays and gaps are rejected
	_, err = VerifySignature(db, sign(1), payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(db, sign(13), payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// a signature is bound to the chain and the payload
	_, err = VerifySignature(db, sign(2), payload, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(db, sign(2), []byte("send from someone"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// a signature cannot be claimed for another key
	forged := sign(2)
	forged.Pubkey = crypto.GenPrivKeyEd25519().PublicKey()
	_, err = VerifySignature(db, forged, payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// nor can a condition that is not a key be claimed
	forged = sign(2)
	forged.Pubkey = &crypto.PublicKey{Ed25519: weave.NewCondition("deploy", "instance", []byte("x")).Address()}
	_, err = VerifySignature(db, forged, payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	broken := sign(2)
	broken.Signature = &crypto.Signature{Ed25519: append([]byte{42, 17, 99}, broken.Signature.Ed25519[3:]...)}
	_, err = VerifySignature(db, broken, payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// failed verifications did not consume the nonce
	nonce, err := NextNonce(db, owner.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), nonce)
	_, err = VerifySignature(db, sign(2), payload, chainID)
	require.NoError(t, err)
}

func TestVerifyTxSignatures(t *testing.T) {
	db := store.MemStore()
	const chainID = "split-chain-7"

	owner, issuer := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("mint to splitter"))
	sign := func(k *crypto.PrivateKey, t2 SignedTx, nonce int64) *StdSignature {
		sig, err := SignTx(k, t2, chainID, nonce)
		require.NoError(t, err)
		return sig
	}

	signers, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	// a signature of another transaction
	tx.Signatures = []*StdSignature{sign(owner, NewStdTx([]byte("other")), 0)}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx.Signatures = []*StdSignature{sign(owner, tx, 0)}
	signers, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []weave.Condition{owner.PublicKey().Condition()}, signers)

	// the whole transaction fails on a replayed signature
	tx.Signatures = []*StdSignature{sign(owner, tx, 0), sign(issuer, tx, 0)}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx.Signatures = []*StdSignature{sign(owner, tx, 1), sign(issuer, tx, 0)}
	signers, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []weave.Condition{owner.PublicKey().Condition(), issuer.PublicKey().Condition()}, signers)

	// a key signs a transaction once, and no nonce is used up by trying
	tx.Signatures = []*StdSignature{sign(owner, tx, 2), sign(owner, tx, 3)}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, errors.ErrDuplicate.Is(err))
	nonce, err := NextNonce(db, owner.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), nonce)
}
