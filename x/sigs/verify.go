package sigs

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// VerifyTxSignatures verifies all signatures of the transaction and
// consumes their nonces. It returns the conditions of all signing keys, in
// signature order. A key may sign a transaction only once.
func VerifyTxSignatures(db weave.KVStore, tx SignedTx, chainID string) ([]weave.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	seen := make(map[string]bool, len(sigs))
	for i, sig := range sigs {
		if sig == nil || sig.Pubkey == nil {
			continue
		}
		k := string(sig.Pubkey.Ed25519)
		if seen[k] {
			return nil, errors.Wrapf(errors.ErrDuplicate, "signature %d: key signed twice", i)
		}
		seen[k] = true
	}
	signers := make([]weave.Condition, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, raw, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature verifies a signature of the raw sign bytes and consumes
// its nonce. Nothing is stored when the signature is invalid.
func VerifySignature(db weave.KVStore, sig *StdSignature, raw []byte, chainID string) (weave.Condition, error) {
	if sig == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	msg, err := digest(raw, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(msg, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	b := NewBucket()
	acc, err := b.Account(db, sig.Pubkey)
	if err != nil {
		return nil, errors.Wrap(err, "account")
	}
	if err := acc.Use(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.SaveAccount(db, acc); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return sig.Pubkey.Condition(), nil
}
