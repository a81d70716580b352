package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/crypto"
	"github.com/iov-one/splitweave/errors"
)

// SignedTx is a transaction carrying signatures.
type SignedTx interface {
	// GetSignBytes returns the canonical encoding of the transaction
	// without its signatures.
	GetSignBytes() ([]byte, error)
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction together with the key it was
// made with and the nonce of that key.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (s *StdSignature) Reset()         { *s = StdSignature{} }
func (s *StdSignature) String() string { return proto.CompactTextString(s) }
func (*StdSignature) ProtoMessage()    {}

func (s *StdSignature) Validate() error {
	if s.Sequence < 0 || s.Sequence > maxNonce {
		return errors.Wrapf(ErrInvalidSequence, "nonce %d out of range", s.Sequence)
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// signCodeV1 is the version prefix of every signed payload.
var signCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// SignBytes returns the digest a key signs to authorize the transaction on
// the given chain with the given nonce. The digest is the sha512 hash of
//
//   version | len(chainID) | chainID | nonce        | transaction
//   4 bytes | 1 byte       | ascii   | 8 bytes (BE) | sign bytes
//
// so that a signature is bound to a single chain and used only once.
func SignBytes(tx SignedTx, chainID string, nonce int64) ([]byte, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return digest(raw, chainID, nonce)
}

func digest(raw []byte, chainID string, nonce int64) ([]byte, error) {
	if nonce < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative nonce")
	}
	if !weave.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	h := sha512.New()
	h.Write(signCodeV1)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(nonce))
	h.Write(n[:])
	h.Write(raw)
	return h.Sum(nil), nil
}

// SignTx signs the transaction for the chain with the given nonce.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, nonce int64) (*StdSignature, error) {
	msg, err := SignBytes(tx, chainID, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Sequence:  nonce,
		Pubkey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}
