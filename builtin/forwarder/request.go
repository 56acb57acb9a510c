// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package forwarder

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Request is a call signed by From and relayed by the forwarder to To.
type Request struct {
	From  sand.Address
	To    sand.Address
	Nonce uint64
	Data  []byte
}

// SigningHash is blake2b over the rlp encoding of the request.
func (r *Request) SigningHash() (sand.Bytes32, error) {
	data, err := rlp.EncodeToBytes(r)
	if err != nil {
		return sand.Bytes32{}, errors.Wrap(err, "encode request")
	}
	return sand.Blake2b(data), nil
}

// Sign produces the 65 bytes compact recoverable signature of r.
func Sign(r *Request, key *secp256k1.PrivateKey) ([]byte, error) {
	hash, err := r.SigningHash()
	if err != nil {
		return nil, err
	}
	return ecdsa.SignCompact(key, hash[:], false), nil
}

// Signer recovers the address that signed r.
func Signer(r *Request, sig []byte) (sand.Address, error) {
	hash, err := r.SigningHash()
	if err != nil {
		return sand.Address{}, err
	}
	pub, _, err := ecdsa.RecoverCompact(sig, hash[:])
	if err != nil {
		return sand.Address{}, err
	}
	return PubkeyToAddress(pub), nil
}

// PubkeyToAddress derives the account address of a public key.
func PubkeyToAddress(pub *secp256k1.PublicKey) sand.Address {
	h := sand.Keccak256(pub.SerializeUncompressed()[1:])
	return sand.BytesToAddress(h[12:])
}

// AppendSender appends the original sender to calldata.
func AppendSender(calldata []byte, sender sand.Address) []byte {
	out := make([]byte, 0, len(calldata)+len(sender))
	out = append(out, calldata...)
	return append(out, sender[:]...)
}

// MsgSender returns the sender appended to calldata when relayed by a
// trusted forwarder, the direct sender otherwise.
func MsgSender(trusted bool, sender sand.Address, calldata []byte) sand.Address {
	if !trusted || len(calldata) < len(sender) {
		return sender
	}
	return sand.BytesToAddress(calldata[len(calldata)-len(sender):])
}
