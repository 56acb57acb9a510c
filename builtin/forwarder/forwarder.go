// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package forwarder verifies signed meta requests so a relayer can submit
// calls on behalf of their signer.
package forwarder

import (
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var logger = log.WithContext("pkg", "forwarder")

// Kind is the registry kind of forwarders.
const Kind = "forwarder"

var (
	slotNonces = solidity.Slot("forwarder-nonces")

	eventForwarded = solidity.NewEvent("Forwarded", "indexed address from", "indexed address to", "uint256 nonce")
)

type Forwarder struct {
	ctx    *solidity.Context
	nonces *solidity.Mapping[sand.Address, uint64]
}

func New(addr sand.Address, st *state.State, clock sand.Clock) *Forwarder {
	ctx := solidity.NewContext(addr, st, clock)
	return &Forwarder{
		ctx:    ctx,
		nonces: solidity.NewMapping[sand.Address, uint64](ctx, slotNonces),
	}
}

func (f *Forwarder) Address() sand.Address { return f.ctx.Address() }

// Nonce returns the nonce the next request of from must carry.
func (f *Forwarder) Nonce(from sand.Address) (uint64, error) {
	n, err := f.nonces.Get(from)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get nonce")
	}
	return n, nil
}

// Verify authenticates req, consumes its nonce and returns the signer.
func (f *Forwarder) Verify(req *Request, sig []byte) (sand.Address, error) {
	signer, err := Signer(req, sig)
	if err != nil {
		return sand.Address{}, reverts.Role("invalid signature: %v", err)
	}
	if signer != req.From {
		return sand.Address{}, reverts.Role("signature of %v does not match sender %v", signer, req.From)
	}
	nonce, err := f.Nonce(req.From)
	if err != nil {
		return sand.Address{}, err
	}
	if req.Nonce != nonce {
		return sand.Address{}, reverts.Config("nonce %d, expected %d", req.Nonce, nonce)
	}
	if err := f.nonces.Set(req.From, nonce+1); err != nil {
		return sand.Address{}, errors.Wrap(err, "failed to set nonce")
	}
	logger.Debug("request forwarded", "from", req.From, "to", req.To, "nonce", req.Nonce)
	return req.From, f.ctx.Emit(eventForwarded, req.From, req.To, req.Nonce)
}
