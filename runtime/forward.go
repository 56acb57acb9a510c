// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/forwarder"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Trusting is a contract that accepts calls relayed by its trusted forwarder.
type Trusting interface {
	Address() sand.Address
	IsTrustedForwarder(forwarder sand.Address) (bool, error)
}

// Forward runs fn on behalf of the signer of req, submitted by relayer.
// target must trust fwd and be the destination of req.
func (rt *Runtime) Forward(name string, relayer sand.Address, fwd *forwarder.Forwarder, target Trusting, req *forwarder.Request, sig []byte, fn Op) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute(name, relayer, func() (sand.Address, error) {
		if req.To != target.Address() {
			return sand.Address{}, reverts.Config("request targets %v, not %v", req.To, target.Address())
		}
		trusted, err := target.IsTrustedForwarder(fwd.Address())
		if err != nil {
			return sand.Address{}, err
		}
		if !trusted {
			return sand.Address{}, reverts.Role("%v is not the trusted forwarder of %v", fwd.Address(), target.Address())
		}
		signer, err := fwd.Verify(req, sig)
		if err != nil {
			return sand.Address{}, err
		}
		caller := forwarder.MsgSender(true, fwd.Address(), forwarder.AppendSender(req.Data, signer))
		return caller, fn(caller)
	})
}
