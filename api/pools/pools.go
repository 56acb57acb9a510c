// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/api/restutil"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/pool"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/runtime"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

type Pools struct {
	rt  *runtime.Runtime
	reg *registry.Registry
}

func New(rt *runtime.Runtime, reg *registry.Registry) *Pools {
	return &Pools{rt, reg}
}

func parseAddress(req *http.Request, name string) (sand.Address, error) {
	addr, err := sand.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return sand.Address{}, restutil.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

func (p *Pools) lookup(req *http.Request) (*pool.Pool, error) {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return nil, err
	}
	found, err := registry.Lookup[*pool.Pool](p.reg, addr)
	if err != nil {
		if reverts.Is(err, reverts.KindNotContract) {
			return nil, restutil.NotFound(errors.Errorf("no pool at %v", addr))
		}
		return nil, err
	}
	return found, nil
}

func (p *Pools) handleList(w http.ResponseWriter, _ *http.Request) error {
	addrs := p.reg.Addresses(pool.Kind)
	if addrs == nil {
		addrs = []sand.Address{}
	}
	return restutil.WriteJSON(w, addrs)
}

func (p *Pools) getPool(target *pool.Pool) (*Pool, error) {
	var (
		out = &Pool{Address: target.Address()}
		err error
	)
	addrs := []struct {
		dst *sand.Address
		get func() (sand.Address, error)
	}{
		{&out.StakeToken, target.StakeToken},
		{&out.RewardToken, target.RewardToken},
		{&out.RewardCalculator, target.RewardCalculator},
		{&out.ContributionRules, target.ContributionRules},
		{&out.RequirementsRules, target.RequirementsRules},
		{&out.TrustedForwarder, target.TrustedForwarder},
		{&out.Owner, target.Access().Owner},
	}
	for _, a := range addrs {
		if *a.dst, err = a.get(); err != nil {
			return nil, err
		}
	}
	if out.TotalSupply, err = target.TotalSupply(); err != nil {
		return nil, err
	}
	if out.TotalContributions, err = target.TotalContributions(); err != nil {
		return nil, err
	}
	if out.RewardPerContribution, err = target.RewardPerContribution(); err != nil {
		return nil, err
	}
	if out.MaxStakeOverall, err = target.MaxStakeOverall(); err != nil {
		return nil, err
	}
	if out.CarriedRewards, err = target.CarriedRewards(); err != nil {
		return nil, err
	}
	if out.LastUpdateTime, err = target.LastUpdateTime(); err != nil {
		return nil, err
	}
	if out.Stakers, err = target.Stakers(); err != nil {
		return nil, err
	}
	if out.Paused, err = target.Paused(); err != nil {
		return nil, err
	}
	periods, err := target.Locks().Periods()
	if err != nil {
		return nil, err
	}
	ceiling, err := target.Locks().ClaimCeiling()
	if err != nil {
		return nil, err
	}
	out.Locks = convertLocks(periods, ceiling)
	return out, nil
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	target, err := p.lookup(req)
	if err != nil {
		return err
	}
	var out *Pool
	if err := p.rt.View(func() (err error) {
		out, err = p.getPool(target)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (p *Pools) getAccount(target *pool.Pool, addr sand.Address) (*Account, error) {
	acc, err := target.Account(addr)
	if err != nil {
		return nil, err
	}
	earned, err := target.Earned(addr)
	if err != nil {
		return nil, err
	}
	maxStake, err := target.MaxStake(addr)
	if err != nil {
		return nil, err
	}
	timers, err := target.Locks().Timers(addr)
	if err != nil {
		return nil, err
	}
	return &Account{
		Address:                   addr,
		Staked:                    acc.Staked,
		Contribution:              acc.Contribution,
		RewardPerContributionPaid: acc.RewardPerContributionPaid,
		RewardsAccrued:            acc.RewardsAccrued,
		Earned:                    earned,
		MaxStake:                  maxStake,
		LastDeposit:               timers.LastDeposit,
		LastWithdraw:              timers.LastWithdraw,
		LastClaim:                 timers.LastClaim,
	}, nil
}

func (p *Pools) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	target, err := p.lookup(req)
	if err != nil {
		return err
	}
	addr, err := parseAddress(req, "account")
	if err != nil {
		return err
	}
	var out *Account
	if err := p.rt.View(func() (err error) {
		out, err = p.getAccount(target, addr)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleList))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{address}/accounts/{account}").
		Methods(http.MethodGet).
		Name("GET /pools/{address}/accounts/{account}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetAccount))
}
