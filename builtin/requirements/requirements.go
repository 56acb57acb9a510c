// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package requirements derives the maximum stake of an account from its
// holdings in external collections.
package requirements

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/collection"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var logger = log.WithContext("pkg", "requirements")

// Kind is the registry kind of the engine.
const Kind = "requirements"

const (
	OpSetERC721RequirementList     access.Operation = "setERC721RequirementList"
	OpSetERC1155RequirementList    access.Operation = "setERC1155RequirementList"
	OpDeleteERC721RequirementList  access.Operation = "deleteERC721RequirementList"
	OpDeleteERC1155RequirementList access.Operation = "deleteERC1155RequirementList"
)

// Engine is what a pool needs from requirement rules.
type Engine interface {
	Address() sand.Address
	// MaxStake returns the allowance of account clipped to overall, zero overall meaning no cap.
	MaxStake(account sand.Address, overall *uint256.Int) (*uint256.Int, error)
	// CheckStake fails unless account meets every gate and total fits its allowance.
	CheckStake(account sand.Address, total, overall *uint256.Int) error
}

var (
	slotERC721Lists  = solidity.Slot("requirements-erc721-lists")
	slotERC721Rules  = solidity.Slot("requirements-erc721-rules")
	slotERC1155Lists = solidity.Slot("requirements-erc1155-lists")
	slotERC1155Rules = solidity.Slot("requirements-erc1155-rules")

	eventERC721ListSet      = solidity.NewEvent("ERC721RequirementListSet", "indexed address collection", "bool balanceMode")
	eventERC1155ListSet     = solidity.NewEvent("ERC1155RequirementListSet", "indexed address collection")
	eventERC721ListDeleted  = solidity.NewEvent("ERC721RequirementListDeleted", "indexed address collection")
	eventERC1155ListDeleted = solidity.NewEvent("ERC1155RequirementListDeleted", "indexed address collection")
)

// Rules is the stored requirement rule set.
type Rules struct {
	ctx          *solidity.Context
	access       *access.Table
	registry     *registry.Registry
	erc721Lists  *solidity.AddressList
	erc721Rules  *solidity.Mapping[sand.Address, *ERC721List]
	erc1155Lists *solidity.AddressList
	erc1155Rules *solidity.Mapping[sand.Address, *ERC1155List]
}

var _ Engine = (*Rules)(nil)

func New(addr sand.Address, st *state.State, clock sand.Clock, reg *registry.Registry) *Rules {
	ctx := solidity.NewContext(addr, st, clock)
	return &Rules{
		ctx: ctx,
		access: access.New(ctx, access.Policy{
			OpSetERC721RequirementList:     access.RoleAdmin,
			OpSetERC1155RequirementList:    access.RoleAdmin,
			OpDeleteERC721RequirementList:  access.RoleAdmin,
			OpDeleteERC1155RequirementList: access.RoleAdmin,
		}),
		registry:     reg,
		erc721Lists:  solidity.NewAddressList(ctx, slotERC721Lists),
		erc721Rules:  solidity.NewMapping[sand.Address, *ERC721List](ctx, slotERC721Rules),
		erc1155Lists: solidity.NewAddressList(ctx, slotERC1155Lists),
		erc1155Rules: solidity.NewMapping[sand.Address, *ERC1155List](ctx, slotERC1155Rules),
	}
}

func (r *Rules) Address() sand.Address { return r.ctx.Address() }

func (r *Rules) Access() *access.Table { return r.access }

func (r *Rules) ERC721Lists() ([]sand.Address, error)  { return r.erc721Lists.All() }
func (r *Rules) ERC1155Lists() ([]sand.Address, error) { return r.erc1155Lists.All() }

// grant is the outcome of one list for an account.
type grant struct {
	met       bool
	sub       string
	coll      sand.Address
	allowance *uint256.Int
}

func (r *Rules) grants(account sand.Address) ([]grant, error) {
	var out []grant

	colls, err := r.erc721Lists.All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get erc721 lists")
	}
	for _, coll := range colls {
		g, err := r.erc721Grant(coll, account)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}

	colls, err = r.erc1155Lists.All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get erc1155 lists")
	}
	for _, coll := range colls {
		g, err := r.erc1155Grant(coll, account)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *Rules) erc721Grant(coll, account sand.Address) (grant, error) {
	g := grant{coll: coll, allowance: new(uint256.Int)}
	list, err := r.erc721Rules.Get(coll)
	if err != nil {
		return g, errors.Wrap(err, "failed to get erc721 list")
	}
	nft, err := registry.Lookup[collection.ERC721Reader](r.registry, coll)
	if err != nil {
		return g, err
	}

	if list.BalanceMode {
		g.sub = reverts.SubBalanceOf
		held, err := nft.BalanceOf(account)
		if err != nil {
			return g, err
		}
		g.met = !held.LtUint64(list.MinRequired)
		if g.met {
			g.allowance, err = unitsAllowance(held, list.MaxCounted, list.PerUnit)
		}
		return g, err
	}

	g.sub = reverts.SubBalanceID
	var owned uint64
	for _, id := range list.IDs {
		owner, err := nft.OwnerOf(id)
		if err != nil {
			return g, err
		}
		if owner == account {
			owned++
		}
	}
	return idGrant(g, owned, list.MinRequired, list.Allowance), nil
}

func (r *Rules) erc1155Grant(coll, account sand.Address) (grant, error) {
	g := grant{coll: coll, allowance: new(uint256.Int), sub: reverts.SubBalanceID}
	list, err := r.erc1155Rules.Get(coll)
	if err != nil {
		return g, errors.Wrap(err, "failed to get erc1155 list")
	}
	multi, err := registry.Lookup[collection.ERC1155Reader](r.registry, coll)
	if err != nil {
		return g, err
	}
	var owned uint64
	for _, id := range list.IDs {
		bal, err := multi.BalanceOf(account, id)
		if err != nil {
			return g, err
		}
		if !bal.IsZero() {
			owned++
		}
	}
	return idGrant(g, owned, list.MinRequired, list.Allowance), nil
}

// idGrant applies the id mode rule: the gate holds once minRequired ids are
// owned, the allowance needs at least one.
func idGrant(g grant, owned, minRequired uint64, allowance *uint256.Int) grant {
	g.met = owned >= minRequired
	if g.met && owned > 0 {
		g.allowance = new(uint256.Int).Set(allowance)
	}
	return g
}

func clip(sum, overall *uint256.Int) *uint256.Int {
	if !overall.IsZero() && sum.Gt(overall) {
		return new(uint256.Int).Set(overall)
	}
	return sum
}

func (r *Rules) maxStake(grants []grant, overall *uint256.Int) (*uint256.Int, error) {
	if len(grants) == 0 {
		if overall.IsZero() {
			return new(uint256.Int).SetAllOne(), nil
		}
		return new(uint256.Int).Set(overall), nil
	}
	sum := new(uint256.Int)
	for _, g := range grants {
		if _, overflow := sum.AddOverflow(sum, g.allowance); overflow {
			return nil, reverts.Overflow("allowance sum overflow")
		}
	}
	return clip(sum, overall), nil
}

func (r *Rules) MaxStake(account sand.Address, overall *uint256.Int) (*uint256.Int, error) {
	grants, err := r.grants(account)
	if err != nil {
		return nil, err
	}
	return r.maxStake(grants, overall)
}

func (r *Rules) CheckStake(account sand.Address, total, overall *uint256.Int) error {
	grants, err := r.grants(account)
	if err != nil {
		return err
	}
	for _, g := range grants {
		if !g.met {
			return reverts.Requirements(g.sub, "%v does not meet the requirement of %v", account, g.coll)
		}
	}
	allowed, err := r.maxStake(grants, overall)
	if err != nil {
		return err
	}
	if total.Gt(allowed) {
		logger.Debug("stake above allowance", "account", account, "total", total, "allowed", allowed)
		return reverts.Requirements(reverts.SubMaxAllowed, "stake %v above allowed %v", total.Dec(), allowed.Dec())
	}
	return nil
}
