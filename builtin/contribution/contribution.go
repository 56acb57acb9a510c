// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contribution turns a staked balance into a reward weight using
// bonuses granted for holdings in external collections.
//
// The multiplier is expressed in thousandths, MultiplierBase meaning no bonus:
//
//	multiplier   = min(1000 + sum(min(bonus_c, limit_kind(c))), maxGlobalMultiplier)
//	contribution = staked * multiplier / 1000
package contribution

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

var logger = log.WithContext("pkg", "contribution")

// Kind is the registry kind of the engine.
const Kind = "contribution"

const (
	DefaultMultiplierLimit     uint64 = 1000
	DefaultMaxGlobalMultiplier uint64 = 2000
)

const (
	OpSetERC721MultiplierList     access.Operation = "setERC721MultiplierList"
	OpSetERC1155MultiplierList    access.Operation = "setERC1155MultiplierList"
	OpDeleteERC721MultiplierList  access.Operation = "deleteERC721MultiplierList"
	OpDeleteERC1155MultiplierList access.Operation = "deleteERC1155MultiplierList"
	OpSetMultiplierLimitERC721    access.Operation = "setMultiplierLimitERC721"
	OpSetMultiplierLimitERC1155   access.Operation = "setMultiplierLimitERC1155"
	OpSetMaxGlobalMultiplier      access.Operation = "setMaxGlobalMultiplier"
)

// Engine is what a pool needs from contribution rules.
type Engine interface {
	Address() sand.Address
	ComputeMultiplier(account sand.Address) (uint64, error)
	ComputeContribution(account sand.Address, staked *uint256.Int) (*uint256.Int, error)
	MaxGlobalMultiplier() (uint64, error)
}

var (
	slotERC721Lists  = solidity.Slot("contribution-erc721-lists")
	slotERC721Rules  = solidity.Slot("contribution-erc721-rules")
	slotERC1155Lists = solidity.Slot("contribution-erc1155-lists")
	slotERC1155Rules = solidity.Slot("contribution-erc1155-rules")
	slotLimitERC721  = solidity.Slot("contribution-limit-erc721")
	slotLimitERC1155 = solidity.Slot("contribution-limit-erc1155")
	slotMaxGlobal    = solidity.Slot("contribution-max-global")

	eventERC721ListSet      = solidity.NewEvent("ERC721MultiplierListSet", "indexed address collection", "bool balanceMode")
	eventERC1155ListSet     = solidity.NewEvent("ERC1155MultiplierListSet", "indexed address collection")
	eventERC721ListDeleted  = solidity.NewEvent("ERC721MultiplierListDeleted", "indexed address collection")
	eventERC1155ListDeleted = solidity.NewEvent("ERC1155MultiplierListDeleted", "indexed address collection")
	eventLimitERC721Set     = solidity.NewEvent("MultiplierLimitERC721Set", "uint256 limit")
	eventLimitERC1155Set    = solidity.NewEvent("MultiplierLimitERC1155Set", "uint256 limit")
	eventMaxGlobalSet       = solidity.NewEvent("MaxGlobalMultiplierSet", "uint256 limit")
)

// Rules is the stored contribution rule set.
type Rules struct {
	ctx          *solidity.Context
	access       *access.Table
	registry     *registry.Registry
	erc721Lists  *solidity.AddressList
	erc721Rules  *solidity.Mapping[sand.Address, *ERC721List]
	erc1155Lists *solidity.AddressList
	erc1155Rules *solidity.Mapping[sand.Address, *ERC1155List]
	limitERC721  *solidity.Uint64
	limitERC1155 *solidity.Uint64
	maxGlobal    *solidity.Uint64
}

var _ Engine = (*Rules)(nil)

func New(addr sand.Address, st *state.State, clock sand.Clock, reg *registry.Registry) *Rules {
	ctx := solidity.NewContext(addr, st, clock)
	policy := access.Policy{}
	for _, op := range []access.Operation{
		OpSetERC721MultiplierList, OpSetERC1155MultiplierList,
		OpDeleteERC721MultiplierList, OpDeleteERC1155MultiplierList,
		OpSetMultiplierLimitERC721, OpSetMultiplierLimitERC1155, OpSetMaxGlobalMultiplier,
	} {
		policy[op] = access.RoleAdmin
	}
	return &Rules{
		ctx:          ctx,
		access:       access.New(ctx, policy),
		registry:     reg,
		erc721Lists:  solidity.NewAddressList(ctx, slotERC721Lists),
		erc721Rules:  solidity.NewMapping[sand.Address, *ERC721List](ctx, slotERC721Rules),
		erc1155Lists: solidity.NewAddressList(ctx, slotERC1155Lists),
		erc1155Rules: solidity.NewMapping[sand.Address, *ERC1155List](ctx, slotERC1155Rules),
		limitERC721:  solidity.NewUint64(ctx, slotLimitERC721),
		limitERC1155: solidity.NewUint64(ctx, slotLimitERC1155),
		maxGlobal:    solidity.NewUint64(ctx, slotMaxGlobal),
	}
}

// Init sets the owner and the default ceilings.
func (r *Rules) Init(owner sand.Address) error {
	if err := r.access.Init(owner); err != nil {
		return err
	}
	r.limitERC721.Set(DefaultMultiplierLimit)
	r.limitERC1155.Set(DefaultMultiplierLimit)
	r.maxGlobal.Set(DefaultMaxGlobalMultiplier)
	return nil
}

func (r *Rules) Address() sand.Address { return r.ctx.Address() }

func (r *Rules) Access() *access.Table { return r.access }

func (r *Rules) MultiplierLimitERC721() (uint64, error)  { return r.limitERC721.Get() }
func (r *Rules) MultiplierLimitERC1155() (uint64, error) { return r.limitERC1155.Get() }
func (r *Rules) MaxGlobalMultiplier() (uint64, error)    { return r.maxGlobal.Get() }

func (r *Rules) ERC721Lists() ([]sand.Address, error)  { return r.erc721Lists.All() }
func (r *Rules) ERC1155Lists() ([]sand.Address, error) { return r.erc1155Lists.All() }

// ERC721List returns the list configured for coll, nil if none.
func (r *Rules) ERC721List(coll sand.Address) (*ERC721List, error) {
	ok, err := r.erc721Lists.Contains(coll)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "failed to get erc721 lists")
	}
	return r.erc721Rules.Get(coll)
}

// ERC1155List returns the list configured for coll, nil if none.
func (r *Rules) ERC1155List(coll sand.Address) (*ERC1155List, error) {
	ok, err := r.erc1155Lists.Contains(coll)
	if err != nil || !ok {
		return nil, errors.Wrap(err, "failed to get erc1155 lists")
	}
	return r.erc1155Rules.Get(coll)
}

// ComputeMultiplier returns the multiplier of account in thousandths.
func (r *Rules) ComputeMultiplier(account sand.Address) (uint64, error) {
	limit721, err := r.limitERC721.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get erc721 limit")
	}
	limit1155, err := r.limitERC1155.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get erc1155 limit")
	}
	maxGlobal, err := r.maxGlobal.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get global limit")
	}

	multiplier := sand.MultiplierBase
	colls, err := r.erc721Lists.All()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get erc721 lists")
	}
	for _, coll := range colls {
		bonus, err := r.erc721Bonus(coll, account)
		if err != nil {
			return 0, err
		}
		multiplier += min(bonus, limit721)
	}
	colls, err = r.erc1155Lists.All()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get erc1155 lists")
	}
	for _, coll := range colls {
		bonus, err := r.erc1155Bonus(coll, account)
		if err != nil {
			return 0, err
		}
		multiplier += min(bonus, limit1155)
	}
	return min(multiplier, max(maxGlobal, sand.MultiplierBase)), nil
}

// ComputeContribution scales staked by the multiplier of account, rounding down.
func (r *Rules) ComputeContribution(account sand.Address, staked *uint256.Int) (*uint256.Int, error) {
	multiplier, err := r.ComputeMultiplier(account)
	if err != nil {
		return nil, err
	}
	contribution, overflow := new(uint256.Int).MulDivOverflow(staked, uint256.NewInt(multiplier), uint256.NewInt(sand.MultiplierBase))
	if overflow {
		return nil, reverts.Overflow("contribution overflow")
	}
	return contribution, nil
}

func (r *Rules) erc721Bonus(coll, account sand.Address) (uint64, error) {
	list, err := r.erc721Rules.Get(coll)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get erc721 list")
	}
	nft, err := registry.Lookup[collection.ERC721Reader](r.registry, coll)
	if err != nil {
		return 0, err
	}
	if list.BalanceMode {
		held, err := nft.BalanceOf(account)
		if err != nil {
			return 0, err
		}
		return curveBonus(list.Curve, held), nil
	}
	var best uint64
	for _, entry := range list.IDs {
		if entry.Bonus <= best {
			continue
		}
		owner, err := nft.OwnerOf(entry.ID)
		if err != nil {
			return 0, err
		}
		if owner == account {
			best = entry.Bonus
		}
	}
	return best, nil
}

func (r *Rules) erc1155Bonus(coll, account sand.Address) (uint64, error) {
	list, err := r.erc1155Rules.Get(coll)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get erc1155 list")
	}
	multi, err := registry.Lookup[collection.ERC1155Reader](r.registry, coll)
	if err != nil {
		return 0, err
	}
	var best uint64
	for _, entry := range list.IDs {
		if entry.Bonus <= best {
			continue
		}
		bal, err := multi.BalanceOf(account, entry.ID)
		if err != nil {
			return 0, err
		}
		if !bal.IsZero() {
			best = entry.Bonus
		}
	}
	return best, nil
}
