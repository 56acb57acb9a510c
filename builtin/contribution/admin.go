// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contribution

import (
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/collection"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

func addList(lists *solidity.AddressList, coll sand.Address) error {
	ok, err := lists.Contains(coll)
	if err != nil {
		return errors.Wrap(err, "failed to get lists")
	}
	if ok {
		return nil
	}
	all, err := lists.All()
	if err != nil {
		return errors.Wrap(err, "failed to get lists")
	}
	if len(all) >= sand.MaxRuleLists {
		return reverts.Config("too many lists, max %d", sand.MaxRuleLists)
	}
	_, err = lists.Add(coll)
	return errors.Wrap(err, "failed to add list")
}

// SetERC721MultiplierList configures or replaces the bonus list of coll.
func (r *Rules) SetERC721MultiplierList(caller, coll sand.Address, list *ERC721List) error {
	if err := r.access.Check(OpSetERC721MultiplierList, caller); err != nil {
		return err
	}
	if _, err := registry.Lookup[collection.ERC721Reader](r.registry, coll); err != nil {
		return err
	}
	if err := list.validate(); err != nil {
		return err
	}
	if err := addList(r.erc721Lists, coll); err != nil {
		return err
	}
	if err := r.erc721Rules.Set(coll, list); err != nil {
		return errors.Wrap(err, "failed to set erc721 list")
	}
	logger.Info("erc721 multiplier list set", "collection", coll, "balanceMode", list.BalanceMode)
	return r.ctx.Emit(eventERC721ListSet, coll, list.BalanceMode)
}

// SetERC1155MultiplierList configures or replaces the bonus list of coll.
func (r *Rules) SetERC1155MultiplierList(caller, coll sand.Address, list *ERC1155List) error {
	if err := r.access.Check(OpSetERC1155MultiplierList, caller); err != nil {
		return err
	}
	if _, err := registry.Lookup[collection.ERC1155Reader](r.registry, coll); err != nil {
		return err
	}
	if err := validateIDs(list.IDs); err != nil {
		return err
	}
	if err := addList(r.erc1155Lists, coll); err != nil {
		return err
	}
	if err := r.erc1155Rules.Set(coll, list); err != nil {
		return errors.Wrap(err, "failed to set erc1155 list")
	}
	logger.Info("erc1155 multiplier list set", "collection", coll, "ids", len(list.IDs))
	return r.ctx.Emit(eventERC1155ListSet, coll)
}

func (r *Rules) DeleteERC721MultiplierList(caller, coll sand.Address) error {
	if err := r.access.Check(OpDeleteERC721MultiplierList, caller); err != nil {
		return err
	}
	removed, err := r.erc721Lists.Remove(coll)
	if err != nil {
		return errors.Wrap(err, "failed to remove erc721 list")
	}
	if !removed {
		return reverts.Config("no erc721 list for %v", coll)
	}
	r.erc721Rules.Delete(coll)
	logger.Info("erc721 multiplier list deleted", "collection", coll)
	return r.ctx.Emit(eventERC721ListDeleted, coll)
}

func (r *Rules) DeleteERC1155MultiplierList(caller, coll sand.Address) error {
	if err := r.access.Check(OpDeleteERC1155MultiplierList, caller); err != nil {
		return err
	}
	removed, err := r.erc1155Lists.Remove(coll)
	if err != nil {
		return errors.Wrap(err, "failed to remove erc1155 list")
	}
	if !removed {
		return reverts.Config("no erc1155 list for %v", coll)
	}
	r.erc1155Rules.Delete(coll)
	logger.Info("erc1155 multiplier list deleted", "collection", coll)
	return r.ctx.Emit(eventERC1155ListDeleted, coll)
}

func (r *Rules) setLimit(caller sand.Address, op access.Operation, slot *solidity.Uint64, ev *solidity.Event, limit, floor uint64) error {
	if err := r.access.Check(op, caller); err != nil {
		return err
	}
	if limit < floor || limit > sand.MaxMultiplierLimit {
		return reverts.Config("%s: limit %d out of [%d, %d]", op, limit, floor, sand.MaxMultiplierLimit)
	}
	slot.Set(limit)
	logger.Info("multiplier limit set", "op", op, "limit", limit)
	return r.ctx.Emit(ev, limit)
}

// SetMultiplierLimitERC721 caps the bonus a single ERC721 list can grant.
func (r *Rules) SetMultiplierLimitERC721(caller sand.Address, limit uint64) error {
	return r.setLimit(caller, OpSetMultiplierLimitERC721, r.limitERC721, eventLimitERC721Set, limit, 0)
}

// SetMultiplierLimitERC1155 caps the bonus a single ERC1155 list can grant.
func (r *Rules) SetMultiplierLimitERC1155(caller sand.Address, limit uint64) error {
	return r.setLimit(caller, OpSetMultiplierLimitERC1155, r.limitERC1155, eventLimitERC1155Set, limit, 0)
}

// SetMaxGlobalMultiplier caps the whole multiplier, never below MultiplierBase.
func (r *Rules) SetMaxGlobalMultiplier(caller sand.Address, limit uint64) error {
	return r.setLimit(caller, OpSetMaxGlobalMultiplier, r.maxGlobal, eventMaxGlobalSet, limit, sand.MultiplierBase)
}
