// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requirements

import (
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/collection"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

func addList(lists *solidity.AddressList, coll sand.Address) error {
	all, err := lists.All()
	if err != nil {
		return errors.Wrap(err, "failed to get lists")
	}
	for _, a := range all {
		if a == coll {
			return nil
		}
	}
	if len(all) >= sand.MaxRuleLists {
		return reverts.Config("too many lists, max %d", sand.MaxRuleLists)
	}
	_, err = lists.Add(coll)
	return errors.Wrap(err, "failed to add list")
}

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

// SetERC721RequirementList configures or replaces the requirement of coll.
func (r *Rules) SetERC721RequirementList(caller, coll sand.Address, list *ERC721List) error {
	if err := r.access.Check(OpSetERC721RequirementList, caller); err != nil {
		return err
	}
	if _, err := registry.Lookup[collection.ERC721Reader](r.registry, coll); err != nil {
		return err
	}
	if err := list.normalize(); err != nil {
		return err
	}
	if err := addList(r.erc721Lists, coll); err != nil {
		return err
	}
	if err := r.erc721Rules.Set(coll, list); err != nil {
		return errors.Wrap(err, "failed to set erc721 list")
	}
	logger.Info("erc721 requirement list set", "collection", coll, "balanceMode", list.BalanceMode, "minRequired", list.MinRequired)
	return r.ctx.Emit(eventERC721ListSet, coll, list.BalanceMode)
}

// SetERC1155RequirementList configures or replaces the requirement of coll.
func (r *Rules) SetERC1155RequirementList(caller, coll sand.Address, list *ERC1155List) error {
	if err := r.access.Check(OpSetERC1155RequirementList, caller); err != nil {
		return err
	}
	if _, err := registry.Lookup[collection.ERC1155Reader](r.registry, coll); err != nil {
		return err
	}
	if err := list.normalize(); err != nil {
		return err
	}
	if err := addList(r.erc1155Lists, coll); err != nil {
		return err
	}
	if err := r.erc1155Rules.Set(coll, list); err != nil {
		return errors.Wrap(err, "failed to set erc1155 list")
	}
	logger.Info("erc1155 requirement list set", "collection", coll, "minRequired", list.MinRequired)
	return r.ctx.Emit(eventERC1155ListSet, coll)
}

func (r *Rules) DeleteERC721RequirementList(caller, coll sand.Address) error {
	if err := r.access.Check(OpDeleteERC721RequirementList, caller); err != nil {
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
	logger.Info("erc721 requirement list deleted", "collection", coll)
	return r.ctx.Emit(eventERC721ListDeleted, coll)
}

func (r *Rules) DeleteERC1155RequirementList(caller, coll sand.Address) error {
	if err := r.access.Check(OpDeleteERC1155RequirementList, caller); err != nil {
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
	logger.Info("erc1155 requirement list deleted", "collection", coll)
	return r.ctx.Emit(eventERC1155ListDeleted, coll)
}
