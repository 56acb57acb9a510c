// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package collection holds non-fungible (ERC721-style) and multi-token
// (ERC1155-style) ledgers whose holdings drive staking bonuses and allowances.
package collection

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

// Registry kinds of collections.
const (
	KindERC721  = "erc721"
	KindERC1155 = "erc1155"
)

// OpMint creates new tokens in a collection.
const OpMint access.Operation = "mint"

var (
	slotOwners   = solidity.Slot("erc721-owners")
	slotCounts   = solidity.Slot("erc721-counts")
	slotBalances = solidity.Slot("erc1155-balances")

	eventTransfer       = solidity.NewEvent("Transfer", "indexed address from", "indexed address to", "indexed uint256 tokenId")
	eventTransferSingle = solidity.NewEvent("TransferSingle", "indexed address operator", "indexed address from", "indexed address to", "uint256 id", "uint256 value")
)

// IDKey is the storage key of a token id.
func IDKey(id *uint256.Int) solidity.BytesKey {
	b := id.Bytes32()
	return solidity.BytesKey(b[:])
}

// ERC721 is a non-fungible collection: each id has at most one owner.
type ERC721 struct {
	ctx    *solidity.Context
	access *access.Table
	owners *solidity.Mapping[solidity.BytesKey, sand.Address]
	counts *solidity.Mapping[sand.Address, uint64]
}

func NewERC721(addr sand.Address, st *state.State, clock sand.Clock) *ERC721 {
	ctx := solidity.NewContext(addr, st, clock)
	return &ERC721{
		ctx:    ctx,
		access: access.New(ctx, access.Policy{OpMint: access.RoleAdmin}),
		owners: solidity.NewMapping[solidity.BytesKey, sand.Address](ctx, slotOwners),
		counts: solidity.NewMapping[sand.Address, uint64](ctx, slotCounts),
	}
}

func (c *ERC721) Address() sand.Address { return c.ctx.Address() }

func (c *ERC721) Access() *access.Table { return c.access }

// BalanceOf returns the number of ids held by owner.
func (c *ERC721) BalanceOf(owner sand.Address) (*uint256.Int, error) {
	n, err := c.counts.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get count")
	}
	return uint256.NewInt(n), nil
}

// OwnerOf returns the owner of id, the zero address when id does not exist.
func (c *ERC721) OwnerOf(id *uint256.Int) (sand.Address, error) {
	owner, err := c.owners.Get(IDKey(id))
	if err != nil {
		return sand.Address{}, errors.Wrap(err, "failed to get owner")
	}
	return owner, nil
}

func (c *ERC721) addCount(owner sand.Address, delta int) error {
	n, err := c.counts.Get(owner)
	if err != nil {
		return errors.Wrap(err, "failed to get count")
	}
	if delta < 0 {
		n--
	} else {
		n++
	}
	return c.counts.Set(owner, n)
}

// Mint creates id for to. Admin only.
func (c *ERC721) Mint(caller, to sand.Address, id *uint256.Int) error {
	if err := c.access.Check(OpMint, caller); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.Config("mint to the zero address")
	}
	cur, err := c.OwnerOf(id)
	if err != nil {
		return err
	}
	if !cur.IsZero() {
		return reverts.Config("token %v already minted", id.Dec())
	}
	if err := c.owners.Set(IDKey(id), to); err != nil {
		return errors.Wrap(err, "failed to set owner")
	}
	if err := c.addCount(to, 1); err != nil {
		return err
	}
	return c.ctx.Emit(eventTransfer, sand.Address{}, to, id)
}

// Transfer moves id from its owner from to to.
func (c *ERC721) Transfer(from, to sand.Address, id *uint256.Int) error {
	cur, err := c.OwnerOf(id)
	if err != nil {
		return err
	}
	if cur != from || cur.IsZero() {
		return reverts.Balance("%v does not own token %v", from, id.Dec())
	}
	if to.IsZero() {
		return reverts.Config("transfer to the zero address")
	}
	if err := c.owners.Set(IDKey(id), to); err != nil {
		return errors.Wrap(err, "failed to set owner")
	}
	if err := c.addCount(from, -1); err != nil {
		return err
	}
	if err := c.addCount(to, 1); err != nil {
		return err
	}
	return c.ctx.Emit(eventTransfer, from, to, id)
}
