// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

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

// ERC1155 is a multi-token collection: balances are kept per (owner, id).
type ERC1155 struct {
	ctx      *solidity.Context
	access   *access.Table
	balances *solidity.Mapping[solidity.BytesKey, *uint256.Int]
}

func NewERC1155(addr sand.Address, st *state.State, clock sand.Clock) *ERC1155 {
	ctx := solidity.NewContext(addr, st, clock)
	return &ERC1155{
		ctx:      ctx,
		access:   access.New(ctx, access.Policy{OpMint: access.RoleAdmin}),
		balances: solidity.NewMapping[solidity.BytesKey, *uint256.Int](ctx, slotBalances),
	}
}

func (c *ERC1155) Address() sand.Address { return c.ctx.Address() }

func (c *ERC1155) Access() *access.Table { return c.access }

func balanceKey(owner sand.Address, id *uint256.Int) solidity.BytesKey {
	return append(solidity.BytesKey(owner.Bytes()), IDKey(id)...)
}

// BalanceOf returns the amount of id held by owner.
func (c *ERC1155) BalanceOf(owner sand.Address, id *uint256.Int) (*uint256.Int, error) {
	bal, err := c.balances.Get(balanceKey(owner, id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// Mint creates amount units of id for to. Admin only.
func (c *ERC1155) Mint(caller, to sand.Address, id, amount *uint256.Int) error {
	if err := c.access.Check(OpMint, caller); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.Config("mint to the zero address")
	}
	bal, err := c.BalanceOf(to, id)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return reverts.Overflow("balance overflow")
	}
	if err := c.balances.Set(balanceKey(to, id), sum); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return c.ctx.Emit(eventTransferSingle, caller, sand.Address{}, to, id, amount)
}

// Transfer moves amount units of id.
func (c *ERC1155) Transfer(from, to sand.Address, id, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.Config("transfer to the zero address")
	}
	fromBal, err := c.BalanceOf(from, id)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return reverts.Balance("insufficient balance of token %v", id.Dec())
	}
	toBal, err := c.BalanceOf(to, id)
	if err != nil {
		return err
	}
	if from != to {
		if err := c.balances.Set(balanceKey(from, id), new(uint256.Int).Sub(fromBal, amount)); err != nil {
			return errors.Wrap(err, "failed to set balance")
		}
		if err := c.balances.Set(balanceKey(to, id), new(uint256.Int).Add(toBal, amount)); err != nil {
			return errors.Wrap(err, "failed to set balance")
		}
	}
	return c.ctx.Emit(eventTransferSingle, from, from, to, id, amount)
}
