// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is a fungible token ledger used as stake and reward token.
package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

// Kind is the registry kind of fungible tokens.
const Kind = "token"

// OpMint creates new tokens.
const OpMint access.Operation = "mint"

var (
	slotSupply     = solidity.Slot("token-supply")
	slotBalances   = solidity.Slot("token-balances")
	slotAllowances = solidity.Slot("token-allowances")

	eventTransfer = solidity.NewEvent("Transfer", "indexed address from", "indexed address to", "uint256 value")
	eventApproval = solidity.NewEvent("Approval", "indexed address owner", "indexed address spender", "uint256 value")
)

// Token binds the ledger to a deployed address.
type Token struct {
	ctx        *solidity.Context
	access     *access.Table
	supply     *solidity.Uint256
	balances   *solidity.Mapping[sand.Address, *uint256.Int]
	allowances *solidity.Mapping[solidity.BytesKey, *uint256.Int]
}

func New(addr sand.Address, st *state.State, clock sand.Clock) *Token {
	ctx := solidity.NewContext(addr, st, clock)
	return &Token{
		ctx:        ctx,
		access:     access.New(ctx, access.Policy{OpMint: access.RoleAdmin}),
		supply:     solidity.NewUint256(ctx, slotSupply),
		balances:   solidity.NewMapping[sand.Address, *uint256.Int](ctx, slotBalances),
		allowances: solidity.NewMapping[solidity.BytesKey, *uint256.Int](ctx, slotAllowances),
	}
}

func (t *Token) Address() sand.Address { return t.ctx.Address() }

// Access exposes the permission table.
func (t *Token) Access() *access.Table { return t.access }

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.supply.Get()
}

func (t *Token) BalanceOf(addr sand.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func allowanceKey(owner, spender sand.Address) solidity.BytesKey {
	return solidity.BytesKey(append(owner.Bytes(), spender.Bytes()...))
}

func (t *Token) Allowance(owner, spender sand.Address) (*uint256.Int, error) {
	v, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return v, nil
}

// Approve lets spender move up to amount on behalf of owner.
func (t *Token) Approve(owner, spender sand.Address, amount *uint256.Int) error {
	if spender.IsZero() {
		return reverts.Config("approve to the zero address")
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), amount); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return t.ctx.Emit(eventApproval, owner, spender, amount)
}

// Transfer moves amount from the caller to to.
func (t *Token) Transfer(from, to sand.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.Config("transfer to the zero address")
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return reverts.Balance("transfer amount %v exceeds balance %v", amount.Dec(), fromBal.Dec())
	}
	if from != to {
		toBal, err := t.BalanceOf(to)
		if err != nil {
			return err
		}
		if err := t.balances.Set(from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
			return errors.Wrap(err, "failed to set balance")
		}
		// cannot overflow, bounded by total supply
		if err := t.balances.Set(to, new(uint256.Int).Add(toBal, amount)); err != nil {
			return errors.Wrap(err, "failed to set balance")
		}
	}
	return t.ctx.Emit(eventTransfer, from, to, amount)
}

// TransferFrom moves amount from from to to, spending the allowance of spender.
func (t *Token) TransferFrom(spender, from, to sand.Address, amount *uint256.Int) error {
	if spender != from {
		allowed, err := t.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowed.Lt(amount) {
			return reverts.Balance("insufficient allowance %v for %v", allowed.Dec(), amount.Dec())
		}
		if err := t.allowances.Set(allowanceKey(from, spender), new(uint256.Int).Sub(allowed, amount)); err != nil {
			return errors.Wrap(err, "failed to set allowance")
		}
	}
	return t.Transfer(from, to, amount)
}

// Mint creates amount tokens for to. Admin only.
func (t *Token) Mint(caller, to sand.Address, amount *uint256.Int) error {
	if err := t.access.Check(OpMint, caller); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.Config("mint to the zero address")
	}
	if _, err := t.supply.Add(amount); err != nil {
		return err
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, new(uint256.Int).Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return t.ctx.Emit(eventTransfer, sand.Address{}, to, amount)
}
