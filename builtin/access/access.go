// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package access implements the permission table of builtin contracts.
// Every gated operation maps to exactly one role; the owner implicitly holds
// RoleAdmin and ownership can be transferred but never renounced.
package access

import (
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

var logger = log.WithContext("pkg", "access")

// Role names a set of accounts.
type Role string

const (
	RoleAdmin              Role = "admin"
	RoleRewardDistribution Role = "reward-distribution"
	RoleRewardPool         Role = "reward-pool"
)

// ID is the topic form of the role.
func (r Role) ID() sand.Bytes32 {
	return sand.Keccak256([]byte(r))
}

// Operation names a gated entry point.
type Operation string

// Policy maps gated operations to the role allowed to call them.
type Policy map[Operation]Role

var (
	slotOwner   = solidity.Slot("access-owner")
	slotMembers = solidity.Slot("access-members")

	eventOwnershipTransferred = solidity.NewEvent("OwnershipTransferred", "indexed address previousOwner", "indexed address newOwner")
	eventRoleGranted          = solidity.NewEvent("RoleGranted", "indexed bytes32 role", "indexed address account", "address sender")
	eventRoleRevoked          = solidity.NewEvent("RoleRevoked", "indexed bytes32 role", "indexed address account", "address sender")
)

// Table is the permission table of one contract.
type Table struct {
	ctx     *solidity.Context
	policy  Policy
	owner   *solidity.Address
	members *solidity.Mapping[solidity.BytesKey, bool]
}

// New binds a permission table to the contract context.
func New(ctx *solidity.Context, policy Policy) *Table {
	return &Table{
		ctx:     ctx,
		policy:  policy,
		owner:   solidity.NewAddress(ctx, slotOwner),
		members: solidity.NewMapping[solidity.BytesKey, bool](ctx, slotMembers),
	}
}

func memberKey(role Role, account sand.Address) solidity.BytesKey {
	return solidity.BytesKey(append([]byte(role+"|"), account.Bytes()...))
}

// Init sets the first owner, it fails once an owner exists.
func (t *Table) Init(owner sand.Address) error {
	if owner.IsZero() {
		return reverts.Config("owner is the zero address")
	}
	cur, err := t.owner.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get owner")
	}
	if !cur.IsZero() {
		return reverts.Config("already initialized")
	}
	t.owner.Set(owner)
	return t.ctx.Emit(eventOwnershipTransferred, sand.Address{}, owner)
}

// Owner returns the current owner.
func (t *Table) Owner() (sand.Address, error) {
	return t.owner.Get()
}

// HasRole reports whether account holds role.
func (t *Table) HasRole(role Role, account sand.Address) (bool, error) {
	if role == RoleAdmin {
		owner, err := t.owner.Get()
		if err != nil {
			return false, errors.Wrap(err, "failed to get owner")
		}
		if owner == account {
			return true, nil
		}
	}
	ok, err := t.members.Get(memberKey(role, account))
	if err != nil {
		return false, errors.Wrap(err, "failed to get role member")
	}
	return ok, nil
}

// Check returns RoleViolation unless caller may invoke op.
func (t *Table) Check(op Operation, caller sand.Address) error {
	role, ok := t.policy[op]
	if !ok {
		return reverts.Role("operation %s is not callable", op)
	}
	return t.require(role, caller, string(op))
}

func (t *Table) require(role Role, caller sand.Address, what string) error {
	ok, err := t.HasRole(role, caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Role("%v lacks role %s for %s", caller, role, what)
	}
	return nil
}

// Grant gives role to account. Admin only.
func (t *Table) Grant(caller sand.Address, role Role, account sand.Address) error {
	if err := t.require(RoleAdmin, caller, "grant"); err != nil {
		return err
	}
	if account.IsZero() {
		return reverts.Config("cannot grant %s to the zero address", role)
	}
	has, err := t.HasRole(role, account)
	if err != nil || has {
		return err
	}
	if err := t.members.Set(memberKey(role, account), true); err != nil {
		return errors.Wrap(err, "failed to set role member")
	}
	logger.Info("role granted", "contract", t.ctx.Address(), "role", role, "account", account)
	return t.ctx.Emit(eventRoleGranted, role.ID(), account, caller)
}

// Revoke takes role away from account. Admin only.
func (t *Table) Revoke(caller sand.Address, role Role, account sand.Address) error {
	if err := t.require(RoleAdmin, caller, "revoke"); err != nil {
		return err
	}
	has, err := t.members.Get(memberKey(role, account))
	if err != nil {
		return errors.Wrap(err, "failed to get role member")
	}
	if !has {
		return nil
	}
	t.members.Delete(memberKey(role, account))
	logger.Info("role revoked", "contract", t.ctx.Address(), "role", role, "account", account)
	return t.ctx.Emit(eventRoleRevoked, role.ID(), account, caller)
}

// TransferOwnership hands the contract to newOwner. The zero address is rejected.
func (t *Table) TransferOwnership(caller sand.Address, newOwner sand.Address) error {
	if err := t.require(RoleAdmin, caller, "transferOwnership"); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return reverts.Config("new owner is the zero address")
	}
	prev, err := t.owner.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get owner")
	}
	t.owner.Set(newOwner)
	logger.Info("ownership transferred", "contract", t.ctx.Address(), "from", prev, "to", newOwner)
	return t.ctx.Emit(eventOwnershipTransferred, prev, newOwner)
}

// RenounceOwnership always fails: the contract can not be left without owner.
func (t *Table) RenounceOwnership(caller sand.Address) error {
	if err := t.require(RoleAdmin, caller, "renounceOwnership"); err != nil {
		return err
	}
	return reverts.Config("ownership can not be renounced")
}
