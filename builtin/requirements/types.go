// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requirements

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// ERC721List configures how a non-fungible collection gates and sizes stakes.
//
// In balance mode an account holding at least MinRequired tokens is allowed
// min(held, MaxCounted) * PerUnit, MaxCounted zero meaning every token counts.
// Otherwise owning at least MinRequired of IDs grants Allowance.
type ERC721List struct {
	BalanceMode bool
	MinRequired uint64
	MaxCounted  uint64
	PerUnit     *uint256.Int
	IDs         []*uint256.Int
	Allowance   *uint256.Int
}

// ERC1155List grants Allowance to accounts holding at least MinRequired of IDs.
type ERC1155List struct {
	MinRequired uint64
	IDs         []*uint256.Int
	Allowance   *uint256.Int
}

func validateIDs(ids []*uint256.Int, minRequired uint64) error {
	if len(ids) == 0 || len(ids) > sand.MaxRuleIDs {
		return reverts.Config("list must have 1 to %d ids", sand.MaxRuleIDs)
	}
	for i, id := range ids {
		if id == nil {
			return reverts.Config("missing id at %d", i)
		}
		if slices.ContainsFunc(ids[:i], id.Eq) {
			return reverts.Config("duplicate id %v", id.Dec())
		}
	}
	if minRequired > uint64(len(ids)) {
		return reverts.Config("min required %d above listed ids %d", minRequired, len(ids))
	}
	return nil
}

func (l *ERC721List) normalize() error {
	if l.PerUnit == nil {
		l.PerUnit = new(uint256.Int)
	}
	if l.Allowance == nil {
		l.Allowance = new(uint256.Int)
	}
	if l.BalanceMode {
		if l.MaxCounted != 0 && l.MaxCounted < l.MinRequired {
			return reverts.Config("max counted %d below min required %d", l.MaxCounted, l.MinRequired)
		}
		return nil
	}
	return validateIDs(l.IDs, l.MinRequired)
}

func (l *ERC1155List) normalize() error {
	if l.Allowance == nil {
		l.Allowance = new(uint256.Int)
	}
	return validateIDs(l.IDs, l.MinRequired)
}

// unitsAllowance returns min(held, maxCounted) * perUnit.
func unitsAllowance(held *uint256.Int, maxCounted uint64, perUnit *uint256.Int) (*uint256.Int, error) {
	counted := new(uint256.Int).Set(held)
	if maxCounted != 0 && counted.GtUint64(maxCounted) {
		counted.SetUint64(maxCounted)
	}
	v, overflow := new(uint256.Int).MulOverflow(counted, perUnit)
	if overflow {
		return nil, reverts.Overflow("allowance overflow")
	}
	return v, nil
}
