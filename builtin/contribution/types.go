// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contribution

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// CurvePoint grants Bonus thousandths to holders of at least Units tokens.
type CurvePoint struct {
	Units uint64
	Bonus uint64
}

// IDBonus grants Bonus thousandths to the owner of token ID.
type IDBonus struct {
	ID    *uint256.Int
	Bonus uint64
}

// ERC721List configures the bonus of one non-fungible collection. In balance
// mode the number of held tokens is looked up on Curve, otherwise the
// highest bonus among owned IDs applies.
type ERC721List struct {
	BalanceMode bool
	Curve       []CurvePoint
	IDs         []IDBonus
}

// ERC1155List configures the bonus of one multi-token collection.
type ERC1155List struct {
	IDs []IDBonus
}

// DefaultCurve is the balance mode curve: 10% for one token, 17% for two, 21% from four on.
func DefaultCurve() []CurvePoint {
	return []CurvePoint{{1, 100}, {2, 170}, {4, 210}}
}

func validateCurve(curve []CurvePoint) error {
	if len(curve) == 0 || len(curve) > sand.MaxRuleIDs {
		return reverts.Config("curve must have 1 to %d points", sand.MaxRuleIDs)
	}
	var prev CurvePoint
	for i, p := range curve {
		if p.Units == 0 || (i > 0 && p.Units <= prev.Units) {
			return reverts.Config("curve units must be positive and strictly increasing")
		}
		if p.Bonus < prev.Bonus {
			return reverts.Config("curve bonus must not decrease")
		}
		if p.Bonus > sand.MaxMultiplierLimit {
			return reverts.Config("curve bonus %d above %d", p.Bonus, sand.MaxMultiplierLimit)
		}
		prev = p
	}
	return nil
}

func validateIDs(ids []IDBonus) error {
	if len(ids) == 0 || len(ids) > sand.MaxRuleIDs {
		return reverts.Config("list must have 1 to %d ids", sand.MaxRuleIDs)
	}
	for i, entry := range ids {
		if entry.ID == nil {
			return reverts.Config("missing id at %d", i)
		}
		if entry.Bonus > sand.MaxMultiplierLimit {
			return reverts.Config("id bonus %d above %d", entry.Bonus, sand.MaxMultiplierLimit)
		}
		if slices.ContainsFunc(ids[:i], func(o IDBonus) bool { return o.ID.Eq(entry.ID) }) {
			return reverts.Config("duplicate id %v", entry.ID.Dec())
		}
	}
	return nil
}

func (l *ERC721List) validate() error {
	if l.BalanceMode {
		return validateCurve(l.Curve)
	}
	return validateIDs(l.IDs)
}

// curveBonus returns the bonus of the largest point not above held.
func curveBonus(curve []CurvePoint, held *uint256.Int) uint64 {
	var bonus uint64
	for _, p := range curve {
		if held.IsUint64() && held.Uint64() < p.Units {
			break
		}
		bonus = p.Bonus
	}
	return bonus
}
