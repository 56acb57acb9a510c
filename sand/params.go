// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sand

import "github.com/holiman/uint256"

// Constants of the reward engine.
const (
	// MultiplierBase is the neutral contribution multiplier, expressed in thousandths.
	MultiplierBase uint64 = 1000
	// MaxMultiplierLimit bounds every configurable multiplier ceiling.
	MaxMultiplierLimit uint64 = 10_000
	// MaxLockPeriod is the longest configurable lock window, in seconds.
	MaxLockPeriod uint64 = 180 * 24 * 60 * 60
	// MaxRuleLists bounds the number of collection lists of a rule engine.
	MaxRuleLists = 64
	// MaxRuleIDs bounds the number of token ids of a single list.
	MaxRuleIDs = 64
)

// Precision scales rewardPerContribution, 1e24.
var Precision = uint256.MustFromDecimal("1000000000000000000000000")
