// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/metrics"
)

var (
	eventStaked              = solidity.NewEvent("Staked", "indexed address account", "uint256 amount")
	eventWithdrawn           = solidity.NewEvent("Withdrawn", "indexed address account", "uint256 amount")
	eventRewardPaid          = solidity.NewEvent("RewardPaid", "indexed address account", "uint256 reward")
	eventContributionUpdated = solidity.NewEvent("ContributionUpdated", "indexed address account", "uint256 newContribution", "uint256 oldContribution")
	eventRewardCalculatorSet = solidity.NewEvent("RewardCalculatorSet", "indexed address calculator", "bool restart")
	eventContributionRules   = solidity.NewEvent("ContributionRulesSet", "indexed address rules")
	eventRequirementsRules   = solidity.NewEvent("RequirementsRulesSet", "indexed address rules")
	eventMaxStakeOverallSet  = solidity.NewEvent("MaxStakeOverallSet", "uint256 maxStake")
	eventPaused              = solidity.NewEvent("Paused", "address account")
	eventUnpaused            = solidity.NewEvent("Unpaused", "address account")
	eventFundsRecovered      = solidity.NewEvent("FundsRecovered", "indexed address receiver", "uint256 amount")
	eventRewardTokenSet      = solidity.NewEvent("RewardTokenSet", "indexed address token")
	eventStakeTokenSet       = solidity.NewEvent("StakeTokenSet", "indexed address token")
	eventTrustedForwarderSet = solidity.NewEvent("TrustedForwarderSet", "indexed address forwarder")
)

// Events lists the event definitions of the pool, keyed by name.
func Events() map[string]*solidity.Event {
	out := make(map[string]*solidity.Event)
	for _, ev := range []*solidity.Event{
		eventStaked, eventWithdrawn, eventRewardPaid, eventContributionUpdated,
		eventRewardCalculatorSet, eventContributionRules, eventRequirementsRules,
		eventMaxStakeOverallSet, eventPaused, eventUnpaused, eventFundsRecovered,
		eventRewardTokenSet, eventStakeTokenSet, eventTrustedForwarderSet,
	} {
		out[ev.Name()] = ev
	}
	return out
}

var (
	metricOperations    = metrics.LazyLoadCounterVec("pool_operations_count", []string{"op"})
	metricStakers       = metrics.LazyLoadGauge("pool_stakers")
	metricZeroCrossings = metrics.LazyLoadCounterVec("pool_zero_crossings_count", []string{"to"})
	metricRewardsPaid   = metrics.LazyLoadCounter("pool_rewards_paid_count")
)

// countOp meters op once the executing call succeeds.
func (p *Pool) countOp(op string) {
	p.ctx.AfterCall(func() { metricOperations().AddWithLabel(1, map[string]string{"op": op}) })
}
