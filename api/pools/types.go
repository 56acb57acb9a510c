// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/locks"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Locks is the lock configuration of a pool.
type Locks struct {
	Deposit      uint64       `json:"deposit"`
	Withdraw     uint64       `json:"withdraw"`
	Claim        uint64       `json:"claim"`
	AntiCompound uint64       `json:"antiCompound"`
	AmountLock   bool         `json:"amountLock"`
	ClaimCeiling *uint256.Int `json:"claimCeiling"`
}

// Pool is the global state of a pool.
type Pool struct {
	Address               sand.Address `json:"address"`
	StakeToken            sand.Address `json:"stakeToken"`
	RewardToken           sand.Address `json:"rewardToken"`
	RewardCalculator      sand.Address `json:"rewardCalculator"`
	ContributionRules     sand.Address `json:"contributionRules"`
	RequirementsRules     sand.Address `json:"requirementsRules"`
	TrustedForwarder      sand.Address `json:"trustedForwarder"`
	Owner                 sand.Address `json:"owner"`
	TotalSupply           *uint256.Int `json:"totalSupply"`
	TotalContributions    *uint256.Int `json:"totalContributions"`
	RewardPerContribution *uint256.Int `json:"rewardPerContribution"`
	MaxStakeOverall       *uint256.Int `json:"maxStakeOverall"`
	CarriedRewards        *uint256.Int `json:"carriedRewards"`
	LastUpdateTime        uint64       `json:"lastUpdateTime"`
	Stakers               uint64       `json:"stakers"`
	Paused                bool         `json:"paused"`
	Locks                 Locks        `json:"locks"`
}

// Account is the position of one participant in a pool.
type Account struct {
	Address                   sand.Address `json:"address"`
	Staked                    *uint256.Int `json:"staked"`
	Contribution              *uint256.Int `json:"contribution"`
	RewardPerContributionPaid *uint256.Int `json:"rewardPerContributionPaid"`
	RewardsAccrued            *uint256.Int `json:"rewardsAccrued"`
	Earned                    *uint256.Int `json:"earned"`
	MaxStake                  *uint256.Int `json:"maxStake"`
	LastDeposit               uint64       `json:"lastDeposit"`
	LastWithdraw              uint64       `json:"lastWithdraw"`
	LastClaim                 uint64       `json:"lastClaim"`
}

func convertLocks(p locks.Periods, ceiling *uint256.Int) Locks {
	return Locks{
		Deposit:      p.Deposit,
		Withdraw:     p.Withdraw,
		Claim:        p.Claim,
		AntiCompound: p.AntiCompound,
		AmountLock:   p.AmountLock,
		ClaimCeiling: ceiling,
	}
}
