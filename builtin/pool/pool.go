// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool is the staking pool. It owns the reward per contribution
// accumulator and composes a reward calculator, contribution rules,
// requirement rules and lock timers.
//
// Every mutating call follows the same order: the accumulator is refreshed
// from the calculator, the caller is settled against it with its current
// contribution, locks and requirements are checked, balances move and the
// contribution is recomputed.
package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/locks"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var logger = log.WithContext("pkg", "pool")

// Kind is the registry kind of pools.
const Kind = "pool"

const (
	OpSetRewardCalculator       access.Operation = "setRewardCalculator"
	OpSetContributionRules      access.Operation = "setContributionRules"
	OpSetRequirementsRules      access.Operation = "setRequirementsRules"
	OpSetMaxStakeOverall        access.Operation = "setMaxStakeOverall"
	OpSetTimelockClaim          access.Operation = "setTimelockClaim"
	OpSetTimelockDeposit        access.Operation = "setTimelockDeposit"
	OpSetTimeLockWithdraw       access.Operation = "setTimeLockWithdraw"
	OpSetAntiCompoundLockPeriod access.Operation = "setAntiCompoundLockPeriod"
	OpSetAmountLockClaim        access.Operation = "setAmountLockClaim"
	OpPause                     access.Operation = "pause"
	OpUnpause                   access.Operation = "unpause"
	OpRecoverFunds              access.Operation = "recoverFunds"
	OpSetRewardToken            access.Operation = "setRewardToken"
	OpSetStakeToken             access.Operation = "setStakeToken"
	OpSetTrustedForwarder       access.Operation = "setTrustedForwarder"
)

// Token is the fungible token surface the pool moves stake and rewards with.
type Token interface {
	Address() sand.Address
	BalanceOf(addr sand.Address) (*uint256.Int, error)
	Transfer(from, to sand.Address, amount *uint256.Int) error
	TransferFrom(spender, from, to sand.Address, amount *uint256.Int) error
}

// Account is the stored ledger entry of a participant.
type Account struct {
	Staked                    *uint256.Int
	Contribution              *uint256.Int
	RewardPerContributionPaid *uint256.Int
	RewardsAccrued            *uint256.Int
}

func (a *Account) normalize() *Account {
	for _, f := range []**uint256.Int{&a.Staked, &a.Contribution, &a.RewardPerContributionPaid, &a.RewardsAccrued} {
		if *f == nil {
			*f = new(uint256.Int)
		}
	}
	return a
}

var (
	slotTotalStaked        = solidity.Slot("pool-total-staked")
	slotTotalContributions = solidity.Slot("pool-total-contributions")
	slotRewardPerContrib   = solidity.Slot("pool-reward-per-contribution")
	slotLastUpdate         = solidity.Slot("pool-last-update")
	slotCarried            = solidity.Slot("pool-carried-rewards")
	slotCalculator         = solidity.Slot("pool-calculator")
	slotContributionRules  = solidity.Slot("pool-contribution-rules")
	slotRequirementsRules  = solidity.Slot("pool-requirements-rules")
	slotStakeToken         = solidity.Slot("pool-stake-token")
	slotRewardToken        = solidity.Slot("pool-reward-token")
	slotMaxStakeOverall    = solidity.Slot("pool-max-stake-overall")
	slotPaused             = solidity.Slot("pool-paused")
	slotTrustedForwarder   = solidity.Slot("pool-trusted-forwarder")
	slotStakers            = solidity.Slot("pool-stakers")
	slotAccounts           = solidity.Slot("pool-accounts")
)

// Pool binds the staking pool to its address.
type Pool struct {
	ctx      *solidity.Context
	access   *access.Table
	registry *registry.Registry
	locks    *locks.Engine

	totalStaked        *solidity.Uint256
	totalContributions *solidity.Uint256
	rewardPerContrib   *solidity.Uint256
	lastUpdate         *solidity.Uint64
	carried            *solidity.Uint256
	calculator         *solidity.Address
	contributionRules  *solidity.Address
	requirementsRules  *solidity.Address
	stakeToken         *solidity.Address
	rewardToken        *solidity.Address
	maxStakeOverall    *solidity.Uint256
	paused             *solidity.Bool
	trustedForwarder   *solidity.Address
	stakers            *solidity.Uint64
	accounts           *solidity.Mapping[sand.Address, *Account]
}

func New(addr sand.Address, st *state.State, clock sand.Clock, reg *registry.Registry) *Pool {
	ctx := solidity.NewContext(addr, st, clock)
	policy := access.Policy{}
	for _, op := range []access.Operation{
		OpSetRewardCalculator, OpSetContributionRules, OpSetRequirementsRules, OpSetMaxStakeOverall,
		OpSetTimelockClaim, OpSetTimelockDeposit, OpSetTimeLockWithdraw, OpSetAntiCompoundLockPeriod, OpSetAmountLockClaim,
		OpPause, OpUnpause, OpRecoverFunds, OpSetRewardToken, OpSetStakeToken, OpSetTrustedForwarder,
	} {
		policy[op] = access.RoleAdmin
	}
	return &Pool{
		ctx:                ctx,
		access:             access.New(ctx, policy),
		registry:           reg,
		locks:              locks.New(ctx),
		totalStaked:        solidity.NewUint256(ctx, slotTotalStaked),
		totalContributions: solidity.NewUint256(ctx, slotTotalContributions),
		rewardPerContrib:   solidity.NewUint256(ctx, slotRewardPerContrib),
		lastUpdate:         solidity.NewUint64(ctx, slotLastUpdate),
		carried:            solidity.NewUint256(ctx, slotCarried),
		calculator:         solidity.NewAddress(ctx, slotCalculator),
		contributionRules:  solidity.NewAddress(ctx, slotContributionRules),
		requirementsRules:  solidity.NewAddress(ctx, slotRequirementsRules),
		stakeToken:         solidity.NewAddress(ctx, slotStakeToken),
		rewardToken:        solidity.NewAddress(ctx, slotRewardToken),
		maxStakeOverall:    solidity.NewUint256(ctx, slotMaxStakeOverall),
		paused:             solidity.NewBool(ctx, slotPaused),
		trustedForwarder:   solidity.NewAddress(ctx, slotTrustedForwarder),
		stakers:            solidity.NewUint64(ctx, slotStakers),
		accounts:           solidity.NewMapping[sand.Address, *Account](ctx, slotAccounts),
	}
}

func (p *Pool) Address() sand.Address { return p.ctx.Address() }

// Access exposes the permission table.
func (p *Pool) Access() *access.Table { return p.access }

// Locks exposes the lock timers.
func (p *Pool) Locks() *locks.Engine { return p.locks }

func (p *Pool) getAccount(addr sand.Address) (*Account, error) {
	acc, err := p.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return acc.normalize(), nil
}

func (p *Pool) setAccount(addr sand.Address, acc *Account) error {
	return errors.Wrap(p.accounts.Set(addr, acc), "failed to set account")
}

// Account returns the ledger entry of addr, zero valued when unknown.
func (p *Pool) Account(addr sand.Address) (*Account, error) {
	return p.getAccount(addr)
}

func (p *Pool) BalanceOf(addr sand.Address) (*uint256.Int, error) {
	acc, err := p.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return acc.Staked, nil
}

func (p *Pool) ContributionOf(addr sand.Address) (*uint256.Int, error) {
	acc, err := p.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return acc.Contribution, nil
}

// TotalSupply is the total staked amount.
func (p *Pool) TotalSupply() (*uint256.Int, error)        { return p.totalStaked.Get() }
func (p *Pool) TotalContributions() (*uint256.Int, error) { return p.totalContributions.Get() }
func (p *Pool) LastUpdateTime() (uint64, error)           { return p.lastUpdate.Get() }
func (p *Pool) CarriedRewards() (*uint256.Int, error)     { return p.carried.Get() }
func (p *Pool) Paused() (bool, error)                     { return p.paused.Get() }
func (p *Pool) Stakers() (uint64, error)                  { return p.stakers.Get() }
func (p *Pool) MaxStakeOverall() (*uint256.Int, error)    { return p.maxStakeOverall.Get() }
func (p *Pool) RewardCalculator() (sand.Address, error)   { return p.calculator.Get() }
func (p *Pool) ContributionRules() (sand.Address, error)  { return p.contributionRules.Get() }
func (p *Pool) RequirementsRules() (sand.Address, error)  { return p.requirementsRules.Get() }
func (p *Pool) StakeToken() (sand.Address, error)         { return p.stakeToken.Get() }
func (p *Pool) RewardToken() (sand.Address, error)        { return p.rewardToken.Get() }
func (p *Pool) TrustedForwarder() (sand.Address, error)   { return p.trustedForwarder.Get() }

// IsTrustedForwarder reports whether forwarder may relay calls to the pool.
func (p *Pool) IsTrustedForwarder(forwarder sand.Address) (bool, error) {
	trusted, err := p.trustedForwarder.Get()
	if err != nil {
		return false, err
	}
	return !trusted.IsZero() && trusted == forwarder, nil
}
