// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/calculator"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/lvldb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/runtime"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

func n(v uint64) *uint256.Int { return uint256.NewInt(v) }

func newRuntime(t *testing.T) (*runtime.Runtime, *sand.ManualClock, *registry.Registry) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db)
	require.NoError(t, err)

	clock := sand.NewManualClock(1_700_000_000)
	return runtime.New(st, clock), clock, registry.New(st)
}

func mustExecute(t *testing.T, rt *runtime.Runtime, caller sand.Address, fn runtime.Op) {
	receipt, err := rt.Execute("test", caller, fn)
	require.NoError(t, err)
	require.False(t, receipt.Reverted, "reverted: %v", receipt.Revert)
}

func TestParse(t *testing.T) {
	desc, err := Load("testdata/fixed-rate.yaml")
	require.NoError(t, err)

	assert.Equal(t, sand.MustParseAddress("0x00000000000000000000000000000000000000a1"), desc.Owner)
	assert.Len(t, desc.Tokens, 2)
	holder := sand.MustParseAddress("0x00000000000000000000000000000000000000b2")
	assert.Equal(t, uint64(1_000_000), desc.Tokens[0].Balances[holder].Int().Uint64())
	assert.Equal(t, calculator.KindFixedRate, desc.Calculator.Kind)
	assert.Equal(t, uint64(1500), *desc.Contribution.MaxGlobalMultiplier)
	assert.Nil(t, desc.Contribution.LimitERC721)
	assert.Equal(t, uint64(60), desc.Pool.Locks.Withdraw)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing owner", "tokens: []"},
		{"unknown field", "owner: \"0x00000000000000000000000000000000000000a1\"\nbogus: 1"},
		{"bad amount", "owner: \"0x00000000000000000000000000000000000000a1\"\npool:\n  rewardFunding: 12abc"},
		{"bad address", "owner: \"0x01\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDeployFixedRate(t *testing.T) {
	desc, err := Load("testdata/fixed-rate.yaml")
	require.NoError(t, err)
	rt, clock, reg := newRuntime(t)

	dep, events, err := Deploy(desc, rt, reg)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
	assert.Nil(t, dep.Forwarder)

	p := dep.Pool
	rate, err := dep.Calculator.(*calculator.FixedRate).Rate()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), rate.Uint64())

	limit, err := p.MaxStakeOverall()
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), limit.Uint64())

	funded, err := dep.Tokens["REWARD"].BalanceOf(p.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), funded.Uint64())

	stakers := []sand.Address{
		sand.MustParseAddress("0x00000000000000000000000000000000000000b1"),
		sand.MustParseAddress("0x00000000000000000000000000000000000000b2"),
	}
	for _, s := range stakers {
		mustExecute(t, rt, s, func(caller sand.Address) error {
			return dep.Tokens["SAND"].Approve(caller, p.Address(), n(1_000_000))
		})
	}

	// b1 holds no ASSETS and is not allowed to stake
	receipt, err := rt.Execute("stake", stakers[0], func(caller sand.Address) error {
		return p.Stake(caller, n(1000))
	})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.True(t, reverts.Is(receipt.Revert, reverts.KindRequirements))

	// b2 may stake 5000 and gets the ASSETS bonus
	mustExecute(t, rt, stakers[1], func(caller sand.Address) error {
		return p.Stake(caller, n(1000))
	})
	contribution, err := p.ContributionOf(stakers[1])
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), contribution.Uint64())

	// withdraw is locked for 60 seconds after the deposit
	receipt, err = rt.Execute("withdraw", stakers[1], func(caller sand.Address) error {
		return p.Withdraw(caller, n(1))
	})
	require.NoError(t, err)
	assert.True(t, reverts.Is(receipt.Revert, reverts.KindLock))

	clock.Advance(105)
	earned, err := p.Earned(stakers[1])
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), earned.Uint64())
	mustExecute(t, rt, stakers[1], func(caller sand.Address) error {
		return p.Withdraw(caller, n(1000))
	})
}

func TestDeployTwoPhase(t *testing.T) {
	owner := sand.MustParseAddress("0x00000000000000000000000000000000000000a1")
	desc := &Descriptor{
		Owner:  owner,
		Tokens: []Token{{Name: "SAND"}},
		Calculator: Calculator{
			Kind: calculator.KindTwoPhase,
			Campaigns: []Campaign{
				{Reward: NewAmount(1000), Duration: 100},
				{Reward: NewAmount(500), Duration: 50},
			},
		},
		Pool: Pool{StakeToken: "SAND", RewardToken: "SAND"},
	}
	rt, _, reg := newRuntime(t)
	dep, _, err := Deploy(desc, rt, reg)
	require.NoError(t, err)

	c := dep.Calculator.(*calculator.TwoPhase)
	running, err := c.IsCampaignRunning()
	require.NoError(t, err)
	assert.True(t, running)
	_, _, rate2, _, err := c.Phases()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), rate2.Uint64())

	// owner doubles as distributor when none is given
	ok, err := c.Access().HasRole(access.RoleRewardDistribution, owner)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.Access().HasRole(access.RoleRewardPool, dep.Pool.Address())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeployErrors(t *testing.T) {
	owner := sand.MustParseAddress("0x00000000000000000000000000000000000000a1")
	tests := []struct {
		name string
		desc *Descriptor
	}{
		{"unknown stake token", &Descriptor{
			Owner:  owner,
			Tokens: []Token{{Name: "SAND"}},
			Pool:   Pool{StakeToken: "NOPE", RewardToken: "SAND"},
		}},
		{"unknown calculator", &Descriptor{
			Owner:      owner,
			Tokens:     []Token{{Name: "SAND"}},
			Calculator: Calculator{Kind: "calculator/none"},
			Pool:       Pool{StakeToken: "SAND", RewardToken: "SAND"},
		}},
		{"unknown collection kind", &Descriptor{
			Owner:       owner,
			Tokens:      []Token{{Name: "SAND"}},
			Collections: []Collection{{Name: "LAND", Kind: "erc20"}},
			Pool:        Pool{StakeToken: "SAND", RewardToken: "SAND"},
		}},
		{"reverted call", &Descriptor{
			Owner:      owner,
			Tokens:     []Token{{Name: "SAND"}},
			Calculator: Calculator{Kind: calculator.KindPeriodic, Duration: 1, Reward: NewAmount(1)},
			Pool:       Pool{StakeToken: "SAND", RewardToken: "SAND", Locks: Locks{Claim: sand.MaxLockPeriod + 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, _, reg := newRuntime(t)
			_, _, err := Deploy(tt.desc, rt, reg)
			assert.Error(t, err)
		})
	}
}

func TestDevnet(t *testing.T) {
	accs := DevAccounts()
	require.Len(t, accs, 10)
	assert.Equal(t, accs, DevAccounts())

	rt, clock, reg := newRuntime(t)
	dep, _, err := Deploy(NewDevnet(), rt, reg)
	require.NoError(t, err)
	require.NotNil(t, dep.Forwarder)

	trusted, err := dep.Pool.IsTrustedForwarder(dep.Forwarder.Address())
	require.NoError(t, err)
	assert.True(t, trusted)

	staker := accs[2].Address
	amount := tokens(1000).Int()
	mustExecute(t, rt, staker, func(caller sand.Address) error {
		return dep.Tokens[devStake].Approve(caller, dep.Pool.Address(), amount)
	})
	mustExecute(t, rt, staker, func(caller sand.Address) error {
		return dep.Pool.Stake(caller, amount)
	})

	// one LAND grants the first step of the default curve
	contribution, err := dep.Pool.ContributionOf(staker)
	require.NoError(t, err)
	assert.Equal(t, tokens(1100).Int(), contribution)

	clock.Advance(devDay)
	earned, err := dep.Pool.Earned(staker)
	require.NoError(t, err)
	assert.False(t, earned.IsZero())
}
