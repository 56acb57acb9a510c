// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"maps"
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/access"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/calculator"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/collection"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/contribution"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/forwarder"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/pool"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/requirements"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/token"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/runtime"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
)

var logger = log.WithContext("pkg", "genesis")

const namespace = "sandbox-genesis"

// AddressOf returns the deterministic address of the named deployment.
func AddressOf(name string) sand.Address {
	return sand.DeriveAddress(namespace, name)
}

// Deployment holds the bindings created by Deploy.
type Deployment struct {
	Registry     *registry.Registry
	Tokens       map[string]*token.Token
	ERC721       map[string]*collection.ERC721
	ERC1155      map[string]*collection.ERC1155
	Calculator   calculator.Calculator
	Contribution *contribution.Rules
	Requirements *requirements.Rules
	Forwarder    *forwarder.Forwarder
	Pool         *pool.Pool
}

type deployer struct {
	desc    *Descriptor
	st      *state.State
	clock   sand.Clock
	dep     *Deployment
	builder *Builder

	calcAccess *access.Table
}

// Deploy creates every contract of desc, wires them together and commits.
// All contracts are owned by desc.Owner.
func Deploy(desc *Descriptor, rt *runtime.Runtime, reg *registry.Registry) (*Deployment, []*sand.Event, error) {
	d := &deployer{
		desc:  desc,
		st:    rt.State(),
		clock: rt.Clock(),
		dep: &Deployment{
			Registry: reg,
			Tokens:   make(map[string]*token.Token),
			ERC721:   make(map[string]*collection.ERC721),
			ERC1155:  make(map[string]*collection.ERC1155),
		},
		builder: new(Builder),
	}
	steps := []func() error{
		d.tokens,
		d.collections,
		d.calculator,
		d.contribution,
		d.requirements,
		d.forwarder,
		d.pool,
		d.startRewards,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, nil, err
		}
	}
	events, err := d.builder.Build(rt)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "deploy")
	}
	logger.Info("deployment built", "pool", d.dep.Pool.Address(), "events", len(events))
	return d.dep, events, nil
}

func (d *deployer) owner() sand.Address { return d.desc.Owner }

func (d *deployer) distributor() sand.Address {
	if d.desc.Calculator.Distributor.IsZero() {
		return d.desc.Owner
	}
	return d.desc.Calculator.Distributor
}

// deploy registers c and initializes its permission table.
func (d *deployer) deploy(kind string, c registry.Contract, table *access.Table) {
	d.builder.State(func(*state.State) error {
		d.dep.Registry.Deploy(kind, c)
		return nil
	})
	if table != nil {
		d.builder.Call("init "+kind, d.owner(), func(caller sand.Address) error {
			return table.Init(caller)
		})
	}
}

func (d *deployer) tokenAddress(name string) (sand.Address, error) {
	t, ok := d.dep.Tokens[name]
	if !ok {
		return sand.Address{}, errors.Errorf("unknown token %q", name)
	}
	return t.Address(), nil
}

func (d *deployer) collectionAddress(name string) (sand.Address, error) {
	if c, ok := d.dep.ERC721[name]; ok {
		return c.Address(), nil
	}
	if c, ok := d.dep.ERC1155[name]; ok {
		return c.Address(), nil
	}
	return sand.Address{}, errors.Errorf("unknown collection %q", name)
}

func (d *deployer) tokens() error {
	for _, desc := range d.desc.Tokens {
		if _, dup := d.dep.Tokens[desc.Name]; dup {
			return errors.Errorf("duplicate token %q", desc.Name)
		}
		t := token.New(AddressOf("token/"+desc.Name), d.st, d.clock)
		d.dep.Tokens[desc.Name] = t
		d.deploy(token.Kind, t, t.Access())
		for _, to := range sortedHolders(desc.Balances) {
			amount := desc.Balances[to]
			d.builder.Call("mint "+desc.Name, d.owner(), func(caller sand.Address) error {
				return t.Mint(caller, to, amount.Int())
			})
		}
	}
	return nil
}

func sortedHolders(balances map[sand.Address]*Amount) []sand.Address {
	return slices.SortedFunc(maps.Keys(balances), func(a, b sand.Address) int {
		return bytes.Compare(a[:], b[:])
	})
}

func (d *deployer) collections() error {
	for _, desc := range d.desc.Collections {
		if _, err := d.collectionAddress(desc.Name); err == nil {
			return errors.Errorf("duplicate collection %q", desc.Name)
		}
		addr := AddressOf("collection/" + desc.Name)
		switch desc.Kind {
		case collection.KindERC721:
			c := collection.NewERC721(addr, d.st, d.clock)
			d.dep.ERC721[desc.Name] = c
			d.deploy(collection.KindERC721, c, c.Access())
			for _, m := range desc.Mints {
				d.builder.Call("mint "+desc.Name, d.owner(), func(caller sand.Address) error {
					return c.Mint(caller, m.To, m.ID.Int())
				})
			}
		case collection.KindERC1155:
			c := collection.NewERC1155(addr, d.st, d.clock)
			d.dep.ERC1155[desc.Name] = c
			d.deploy(collection.KindERC1155, c, c.Access())
			for _, m := range desc.Mints {
				d.builder.Call("mint "+desc.Name, d.owner(), func(caller sand.Address) error {
					return c.Mint(caller, m.To, m.ID.Int(), m.Amount.Int())
				})
			}
		default:
			return errors.Errorf("collection %q: unknown kind %q", desc.Name, desc.Kind)
		}
	}
	return nil
}

func (d *deployer) calculator() error {
	desc := d.desc.Calculator
	addr := AddressOf("calculator")
	var table *access.Table
	switch desc.Kind {
	case "", calculator.KindPeriodic:
		c := calculator.NewPeriodic(addr, d.st, d.clock)
		d.dep.Calculator, table = c, c.Access()
		d.deploy(calculator.KindPeriodic, c, table)
	case calculator.KindFixedRate:
		c := calculator.NewFixedRate(addr, d.st, d.clock)
		d.dep.Calculator, table = c, c.Access()
		d.deploy(calculator.KindFixedRate, c, table)
	case calculator.KindTwoPhase:
		if len(desc.Campaigns) > 2 {
			return errors.Errorf("two phase calculator takes at most 2 campaigns, got %d", len(desc.Campaigns))
		}
		c := calculator.NewTwoPhase(addr, d.st, d.clock)
		d.dep.Calculator, table = c, c.Access()
		d.deploy(calculator.KindTwoPhase, c, table)
	default:
		return errors.Errorf("unknown calculator kind %q", desc.Kind)
	}
	d.calcAccess = table
	distributor := d.distributor()
	d.builder.Call("grant distributor", d.owner(), func(caller sand.Address) error {
		return table.Grant(caller, access.RoleRewardDistribution, distributor)
	})
	return nil
}

func (d *deployer) contribution() error {
	desc := d.desc.Contribution
	if desc == nil {
		return nil
	}
	rules := contribution.New(AddressOf("contribution"), d.st, d.clock, d.dep.Registry)
	d.dep.Contribution = rules
	d.builder.State(func(*state.State) error {
		d.dep.Registry.Deploy(contribution.Kind, rules)
		return nil
	})
	d.builder.Call("init contribution", d.owner(), rules.Init)

	limits := []struct {
		value *uint64
		set   func(sand.Address, uint64) error
	}{
		{desc.LimitERC721, rules.SetMultiplierLimitERC721},
		{desc.LimitERC1155, rules.SetMultiplierLimitERC1155},
		{desc.MaxGlobalMultiplier, rules.SetMaxGlobalMultiplier},
	}
	for _, l := range limits {
		if l.value == nil {
			continue
		}
		value, set := *l.value, l.set
		d.builder.Call("set contribution limit", d.owner(), func(caller sand.Address) error {
			return set(caller, value)
		})
	}
	for _, c := range desc.ERC721 {
		coll, err := d.collectionAddress(c.Collection)
		if err != nil {
			return err
		}
		list := &contribution.ERC721List{BalanceMode: c.BalanceMode, IDs: idBonuses(c.IDs)}
		for _, p := range c.Curve {
			list.Curve = append(list.Curve, contribution.CurvePoint{Units: p.Units, Bonus: p.Bonus})
		}
		if list.BalanceMode && len(list.Curve) == 0 {
			list.Curve = contribution.DefaultCurve()
		}
		d.builder.Call("set erc721 multiplier list", d.owner(), func(caller sand.Address) error {
			return rules.SetERC721MultiplierList(caller, coll, list)
		})
	}
	for _, c := range desc.ERC1155 {
		coll, err := d.collectionAddress(c.Collection)
		if err != nil {
			return err
		}
		list := &contribution.ERC1155List{IDs: idBonuses(c.IDs)}
		d.builder.Call("set erc1155 multiplier list", d.owner(), func(caller sand.Address) error {
			return rules.SetERC1155MultiplierList(caller, coll, list)
		})
	}
	return nil
}

func idBonuses(in []IDBonus) []contribution.IDBonus {
	out := make([]contribution.IDBonus, 0, len(in))
	for _, b := range in {
		out = append(out, contribution.IDBonus{ID: b.ID.Int(), Bonus: b.Bonus})
	}
	return out
}

func ints(in []*Amount) []*uint256.Int {
	out := make([]*uint256.Int, 0, len(in))
	for _, a := range in {
		out = append(out, a.Int())
	}
	return out
}

func (d *deployer) requirements() error {
	desc := d.desc.Requirements
	if desc == nil {
		return nil
	}
	rules := requirements.New(AddressOf("requirements"), d.st, d.clock, d.dep.Registry)
	d.dep.Requirements = rules
	d.deploy(requirements.Kind, rules, rules.Access())

	for _, r := range desc.ERC721 {
		coll, err := d.collectionAddress(r.Collection)
		if err != nil {
			return err
		}
		list := &requirements.ERC721List{
			BalanceMode: r.BalanceMode,
			MinRequired: r.MinRequired,
			MaxCounted:  r.MaxCounted,
			PerUnit:     r.PerUnit.Int(),
			IDs:         ints(r.IDs),
			Allowance:   r.Allowance.Int(),
		}
		d.builder.Call("set erc721 requirement list", d.owner(), func(caller sand.Address) error {
			return rules.SetERC721RequirementList(caller, coll, list)
		})
	}
	for _, r := range desc.ERC1155 {
		coll, err := d.collectionAddress(r.Collection)
		if err != nil {
			return err
		}
		list := &requirements.ERC1155List{
			MinRequired: r.MinRequired,
			IDs:         ints(r.IDs),
			Allowance:   r.Allowance.Int(),
		}
		d.builder.Call("set erc1155 requirement list", d.owner(), func(caller sand.Address) error {
			return rules.SetERC1155RequirementList(caller, coll, list)
		})
	}
	return nil
}

func (d *deployer) forwarder() error {
	if !d.desc.Pool.TrustedForwarder {
		return nil
	}
	fwd := forwarder.New(AddressOf("forwarder"), d.st, d.clock)
	d.dep.Forwarder = fwd
	d.deploy(forwarder.Kind, fwd, nil)
	return nil
}

func (d *deployer) pool() error {
	desc := d.desc.Pool
	stake, err := d.tokenAddress(desc.StakeToken)
	if err != nil {
		return errors.WithMessage(err, "stake token")
	}
	reward, err := d.tokenAddress(desc.RewardToken)
	if err != nil {
		return errors.WithMessage(err, "reward token")
	}
	p := pool.New(AddressOf("pool"), d.st, d.clock, d.dep.Registry)
	d.dep.Pool = p
	d.deploy(pool.Kind, p, nil)

	owner := d.owner()
	calc, calcAccess := d.dep.Calculator, d.calcAccess
	d.builder.
		Call("init pool", owner, func(caller sand.Address) error {
			return p.Init(caller, stake, reward)
		}).
		Call("grant reward pool", owner, func(caller sand.Address) error {
			return calcAccess.Grant(caller, access.RoleRewardPool, p.Address())
		}).
		Call("set reward calculator", owner, func(caller sand.Address) error {
			return p.SetRewardCalculator(caller, calc.Address(), false)
		})

	if rules := d.dep.Contribution; rules != nil {
		d.builder.Call("set contribution rules", owner, func(caller sand.Address) error {
			return p.SetContributionRules(caller, rules.Address())
		})
	}
	if rules := d.dep.Requirements; rules != nil {
		d.builder.Call("set requirements rules", owner, func(caller sand.Address) error {
			return p.SetRequirementsRules(caller, rules.Address())
		})
	}
	if fwd := d.dep.Forwarder; fwd != nil {
		d.builder.Call("set trusted forwarder", owner, func(caller sand.Address) error {
			return p.SetTrustedForwarder(caller, fwd.Address())
		})
	}
	if desc.MaxStakeOverall != nil {
		d.builder.Call("set max stake overall", owner, func(caller sand.Address) error {
			return p.SetMaxStakeOverall(caller, desc.MaxStakeOverall.Int())
		})
	}

	periods := []struct {
		value uint64
		set   func(sand.Address, uint64) error
	}{
		{desc.Locks.Deposit, p.SetTimelockDeposit},
		{desc.Locks.Withdraw, p.SetTimeLockWithdraw},
		{desc.Locks.Claim, p.SetTimelockClaim},
		{desc.Locks.AntiCompound, p.SetAntiCompoundLockPeriod},
	}
	for _, l := range periods {
		if l.value == 0 {
			continue
		}
		value, set := l.value, l.set
		d.builder.Call("set lock period", owner, func(caller sand.Address) error {
			return set(caller, value)
		})
	}
	if desc.Locks.ClaimAmount != nil {
		d.builder.Call("set amount lock claim", owner, func(caller sand.Address) error {
			return p.SetAmountLockClaim(caller, desc.Locks.ClaimAmount.Int(), true)
		})
	}

	if desc.RewardFunding != nil {
		rewardToken := d.dep.Tokens[desc.RewardToken]
		d.builder.Call("fund pool", owner, func(caller sand.Address) error {
			return rewardToken.Mint(caller, p.Address(), desc.RewardFunding.Int())
		})
	}
	return nil
}

// startRewards schedules the first distribution of the calculator.
func (d *deployer) startRewards() error {
	desc := d.desc.Calculator
	distributor := d.distributor()
	switch c := d.dep.Calculator.(type) {
	case *calculator.Periodic:
		if desc.Duration != 0 {
			d.builder.Call("set duration", d.owner(), func(caller sand.Address) error {
				return c.SetDuration(caller, desc.Duration)
			})
		}
		if desc.Reward != nil {
			d.builder.Call("notify reward amount", distributor, func(caller sand.Address) error {
				return c.NotifyRewardAmount(caller, desc.Reward.Int())
			})
		}
	case *calculator.FixedRate:
		if desc.Rate != nil {
			d.builder.Call("set rate", distributor, func(caller sand.Address) error {
				return c.SetRate(caller, desc.Rate.Int())
			})
		}
	case *calculator.TwoPhase:
		for i, campaign := range desc.Campaigns {
			run := c.RunCampaign
			if i > 0 {
				run = c.SetNextCampaign
			}
			reward, duration := campaign.Reward.Int(), campaign.Duration
			d.builder.Call("schedule campaign", distributor, func(caller sand.Address) error {
				return run(caller, reward, duration)
			})
		}
	}
	return nil
}
