// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package locks gates deposits, withdrawals and claims of a pool with per
// account timers. Its storage lives in the pool contract.
package locks

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

var logger = log.WithContext("pkg", "locks")

// Lock names a configurable window.
type Lock string

const (
	LockDeposit      Lock = "deposit"
	LockWithdraw     Lock = "withdraw"
	LockClaim        Lock = "claim"
	LockAntiCompound Lock = "antiCompound"
	LockAmountClaim  Lock = "amountClaim"
)

var (
	slotPeriods      = solidity.Slot("locks-periods")
	slotClaimCeiling = solidity.Slot("locks-claim-ceiling")
	slotTimers       = solidity.Slot("locks-timers")

	eventLockSet = solidity.NewEvent("LockSet", "string lock", "uint256 period", "uint256 amount", "bool enabled")
)

// Periods holds the lock windows in seconds, zero disables a window.
type Periods struct {
	Deposit      uint64
	Withdraw     uint64
	Claim        uint64
	AntiCompound uint64
	AmountLock   bool
}

// Timers are the last action times of an account, zero meaning never.
type Timers struct {
	LastDeposit  uint64
	LastWithdraw uint64
	LastClaim    uint64
}

// Engine evaluates and records lock timers.
type Engine struct {
	ctx          *solidity.Context
	periods      *solidity.Raw[Periods]
	claimCeiling *solidity.Uint256
	timers       *solidity.Mapping[sand.Address, *Timers]
}

// New binds the engine to the storage of the owning contract.
func New(ctx *solidity.Context) *Engine {
	return &Engine{
		ctx:          ctx,
		periods:      solidity.NewRaw[Periods](ctx, slotPeriods),
		claimCeiling: solidity.NewUint256(ctx, slotClaimCeiling),
		timers:       solidity.NewMapping[sand.Address, *Timers](ctx, slotTimers),
	}
}

func (e *Engine) Periods() (Periods, error) {
	p, _, err := e.periods.Get()
	if err != nil {
		return Periods{}, errors.Wrap(err, "failed to get lock periods")
	}
	return p, nil
}

// ClaimCeiling is the largest claim allowed inside the claim window when the amount lock is on.
func (e *Engine) ClaimCeiling() (*uint256.Int, error) {
	return e.claimCeiling.Get()
}

func (e *Engine) Timers(account sand.Address) (*Timers, error) {
	t, err := e.timers.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get lock timers")
	}
	return t, nil
}

// within reports whether now is inside the window opened at since.
func (e *Engine) within(since, period uint64) bool {
	return since != 0 && period != 0 && e.ctx.Now() < since+period
}

func (e *Engine) CheckDeposit(account sand.Address) error {
	p, err := e.Periods()
	if err != nil {
		return err
	}
	t, err := e.Timers(account)
	if err != nil {
		return err
	}
	if e.within(t.LastDeposit, p.Deposit) {
		return reverts.Lock(reverts.SubDeposit, "deposit locked until %d", t.LastDeposit+p.Deposit)
	}
	return nil
}

// CheckWithdraw gates withdrawals and exits.
func (e *Engine) CheckWithdraw(account sand.Address) error {
	p, err := e.Periods()
	if err != nil {
		return err
	}
	t, err := e.Timers(account)
	if err != nil {
		return err
	}
	if e.within(t.LastWithdraw, p.Withdraw) {
		return reverts.Lock(reverts.SubWithdraw, "withdraw locked until %d", t.LastWithdraw+p.Withdraw)
	}
	return nil
}

// CheckClaim gates a claim paying amount. With the amount lock on, claims
// up to the ceiling pass inside the claim window.
func (e *Engine) CheckClaim(account sand.Address, amount *uint256.Int) error {
	p, err := e.Periods()
	if err != nil {
		return err
	}
	t, err := e.Timers(account)
	if err != nil {
		return err
	}
	if e.within(t.LastClaim, p.AntiCompound) {
		return reverts.Lock(reverts.SubClaim, "claim locked until %d", t.LastClaim+p.AntiCompound)
	}
	if !e.within(t.LastClaim, p.Claim) {
		return nil
	}
	if !p.AmountLock {
		return reverts.Lock(reverts.SubClaim, "claim locked until %d", t.LastClaim+p.Claim)
	}
	ceiling, err := e.claimCeiling.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get claim ceiling")
	}
	if amount.Gt(ceiling) {
		return reverts.Lock(reverts.SubClaimAmount, "claim of %v above %v before %d", amount.Dec(), ceiling.Dec(), t.LastClaim+p.Claim)
	}
	return nil
}

func (e *Engine) record(account sand.Address, set func(t *Timers, now uint64)) error {
	t, err := e.Timers(account)
	if err != nil {
		return err
	}
	set(t, e.ctx.Now())
	return errors.Wrap(e.timers.Set(account, t), "failed to set lock timers")
}

func (e *Engine) RecordDeposit(account sand.Address) error {
	return e.record(account, func(t *Timers, now uint64) { t.LastDeposit = now })
}

func (e *Engine) RecordWithdraw(account sand.Address) error {
	return e.record(account, func(t *Timers, now uint64) { t.LastWithdraw = now })
}

func (e *Engine) RecordClaim(account sand.Address) error {
	return e.record(account, func(t *Timers, now uint64) { t.LastClaim = now })
}

func (e *Engine) setPeriod(lock Lock, period uint64, set func(p *Periods)) error {
	if period > sand.MaxLockPeriod {
		return reverts.Config("%s lock of %ds above max %ds", lock, period, sand.MaxLockPeriod)
	}
	p, err := e.Periods()
	if err != nil {
		return err
	}
	set(&p)
	if err := e.periods.Set(p); err != nil {
		return errors.Wrap(err, "failed to set lock periods")
	}
	logger.Info("lock set", "contract", e.ctx.Address(), "lock", lock, "period", period)
	return e.ctx.Emit(eventLockSet, string(lock), period, new(uint256.Int), period != 0)
}

func (e *Engine) SetTimelockClaim(period uint64) error {
	return e.setPeriod(LockClaim, period, func(p *Periods) { p.Claim = period })
}

func (e *Engine) SetTimelockDeposit(period uint64) error {
	return e.setPeriod(LockDeposit, period, func(p *Periods) { p.Deposit = period })
}

func (e *Engine) SetTimeLockWithdraw(period uint64) error {
	return e.setPeriod(LockWithdraw, period, func(p *Periods) { p.Withdraw = period })
}

func (e *Engine) SetAntiCompoundLockPeriod(period uint64) error {
	return e.setPeriod(LockAntiCompound, period, func(p *Periods) { p.AntiCompound = period })
}

// SetAmountLockClaim sets the ceiling of claims inside the claim window.
func (e *Engine) SetAmountLockClaim(amount *uint256.Int, enabled bool) error {
	p, err := e.Periods()
	if err != nil {
		return err
	}
	p.AmountLock = enabled
	if err := e.periods.Set(p); err != nil {
		return errors.Wrap(err, "failed to set lock periods")
	}
	e.claimCeiling.Set(amount)
	logger.Info("claim amount lock set", "contract", e.ctx.Address(), "amount", amount, "enabled", enabled)
	return e.ctx.Emit(eventLockSet, string(LockAmountClaim), p.Claim, amount, enabled)
}
