// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind classifies a reverted call.
type Kind string

const (
	KindRole         Kind = "RoleViolation"
	KindRequirements Kind = "RequirementsNotMet"
	KindLock         Kind = "LockViolation"
	KindBalance      Kind = "InsufficientBalance"
	KindConfig       Kind = "InvalidConfiguration"
	KindNotContract  Kind = "ExternalDependencyNotContract"
	KindPaused       Kind = "Paused"
	KindOverflow     Kind = "Overflow"
)

// Sub kinds of RequirementsNotMet.
const (
	SubBalanceOf  = "balanceOf"
	SubBalanceID  = "balanceId"
	SubMaxAllowed = "maxAllowed"
)

// Sub kinds of LockViolation.
const (
	SubDeposit     = "deposit"
	SubWithdraw    = "withdraw"
	SubClaim       = "claim"
	SubClaimAmount = "claim-amount"
)

// Error is a reverted call. The whole call is rolled back when it is returned.
type Error struct {
	Kind Kind
	Sub  string
	Msg  string
}

func (e *Error) Error() string {
	reason := string(e.Kind)
	if e.Sub != "" {
		reason += ":" + e.Sub
	}
	if e.Msg != "" {
		reason += ": " + e.Msg
	}
	return reason
}

// Is matches another *Error of the same kind and sub kind, an empty sub kind matches any.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Sub == "" || t.Sub == e.Sub)
}

// Bytes encodes the reason as Error(string) revert data.
func (e *Error) Bytes() []byte {
	if e == nil {
		return nil
	}
	msg := []byte(e.Error())
	padded := (len(msg) + 31) / 32 * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, []byte{0x08, 0xc3, 0x79, 0xa0})
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msg)))
	copy(encoded[4+64:], msg)
	return encoded
}

func newError(kind Kind, sub string, format string, args ...any) *Error {
	return &Error{Kind: kind, Sub: sub, Msg: fmt.Sprintf(format, args...)}
}

func Role(format string, args ...any) *Error {
	return newError(KindRole, "", format, args...)
}

func Requirements(sub string, format string, args ...any) *Error {
	return newError(KindRequirements, sub, format, args...)
}

func Lock(sub string, format string, args ...any) *Error {
	return newError(KindLock, sub, format, args...)
}

func Balance(format string, args ...any) *Error {
	return newError(KindBalance, "", format, args...)
}

func Config(format string, args ...any) *Error {
	return newError(KindConfig, "", format, args...)
}

func NotContract(format string, args ...any) *Error {
	return newError(KindNotContract, "", format, args...)
}

func Paused(format string, args ...any) *Error {
	return newError(KindPaused, "", format, args...)
}

func Overflow(format string, args ...any) *Error {
	return newError(KindOverflow, "", format, args...)
}

// IsRevertErr reports whether err carries a revert.
func IsRevertErr(err error) bool {
	var re *Error
	return errors.As(err, &re)
}

// KindOf returns the revert kind of err, empty if err is not a revert.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// Is reports whether err is a revert of kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsSub reports whether err is a revert of kind and sub kind.
func IsSub(err error, kind Kind, sub string) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind && re.Sub == sub
}
