// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"slices"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// AddressList is an insertion ordered set of addresses kept in one slot.
type AddressList struct {
	raw *Raw[[]sand.Address]
}

func NewAddressList(ctx *Context, pos sand.Bytes32) *AddressList {
	return &AddressList{raw: NewRaw[[]sand.Address](ctx, pos)}
}

func (l *AddressList) All() ([]sand.Address, error) {
	list, _, err := l.raw.Get()
	return list, err
}

func (l *AddressList) Contains(addr sand.Address) (bool, error) {
	list, err := l.All()
	if err != nil {
		return false, err
	}
	return slices.Contains(list, addr), nil
}

// Add appends addr unless present and returns the resulting length.
func (l *AddressList) Add(addr sand.Address) (int, error) {
	list, err := l.All()
	if err != nil {
		return 0, err
	}
	if slices.Contains(list, addr) {
		return len(list), nil
	}
	list = append(list, addr)
	return len(list), l.raw.Set(list)
}

// Remove deletes addr and reports whether it was present.
func (l *AddressList) Remove(addr sand.Address) (bool, error) {
	list, err := l.All()
	if err != nil {
		return false, err
	}
	i := slices.Index(list, addr)
	if i < 0 {
		return false, nil
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		l.raw.Delete()
		return true, nil
	}
	return true, l.raw.Set(list)
}
