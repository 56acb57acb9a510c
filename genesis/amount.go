// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Amount is a uint256 written as a decimal or 0x prefixed hex string.
type Amount uint256.Int

// NewAmount wraps v.
func NewAmount(v uint64) *Amount {
	return (*Amount)(uint256.NewInt(v))
}

// Int returns the value, zero for a nil amount.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set((*uint256.Int)(a))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", node.Line, s)
	}
	*a = Amount(*v)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (a Amount) MarshalYAML() (any, error) {
	v := uint256.Int(a)
	return v.Dec(), nil
}
