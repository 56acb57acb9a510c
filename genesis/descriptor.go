// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis deploys and wires a staking pool with its tokens,
// collections and engines from a YAML descriptor.
package genesis

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// Descriptor is the whole deployment.
type Descriptor struct {
	Owner        sand.Address  `yaml:"owner"`
	Tokens       []Token       `yaml:"tokens"`
	Collections  []Collection  `yaml:"collections"`
	Calculator   Calculator    `yaml:"calculator"`
	Contribution *Contribution `yaml:"contribution"`
	Requirements *Requirements `yaml:"requirements"`
	Pool         Pool          `yaml:"pool"`
}

// Token is a fungible token with its initial balances.
type Token struct {
	Name     string                   `yaml:"name"`
	Balances map[sand.Address]*Amount `yaml:"balances"`
}

// Collection is an erc721 or erc1155 collection with its initial holdings.
type Collection struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Mints []Mint `yaml:"mints"`
}

// Mint gives Amount of token ID to To, Amount is ignored for erc721.
type Mint struct {
	To     sand.Address `yaml:"to"`
	ID     *Amount      `yaml:"id"`
	Amount *Amount      `yaml:"amount"`
}

// Calculator selects the reward calculator variant and its parameters.
type Calculator struct {
	Kind        string       `yaml:"kind"`
	Distributor sand.Address `yaml:"distributor"`
	Duration    uint64       `yaml:"duration"`
	Reward      *Amount      `yaml:"reward"`
	Rate        *Amount      `yaml:"rate"`
	Campaigns   []Campaign   `yaml:"campaigns"`
}

// Campaign is one phase of a two phase calculator.
type Campaign struct {
	Reward   *Amount `yaml:"reward"`
	Duration uint64  `yaml:"duration"`
}

// Contribution configures the contribution rules.
type Contribution struct {
	MaxGlobalMultiplier *uint64               `yaml:"maxGlobalMultiplier"`
	LimitERC721         *uint64               `yaml:"limitERC721"`
	LimitERC1155        *uint64               `yaml:"limitERC1155"`
	ERC721              []ContributionERC721  `yaml:"erc721"`
	ERC1155             []ContributionERC1155 `yaml:"erc1155"`
}

type CurvePoint struct {
	Units uint64 `yaml:"units"`
	Bonus uint64 `yaml:"bonus"`
}

type IDBonus struct {
	ID    *Amount `yaml:"id"`
	Bonus uint64  `yaml:"bonus"`
}

type ContributionERC721 struct {
	Collection  string       `yaml:"collection"`
	BalanceMode bool         `yaml:"balanceMode"`
	Curve       []CurvePoint `yaml:"curve"`
	IDs         []IDBonus    `yaml:"ids"`
}

type ContributionERC1155 struct {
	Collection string    `yaml:"collection"`
	IDs        []IDBonus `yaml:"ids"`
}

// Requirements configures the requirement rules.
type Requirements struct {
	ERC721  []RequirementERC721  `yaml:"erc721"`
	ERC1155 []RequirementERC1155 `yaml:"erc1155"`
}

type RequirementERC721 struct {
	Collection  string    `yaml:"collection"`
	BalanceMode bool      `yaml:"balanceMode"`
	MinRequired uint64    `yaml:"minRequired"`
	MaxCounted  uint64    `yaml:"maxCounted"`
	PerUnit     *Amount   `yaml:"perUnit"`
	IDs         []*Amount `yaml:"ids"`
	Allowance   *Amount   `yaml:"allowance"`
}

type RequirementERC1155 struct {
	Collection  string    `yaml:"collection"`
	MinRequired uint64    `yaml:"minRequired"`
	IDs         []*Amount `yaml:"ids"`
	Allowance   *Amount   `yaml:"allowance"`
}

// Pool configures the pool itself.
type Pool struct {
	StakeToken       string  `yaml:"stakeToken"`
	RewardToken      string  `yaml:"rewardToken"`
	RewardFunding    *Amount `yaml:"rewardFunding"`
	MaxStakeOverall  *Amount `yaml:"maxStakeOverall"`
	Locks            Locks   `yaml:"locks"`
	TrustedForwarder bool    `yaml:"trustedForwarder"`
}

// Locks are periods in seconds, zero disables a lock.
type Locks struct {
	Deposit      uint64  `yaml:"deposit"`
	Withdraw     uint64  `yaml:"withdraw"`
	Claim        uint64  `yaml:"claim"`
	AntiCompound uint64  `yaml:"antiCompound"`
	ClaimAmount  *Amount `yaml:"claimAmount"`
}

// Parse decodes a descriptor, rejecting unknown fields.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(err, "decode descriptor")
	}
	if d.Owner.IsZero() {
		return nil, errors.New("owner is required")
	}
	return &d, nil
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read descriptor")
	}
	return Parse(data)
}
