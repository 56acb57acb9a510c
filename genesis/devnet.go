// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/calculator"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/collection"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/forwarder"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// DevAccount account for development.
type DevAccount struct {
	Address    sand.Address
	PrivateKey *secp256k1.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the devnet.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"0xdce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"0x321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"0x2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"0x593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"0xca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"0x88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"0xfbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"0x547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"0xc8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"0x87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk := secp256k1.PrivKeyFromBytes(hexutil.MustDecode(str))
		accs = append(accs, DevAccount{forwarder.PubkeyToAddress(pk.PubKey()), pk})
	}
	devAccounts.Store(accs)
	return accs
}

const (
	devStake   = "SAND"
	devReward  = "SAND-REWARD"
	devLand    = "LAND"
	devAssets  = "ASSETS"
	devDay     = 24 * 60 * 60
	devBalance = 1_000_000
)

var devUnit = uint256.NewInt(1_000_000_000_000_000_000)

// tokens returns n whole tokens of 18 decimals.
func tokens(n uint64) *Amount {
	return (*Amount)(new(uint256.Int).Mul(uint256.NewInt(n), devUnit))
}

// NewDevnet describes a pool staking and rewarding SAND, with LAND holders
// earning a contribution bonus. The first dev account owns everything.
func NewDevnet() *Descriptor {
	accs := DevAccounts()
	owner := accs[0].Address

	balances := make(map[sand.Address]*Amount, len(accs))
	var lands []Mint
	for i, a := range accs {
		balances[a.Address] = tokens(devBalance)
		lands = append(lands, Mint{To: a.Address, ID: NewAmount(uint64(i + 1))})
	}
	return &Descriptor{
		Owner: owner,
		Tokens: []Token{
			{Name: devStake, Balances: balances},
			{Name: devReward},
		},
		Collections: []Collection{
			{Name: devLand, Kind: collection.KindERC721, Mints: lands},
			{Name: devAssets, Kind: collection.KindERC1155, Mints: []Mint{
				{To: accs[1].Address, ID: NewAmount(7), Amount: NewAmount(3)},
			}},
		},
		Calculator: Calculator{
			Kind:     calculator.KindPeriodic,
			Duration: 30 * devDay,
			Reward:   tokens(300_000),
		},
		Contribution: &Contribution{
			ERC721:  []ContributionERC721{{Collection: devLand, BalanceMode: true}},
			ERC1155: []ContributionERC1155{{Collection: devAssets, IDs: []IDBonus{{ID: NewAmount(7), Bonus: 50}}}},
		},
		Requirements: &Requirements{
			ERC721: []RequirementERC721{{
				Collection:  devLand,
				BalanceMode: true,
				MinRequired: 1,
				PerUnit:     tokens(100_000),
			}},
		},
		Pool: Pool{
			StakeToken:       devStake,
			RewardToken:      devReward,
			RewardFunding:    tokens(300_000),
			Locks:            Locks{Claim: devDay},
			TrustedForwarder: true,
		},
	}
}
