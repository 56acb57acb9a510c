// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"github.com/holiman/uint256"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// ERC721Reader is the read surface rule engines query on non-fungible collections.
type ERC721Reader interface {
	Address() sand.Address
	BalanceOf(owner sand.Address) (*uint256.Int, error)
	OwnerOf(id *uint256.Int) (sand.Address, error)
}

// ERC1155Reader is the read surface rule engines query on multi-token collections.
type ERC1155Reader interface {
	Address() sand.Address
	BalanceOf(owner sand.Address, id *uint256.Int) (*uint256.Int, error)
}

var (
	_ ERC721Reader  = (*ERC721)(nil)
	_ ERC1155Reader = (*ERC1155)(nil)
)
