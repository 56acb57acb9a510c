// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/lvldb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/test/datagen"
)

func newToken(t *testing.T) (*Token, sand.Address) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db)
	require.NoError(t, err)

	tok := New(datagen.RandAddress(), st, sand.NewManualClock(1))
	owner := datagen.RandAddress()
	require.NoError(t, tok.Access().Init(owner))
	return tok, owner
}

func balance(t *testing.T, tok *Token, addr sand.Address) uint64 {
	bal, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestMintAndTransfer(t *testing.T) {
	tok, owner := newToken(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	assert.True(t, reverts.Is(tok.Mint(alice, alice, uint256.NewInt(1)), reverts.KindRole))
	require.NoError(t, tok.Mint(owner, alice, uint256.NewInt(100)))

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), supply.Uint64())

	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(40)))
	assert.Equal(t, uint64(60), balance(t, tok, alice))
	assert.Equal(t, uint64(40), balance(t, tok, bob))

	err = tok.Transfer(alice, bob, uint256.NewInt(61))
	assert.True(t, reverts.Is(err, reverts.KindBalance))

	// self transfer keeps the balance
	require.NoError(t, tok.Transfer(alice, alice, uint256.NewInt(60)))
	assert.Equal(t, uint64(60), balance(t, tok, alice))

	assert.True(t, reverts.Is(tok.Transfer(alice, sand.Address{}, uint256.NewInt(1)), reverts.KindConfig))
}

func TestTransferFrom(t *testing.T) {
	tok, owner := newToken(t)
	alice, pool := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, tok.Mint(owner, alice, uint256.NewInt(100)))

	err := tok.TransferFrom(pool, alice, pool, uint256.NewInt(10))
	assert.True(t, reverts.Is(err, reverts.KindBalance))

	require.NoError(t, tok.Approve(alice, pool, uint256.NewInt(30)))
	require.NoError(t, tok.TransferFrom(pool, alice, pool, uint256.NewInt(10)))
	assert.Equal(t, uint64(10), balance(t, tok, pool))

	left, err := tok.Allowance(alice, pool)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), left.Uint64())

	assert.True(t, reverts.Is(tok.TransferFrom(pool, alice, pool, uint256.NewInt(21)), reverts.KindBalance))
}
