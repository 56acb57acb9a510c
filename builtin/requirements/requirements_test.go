// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requirements

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/collection"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/lvldb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/test/datagen"
)

type fixture struct {
	owner  sand.Address
	rules  *Rules
	land   *collection.ERC721
	assets *collection.ERC1155
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db)
	require.NoError(t, err)

	clock := sand.NewManualClock(1)
	reg := registry.New(st)
	f := &fixture{
		owner:  datagen.RandAddress(),
		rules:  New(datagen.RandAddress(), st, clock, reg),
		land:   collection.NewERC721(datagen.RandAddress(), st, clock),
		assets: collection.NewERC1155(datagen.RandAddress(), st, clock),
	}
	require.NoError(t, f.rules.Access().Init(f.owner))
	require.NoError(t, f.land.Access().Init(f.owner))
	require.NoError(t, f.assets.Access().Init(f.owner))
	reg.Deploy(Kind, f.rules)
	reg.Deploy(collection.KindERC721, f.land)
	reg.Deploy(collection.KindERC1155, f.assets)
	return f
}

func n(v uint64) *uint256.Int { return uint256.NewInt(v) }

func ids(v ...uint64) []*uint256.Int {
	out := make([]*uint256.Int, len(v))
	for i := range v {
		out[i] = n(v[i])
	}
	return out
}

func maxStake(t *testing.T, r *Rules, account sand.Address, overall uint64) *uint256.Int {
	v, err := r.MaxStake(account, n(overall))
	require.NoError(t, err)
	return v
}

func TestNoLists(t *testing.T) {
	f := newFixture(t)
	account := datagen.RandAddress()

	assert.Equal(t, new(uint256.Int).SetAllOne(), maxStake(t, f.rules, account, 0), "no cap at all")
	assert.Equal(t, uint64(500), maxStake(t, f.rules, account, 500).Uint64())

	require.NoError(t, f.rules.CheckStake(account, n(500), n(500)))
	err := f.rules.CheckStake(account, n(501), n(500))
	assert.True(t, reverts.IsSub(err, reverts.KindRequirements, reverts.SubMaxAllowed), "%v", err)
}

func TestBalanceMode(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.rules.SetERC721RequirementList(f.owner, f.land.Address(), &ERC721List{
		BalanceMode: true,
		MinRequired: 2,
		MaxCounted:  3,
		PerUnit:     n(100),
	}))

	tests := []struct {
		held    uint64
		allowed uint64
		gate    bool
	}{
		{0, 0, false},
		{1, 0, false},
		{2, 200, true},
		{3, 300, true},
		{5, 300, true},
	}
	var next uint64
	for _, tt := range tests {
		account := datagen.RandAddress()
		for range tt.held {
			next++
			require.NoError(t, f.land.Mint(f.owner, account, n(next)))
		}
		assert.Equal(t, tt.allowed, maxStake(t, f.rules, account, 0).Uint64(), "held %d", tt.held)

		err := f.rules.CheckStake(account, n(1), n(0))
		if tt.gate {
			assert.NoError(t, err)
			assert.True(t, reverts.IsSub(f.rules.CheckStake(account, n(tt.allowed+1), n(0)), reverts.KindRequirements, reverts.SubMaxAllowed))
			assert.Equal(t, min(tt.allowed, 250), maxStake(t, f.rules, account, 250).Uint64(), "clipped to overall")
		} else {
			assert.True(t, reverts.IsSub(err, reverts.KindRequirements, reverts.SubBalanceOf), "held %d: %v", tt.held, err)
		}
	}
}

func TestZeroHoldingsAllowNothing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.rules.SetERC721RequirementList(f.owner, f.land.Address(), &ERC721List{BalanceMode: true, PerUnit: n(100)}))
	account := datagen.RandAddress()

	assert.True(t, maxStake(t, f.rules, account, 1000).IsZero())
	err := f.rules.CheckStake(account, n(1), n(1000))
	assert.True(t, reverts.IsSub(err, reverts.KindRequirements, reverts.SubMaxAllowed))
}

func TestIDMode(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.rules.SetERC721RequirementList(f.owner, f.land.Address(), &ERC721List{
		MinRequired: 1,
		IDs:         ids(1, 2, 3),
		Allowance:   n(1000),
	}))
	require.NoError(t, f.rules.SetERC1155RequirementList(f.owner, f.assets.Address(), &ERC1155List{
		IDs:       ids(5),
		Allowance: n(50),
	}))
	account := datagen.RandAddress()

	// an unlisted id grants nothing
	require.NoError(t, f.land.Mint(f.owner, account, n(9)))
	assert.True(t, maxStake(t, f.rules, account, 0).IsZero())
	err := f.rules.CheckStake(account, n(1), n(0))
	assert.True(t, reverts.IsSub(err, reverts.KindRequirements, reverts.SubBalanceID), "%v", err)

	require.NoError(t, f.land.Mint(f.owner, account, n(2)))
	assert.Equal(t, uint64(1000), maxStake(t, f.rules, account, 0).Uint64())

	// owning two listed ids does not double the flat allowance
	require.NoError(t, f.land.Mint(f.owner, account, n(3)))
	assert.Equal(t, uint64(1000), maxStake(t, f.rules, account, 0).Uint64())

	require.NoError(t, f.assets.Mint(f.owner, account, n(5), n(10)))
	assert.Equal(t, uint64(1050), maxStake(t, f.rules, account, 0).Uint64())
	assert.Equal(t, uint64(1020), maxStake(t, f.rules, account, 1020).Uint64())
	require.NoError(t, f.rules.CheckStake(account, n(1050), n(0)))

	require.NoError(t, f.rules.DeleteERC721RequirementList(f.owner, f.land.Address()))
	assert.Equal(t, uint64(50), maxStake(t, f.rules, account, 0).Uint64())
	require.NoError(t, f.rules.DeleteERC1155RequirementList(f.owner, f.assets.Address()))
	assert.Equal(t, uint64(77), maxStake(t, f.rules, account, 77).Uint64())
}

func TestListValidation(t *testing.T) {
	f := newFixture(t)
	land := f.land.Address()

	err := f.rules.SetERC721RequirementList(datagen.RandAddress(), land, &ERC721List{IDs: ids(1)})
	assert.True(t, reverts.Is(err, reverts.KindRole))

	err = f.rules.SetERC721RequirementList(f.owner, datagen.RandAddress(), &ERC721List{IDs: ids(1)})
	assert.True(t, reverts.Is(err, reverts.KindNotContract))

	err = f.rules.SetERC1155RequirementList(f.owner, land, &ERC1155List{IDs: ids(1)})
	assert.True(t, reverts.Is(err, reverts.KindNotContract))

	err = f.rules.SetERC721RequirementList(f.owner, land, &ERC721List{IDs: ids(1, 1)})
	assert.True(t, reverts.Is(err, reverts.KindConfig))

	err = f.rules.SetERC721RequirementList(f.owner, land, &ERC721List{MinRequired: 2, IDs: ids(1)})
	assert.True(t, reverts.Is(err, reverts.KindConfig))

	err = f.rules.SetERC721RequirementList(f.owner, land, &ERC721List{BalanceMode: true, MinRequired: 3, MaxCounted: 2})
	assert.True(t, reverts.Is(err, reverts.KindConfig))

	err = f.rules.DeleteERC1155RequirementList(f.owner, f.assets.Address())
	assert.True(t, reverts.Is(err, reverts.KindConfig))

	list, err := f.rules.ERC721List(land)
	require.NoError(t, err)
	assert.Nil(t, list)
}
