// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/solidity"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/lvldb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/test/datagen"
)

const (
	opNotify  Operation = "notifyRewardAmount"
	opRestart Operation = "restartRewards"
	opSetup   Operation = "setDuration"
)

func newTable(t *testing.T) (*Table, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db)
	require.NoError(t, err)
	ctx := solidity.NewContext(datagen.RandAddress(), st, sand.NewManualClock(1))
	return New(ctx, Policy{
		opNotify:  RoleRewardDistribution,
		opRestart: RoleRewardPool,
		opSetup:   RoleAdmin,
	}), st
}

func TestInit(t *testing.T) {
	tbl, _ := newTable(t)
	owner := datagen.RandAddress()

	assert.True(t, reverts.Is(tbl.Init(sand.Address{}), reverts.KindConfig))
	require.NoError(t, tbl.Init(owner))
	assert.True(t, reverts.Is(tbl.Init(datagen.RandAddress()), reverts.KindConfig))

	got, err := tbl.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestCheck(t *testing.T) {
	tbl, _ := newTable(t)
	owner := datagen.RandAddress()
	distributor := datagen.RandAddress()
	pool := datagen.RandAddress()
	require.NoError(t, tbl.Init(owner))

	require.NoError(t, tbl.Check(opSetup, owner))
	assert.True(t, reverts.Is(tbl.Check(opNotify, distributor), reverts.KindRole))

	require.NoError(t, tbl.Grant(owner, RoleRewardDistribution, distributor))
	require.NoError(t, tbl.Grant(owner, RoleRewardPool, pool))
	require.NoError(t, tbl.Check(opNotify, distributor))
	require.NoError(t, tbl.Check(opRestart, pool))
	assert.True(t, reverts.Is(tbl.Check(opRestart, distributor), reverts.KindRole))
	assert.True(t, reverts.Is(tbl.Check(opSetup, distributor), reverts.KindRole))
	assert.True(t, reverts.Is(tbl.Check("unknown", owner), reverts.KindRole))

	assert.True(t, reverts.Is(tbl.Grant(distributor, RoleAdmin, distributor), reverts.KindRole))

	require.NoError(t, tbl.Revoke(owner, RoleRewardDistribution, distributor))
	assert.True(t, reverts.Is(tbl.Check(opNotify, distributor), reverts.KindRole))
	// revoking twice is a no-op
	require.NoError(t, tbl.Revoke(owner, RoleRewardDistribution, distributor))
}

func TestOwnership(t *testing.T) {
	tbl, st := newTable(t)
	owner := datagen.RandAddress()
	next := datagen.RandAddress()
	require.NoError(t, tbl.Init(owner))

	assert.True(t, reverts.Is(tbl.TransferOwnership(owner, sand.Address{}), reverts.KindConfig))
	assert.True(t, reverts.Is(tbl.TransferOwnership(next, next), reverts.KindRole))
	assert.True(t, reverts.Is(tbl.RenounceOwnership(owner), reverts.KindConfig))
	assert.True(t, reverts.Is(tbl.RenounceOwnership(next), reverts.KindRole))

	require.NoError(t, tbl.TransferOwnership(owner, next))
	got, err := tbl.Owner()
	require.NoError(t, err)
	assert.Equal(t, next, got)

	require.NoError(t, tbl.Check(opSetup, next))
	assert.True(t, reverts.Is(tbl.Check(opSetup, owner), reverts.KindRole))

	events := st.Events(0)
	require.Len(t, events, 2)
	assert.Equal(t, eventOwnershipTransferred.ID(), events[1].Topics[0])
	assert.Equal(t, sand.BytesToBytes32(next.Bytes()), events[1].Topics[2])
}
