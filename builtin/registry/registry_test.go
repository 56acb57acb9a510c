// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/lvldb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/test/datagen"
)

type fake struct{ addr sand.Address }

func (f *fake) Address() sand.Address { return f.addr }
func (f *fake) Ping() string          { return "pong" }

type pinger interface{ Ping() string }

type other interface{ Other() }

func TestLookup(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st, err := state.New(db)
	require.NoError(t, err)

	r := New(st)
	f := &fake{datagen.RandAddress()}
	r.Deploy("fake", f)

	p, err := Lookup[pinger](r, f.addr)
	require.NoError(t, err)
	assert.Equal(t, "pong", p.Ping())
	assert.Equal(t, "fake", r.Kind(f.addr))
	assert.Equal(t, []sand.Address{f.addr}, r.Addresses("fake"))

	_, err = Lookup[other](r, f.addr)
	assert.True(t, reverts.Is(err, reverts.KindNotContract))

	_, err = Lookup[pinger](r, datagen.RandAddress())
	assert.True(t, reverts.Is(err, reverts.KindNotContract))

	// a reverted deployment leaves no code behind
	rev := st.NewCheckpoint()
	g := &fake{datagen.RandAddress()}
	r.Deploy("fake", g)
	st.RevertTo(rev)
	_, err = Lookup[pinger](r, g.addr)
	assert.True(t, reverts.Is(err, reverts.KindNotContract))
}
