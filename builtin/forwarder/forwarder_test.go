// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package forwarder

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/reverts"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/lvldb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/state"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/test/datagen"
)

func newForwarder(t *testing.T) (*Forwarder, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db)
	require.NoError(t, err)
	return New(datagen.RandAddress(), st, sand.NewManualClock(1)), st
}

func newKey(t *testing.T) (*secp256k1.PrivateKey, sand.Address) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return key, PubkeyToAddress(key.PubKey())
}

func TestVerify(t *testing.T) {
	fwd, st := newForwarder(t)
	key, from := newKey(t)
	req := &Request{From: from, To: datagen.RandAddress(), Data: []byte("stake")}

	sig, err := Sign(req, key)
	require.NoError(t, err)
	assert.Len(t, sig, 65)

	signer, err := fwd.Verify(req, sig)
	require.NoError(t, err)
	assert.Equal(t, from, signer)
	assert.Equal(t, 1, st.EventCount())

	// replay
	_, err = fwd.Verify(req, sig)
	assert.True(t, reverts.Is(err, reverts.KindConfig), "%v", err)

	req.Nonce = 1
	sig, err = Sign(req, key)
	require.NoError(t, err)
	_, err = fwd.Verify(req, sig)
	require.NoError(t, err)

	nonce, err := fwd.Nonce(from)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), nonce)
}

func TestVerifyRejectsForgery(t *testing.T) {
	fwd, _ := newForwarder(t)
	key, _ := newKey(t)
	_, victim := newKey(t)

	req := &Request{From: victim, To: datagen.RandAddress()}
	sig, err := Sign(req, key)
	require.NoError(t, err)
	_, err = fwd.Verify(req, sig)
	assert.True(t, reverts.Is(err, reverts.KindRole), "%v", err)

	_, err = fwd.Verify(req, sig[:10])
	assert.True(t, reverts.Is(err, reverts.KindRole), "%v", err)

	// tampered payload recovers another signer
	key2, from2 := newKey(t)
	req = &Request{From: from2, To: datagen.RandAddress(), Data: []byte{1}}
	sig, err = Sign(req, key2)
	require.NoError(t, err)
	req.Data = []byte{2}
	_, err = fwd.Verify(req, sig)
	assert.True(t, reverts.Is(err, reverts.KindRole), "%v", err)
}

func TestMsgSender(t *testing.T) {
	relayer := datagen.RandAddress()
	user := datagen.RandAddress()
	data := AppendSender([]byte{0xde, 0xad}, user)

	assert.Equal(t, user, MsgSender(true, relayer, data))
	assert.Equal(t, relayer, MsgSender(false, relayer, data))
	assert.Equal(t, relayer, MsgSender(true, relayer, []byte{1, 2, 3}))
}
