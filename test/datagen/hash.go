// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

func RandomHash() (b sand.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr sand.Address) {
	rand.Read(addr[:])
	return
}

func RandAddresses(n int) []sand.Address {
	out := make([]sand.Address, n)
	for i := range out {
		out[i] = RandAddress()
	}
	return out
}
