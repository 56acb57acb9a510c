// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sand

// Event is a log emitted by a contract.
type Event struct {
	// Address of the emitting contract.
	Address Address
	// Topics, topics[0] is the keccak256 hash of the event signature.
	Topics []Bytes32
	// Data holds the abi encoded non-indexed arguments.
	Data []byte
}
