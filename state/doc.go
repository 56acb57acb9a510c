// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state is the journaled storage shared by all contracts.
// Writes are kept in a stacked map so a call can be reverted to any
// checkpoint, and Commit flushes the surviving writes to the kv store.
package state
