// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/thesandboxgame/sandbox-smart-contracts-sub008/metrics"

var metricCommittedKeys = metrics.LazyLoadCounter("state_committed_keys_count")
