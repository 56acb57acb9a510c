// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	callSeq INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	callTime INTEGER NOT NULL,
	caller BLOB(20) NOT NULL,
	address BLOB(20) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	data BLOB,
	PRIMARY KEY (callSeq, eventIndex)
);
CREATE INDEX IF NOT EXISTS event_address ON event(address, callSeq);
CREATE INDEX IF NOT EXISTS event_topic0 ON event(topic0, callSeq);
CREATE INDEX IF NOT EXISTS event_topic1 ON event(topic1, callSeq);`
