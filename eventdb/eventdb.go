// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"database/sql"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
)

// EventDB stores committed events in sqlite.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New opens the event db at path.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// a memory db lives per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert writes events in one transaction.
func (db *EventDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	for _, ev := range events {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO event(callSeq, eventIndex, callTime, caller, address, topic0, topic1, topic2, topic3, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			ev.CallSeq,
			ev.Index,
			ev.CallTime,
			ev.Caller.Bytes(),
			ev.Address.Bytes(),
			topicValue(ev.Topics[0]),
			topicValue(ev.Topics[1]),
			topicValue(ev.Topics[2]),
			topicValue(ev.Topics[3]),
			ev.Data,
		); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// LastSeq returns the highest stored call sequence, zero when empty.
func (db *EventDB) LastSeq() (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(callSeq) FROM event").Scan(&seq); err != nil {
		return 0, errors.Wrap(err, "query last seq")
	}
	return uint64(seq.Int64), nil
}

// Filter return events with options
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	const sel = "SELECT callSeq, eventIndex, callTime, caller, address, topic0, topic1, topic2, topic3, data FROM event"
	if filter == nil {
		return db.query(sel + " ORDER BY callSeq, eventIndex")
	}

	var (
		args  []any
		conds = []string{"1"}
	)
	if filter.Range != nil {
		conds = append(conds, "callTime >= ?")
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			conds = append(conds, "callTime <= ?")
			args = append(args, filter.Range.To)
		}
	}
	if filter.Address != nil {
		conds = append(conds, "address = ?")
		args = append(args, filter.Address.Bytes())
	}
	if len(filter.TopicSet) > 0 {
		var sets []string
		for _, topics := range filter.TopicSet {
			set := []string{"1"}
			for i, topic := range topics {
				if topic != nil {
					set = append(set, fmt.Sprintf("topic%d = ?", i))
					args = append(args, topic.Bytes())
				}
			}
			sets = append(sets, "("+strings.Join(set, " AND ")+")")
		}
		conds = append(conds, "("+strings.Join(sets, " OR ")+")")
	}

	stmt := sel + " WHERE " + strings.Join(conds, " AND ")
	if filter.Order == DESC {
		stmt += " ORDER BY callSeq DESC, eventIndex DESC"
	} else {
		stmt += " ORDER BY callSeq ASC, eventIndex ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev      Event
			caller  []byte
			address []byte
			topics  [MaxTopics][]byte
		)
		if err := rows.Scan(
			&ev.CallSeq,
			&ev.Index,
			&ev.CallTime,
			&caller,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&ev.Data,
		); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		ev.Caller = sand.BytesToAddress(caller)
		ev.Address = sand.BytesToAddress(address)
		for i, topic := range topics {
			if len(topic) > 0 {
				h := sand.BytesToBytes32(topic)
				ev.Topics[i] = &h
			}
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate events")
	}
	return events, nil
}

// Path return db's directory
func (db *EventDB) Path() string {
	return db.path
}

// Close close sqlite
func (db *EventDB) Close() error {
	return db.db.Close()
}

func topicValue(topic *sand.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}
