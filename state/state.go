// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/cache"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/kv"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/sand"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/stackedmap"
)

const (
	storageBucket = kv.Bucket("s")
	codeBucket    = kv.Bucket("c")

	readCacheSize = 4096
)

var logger = log.WithContext("pkg", "state")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error.
func (e *Error) Cause() error { return e.cause }

type (
	storageKey struct {
		addr sand.Address
		key  sand.Bytes32
	}
	codeKey    sand.Address
	eventKey   int
	eventCount struct{}
	hookKey    int
	hookCount  struct{}
)

// State manages contract storage, code markers and emitted events.
type State struct {
	db    kv.Store
	reads *cache.LRU[string, []byte]
	sm    *stackedmap.StackedMap[any, any]
}

// New create state object backed by db.
func New(db kv.Store) (*State, error) {
	reads, err := cache.NewLRU[string, []byte](readCacheSize)
	if err != nil {
		return nil, err
	}
	s := &State{db: db, reads: reads}
	s.reset()
	return s, nil
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
}

// load implements stackedmap.MapGetter, reading committed values.
func (s *State) load(key any) (any, bool, error) {
	switch k := key.(type) {
	case storageKey:
		v, err := s.read(storageBucket.Key(append(k.addr.Bytes(), k.key.Bytes()...)))
		return v, true, err
	case codeKey:
		v, err := s.read(codeBucket.Key(k[:]))
		return v, true, err
	case eventCount, hookCount:
		return 0, true, nil
	case eventKey, hookKey:
		return nil, false, nil
	}
	panic(fmt.Errorf("unexpected key type %T", key))
}

func (s *State) read(dbKey []byte) ([]byte, error) {
	return s.reads.GetOrLoad(string(dbKey), func(string) ([]byte, error) {
		v, err := s.db.Get(dbKey)
		if err != nil {
			if s.db.IsNotFound(err) {
				return nil, nil
			}
			return nil, errors.Wrap(err, "read kv")
		}
		return v, nil
	})
}

// GetStorage returns the raw storage value, nil if never set.
func (s *State) GetStorage(addr sand.Address, key sand.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// SetStorage sets the raw storage value. An empty value deletes the slot.
func (s *State) SetStorage(addr sand.Address, key sand.Bytes32, value []byte) {
	if len(value) == 0 {
		value = nil
	}
	s.sm.Put(storageKey{addr, key}, value)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr sand.Address, key sand.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr sand.Address, key sand.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// GetCode returns code for the given address.
func (s *State) GetCode(addr sand.Address) ([]byte, error) {
	v, _, err := s.sm.Get(codeKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// SetCode marks addr as a deployed contract carrying code.
func (s *State) SetCode(addr sand.Address, code []byte) {
	if len(code) == 0 {
		code = nil
	}
	s.sm.Put(codeKey(addr), code)
}

// HasCode returns whether a contract is deployed at addr.
func (s *State) HasCode(addr sand.Address) (bool, error) {
	code, err := s.GetCode(addr)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Commit writes all surviving changes into the kv store in one batch and
// drops the journal, including emitted events.
// It returns the number of keys written.
func (s *State) Commit() (int, error) {
	latest := make(map[any][]byte)
	var order []any
	s.sm.Journal(func(k, v any) bool {
		switch k.(type) {
		case storageKey, codeKey:
			if _, seen := latest[k]; !seen {
				order = append(order, k)
			}
			latest[k] = v.([]byte)
		}
		return true
	})

	batch := s.db.NewBatch()
	for _, k := range order {
		var dbKey []byte
		switch key := k.(type) {
		case storageKey:
			dbKey = storageBucket.Key(append(key.addr.Bytes(), key.key.Bytes()...))
		case codeKey:
			dbKey = codeBucket.Key(key[:])
		}
		val := latest[k]
		var err error
		if len(val) == 0 {
			err = batch.Delete(dbKey)
		} else {
			err = batch.Put(dbKey, val)
		}
		if err != nil {
			return 0, &Error{err}
		}
		s.reads.Add(string(dbKey), val)
	}
	if err := batch.Write(); err != nil {
		// cached reads may be ahead of the store now
		s.reads, _ = cache.NewLRU[string, []byte](readCacheSize)
		return 0, &Error{errors.Wrap(err, "write batch")}
	}
	s.reset()

	metricCommittedKeys().Add(int64(len(order)))
	logger.Debug("state committed", "keys", len(order))
	return len(order), nil
}
