// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

// Key returns the physical key of key inside the bucket.
func (b Bucket) Key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// Get reads key from the bucket.
func (b Bucket) Get(src Getter, key []byte) ([]byte, error) {
	return src.Get(b.Key(key))
}

// Put writes key into the bucket.
func (b Bucket) Put(dst Putter, key, val []byte) error {
	return dst.Put(b.Key(key), val)
}

// Delete removes key from the bucket.
func (b Bucket) Delete(dst Putter, key []byte) error {
	return dst.Delete(b.Key(key))
}

// Range returns the key range covering the whole bucket.
func (b Bucket) Range() Range {
	from := []byte(b)
	to := append([]byte(nil), from...)
	for i := len(to) - 1; i >= 0; i-- {
		to[i]++
		if to[i] != 0 {
			return Range{From: from, To: to[:i+1]}
		}
	}
	return Range{From: from}
}
