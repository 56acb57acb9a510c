// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketKey(t *testing.T) {
	b := Bucket("s")
	assert.Equal(t, []byte("sabc"), b.Key([]byte("abc")))
	assert.Equal(t, []byte("s"), b.Key(nil))
}

func TestBucketRange(t *testing.T) {
	tests := []struct {
		bucket Bucket
		want   Range
	}{
		{"a", Range{From: []byte("a"), To: []byte("b")}},
		{"a\xff", Range{From: []byte("a\xff"), To: []byte("b")}},
		{"\xff\xff", Range{From: []byte("\xff\xff")}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.bucket.Range(), "%q", string(tt.bucket))
	}
}
