// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger                 { return m }
func (m *mockLogger) Trace(_ string, _ ...any)                 {}
func (m *mockLogger) Debug(_ string, _ ...any)                 {}
func (m *mockLogger) Warn(_ string, _ ...any)                  {}
func (m *mockLogger) Error(_ string, _ ...any)                 {}
func (m *mockLogger) Enabled(context.Context, slog.Level) bool { return true }

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		status    int
		shouldLog bool
	}{
		{
			name:      "enabled",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("OK")) },
			enabled:   true,
			status:    http.StatusOK,
			shouldLog: true,
		},
		{
			name:    "disabled",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("OK")) },
			status:  http.StatusOK,
		},
		{
			name: "slow query",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(15 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
			threshold: 5 * time.Millisecond,
			status:    http.StatusOK,
			shouldLog: true,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			status:    http.StatusInternalServerError,
			shouldLog: true,
		},
		{
			name: "client error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, &enabled, tt.threshold)(tt.handler)
			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"order":"asc"}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if !tt.shouldLog {
				assert.Empty(t, logger.loggedData)
				return
			}
			assert.Contains(t, logger.loggedData, "/events")
			assert.Contains(t, logger.loggedData, http.MethodPost)
			assert.Contains(t, logger.loggedData, tt.status)
			assert.Contains(t, logger.loggedData, `{"order":"asc"}`)
		})
	}
}
