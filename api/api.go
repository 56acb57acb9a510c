// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves read-only views of the deployed pools and their
// committed events over HTTP.
package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/api/events"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/api/middleware"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/api/pools"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/builtin/registry"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/eventdb"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/log"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/metrics"
	"github.com/thesandboxgame/sandbox-smart-contracts-sub008/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EventsLimit          uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New return api router
func New(rt *runtime.Runtime, reg *registry.Registry, eventDB *eventdb.EventDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pools.New(rt, reg).
		Mount(router, "/pools")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
		if h := metrics.HTTPHandler(); h != nil {
			router.Path("/metrics").Methods(http.MethodGet).Name("GET /metrics").Handler(h)
		}
	}

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)
	return handler.ServeHTTP
}
