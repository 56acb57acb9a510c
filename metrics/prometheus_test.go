// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	stakes := Counter("test_stakes")
	reverts := CounterVec("test_reverts", []string{"kind"})
	stakers := Gauge("test_stakers")
	latency := Histogram("test_latency", BucketCallMillis)

	n := rand.N(50) + 1
	for range n {
		Counter("test_stakes").Add(1)
	}
	stakes.Add(1)
	reverts.AddWithLabel(2, map[string]string{"kind": "LockViolation"})
	reverts.AddWithLabel(3, map[string]string{"kind": "RoleViolation"})
	stakers.Set(10)
	stakers.Add(-3)
	latency.Observe(4)
	latency.Observe(6)

	got := gather(t)
	require.Equal(t, float64(n+1), got["sandpool_test_stakes"].Metric[0].GetCounter().GetValue())
	sum := got["sandpool_test_reverts"].Metric[0].GetCounter().GetValue() +
		got["sandpool_test_reverts"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(5), sum)
	require.Equal(t, float64(7), got["sandpool_test_stakers"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(10), got["sandpool_test_latency"].Metric[0].GetHistogram().GetSampleSum())
	require.NotNil(t, HTTPHandler())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}
	require.Nil(t, HTTPHandler())

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)

	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
}
