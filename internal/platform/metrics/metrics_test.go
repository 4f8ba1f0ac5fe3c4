package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveHTTPRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveHTTPRequest("POST", "/translations/{id}/confirm", 409, 20*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/translations/{id}/confirm", 409, 30*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/translations/{id}/confirm", "409")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond) })
}
