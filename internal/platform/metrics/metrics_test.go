package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpstream(t *testing.T) {
	okBefore := testutil.ToFloat64(UpstreamRequests.WithLabelValues("list", "ok"))
	errBefore := testutil.ToFloat64(UpstreamRequests.WithLabelValues("list", "error"))

	ObserveUpstream("list", time.Now(), nil)
	ObserveUpstream("list", time.Now(), errors.New("boom"))
	ObserveUpstream("list", time.Now(), nil)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(UpstreamRequests.WithLabelValues("list", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("list", "error")))
}

func TestObserveAnalytics(t *testing.T) {
	before := testutil.ToFloat64(AnalyticsRuns)
	ObserveAnalytics(30)
	assert.Equal(t, before+1, testutil.ToFloat64(AnalyticsRuns))
}
