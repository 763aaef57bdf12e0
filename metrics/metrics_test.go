package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSearchMetricsLabelByService(t *testing.T) {
	assert := require.New(t)
	first := NewSearchMetrics("metrics_test_first")
	second := NewSearchMetrics("metrics_test_second")

	first.RecordRequest("search")
	first.RecordRequest("search")
	second.RecordRequest("search")
	first.RecordError("search", ErrorTypeBackend)
	first.RecordChangeEvent("delete", OutcomeDropped)

	assert.Equal(2.0, testutil.ToFloat64(searchRequestsTotal.WithLabelValues("metrics_test_first", "search")))
	assert.Equal(1.0, testutil.ToFloat64(searchRequestsTotal.WithLabelValues("metrics_test_second", "search")))
	assert.Equal(1.0, testutil.ToFloat64(searchErrorsTotal.WithLabelValues("metrics_test_first", "search", ErrorTypeBackend)))
	assert.Equal(1.0, testutil.ToFloat64(changeEventsTotal.WithLabelValues("metrics_test_first", "delete", OutcomeDropped)))
	assert.Zero(testutil.ToFloat64(changeEventsTotal.WithLabelValues("metrics_test_second", "delete", OutcomeDropped)))
}
