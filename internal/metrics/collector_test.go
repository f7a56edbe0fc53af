package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRecordOutcomeBucketsByStatus(t *testing.T) {
	c := NewCollector("test_outcome", zap.NewNop())

	c.RecordOutcome(200, false)
	c.RecordOutcome(404, false)
	c.RecordOutcome(500, false)
	c.RecordOutcome(0, true)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.requestSuccess))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requestFailure.WithLabelValues("4xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requestFailure.WithLabelValues("5xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requestFailure.WithLabelValues("system")))
}

func TestRecordTokenUsageSkipsZeroCategories(t *testing.T) {
	c := NewCollector("test_tokens", zap.NewNop())

	c.RecordTokenUsage("fast", 10, 0, 10)

	assert.Equal(t, float64(10), testutil.ToFloat64(c.tokenUsage.WithLabelValues("fast", "prompt")))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.tokenUsage.WithLabelValues("fast", "completion")))
	assert.Equal(t, float64(10), testutil.ToFloat64(c.tokenUsage.WithLabelValues("fast", "total")))
}
