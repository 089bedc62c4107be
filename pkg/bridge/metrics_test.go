package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsTrackerCounts(t *testing.T) {
	mt := NewMetricsTracker()

	mt.Track("/mcp/execute", "analyze_file", true, 10)
	mt.Track("/mcp/execute", "analyze_file", true, 20)
	mt.Track("/mcp/execute", "analyze_file", false, 30)

	m := mt.GetMetricsFor("/mcp/execute", "analyze_file")
	require.NotNil(t, m)
	assert.Equal(t, int64(3), m.TotalRequests)
	assert.Equal(t, int64(2), m.SuccessCount)
	assert.Equal(t, int64(1), m.FailureCount)
	assert.InDelta(t, 20.0, m.AverageResponseTime, 0.001)
	assert.NotZero(t, m.LastRequestAt)
}

func TestMetricsTrackerSeparatesRoutes(t *testing.T) {
	mt := NewMetricsTracker()

	mt.Track("/mcp/execute", "analyze_file", true, 5)
	mt.Track("/mcp/tools", "analyze_file", true, 5)

	assert.Equal(t, int64(1), mt.GetMetricsFor("/mcp/execute", "analyze_file").TotalRequests)
	assert.Equal(t, int64(1), mt.GetMetricsFor("/mcp/tools", "analyze_file").TotalRequests)
	assert.Len(t, mt.GetMetrics(), 2)
}

func TestMetricsTrackerUnknownPair(t *testing.T) {
	mt := NewMetricsTracker()
	assert.Nil(t, mt.GetMetricsFor("/mcp/execute", "discover_files"))
	assert.Empty(t, mt.GetMetrics())
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	mt := NewMetricsTracker()
	mt.Track("/mcp/execute", "analyze_file", true, 5)

	snapshot := mt.GetMetricsFor("/mcp/execute", "analyze_file")
	snapshot.TotalRequests = 99

	assert.Equal(t, int64(1), mt.GetMetricsFor("/mcp/execute", "analyze_file").TotalRequests)
}
