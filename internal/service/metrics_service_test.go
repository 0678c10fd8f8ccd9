package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *MetricsService, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := true
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					matched = false
				}
			}
			if matched {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetricsServiceRecordsPlanMutations(t *testing.T) {
	m := NewMetricsService()

	m.RecordPlanMutation("add_section", "success")
	m.RecordPlanMutation("add_section", "success")
	m.RecordPlanMutation("remove_section", "write_failure")

	assert.Equal(t, 2.0, counterValue(t, m, "plan_mutations_total", map[string]string{"operation": "add_section", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, m, "plan_mutations_total", map[string]string{"operation": "remove_section"}))
}

func TestMetricsServiceRecordsUpstreamAndCache(t *testing.T) {
	m := NewMetricsService()

	m.ObserveUpstreamRequest("catalog", "course", 204, 30*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m, "upstream_requests_total", map[string]string{"upstream": "catalog", "status": "204"}))
	assert.Equal(t, 1.0, counterValue(t, m, "cache_hits_total", nil))
	assert.Equal(t, 2.0, counterValue(t, m, "cache_misses_total", nil))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
		m.RecordPlanMutation("add_section", "success")
		m.RecordCacheOperation(true, time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}
