package purge

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitPrometheusMetrics("bearobot", reg)

	m.RecordRun("success", 3*time.Second)
	m.RecordScan(ScanStats{Checked: 700, Matched: 9})
	m.RecordDeletion(BulkEligible, 8, 0)
	m.RecordDeletion(IndividualOnly, 0, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("success")))
	assert.Equal(t, 700.0, testutil.ToFloat64(m.checkedTotal))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.matchedTotal))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.deletedTotal.WithLabelValues("bulk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failedTotal.WithLabelValues("single")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["bearobot_purge_runs_total"])
	assert.True(t, names["bearobot_purge_run_duration_seconds"])
	assert.True(t, names["bearobot_purge_messages_deleted_total"])
}

func TestInitPrometheusMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	InitPrometheusMetrics("bearobot", reg)
	assert.Panics(t, func() { InitPrometheusMetrics("bearobot", reg) })
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRun("success", time.Second)
		m.RecordScan(ScanStats{Checked: 1})
		m.RecordDeletion(BulkEligible, 1, 0)
		m.runStarted()
		m.runFinished()
	})
}
