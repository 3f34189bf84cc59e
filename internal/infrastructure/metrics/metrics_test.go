package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordOperation("add_student", StatusSuccess)
	m.RecordOperation("add_student", StatusSuccess)
	m.RecordOperation("delete_student", StatusNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("add_student", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("delete_student", StatusNotFound)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.OperationsTotal))
}

func TestSetState(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetState(3, 1, 4)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.StudentsLive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UndoDepth))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Courses))
}

func TestObserveStore(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveStore("put_student", 2*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.StoreDuration))
}

func TestRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "records_students_live")
	assert.Contains(t, names, "records_undo_depth")

	assert.Panics(t, func() { New(reg) }, "duplicate registration must fail")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOperation("add_student", StatusSuccess)
		m.ObserveStore("put_student", time.Millisecond)
		m.SetState(1, 1, 1)
	})
}
