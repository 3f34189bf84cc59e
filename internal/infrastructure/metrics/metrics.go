// Package metrics exposes Prometheus instrumentation for record and course
// operations.
//
// A nil *Metrics is valid and records nothing, so callers never need to
// guard metric calls when metrics are disabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "records"

// Operation status label values.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusInvalid  = "invalid"
	StatusConflict = "conflict"
	StatusCycle    = "cycle"
	StatusError    = "error"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	// OperationsTotal counts operations by name and outcome.
	// Labels: operation (add_student, delete_student, ...), status.
	OperationsTotal *prometheus.CounterVec

	// StoreDuration measures store calls made by commands.
	// Labels: operation.
	StoreDuration *prometheus.HistogramVec

	// StudentsLive is the size of the record collection.
	StudentsLive prometheus.Gauge

	// UndoDepth is the number of reversible deletions on the undo log.
	UndoDepth prometheus.Gauge

	// Courses is the number of courses known to the course graph.
	Courses prometheus.Gauge
}

// New creates the collectors and registers them on reg.
// A nil reg registers on prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of record and course operations by outcome",
			},
			[]string{"operation", "status"},
		),
		StoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_duration_seconds",
				Help:      "Duration of persistence calls in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		),
		StudentsLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "students_live",
			Help:      "Number of student records currently held in memory",
		}),
		UndoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "undo_depth",
			Help:      "Number of deletions that can still be undone",
		}),
		Courses: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "courses",
			Help:      "Number of courses in the prerequisite graph",
		}),
	}
}

// RecordOperation increments the operation counter.
func (m *Metrics) RecordOperation(operation, status string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveStore records how long a store call took.
func (m *Metrics) ObserveStore(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.StoreDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetState publishes the current in-memory sizes.
func (m *Metrics) SetState(students, undoDepth, courses int) {
	if m == nil {
		return
	}
	m.StudentsLive.Set(float64(students))
	m.UndoDepth.Set(float64(undoDepth))
	m.Courses.Set(float64(courses))
}
