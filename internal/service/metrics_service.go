package service

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

const (
	resultOK      = "ok"
	resultSkipped = "skipped"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for the CLI.
// A nil *MetricsService is valid and records nothing.
type MetricsService struct {
	registry          *prometheus.Registry
	operationTotal    *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	blobOperations    *prometheus.CounterVec
	cleanupFailures   prometheus.Counter

	operationCount   uint64
	operationFailed  uint64
	operationSkipped uint64
	blobPutCount     uint64
	blobDeleteCount  uint64
	cleanupFailCount uint64

	mu          sync.Mutex
	byOperation map[string]uint64
}

// NewMetricsService registers the core collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	operationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_operations_total",
		Help: "Total number of core operations by name and result",
	}, []string{"operation", "result"})

	operationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classroom_operation_duration_seconds",
		Help:    "Duration of core operations in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	blobOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_blob_operations_total",
		Help: "Blob store puts and deletes by result",
	}, []string{"op", "result"})

	cleanupFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "classroom_cleanup_failures_total",
		Help: "Blob releases that failed on the cleanup path",
	})

	registry.MustRegister(operationTotal, operationDuration, blobOperations, cleanupFailures)

	return &MetricsService{
		registry:          registry,
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		blobOperations:    blobOperations,
		cleanupFailures:   cleanupFailures,
		byOperation:       make(map[string]uint64),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveOperation records an operation outcome. skipped marks a silent no-op.
func (m *MetricsService) ObserveOperation(name string, err error, skipped bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := resultLabel(err)
	if skipped {
		result = resultSkipped
		atomic.AddUint64(&m.operationSkipped, 1)
	}
	if err != nil {
		atomic.AddUint64(&m.operationFailed, 1)
	}
	m.operationTotal.WithLabelValues(name, result).Inc()
	m.operationDuration.WithLabelValues(name).Observe(duration.Seconds())
	atomic.AddUint64(&m.operationCount, 1)

	m.mu.Lock()
	m.byOperation[name]++
	m.mu.Unlock()
}

// RecordBlobOperation counts one put or delete against the blob store.
func (m *MetricsService) RecordBlobOperation(op string, err error) {
	if m == nil {
		return
	}
	m.blobOperations.WithLabelValues(op, resultLabel(err)).Inc()
	if err != nil {
		return
	}
	switch op {
	case "put":
		atomic.AddUint64(&m.blobPutCount, 1)
	case "delete":
		atomic.AddUint64(&m.blobDeleteCount, 1)
	}
}

// RecordCleanupFailure counts a swallowed cleanup-path failure.
func (m *MetricsService) RecordCleanupFailure() {
	if m == nil {
		return
	}
	m.cleanupFailures.Inc()
	atomic.AddUint64(&m.cleanupFailCount, 1)
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() models.OperationMetrics {
	if m == nil {
		return models.OperationMetrics{ByOperation: map[string]uint64{}}
	}
	m.mu.Lock()
	byOperation := make(map[string]uint64, len(m.byOperation))
	for k, v := range m.byOperation {
		byOperation[k] = v
	}
	m.mu.Unlock()

	return models.OperationMetrics{
		OperationsTotal:   atomic.LoadUint64(&m.operationCount),
		OperationFailures: atomic.LoadUint64(&m.operationFailed),
		OperationsSkipped: atomic.LoadUint64(&m.operationSkipped),
		ByOperation:       byOperation,
		BlobPuts:          atomic.LoadUint64(&m.blobPutCount),
		BlobDeletes:       atomic.LoadUint64(&m.blobDeleteCount),
		CleanupFailures:   atomic.LoadUint64(&m.cleanupFailCount),
		GeneratedAt:       time.Now().UTC(),
	}
}

func resultLabel(err error) string {
	if err == nil {
		return resultOK
	}
	return strings.ToLower(appErrors.FromError(err).Code)
}
