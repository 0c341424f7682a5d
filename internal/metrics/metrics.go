// internal/metrics/metrics.go
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/javajoker/license-server/internal/models"
)

var (
	LicenseOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "license",
		Name:      "operations_total",
		Help:      "License lifecycle operations by outcome.",
	}, []string{"operation", "result"})

	LicenseOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "license",
		Name:      "operation_duration_seconds",
		Help:      "Time spent in license lifecycle operations, store round trips included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

var resultLabels = []models.LicenseError{
	models.ErrDatabase,
	models.ErrLicenseNotFound,
	models.ErrLicenseDoesNotExist,
	models.ErrLicenseNotActivated,
	models.ErrLicenseExpired,
	models.ErrLicenseAlreadyActive,
	models.ErrInvalidDuration,
}

// ResultLabel keeps the result label bounded to the error taxonomy.
func ResultLabel(err error) string {
	if err == nil {
		return "success"
	}
	for _, kind := range resultLabels {
		if errors.Is(err, kind) {
			return string(kind)
		}
	}
	return "unknown"
}

func ObserveOperation(operation string, start time.Time, err error) {
	LicenseOperations.WithLabelValues(operation, ResultLabel(err)).Inc()
	LicenseOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
