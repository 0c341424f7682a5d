package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/javajoker/license-server/internal/models"
)

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "success", ResultLabel(nil))
	assert.Equal(t, "license expired", ResultLabel(models.ErrLicenseExpired))
	assert.Equal(t, "database error", ResultLabel(fmt.Errorf("%w: find: %w", models.ErrDatabase, fmt.Errorf("timeout"))))
	assert.Equal(t, "unknown", ResultLabel(fmt.Errorf("something else")))
}

func TestObserveOperation(t *testing.T) {
	counter := LicenseOperations.WithLabelValues("test_op", "license not found")
	before := testutil.ToFloat64(counter)

	ObserveOperation("test_op", time.Now(), models.ErrLicenseNotFound)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
