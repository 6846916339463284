package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkHealth(t *testing.T, h *HealthChecker) (int, HealthStatus) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return rec.Code, status
}

// TestHealthChecker_Disconnected tests that a fresh checker reports degraded
func TestHealthChecker_Disconnected(t *testing.T) {
	code, status := checkHealth(t, NewHealthChecker())

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.IsConnected)
}

// TestHealthChecker_Healthy tests the connected, error-free path
func TestHealthChecker_Healthy(t *testing.T) {
	h := NewHealthChecker()
	h.SetConnected(true)
	h.RecordWrite()

	code, status := checkHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.IsConnected)
	assert.False(t, status.LastWrite.IsZero())
}

// TestHealthChecker_Errors tests that recorded errors flip the status to unhealthy
func TestHealthChecker_Errors(t *testing.T) {
	h := NewHealthChecker()
	h.SetConnected(true)
	h.AddError("heartbeat write failed")

	code, status := checkHealth(t, h)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, []string{"heartbeat write failed"}, status.Errors)

	h.ClearErrors()
	code, status = checkHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
}

// TestHealthChecker_ErrorWindow tests that only the last 10 errors are kept
func TestHealthChecker_ErrorWindow(t *testing.T) {
	h := NewHealthChecker()
	h.SetConnected(true)

	for i := 0; i < 15; i++ {
		h.AddError("heartbeat write failed")
	}

	_, status := checkHealth(t, h)
	assert.Len(t, status.Errors, 10)
}
