package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestHealthRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		checkers map[string]HealthChecker
		want     HealthStatus
	}{
		{name: "no checks", want: HealthStatusHealthy},
		{
			name:     "all healthy",
			checkers: map[string]HealthChecker{"database": PingChecker("database", true, ok)},
			want:     HealthStatusHealthy,
		},
		{
			name: "optional dependency down",
			checkers: map[string]HealthChecker{
				"database": PingChecker("database", true, ok),
				"redis":    PingChecker("redis", false, fail),
			},
			want: HealthStatusDegraded,
		},
		{
			name: "critical dependency down",
			checkers: map[string]HealthChecker{
				"database": PingChecker("database", true, fail),
				"redis":    PingChecker("redis", false, fail),
			},
			want: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewHealthRegistry()
			for name, c := range tt.checkers {
				r.Register(name, c)
			}
			results := r.Check(context.Background())
			assert.Len(t, results, len(tt.checkers))
			assert.Equal(t, tt.want, r.OverallStatus())
		})
	}
}

func TestHealthRegistry_Handler(t *testing.T) {
	r := NewHealthRegistry()
	r.Register("database", PingChecker("database", true, fail))
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body OverallHealth
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, HealthStatusUnhealthy, body.Status)
	assert.Contains(t, body.Checks["database"].Message, "connection refused")
}
