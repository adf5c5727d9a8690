package healthcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChecker struct {
	status  Status
	message string
	calls   int
}

func (s *stubChecker) Check(ctx context.Context) Check {
	s.calls++
	return Check{Status: s.status, Message: s.message, LastChecked: time.Now()}
}

func TestCheck_AllHealthy(t *testing.T) {
	hc := New("test", zap.NewNop())
	hc.Register("database", &stubChecker{status: StatusHealthy})
	hc.Register("redis", &stubChecker{status: StatusHealthy})

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Len(t, response.Checks, 2)
	assert.Equal(t, "test", response.Version)
}

func TestCheck_UnhealthyDominates(t *testing.T) {
	hc := New("test", zap.NewNop())
	hc.Register("database", &stubChecker{status: StatusHealthy})
	hc.Register("redis", &stubChecker{status: StatusUnhealthy, message: "connection refused"})

	response := hc.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, response.Status)
}

func TestCheck_DegradedDoesNotOverrideUnhealthy(t *testing.T) {
	hc := New("test", zap.NewNop())
	hc.Register("database", &stubChecker{status: StatusUnhealthy})
	hc.Register("redis", &stubChecker{status: StatusDegraded})

	response := hc.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, response.Status)
}

func TestCheck_CachesResponses(t *testing.T) {
	hc := New("test", zap.NewNop())
	checker := &stubChecker{status: StatusHealthy}
	hc.Register("database", checker)

	hc.Check(context.Background())
	hc.Check(context.Background())

	assert.Equal(t, 1, checker.calls)
}

func TestCheck_CacheExpires(t *testing.T) {
	hc := New("test", zap.NewNop())
	hc.SetCacheTTL(time.Nanosecond)
	checker := &stubChecker{status: StatusHealthy}
	hc.Register("database", checker)

	hc.Check(context.Background())
	time.Sleep(time.Millisecond)
	hc.Check(context.Background())

	assert.Equal(t, 2, checker.calls)
}

type failingPinger struct{ err error }

func (p failingPinger) HealthCheck(ctx context.Context) error { return p.err }

func TestDatabaseChecker(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		check := NewDatabaseChecker(failingPinger{}).Check(context.Background())
		require.Equal(t, StatusHealthy, check.Status)
	})

	t.Run("unhealthy", func(t *testing.T) {
		check := NewDatabaseChecker(failingPinger{err: errors.New("down")}).Check(context.Background())
		require.Equal(t, StatusUnhealthy, check.Status)
		assert.Equal(t, "down", check.Message)
	})
}
