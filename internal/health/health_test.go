package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftfinder/internal/database"
)

func okCheck(name string) Check {
	return Check{Name: name, Fn: func(context.Context) error { return nil }}
}

func setupRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(svc))
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealth_AllChecksPass(t *testing.T) {
	svc := NewService(nil, "1.2.3", okCheck("database"), okCheck("redis"))
	rr := get(setupRouter(svc), "/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, StatusOK, report.Status)
	assert.Equal(t, "1.2.3", report.Version)
	assert.Len(t, report.Checks, 2)
	assert.Equal(t, StatusOK, report.Checks["redis"].Status)
}

func TestHealth_DegradedWhenCheckFails(t *testing.T) {
	failing := Check{Name: "redis", Fn: func(context.Context) error { return errors.New("connection refused") }}
	svc := NewService(nil, "dev", okCheck("database"), failing)

	rr := get(setupRouter(svc), "/health")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, StatusError, report.Checks["redis"].Status)
	assert.Equal(t, "connection refused", report.Checks["redis"].Error)
	assert.Equal(t, StatusOK, report.Checks["database"].Status)
}

func TestHealth_ChecksRunConcurrently(t *testing.T) {
	var running, peak atomic.Int32
	slow := func(name string) Check {
		return Check{Name: name, Fn: func(ctx context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			running.Add(-1)
			return nil
		}}
	}
	svc := NewService(nil, "dev", slow("a"), slow("b"), slow("c"))

	report := svc.Health(context.Background())
	assert.Equal(t, StatusOK, report.Status)
	assert.Greater(t, peak.Load(), int32(1))
}

func TestHealth_CheckTimeout(t *testing.T) {
	blocking := Check{Name: "storage", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	svc := NewService(nil, "dev", blocking)
	svc.timeout = 20 * time.Millisecond

	report := svc.Health(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Contains(t, report.Checks["storage"].Error, "deadline")
}

func TestReadyFollowsDatabase(t *testing.T) {
	db, err := database.Connect("file:health_ready?mode=memory&cache=shared", database.Options{})
	require.NoError(t, err)

	svc := NewService(db, "dev", DatabaseCheck(db))
	r := setupRouter(svc)

	rr := get(r, "/health/ready")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rr.Body.String())

	require.NoError(t, database.Close(db))
	rr = get(r, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "not_ready")

	rr = get(r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestLiveAndMetrics(t *testing.T) {
	db, err := database.Connect("file:health_metrics?mode=memory&cache=shared", database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	r := setupRouter(NewService(db, "dev"))

	rr := get(r, "/health/live")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"alive"`)

	rr = get(r, "/health/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	var m RuntimeMetrics
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Positive(t, m.Goroutines)
	assert.NotZero(t, m.Memory.SysBytes)
	require.NotNil(t, m.Database)

	rr = get(r, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestCheckNames(t *testing.T) {
	svc := NewService(nil, "dev", okCheck("storage"), okCheck("database"))
	assert.Equal(t, []string{"database", "storage"}, svc.CheckNames())
}
