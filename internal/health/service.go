// Package health reports liveness, readiness and dependency status.
package health

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"giftfinder/internal/database"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusError    = "error"

	defaultCheckTimeout = 2 * time.Second
)

// Check is a named dependency check.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

func DatabaseCheck(db *gorm.DB) Check {
	return Check{Name: "database", Fn: func(ctx context.Context) error { return database.Ping(ctx, db) }}
}

func RedisCheck(client *redis.Client) Check {
	return Check{Name: "redis", Fn: func(ctx context.Context) error { return client.Ping(ctx).Err() }}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func StorageCheck(store pinger) Check {
	return Check{Name: "storage", Fn: store.Ping}
}

type CheckResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

type Report struct {
	Status        string                 `json:"status"`
	Version       string                 `json:"version"`
	UptimeSeconds int64                  `json:"uptimeSeconds"`
	Timestamp     time.Time              `json:"timestamp"`
	Checks        map[string]CheckResult `json:"checks"`
}

type MemoryStats struct {
	AllocBytes     uint64 `json:"alloc"`
	SysBytes       uint64 `json:"sys"`
	HeapInuseBytes uint64 `json:"heapInuse"`
	NumGC          uint32 `json:"numGC"`
}

type PoolStats struct {
	Open           int   `json:"open"`
	InUse          int   `json:"inUse"`
	Idle           int   `json:"idle"`
	WaitCount      int64 `json:"waitCount"`
	WaitDurationMs int64 `json:"waitDurationMs"`
}

type RuntimeMetrics struct {
	UptimeSeconds int64       `json:"uptimeSeconds"`
	Goroutines    int         `json:"goroutines"`
	GoVersion     string      `json:"goVersion"`
	Memory        MemoryStats `json:"memory"`
	Database      *PoolStats  `json:"database,omitempty"`
}

// Service runs the registered checks. The database check, when present,
// also decides readiness.
type Service struct {
	db      *gorm.DB
	checks  []Check
	version string
	started time.Time
	timeout time.Duration
	nowFn   func() time.Time
}

func NewService(db *gorm.DB, version string, checks ...Check) *Service {
	return &Service{
		db:      db,
		checks:  checks,
		version: version,
		started: time.Now(),
		timeout: defaultCheckTimeout,
		nowFn:   time.Now,
	}
}

// Health runs every check concurrently and reports degraded if any fails.
func (s *Service) Health(ctx context.Context) Report {
	results := make([]CheckResult, len(s.checks))

	var g errgroup.Group
	for i, check := range s.checks {
		i, check := i, check
		g.Go(func() error {
			results[i] = s.run(ctx, check)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Status:        StatusOK,
		Version:       s.version,
		UptimeSeconds: s.uptime(),
		Timestamp:     s.nowFn().UTC(),
		Checks:        make(map[string]CheckResult, len(s.checks)),
	}
	for i, check := range s.checks {
		report.Checks[check.Name] = results[i]
		if results[i].Status != StatusOK {
			report.Status = StatusDegraded
		}
	}
	return report
}

// Ready reports whether the database answers.
func (s *Service) Ready(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return database.Ping(ctx, s.db)
}

func (s *Service) Uptime() int64 { return s.uptime() }

func (s *Service) Metrics() RuntimeMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	out := RuntimeMetrics{
		UptimeSeconds: s.uptime(),
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
		Memory: MemoryStats{
			AllocBytes:     mem.Alloc,
			SysBytes:       mem.Sys,
			HeapInuseBytes: mem.HeapInuse,
			NumGC:          mem.NumGC,
		},
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			st := sqlDB.Stats()
			out.Database = &PoolStats{
				Open:           st.OpenConnections,
				InUse:          st.InUse,
				Idle:           st.Idle,
				WaitCount:      st.WaitCount,
				WaitDurationMs: st.WaitDuration.Milliseconds(),
			}
		}
	}
	return out
}

// CheckNames lists the registered checks in name order.
func (s *Service) CheckNames() []string {
	names := make([]string, 0, len(s.checks))
	for _, c := range s.checks {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) run(ctx context.Context, check Check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := check.Fn(ctx)
	res := CheckResult{Status: StatusOK, LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
	}
	return res
}

func (s *Service) uptime() int64 {
	return int64(s.nowFn().Sub(s.started).Seconds())
}
