package mssqlkit

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"
)

func TestPoolStatsFromSQL(t *testing.T) {
	stats := sql.DBStats{
		MaxOpenConnections: 25,
		OpenConnections:    4,
		InUse:              3,
		Idle:               1,
		WaitCount:          7,
		WaitDuration:       250 * time.Millisecond,
		MaxIdleClosed:      2,
		MaxIdleTimeClosed:  5,
		MaxLifetimeClosed:  9,
	}

	pool := PoolStatsFromSQL(stats)

	if pool.MaxOpenConnections != 25 {
		t.Errorf("Expected MaxOpenConnections 25, got %d", pool.MaxOpenConnections)
	}
	if pool.OpenConnections != 4 {
		t.Errorf("Expected OpenConnections 4, got %d", pool.OpenConnections)
	}
	if pool.InUse != 3 {
		t.Errorf("Expected InUse 3, got %d", pool.InUse)
	}
	if pool.Idle != 1 {
		t.Errorf("Expected Idle 1, got %d", pool.Idle)
	}
	if pool.WaitCount != 7 {
		t.Errorf("Expected WaitCount 7, got %d", pool.WaitCount)
	}
	if pool.WaitDuration != 250*time.Millisecond {
		t.Errorf("Expected WaitDuration 250ms, got %v", pool.WaitDuration)
	}
	if pool.MaxIdleClosed != 2 {
		t.Errorf("Expected MaxIdleClosed 2, got %d", pool.MaxIdleClosed)
	}
	if pool.MaxIdleTimeClosed != 5 {
		t.Errorf("Expected MaxIdleTimeClosed 5, got %d", pool.MaxIdleTimeClosed)
	}
	if pool.MaxLifetimeClosed != 9 {
		t.Errorf("Expected MaxLifetimeClosed 9, got %d", pool.MaxLifetimeClosed)
	}
}

func TestHealth_IsHealthy(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	ctx := context.Background()

	if !db.IsHealthy(ctx) {
		t.Error("Database should be healthy")
	}
}

func TestHealth_Health(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	ctx := context.Background()
	health := db.Health(ctx)

	if !health.Healthy {
		t.Errorf("Expected healthy status, got error: %s", health.Error)
	}
	if health.Latency <= 0 {
		t.Errorf("Expected positive latency, got %v", health.Latency)
	}
	if health.Error != "" {
		t.Errorf("Expected no error, got %s", health.Error)
	}

	// getTestDB opens the pool with MaxOpenConns 5.
	if health.PoolStats.MaxOpenConnections != 5 {
		t.Errorf("Expected MaxOpenConnections 5, got %d", health.PoolStats.MaxOpenConnections)
	}
	if health.PoolStats.OpenConnections < 0 {
		t.Errorf("Open connections should not be negative, got %d", health.PoolStats.OpenConnections)
	}
}

func TestHealth_Ping(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestHealth_Stats(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	stats := db.Stats()
	if stats.MaxOpenConnections != 5 {
		t.Errorf("Expected MaxOpenConnections 5, got %d", stats.MaxOpenConnections)
	}

	pool := PoolStatsFromSQL(stats)
	if pool.MaxOpenConnections != stats.MaxOpenConnections {
		t.Errorf("Pool stats should mirror sql.DBStats, got %d vs %d",
			pool.MaxOpenConnections, stats.MaxOpenConnections)
	}
}

func TestServerVersion(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	ctx := context.Background()
	version, err := db.ServerVersion(ctx)
	if err != nil {
		t.Fatalf("ServerVersion failed: %v", err)
	}
	if version == "" {
		t.Fatal("Expected a product version")
	}
	if !strings.Contains(version, ".") {
		t.Errorf("Expected dotted version string, got %s", version)
	}
}

func TestServerProperty(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	ctx := context.Background()

	edition, err := db.ServerProperty(ctx, "Edition")
	if err != nil {
		t.Fatalf("ServerProperty failed: %v", err)
	}
	if edition == "" {
		t.Error("Expected a non-empty edition")
	}

	// Unknown properties come back as NULL, not as an error.
	unknown, err := db.ServerProperty(ctx, "NoSuchProperty")
	if err != nil {
		t.Fatalf("ServerProperty failed: %v", err)
	}
	if unknown != "" {
		t.Errorf("Expected empty value for unknown property, got %s", unknown)
	}
}
