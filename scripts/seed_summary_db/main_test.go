package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/garminreport/internal/db"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSummaryDB(filepath.Join(t.TempDir(), "seed.db"), false)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	if err := db.EnsureSummarySchema(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gdb
}

func TestSeedSummariesCoversEveryMonth(t *testing.T) {
	gdb := setupSeedTestDB(t)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	days, months, err := seedSummaries(gdb, end, 45)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if days != 45 || months != 3 {
		t.Fatalf("expected 45 days over 3 months, got %d and %d", days, months)
	}

	var first db.DaySummary
	if err := gdb.Where("day = ?", "2024-01-26").First(&first).Error; err != nil {
		t.Fatalf("expected first seeded day: %v", err)
	}
	var month db.MonthSummary
	if err := gdb.Where("first_day = ?", "2024-02-01").First(&month).Error; err != nil {
		t.Fatalf("expected february aggregate: %v", err)
	}
	if month.SleepAvg == nil || month.StressAvg == nil {
		t.Fatalf("expected aggregate metrics, got %+v", month)
	}
}

func TestSeedSummariesIsRepeatable(t *testing.T) {
	gdb := setupSeedTestDB(t)
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if _, _, err := seedSummaries(gdb, end, 10); err != nil {
			t.Fatalf("seed run %d failed: %v", i, err)
		}
	}

	var count int64
	gdb.Model(&db.DaySummary{}).Count(&count)
	if count != 10 {
		t.Fatalf("expected 10 day rows after re-seeding, got %d", count)
	}
}

func TestSeedSummariesRejectsNonPositiveDays(t *testing.T) {
	gdb := setupSeedTestDB(t)
	if _, _, err := seedSummaries(gdb, time.Now(), 0); err == nil {
		t.Fatal("expected error for zero days")
	}
}

func TestClockRoundTrip(t *testing.T) {
	if got := clockString(clockSeconds("7:05:09")); got != "7:05:09" {
		t.Fatalf("unexpected clock string %q", got)
	}
}
