package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garminreport/internal/db"
)

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }
func stringPtr(v string) *string    { return &v }

func sampleDaySummary(day string) db.DaySummary {
	return db.DaySummary{
		Day:               db.CalendarDay(day),
		HRAvg:             float64Ptr(61.25),
		HRMax:             float64Ptr(152),
		RHRAvg:            float64Ptr(48.04),
		InactiveHRAvg:     float64Ptr(55.56),
		Steps:             int64Ptr(12345),
		SleepAvg:          stringPtr("7:32:00"),
		RemSleepAvg:       stringPtr("1:05:00"),
		StressAvg:         float64Ptr(25),
		CaloriesActiveAvg: float64Ptr(512.5),
	}
}

func sampleMonthSummary(firstDay string) db.MonthSummary {
	return db.MonthSummary{
		FirstDay:      db.CalendarDay(firstDay),
		HRAvg:         float64Ptr(63.4),
		RHRAvg:        float64Ptr(49.21),
		InactiveHRAvg: float64Ptr(57),
		SleepAvg:      stringPtr("7:05:00"),
		RemSleepAvg:   stringPtr("1:22:00"),
		StressAvg:     float64Ptr(28.36),
	}
}

func setupSummaryRepositoryTestDB(t *testing.T, days []db.DaySummary, months []db.MonthSummary) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "garmin_summary.db")
	gdb, err := db.OpenSummaryDB(path, false)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer db.Close(gdb)

	if err := db.EnsureSummarySchema(gdb); err != nil {
		t.Fatalf("failed to migrate summary tables: %v", err)
	}
	for i := range days {
		if err := gdb.Create(&days[i]).Error; err != nil {
			t.Fatalf("failed to seed day: %v", err)
		}
	}
	for i := range months {
		if err := gdb.Create(&months[i]).Error; err != nil {
			t.Fatalf("failed to seed month: %v", err)
		}
	}
	return path
}

func TestGarminSummaryRepositoryFetch(t *testing.T) {
	path := setupSummaryRepositoryTestDB(t,
		[]db.DaySummary{sampleDaySummary("2024-02-29")},
		[]db.MonthSummary{sampleMonthSummary("2024-02-01")},
	)
	repo := NewGarminSummaryRepository(path)
	ctx := context.Background()

	day, err := repo.FetchDaily(ctx, "2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day == nil || day.Steps == nil || *day.Steps != 12345 {
		t.Fatalf("unexpected day row: %+v", day)
	}

	month, err := repo.FetchMonthly(ctx, "2024-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if month == nil || month.SleepAvg == nil || *month.SleepAvg != "7:05:00" {
		t.Fatalf("unexpected month row: %+v", month)
	}
}

func TestGarminSummaryRepositoryMissingRowIsNotAnError(t *testing.T) {
	path := setupSummaryRepositoryTestDB(t, nil, nil)
	repo := NewGarminSummaryRepository(path)

	day, err := repo.FetchDaily(context.Background(), "2024-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != nil {
		t.Fatalf("expected nil row, got %+v", day)
	}

	month, err := repo.FetchMonthly(context.Background(), "2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if month != nil {
		t.Fatalf("expected nil row, got %+v", month)
	}
}

func TestGarminSummaryRepositorySurfacesOpenErrors(t *testing.T) {
	repo := NewGarminSummaryRepository(filepath.Join(t.TempDir(), "absent.db"))

	_, err := repo.FetchDaily(context.Background(), "2024-02-29")
	if !errors.Is(err, db.ErrSummaryDBNotFound) {
		t.Fatalf("expected ErrSummaryDBNotFound, got %v", err)
	}

	if err := repo.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail for missing database")
	}
}

func TestGarminSummaryRepositoryMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	gdb, err := db.OpenSummaryDB(path, false)
	if err != nil {
		t.Fatalf("failed to create empty database: %v", err)
	}
	if err := gdb.Exec("CREATE TABLE unrelated (id INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	db.Close(gdb)

	repo := NewGarminSummaryRepository(path)
	if _, err := repo.FetchDaily(context.Background(), "2024-02-29"); err == nil {
		t.Fatal("expected error when days_summary table is missing")
	}
}

func TestGarminSummaryRepositoryReadsDateColumnsAsISODay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garmin_summary.db")
	gdb, err := db.OpenSummaryDB(path, false)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE days_summary (day DATE NOT NULL PRIMARY KEY, hr_avg FLOAT, hr_max FLOAT, rhr_avg FLOAT, inactive_hr_avg FLOAT, steps INTEGER, sleep_avg TIME, rem_sleep_avg TIME, stress_avg FLOAT, calories_active_avg FLOAT)`,
		`CREATE TABLE months_summary (first_day DATE NOT NULL PRIMARY KEY, hr_avg FLOAT, rhr_avg FLOAT, inactive_hr_avg FLOAT, sleep_avg TIME, rem_sleep_avg TIME, stress_avg FLOAT)`,
		`INSERT INTO days_summary VALUES ('2024-02-29', 61.25, 152, 48.04, 55.56, 12345, '07:32:00.000000', '01:05:00.000000', 25, 512.5)`,
		`INSERT INTO months_summary VALUES ('2024-02-01', 63.4, 49.21, 57, '07:05:00.000000', '01:22:00.000000', 28.36)`,
	} {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to prepare schema: %v", err)
		}
	}
	db.Close(gdb)

	repo := NewGarminSummaryRepository(path)
	ctx := context.Background()

	dayRow, err := repo.FetchDaily(ctx, "2024-02-29")
	if err != nil || dayRow == nil {
		t.Fatalf("expected day row, got %+v, %v", dayRow, err)
	}
	if dayRow.Day != "2024-02-29" {
		t.Fatalf("expected ISO day, got %q", dayRow.Day)
	}

	day, err := FormatDaySummary(dayRow)
	if err != nil {
		t.Fatalf("unexpected format error: %v", err)
	}
	if first := strings.SplitN(day.Summary, "\n", 2)[0]; first != "Date: 2024-02-29" {
		t.Fatalf("unexpected first summary line %q", first)
	}
	if got, _ := day.Value(MetricSleepAvg); got != "7hr 32min" {
		t.Fatalf("unexpected sleep value %q", got)
	}

	monthRow, err := repo.FetchMonthly(ctx, "2024-02-01")
	if err != nil || monthRow == nil {
		t.Fatalf("expected month row, got %+v, %v", monthRow, err)
	}
	if monthRow.FirstDay != "2024-02-01" {
		t.Fatalf("expected ISO first day, got %q", monthRow.FirstDay)
	}
}
