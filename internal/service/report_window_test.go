package service

import (
	"testing"
	"time"
)

func TestResolveReportWindow(t *testing.T) {
	loc, err := LoadReportLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	tests := []struct {
		name          string
		now           time.Time
		wantYesterday string
		wantMonth     string
	}{
		{
			name:          "leap day boundary",
			now:           time.Date(2024, 3, 1, 0, 30, 0, 0, loc),
			wantYesterday: "2024-02-29",
			wantMonth:     "2024-02-01",
		},
		{
			name:          "year rollover",
			now:           time.Date(2025, 1, 1, 8, 0, 0, 0, loc),
			wantYesterday: "2024-12-31",
			wantMonth:     "2024-12-01",
		},
		{
			name:          "utc instant still before local midnight",
			now:           time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC),
			wantYesterday: "2024-02-28",
			wantMonth:     "2024-01-01",
		},
		{
			name:          "end of long month",
			now:           time.Date(2024, 3, 31, 12, 0, 0, 0, loc),
			wantYesterday: "2024-03-30",
			wantMonth:     "2024-02-01",
		},
		{
			name:          "day after dst change",
			now:           time.Date(2024, 3, 11, 0, 15, 0, 0, loc),
			wantYesterday: "2024-03-10",
			wantMonth:     "2024-02-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveReportWindow(tt.now, loc)
			if got.Yesterday != tt.wantYesterday {
				t.Fatalf("expected yesterday %s, got %s", tt.wantYesterday, got.Yesterday)
			}
			if got.LastMonthStart != tt.wantMonth {
				t.Fatalf("expected last month %s, got %s", tt.wantMonth, got.LastMonthStart)
			}
		})
	}
}

func TestLoadReportLocationRejectsUnknownZone(t *testing.T) {
	if _, err := LoadReportLocation("Mars/Olympus_Mons"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if _, err := LoadReportLocation(""); err == nil {
		t.Fatal("expected error for empty timezone")
	}
}
