package service

import (
	"testing"

	"github.com/garminreport/internal/config"
)

func TestNewServicesRejectsInvalidTimezone(t *testing.T) {
	if _, err := NewServices(config.AppConfig{ReportTimezone: "Nowhere/Atlantis"}); err == nil {
		t.Fatal("expected invalid timezone to fail fast")
	}
}

func TestNewServicesToleratesMissingCredentials(t *testing.T) {
	services, err := NewServices(config.AppConfig{ReportTimezone: "America/New_York"})
	if err != nil {
		t.Fatalf("missing credentials should not fail at startup: %v", err)
	}
	if services.Reports == nil || services.Summaries == nil {
		t.Fatalf("expected services to be constructed: %+v", services)
	}
}
