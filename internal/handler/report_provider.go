package handler

import (
	"context"

	"github.com/garminreport/internal/service"
)

type reportRunner interface {
	Run(ctx context.Context) (service.ReportResult, error)
	Preview(ctx context.Context) (service.ReportPreview, error)
}

type summaryPinger interface {
	Ping(ctx context.Context) error
}
