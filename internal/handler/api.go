package handler

import "github.com/garminreport/internal/service"

// API bundles shared dependencies for HTTP handlers.
type API struct {
	reports   reportRunner
	summaries summaryPinger
}

// NewAPI constructs a handler set from the assembled services.
func NewAPI(services *service.Services) *API {
	return &API{
		reports:   services.Reports,
		summaries: services.Summaries,
	}
}
