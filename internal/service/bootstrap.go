package service

import (
	"log"

	"github.com/garminreport/internal/config"
)

// Services 汇总由配置构建出的服务实例。
type Services struct {
	Summaries *GarminSummaryRepository
	Reports   *ReportService
}

// NewServices 按配置组装日报流水线。只有时区无效会立即失败，
// 缺失的 API Key 与数据库路径会在首次调用时报错。
func NewServices(cfg config.AppConfig) (*Services, error) {
	loc, err := LoadReportLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, err
	}

	summaries := NewGarminSummaryRepository(cfg.SummaryDBPath())
	completion := NewOpenAIChatClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	var provider EmailProvider
	mailgunProvider, providerErr := NewMailgunProvider(cfg.FromEmailDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase)
	if providerErr != nil {
		log.Printf("[MAIL] provider unavailable, emails will not be sent: %v", providerErr)
	} else {
		provider = mailgunProvider
	}

	dispatcher := NewEmailDispatcher(provider, providerErr, DispatcherConfig{
		FromName:  cfg.FromName,
		FromEmail: cfg.FromEmail,
		To:        cfg.ToEmail,
		Location:  loc,
	})

	return &Services{
		Summaries: summaries,
		Reports:   NewReportService(summaries, NewNarrativeService(completion), dispatcher, loc),
	}, nil
}
