package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// 日报流水线的各个阶段，用于错误与日志上下文。
const (
	StageFetchDaily   = "fetch_daily"
	StageFetchMonthly = "fetch_monthly"
	StageFormat       = "format"
	StageNarrative    = "narrative"
	StageCompose      = "compose"
)

// StageError 标记失败发生在哪个阶段，发送阶段之前的错误都会导致整次请求失败。
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("report stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ReportResult 汇总一次日报运行的结果。
type ReportResult struct {
	RunID    string
	Window   ReportWindow
	Skipped  bool
	Dispatch DispatchResult
}

// ReportPreview 是未发送的日报内容。
type ReportPreview struct {
	RunID   string
	Window  ReportWindow
	Skipped bool
	Email   ComposedEmail
}

// ReportService 串联时间窗口、数据读取、格式化、叙述生成、邮件组装与发送。
type ReportService struct {
	repo       SummaryRepository
	narratives *NarrativeService
	dispatcher *EmailDispatcher
	location   *time.Location
	now        func() time.Time
	newRunID   func() string
}

// NewReportService 构造 ReportService。
func NewReportService(repo SummaryRepository, narratives *NarrativeService, dispatcher *EmailDispatcher, location *time.Location) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{
		repo:       repo,
		narratives: narratives,
		dispatcher: dispatcher,
		location:   location,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// SetClock 覆盖当前时间来源，主要用于测试。
func (s *ReportService) SetClock(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Run 顺序执行整条流水线。昨日无数据时直接返回且不调用任何远端服务；
// 发送失败只记录日志，不影响返回值。
func (s *ReportService) Run(ctx context.Context) (ReportResult, error) {
	runID := s.newRunID()
	window, email, skipped, err := s.prepare(ctx, runID)
	result := ReportResult{RunID: runID, Window: window, Skipped: skipped}
	if err != nil || skipped {
		return result, err
	}

	result.Dispatch = s.dispatcher.Dispatch(ctx, runID, email)
	if result.Dispatch.Err != nil {
		log.Printf("[REPORT %s] dispatch failed, report generated but not delivered", runID)
	}
	return result, nil
}

// Preview 生成日报但不发送，便于人工检查邮件内容。
func (s *ReportService) Preview(ctx context.Context) (ReportPreview, error) {
	runID := s.newRunID()
	window, email, skipped, err := s.prepare(ctx, runID)
	return ReportPreview{RunID: runID, Window: window, Skipped: skipped, Email: email}, err
}

func (s *ReportService) prepare(ctx context.Context, runID string) (ReportWindow, ComposedEmail, bool, error) {
	window := ResolveReportWindow(s.now(), s.location)
	log.Printf("[REPORT %s] previous date: %s, previous month: %s", runID, window.Yesterday, window.LastMonthStart)

	dayRow, err := s.repo.FetchDaily(ctx, window.Yesterday)
	if err != nil {
		return window, ComposedEmail{}, false, s.fail(runID, StageFetchDaily, err)
	}
	monthRow, err := s.repo.FetchMonthly(ctx, window.LastMonthStart)
	if err != nil {
		return window, ComposedEmail{}, false, s.fail(runID, StageFetchMonthly, err)
	}

	if dayRow == nil {
		log.Printf("[REPORT %s] no data available for the previous day", runID)
		return window, ComposedEmail{}, true, nil
	}
	if monthRow == nil {
		log.Printf("[REPORT %s] no data available for the previous month, comparison will use placeholders", runID)
	}

	day, err := FormatDaySummary(dayRow)
	if err != nil {
		return window, ComposedEmail{}, false, s.fail(runID, StageFormat, err)
	}
	month, err := FormatMonthSummary(monthRow)
	if err != nil {
		return window, ComposedEmail{}, false, s.fail(runID, StageFormat, err)
	}

	narrative, err := s.narratives.GenerateNarrative(ctx, NarrativeInput{RunID: runID, Day: day, Month: month})
	if err != nil {
		return window, ComposedEmail{}, false, s.fail(runID, StageNarrative, err)
	}

	email, err := ComposeEmail(narrative, day, month)
	if err != nil {
		return window, ComposedEmail{}, false, s.fail(runID, StageCompose, err)
	}
	return window, email, false, nil
}

func (s *ReportService) fail(runID, stage string, err error) error {
	log.Printf("[REPORT %s] stage %s failed: %v", runID, stage, err)
	return &StageError{Stage: stage, Err: err}
}
