package service

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const isoDateLayout = "2006-01-02"

// ReportWindow 描述一次日报所需的查询键，均为参考时区下的 ISO 日期。
type ReportWindow struct {
	// ReportDate 为生成日报当天的日期，用于邮件标题。
	ReportDate     time.Time
	Yesterday      string
	LastMonthStart string
}

// LoadReportLocation 解析日报使用的参考时区，时区名无效时直接返回错误。
func LoadReportLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("report timezone is empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load report timezone %q: %w", name, err)
	}
	return loc, nil
}

// ResolveReportWindow 在 loc 时区内计算“昨天”与“上个月第一天”。
// 按日历日期推算，不做 24 小时减法，避免夏令时切换导致错位。
func ResolveReportWindow(now time.Time, loc *time.Location) ReportWindow {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	year, month, day := local.Date()

	today := time.Date(year, month, day, 0, 0, 0, 0, loc)
	yesterday := time.Date(year, month, day-1, 0, 0, 0, 0, loc)
	lastMonth := time.Date(year, month-1, 1, 0, 0, 0, 0, loc)

	return ReportWindow{
		ReportDate:     today,
		Yesterday:      yesterday.Format(isoDateLayout),
		LastMonthStart: lastMonth.Format(isoDateLayout),
	}
}
