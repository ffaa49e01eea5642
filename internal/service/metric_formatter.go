package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/garminreport/internal/db"
	"github.com/shopspring/decimal"
)

// 指标键，顺序即邮件表格与纯文本摘要的展示顺序。
const (
	MetricHRAvg             = "hr_avg"
	MetricHRMax             = "hr_max"
	MetricRHRAvg            = "rhr_avg"
	MetricInactiveHRAvg     = "inactive_hr_avg"
	MetricSteps             = "steps"
	MetricSleepAvg          = "sleep_avg"
	MetricRemSleepAvg       = "rem_sleep_avg"
	MetricStressAvg         = "stress_avg"
	MetricCaloriesActiveAvg = "calories_active_avg"
)

var metricLabels = map[string]string{
	MetricHRAvg:             "Avg. Heart Rate",
	MetricHRMax:             "Max. Heart Rate",
	MetricRHRAvg:            "Resting Heart Rate",
	MetricInactiveHRAvg:     "Inactive Heart Rate",
	MetricSteps:             "Steps",
	MetricSleepAvg:          "Sleep",
	MetricRemSleepAvg:       "REM Sleep",
	MetricStressAvg:         "Stress",
	MetricCaloriesActiveAvg: "Active Calories",
}

const noMonthlyDataSummary = "No data available for last month."

// MetricLabel 返回指标的展示名称，未知键原样返回。
func MetricLabel(key string) string {
	if label, ok := metricLabels[key]; ok {
		return label
	}
	return key
}

// FormattedMetrics 是汇总行的可读视图，只在一次日报生成过程中使用。
type FormattedMetrics struct {
	Date    string
	Keys    []string
	Values  map[string]string
	Summary string
}

// Value 返回指定指标的展示值。
func (m FormattedMetrics) Value(key string) (string, bool) {
	value, ok := m.Values[key]
	return value, ok
}

// MetricFormatError 表示某个字段缺失或无法解析，整份日报随之失败。
type MetricFormatError struct {
	Field string
	Err   error
}

func (e *MetricFormatError) Error() string {
	return fmt.Sprintf("format metric %s: %v", e.Field, e.Err)
}

func (e *MetricFormatError) Unwrap() error {
	return e.Err
}

var errMetricMissing = errors.New("value is missing")

// FormatTimeString 将 "H:MM" 或 "H:MM:SS" 转为 "{H}hr {M}min"，不补零也不四舍五入。
func FormatTimeString(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid duration %q", value)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", fmt.Errorf("invalid hours in %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("invalid minutes in %q: %w", value, err)
	}
	return fmt.Sprintf("%dhr %dmin", hours, minutes), nil
}

// RoundOneDecimal 保留一位小数并去掉多余的 0，例如 61.25 -> "61.3"，48.0 -> "48"。
func RoundOneDecimal(value float64) string {
	return decimal.NewFromFloat(value).Round(1).String()
}

type metricsBuilder struct {
	metrics FormattedMetrics
	lines   []string
	err     error
}

func newMetricsBuilder(date string) *metricsBuilder {
	b := &metricsBuilder{metrics: FormattedMetrics{Date: date, Values: map[string]string{}}}
	if date != "" {
		b.lines = append(b.lines, "Date: "+date)
	}
	return b
}

func (b *metricsBuilder) add(key, value string) {
	b.metrics.Keys = append(b.metrics.Keys, key)
	b.metrics.Values[key] = value
	b.lines = append(b.lines, MetricLabel(key)+": "+value)
}

func (b *metricsBuilder) fail(key string, err error) {
	if b.err == nil {
		b.err = &MetricFormatError{Field: key, Err: err}
	}
}

func (b *metricsBuilder) heartRate(key string, value *float64) {
	if value == nil {
		b.fail(key, errMetricMissing)
		return
	}
	b.add(key, RoundOneDecimal(*value)+" bpm")
}

func (b *metricsBuilder) duration(key string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		b.fail(key, errMetricMissing)
		return
	}
	formatted, err := FormatTimeString(*value)
	if err != nil {
		b.fail(key, err)
		return
	}
	b.add(key, formatted)
}

func (b *metricsBuilder) stress(value *float64) {
	if value == nil {
		b.fail(MetricStressAvg, errMetricMissing)
		return
	}
	b.add(MetricStressAvg, decimal.NewFromFloat(*value).StringFixed(1))
}

func (b *metricsBuilder) build() (FormattedMetrics, error) {
	if b.err != nil {
		return FormattedMetrics{}, b.err
	}
	b.metrics.Summary = strings.Join(b.lines, "\n")
	return b.metrics, nil
}

// FormatDaySummary 将日汇总转换为展示值与纯文本摘要，纯函数。
func FormatDaySummary(row *db.DaySummary) (FormattedMetrics, error) {
	if row == nil {
		return FormattedMetrics{}, &MetricFormatError{Field: "day", Err: errMetricMissing}
	}

	b := newMetricsBuilder(row.Day.String())
	b.heartRate(MetricHRAvg, row.HRAvg)
	b.heartRate(MetricHRMax, row.HRMax)
	b.heartRate(MetricRHRAvg, row.RHRAvg)
	b.heartRate(MetricInactiveHRAvg, row.InactiveHRAvg)
	if row.Steps == nil {
		b.fail(MetricSteps, errMetricMissing)
	} else {
		b.add(MetricSteps, strconv.FormatInt(*row.Steps, 10))
	}
	b.duration(MetricSleepAvg, row.SleepAvg)
	b.duration(MetricRemSleepAvg, row.RemSleepAvg)
	b.stress(row.StressAvg)
	if row.CaloriesActiveAvg == nil {
		b.fail(MetricCaloriesActiveAvg, errMetricMissing)
	} else {
		b.add(MetricCaloriesActiveAvg, decimal.NewFromFloat(*row.CaloriesActiveAvg).String())
	}
	return b.build()
}

// FormatMonthSummary 将月汇总转换为展示值。row 为空时返回不含指标的结果，
// 邮件表格会用占位符补齐。
func FormatMonthSummary(row *db.MonthSummary) (FormattedMetrics, error) {
	if row == nil {
		return FormattedMetrics{Values: map[string]string{}, Summary: noMonthlyDataSummary}, nil
	}

	b := newMetricsBuilder("")
	b.heartRate(MetricHRAvg, row.HRAvg)
	b.heartRate(MetricRHRAvg, row.RHRAvg)
	b.heartRate(MetricInactiveHRAvg, row.InactiveHRAvg)
	b.duration(MetricSleepAvg, row.SleepAvg)
	b.duration(MetricRemSleepAvg, row.RemSleepAvg)
	b.stress(row.StressAvg)
	metrics, err := b.build()
	if err != nil {
		return FormattedMetrics{}, err
	}
	metrics.Date = row.FirstDay.String()
	return metrics, nil
}
