package db

// DaySummary 对应外部同步程序写入的 days_summary 表，每个自然日一行。
// 数值列可能为空，因此使用指针类型，由格式化层决定如何处理缺失值。
type DaySummary struct {
	Day               CalendarDay `gorm:"column:day;primaryKey"`
	HRAvg             *float64    `gorm:"column:hr_avg"`
	HRMax             *float64    `gorm:"column:hr_max"`
	RHRAvg            *float64    `gorm:"column:rhr_avg"`
	InactiveHRAvg     *float64    `gorm:"column:inactive_hr_avg"`
	Steps             *int64      `gorm:"column:steps"`
	SleepAvg          *string     `gorm:"column:sleep_avg"`
	RemSleepAvg       *string     `gorm:"column:rem_sleep_avg"`
	StressAvg         *float64    `gorm:"column:stress_avg"`
	CaloriesActiveAvg *float64    `gorm:"column:calories_active_avg"`
}

// TableName 固定为外部数据库中的表名。
func (DaySummary) TableName() string {
	return "days_summary"
}

// MonthSummary 对应 months_summary 表，以每月第一天为键。
// 步数、最大心率与卡路里只在日表中聚合，这里没有对应列。
type MonthSummary struct {
	FirstDay      CalendarDay `gorm:"column:first_day;primaryKey"`
	HRAvg         *float64    `gorm:"column:hr_avg"`
	RHRAvg        *float64    `gorm:"column:rhr_avg"`
	InactiveHRAvg *float64    `gorm:"column:inactive_hr_avg"`
	SleepAvg      *string     `gorm:"column:sleep_avg"`
	RemSleepAvg   *string     `gorm:"column:rem_sleep_avg"`
	StressAvg     *float64    `gorm:"column:stress_avg"`
}

// TableName 固定为外部数据库中的表名。
func (MonthSummary) TableName() string {
	return "months_summary"
}
