package main

import (
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/garminreport/internal/config"
	"github.com/garminreport/internal/db"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dayLayout = "2006-01-02"

// 生成本地调试用的 garmin_summary.db
func main() {
	cfg := config.Load()

	dir := pflag.String("dir", cfg.SummaryDBDir, "directory for garmin_summary.db")
	days := pflag.Int("days", 60, "number of days to seed, ending at --end")
	end := pflag.String("end", "", "last seeded day (YYYY-MM-DD), defaults to yesterday in REPORT_TIMEZONE")
	pflag.Parse()

	if *dir == "" {
		*dir = "."
	}

	endDay, err := resolveEndDay(*end, cfg.ReportTimezone)
	if err != nil {
		log.Fatalf("无效的结束日期: %v", err)
	}

	path := config.AppConfig{SummaryDBDir: *dir}.SummaryDBPath()
	gdb, err := db.OpenSummaryDB(path, false)
	if err != nil {
		log.Fatalf("数据库打开失败: %v", err)
	}
	defer db.Close(gdb)

	if err := db.EnsureSummarySchema(gdb); err != nil {
		log.Fatalf("建表失败: %v", err)
	}

	dayCount, monthCount, err := seedSummaries(gdb, endDay, *days)
	if err != nil {
		log.Fatalf("写入测试数据失败: %v", err)
	}

	fmt.Fprintf(os.Stdout, "已写入 %d 条日数据、%d 条月数据: %s\n", dayCount, monthCount, path)
}

func resolveEndDay(raw, timezone string) (time.Time, error) {
	if raw != "" {
		return time.Parse(dayLayout, raw)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC), nil
}

// seedSummaries 写入以 endDay 结尾的 n 天日数据，并按月聚合出月数据。
// 已存在的行会被覆盖，脚本可重复执行。
func seedSummaries(gdb *gorm.DB, endDay time.Time, n int) (int, int, error) {
	if n <= 0 {
		return 0, 0, fmt.Errorf("days must be positive, got %d", n)
	}

	start := endDay.AddDate(0, 0, -(n - 1))
	dayRows := make([]db.DaySummary, 0, n)
	byMonth := make(map[string][]db.DaySummary)
	var monthOrder []string

	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		row := sampleDay(day, i)
		dayRows = append(dayRows, row)

		key := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dayLayout)
		if _, ok := byMonth[key]; !ok {
			monthOrder = append(monthOrder, key)
		}
		byMonth[key] = append(byMonth[key], row)
	}

	monthRows := make([]db.MonthSummary, 0, len(monthOrder))
	for _, key := range monthOrder {
		monthRows = append(monthRows, aggregateMonth(key, byMonth[key]))
	}

	err := gdb.Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})
		if err := upsert.Create(&dayRows).Error; err != nil {
			return err
		}
		return upsert.Create(&monthRows).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return len(dayRows), len(monthRows), nil
}

// sampleDay 按序号生成确定性的波动数据
func sampleDay(day time.Time, i int) db.DaySummary {
	wave := float64(i%7) - 3

	hr := round2(62 + wave*1.25)
	hrMax := float64(140 + (i*13)%35)
	rhr := round2(49 + wave*0.5)
	inactive := round2(56 + wave*0.75)
	steps := int64(8000 + (i*977)%7000)
	sleep := clockString(6*3600 + ((i*37)%120)*60)
	rem := clockString(3600 + ((i*11)%45)*60)
	stress := float64(20 + (i*5)%18)
	calories := round2(350 + float64((i*53)%400) + 0.5)

	return db.DaySummary{
		Day:               db.CalendarDay(day.Format(dayLayout)),
		HRAvg:             &hr,
		HRMax:             &hrMax,
		RHRAvg:            &rhr,
		InactiveHRAvg:     &inactive,
		Steps:             &steps,
		SleepAvg:          &sleep,
		RemSleepAvg:       &rem,
		StressAvg:         &stress,
		CaloriesActiveAvg: &calories,
	}
}

func aggregateMonth(firstDay string, rows []db.DaySummary) db.MonthSummary {
	var hr, rhr, inactive, stress decimal.Decimal
	var sleepSecs, remSecs int

	for _, row := range rows {
		hr = hr.Add(decimal.NewFromFloat(*row.HRAvg))
		rhr = rhr.Add(decimal.NewFromFloat(*row.RHRAvg))
		inactive = inactive.Add(decimal.NewFromFloat(*row.InactiveHRAvg))
		stress = stress.Add(decimal.NewFromFloat(*row.StressAvg))
		sleepSecs += clockSeconds(*row.SleepAvg)
		remSecs += clockSeconds(*row.RemSleepAvg)
	}

	count := decimal.NewFromInt(int64(len(rows)))
	avg := func(sum decimal.Decimal) *float64 {
		v, _ := sum.DivRound(count, 2).Float64()
		return &v
	}
	sleep := clockString(sleepSecs / len(rows))
	rem := clockString(remSecs / len(rows))

	return db.MonthSummary{
		FirstDay:      db.CalendarDay(firstDay),
		HRAvg:         avg(hr),
		RHRAvg:        avg(rhr),
		InactiveHRAvg: avg(inactive),
		SleepAvg:      &sleep,
		RemSleepAvg:   &rem,
		StressAvg:     avg(stress),
	}
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func clockString(secs int) string {
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

func clockSeconds(s string) int {
	var h, m, sec int
	_, _ = fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec)
	return h*3600 + m*60 + sec
}
