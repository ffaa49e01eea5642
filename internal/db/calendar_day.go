package db

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const calendarDayLayout = "2006-01-02"

// CalendarDay 是 "YYYY-MM-DD" 形式的日期键。
// 外部同步程序把 day/first_day 声明为 DATE，sqlite 驱动会将其读成 time.Time，
// 扫描时统一还原为 ISO 日期文本。
type CalendarDay string

// Scan 实现 sql.Scanner。
func (d *CalendarDay) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = CalendarDay(v.Format(calendarDayLayout))
	case string:
		*d = CalendarDay(v)
	case []byte:
		*d = CalendarDay(string(v))
	default:
		return fmt.Errorf("unsupported calendar day value %T", value)
	}
	return nil
}

// Value 以文本写入，与外部程序存储的格式一致。
func (d CalendarDay) Value() (driver.Value, error) {
	return string(d), nil
}

// GormDataType 让 AutoMigrate 建出与外部库相同的 DATE 列。
func (CalendarDay) GormDataType() string {
	return "date"
}

func (d CalendarDay) String() string {
	return string(d)
}
