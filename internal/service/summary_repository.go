package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/garminreport/internal/db"
	"gorm.io/gorm"
)

// SummaryRepository 定义日表与月表的只读查询能力，便于在测试中替换。
// 查不到记录时返回 nil 与 nil 错误。
type SummaryRepository interface {
	FetchDaily(ctx context.Context, day string) (*db.DaySummary, error)
	FetchMonthly(ctx context.Context, firstDay string) (*db.MonthSummary, error)
}

// GarminSummaryRepository 每次查询都单独打开并关闭一次数据库连接。
type GarminSummaryRepository struct {
	path string
}

// NewGarminSummaryRepository 使用数据库文件完整路径构造仓储。
func NewGarminSummaryRepository(path string) *GarminSummaryRepository {
	return &GarminSummaryRepository{path: path}
}

// FetchDaily 按 day 精确查询日汇总。
func (r *GarminSummaryRepository) FetchDaily(ctx context.Context, day string) (*db.DaySummary, error) {
	var row db.DaySummary
	found := false
	err := db.WithSummaryDB(ctx, r.path, func(tx *gorm.DB) error {
		err := tx.Where("day = ?", day).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch daily summary %s: %w", day, err)
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// FetchMonthly 按 first_day 精确查询月汇总。
func (r *GarminSummaryRepository) FetchMonthly(ctx context.Context, firstDay string) (*db.MonthSummary, error) {
	var row db.MonthSummary
	found := false
	err := db.WithSummaryDB(ctx, r.path, func(tx *gorm.DB) error {
		err := tx.Where("first_day = ?", firstDay).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch monthly summary %s: %w", firstDay, err)
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// Ping 打开数据库并确认连接可用，供健康检查使用。
func (r *GarminSummaryRepository) Ping(ctx context.Context) error {
	return db.WithSummaryDB(ctx, r.path, func(tx *gorm.DB) error {
		sqlDB, err := tx.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}
