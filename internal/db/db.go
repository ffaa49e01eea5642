package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrSummaryDBPathMissing 表示未配置汇总数据库路径。
	ErrSummaryDBPathMissing = errors.New("summary database path is not configured")
	// ErrSummaryDBNotFound 表示只读模式下数据库文件不存在。
	ErrSummaryDBNotFound = errors.New("summary database file not found")
)

// OpenSummaryDB 打开汇总数据库。服务运行时始终以只读方式打开，
// 只有种子脚本与测试需要写入。
func OpenSummaryDB(path string, readOnly bool) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrSummaryDBPathMissing
	}

	dsn := path
	if readOnly {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrSummaryDBNotFound, path)
			}
			return nil, err
		}
		dsn = "file:" + path + "?mode=ro"
	} else if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		if gdb != nil {
			_ = Close(gdb)
		}
		return nil, fmt.Errorf("open summary database: %w", err)
	}
	return gdb, nil
}

// WithSummaryDB 以只读方式获取连接、执行 fn，并在任何退出路径上释放连接。
func WithSummaryDB(ctx context.Context, path string, fn func(tx *gorm.DB) error) error {
	gdb, err := OpenSummaryDB(path, true)
	if err != nil {
		return err
	}
	defer Close(gdb)

	return fn(gdb.WithContext(ctx))
}

// Close 关闭 gorm 底层的 *sql.DB。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSummarySchema 创建日表与月表，仅供种子脚本与测试使用。
func EnsureSummarySchema(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&DaySummary{}, &MonthSummary{})
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
