package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// SummaryDBFileName 是外部同步程序生成的汇总数据库文件名。
const SummaryDBFileName = "garmin_summary.db"

// AppConfig 汇总运行服务所需的基础配置，进程启动时读取一次后不再变化。
type AppConfig struct {
	ListenAddr      string
	Port            string
	GinMode         string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	SummaryDBDir    string
	MailgunAPIKey   string
	MailgunAPIBase  string
	FromEmail       string
	FromEmailDomain string
	FromName        string
	ToEmail         string
	ReportTimezone  string
}

// SummaryDBPath 返回汇总数据库的完整路径，目录未配置时返回空字符串。
func (c AppConfig) SummaryDBPath() string {
	if c.SummaryDBDir == "" {
		return ""
	}
	return filepath.Join(c.SummaryDBDir, SummaryDBFileName)
}

// Load 先尝试加载 .env 文件，再从环境变量读取配置并为缺失项提供默认值。
// API Key、数据库路径等关键项缺失时不会在此报错，而是在首次使用时失败。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[CONFIG] failed to load .env: %v", err)
	}

	port := getEnv("PORT", "3000")

	listenAddr := getEnv("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		GinMode:         getEnv("GIN_MODE", "release"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		SummaryDBDir:    getEnv("GARMIN_SUMMARY_DB_PATH", ""),
		MailgunAPIKey:   getEnv("MAILGUN_API_KEY", ""),
		MailgunAPIBase:  getEnv("MAILGUN_API_BASE", ""),
		FromEmail:       getEnv("FROM_EMAIL", ""),
		FromEmailDomain: getEnv("FROM_EMAIL_DOMAIN", ""),
		FromName:        getEnv("FROM_NAME", "Garmin Assistant"),
		ToEmail:         getEnv("TO_EMAIL", ""),
		ReportTimezone:  getEnv("REPORT_TIMEZONE", "America/New_York"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
