// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `yaml:"app"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Audit     AuditConfig     `yaml:"audit"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

// OptimizerConfig 排班优化核心的全局策略配置，对应 spec §4.2/§4.3 的求解参数与目标权重
type OptimizerConfig struct {
	SolveTimeLimitMS    int64   `yaml:"solve_time_limit_ms"`
	EnumerationBudgetMS int64   `yaml:"enumeration_budget_ms"`
	Seed                int64   `yaml:"seed"`
	HammingDeltaMin     int     `yaml:"hamming_delta_min"`
	HammingFraction     float64 `yaml:"hamming_fraction"`
	ObjectiveBand       float64 `yaml:"objective_band"`
	DefaultOffQuota     int     `yaml:"default_off_quota"`

	WReqOff      float64 `yaml:"w_req_off"`
	WFairWeekend float64 `yaml:"w_fair_weekend"`
	WFairNight   float64 `yaml:"w_fair_night"`
	WPattern     float64 `yaml:"w_pattern"`
	WSlack       float64 `yaml:"w_slack"`
}

// AuditConfig 可选求解历史记录器配置。core 本身不持有持久化状态（spec §6），
// 未设置数据库连接信息或 Enabled=false 时，controller 以 nil Recorder 运行。
type AuditConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN 返回数据库连接字符串
func (c *AuditConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "nurseopt"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Optimizer: OptimizerConfig{
			SolveTimeLimitMS:    getEnvInt64("OPTIMIZER_SOLVE_TIME_LIMIT_MS", 30_000),
			EnumerationBudgetMS: getEnvInt64("OPTIMIZER_ENUMERATION_BUDGET_MS", 60_000),
			Seed:                getEnvInt64("OPTIMIZER_SEED", 1),
			HammingDeltaMin:     getEnvInt("OPTIMIZER_HAMMING_DELTA_MIN", 3),
			HammingFraction:     getEnvFloat("OPTIMIZER_HAMMING_FRACTION", 0.05),
			ObjectiveBand:       getEnvFloat("OPTIMIZER_OBJECTIVE_BAND", 0.15),
			DefaultOffQuota:     getEnvInt("OPTIMIZER_DEFAULT_OFF_QUOTA", 9),
			WReqOff:             getEnvFloat("OPTIMIZER_W_REQ_OFF", 1),
			WFairWeekend:        getEnvFloat("OPTIMIZER_W_FAIR_WEEKEND", 5),
			WFairNight:          getEnvFloat("OPTIMIZER_W_FAIR_NIGHT", 10),
			WPattern:            getEnvFloat("OPTIMIZER_W_PATTERN", 3),
			WSlack:              getEnvFloat("OPTIMIZER_W_SLACK", 10_000),
		},
		Audit: AuditConfig{
			Enabled:         getEnvBool("AUDIT_ENABLED", false),
			Host:            getEnv("AUDIT_DB_HOST", "localhost"),
			Port:            getEnvInt("AUDIT_DB_PORT", 5432),
			Name:            getEnv("AUDIT_DB_NAME", "nurseopt_audit"),
			User:            getEnv("AUDIT_DB_USER", "nurseopt"),
			Password:        getEnv("AUDIT_DB_PASSWORD", ""),
			SSLMode:         getEnv("AUDIT_DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("AUDIT_DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("AUDIT_DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("AUDIT_DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
