package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Database struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// Policy holds business rules of the timesheet engine that must stay out of code.
type Policy struct {
	HoursPerDay                decimal.Decimal
	MonthlyLeaveAccrual        decimal.Decimal
	DefaultOpeningLeaveBalance decimal.Decimal
	Location                   *time.Location
}

type Jobs struct {
	PrepareCron    string
	RefreshCron    string
	PrepareWorkers int
	RefreshBatch   int
	// OutboxPurgeCron removes published events older than OutboxRetentionDays.
	OutboxPurgeCron     string
	OutboxRetentionDays int
}

type Config struct {
	Port        string
	RedisAddr   string
	KafkaBroker string
	DB          Database
	Policy      Policy
	Jobs        Jobs
}

func DefaultPolicy() Policy {
	return Policy{
		HoursPerDay:                decimal.NewFromInt(8),
		MonthlyLeaveAccrual:        decimal.NewFromInt(1),
		DefaultOpeningLeaveBalance: decimal.Zero,
		Location:                   time.UTC,
	}
}

// Load reads configuration from the environment. Call godotenv.Load beforehand to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnvOrDefault("PORT", "3000"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		DB: Database{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Jobs: Jobs{
			PrepareCron:     getEnvOrDefault("MONTHLY_PREPARE_CRON", "0 1 1 * *"),
			RefreshCron:     getEnvOrDefault("MONTHLY_REFRESH_CRON", "*/15 * * * *"),
			OutboxPurgeCron: getEnvOrDefault("OUTBOX_PURGE_CRON", "30 3 * * *"),
		},
	}

	policy, err := loadPolicy()
	if err != nil {
		return Config{}, err
	}
	cfg.Policy = policy

	if cfg.Jobs.PrepareWorkers, err = getIntOrDefault("MONTHLY_PREPARE_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.Jobs.RefreshBatch, err = getIntOrDefault("MONTHLY_REFRESH_BATCH", 200); err != nil {
		return Config{}, err
	}
	if cfg.Jobs.OutboxRetentionDays, err = getIntOrDefault("OUTBOX_RETENTION_DAYS", 7); err != nil {
		return Config{}, err
	}
	if cfg.Jobs.OutboxRetentionDays < 1 {
		return Config{}, fmt.Errorf("OUTBOX_RETENTION_DAYS must be positive")
	}
	if cfg.Jobs.PrepareWorkers < 1 {
		return Config{}, fmt.Errorf("MONTHLY_PREPARE_WORKERS must be positive")
	}

	return cfg, nil
}

func loadPolicy() (Policy, error) {
	p := DefaultPolicy()
	var err error

	if p.HoursPerDay, err = getDecimalOrDefault("TIMESHEET_HOURS_PER_DAY", p.HoursPerDay); err != nil {
		return Policy{}, err
	}
	if !p.HoursPerDay.IsPositive() {
		return Policy{}, fmt.Errorf("TIMESHEET_HOURS_PER_DAY must be positive")
	}
	if p.MonthlyLeaveAccrual, err = getDecimalOrDefault("LEAVE_MONTHLY_ACCRUAL", p.MonthlyLeaveAccrual); err != nil {
		return Policy{}, err
	}
	if p.MonthlyLeaveAccrual.IsNegative() {
		return Policy{}, fmt.Errorf("LEAVE_MONTHLY_ACCRUAL must not be negative")
	}
	if p.DefaultOpeningLeaveBalance, err = getDecimalOrDefault("LEAVE_DEFAULT_OPENING_BALANCE", p.DefaultOpeningLeaveBalance); err != nil {
		return Policy{}, err
	}

	tz := getEnvOrDefault("TIMESHEET_TIMEZONE", "Asia/Ho_Chi_Minh")
	if p.Location, err = time.LoadLocation(tz); err != nil {
		return Policy{}, fmt.Errorf("invalid TIMESHEET_TIMEZONE %q: %w", tz, err)
	}

	return p, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDecimalOrDefault(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getIntOrDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
