package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Redis       RedisConfig       `yaml:"redis"`
	Log         LogConfig         `yaml:"log"`
	Rating      RatingConfig      `yaml:"rating"`
	ActivityLog ActivityLogConfig `yaml:"activity_log"`
	Seed        SeedConfig        `yaml:"seed"`
	Export      ExportConfig      `yaml:"export"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// RedisConfig for the optional async task queue and template cache
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	CacheTTL int    `yaml:"cache_ttl"` // seconds, approved template cache
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Weight-sum rules for template ingestion.
const (
	WeightSumOff         = "off"
	WeightSumPerCategory = "per_category"
	WeightSumTotal       = "total"
)

type RatingConfig struct {
	WeightSumRule string  `yaml:"weight_sum_rule"` // off, per_category, total
	Tolerance     float64 `yaml:"tolerance"`
}

type ActivityLogConfig struct {
	RetentionDays int    `yaml:"retention_days"`
	CleanupCron   string `yaml:"cleanup_cron"`
}

type SeedConfig struct {
	TemplatesPath string `yaml:"templates_path"`
	AdminPassword string `yaml:"admin_password"`
}

// ExportConfig names TrueType fonts for PDF reports; empty uses the core
// Arial font, which only covers cp1252.
type ExportConfig struct {
	FontPath     string `yaml:"font_path"`
	BoldFontPath string `yaml:"bold_font_path"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := DefaultConfig()
		if err := yaml.Unmarshal(data, fileCfg); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "credit_ratings.db",
		},
		JWT: JWTConfig{
			Secret:     "credit-ratings-secret-key-change-in-production",
			ExpireHour: 24,
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			DB:       0,
			CacheTTL: 300,
		},
		Log: LogConfig{
			Level: "info",
		},
		Rating: RatingConfig{
			WeightSumRule: WeightSumTotal,
			Tolerance:     0.01,
		},
		ActivityLog: ActivityLogConfig{
			RetentionDays: 90,
			CleanupCron:   "0 3 * * *",
		},
		Seed: SeedConfig{
			AdminPassword: "admin123",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if rule := os.Getenv("WEIGHT_SUM_RULE"); rule != "" {
		c.Rating.WeightSumRule = rule
	}
	if days := os.Getenv("ACTIVITY_LOG_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			c.ActivityLog.RetentionDays = n
		}
	}
	if path := os.Getenv("SEED_TEMPLATES_PATH"); path != "" {
		c.Seed.TemplatesPath = path
	}
	if font := os.Getenv("EXPORT_FONT_PATH"); font != "" {
		c.Export.FontPath = font
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		// Password format: :password or user:password
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

// NormalizedWeightSumRule returns the configured rule, falling back to total
// for unknown values.
func (r RatingConfig) NormalizedWeightSumRule() string {
	switch strings.ToLower(strings.TrimSpace(r.WeightSumRule)) {
	case WeightSumOff:
		return WeightSumOff
	case WeightSumPerCategory:
		return WeightSumPerCategory
	default:
		return WeightSumTotal
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
