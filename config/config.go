package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"

	ResultsMySQL  = "mysql"
	ResultsSQLite = "sqlite"
	ResultsNone   = "none"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8000"`

	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RoomStore     string        `env:"ROOM_STORE" envDefault:"redis"`
	RoomTTL       time.Duration `env:"ROOM_TTL" envDefault:"6h"`

	ResultsDriver string `env:"RESULTS_DRIVER" envDefault:"sqlite"`
	ResultsDSN    string `env:"RESULTS_DSN" envDefault:"file:splendor.db"`

	AIDelay       time.Duration `env:"AI_DELAY" envDefault:"3s"`
	AIAutoRestart bool          `env:"AI_AUTO_RESTART" envDefault:"false"`
	TurnTimeout   time.Duration `env:"TURN_TIMEOUT" envDefault:"0s"`

	// 为空时使用内置规则 AI
	AIRemoteURL     string        `env:"AI_REMOTE_URL"`
	AIRemoteTimeout time.Duration `env:"AI_REMOTE_TIMEOUT" envDefault:"2s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// Load 读取 .env（可选）后解析环境变量
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return Config{}, fmt.Errorf("加载 env 文件失败: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.RoomStore {
	case StoreRedis, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("ROOM_STORE=%q 不支持", c.RoomStore))
	}
	switch c.ResultsDriver {
	case ResultsMySQL, ResultsSQLite:
		if c.ResultsDSN == "" {
			errs = append(errs, errors.New("RESULTS_DSN 不能为空"))
		}
	case ResultsNone:
	default:
		errs = append(errs, fmt.Errorf("RESULTS_DRIVER=%q 不支持", c.ResultsDriver))
	}
	if c.RoomTTL <= 0 {
		errs = append(errs, errors.New("ROOM_TTL 必须大于 0"))
	}
	if c.AIRemoteURL != "" && c.AIRemoteTimeout <= 0 {
		errs = append(errs, errors.New("AI_REMOTE_TIMEOUT 必须大于 0"))
	}
	if c.AIDelay < 0 || c.TurnTimeout < 0 {
		errs = append(errs, errors.New("AI_DELAY/TURN_TIMEOUT 不能为负"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT=%q 不支持", c.LogFormat))
	}
	return errors.Join(errs...)
}
