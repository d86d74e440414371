package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Store    string `yaml:"store" validate:"required,oneof=postgres redis memory"`
	HttpPort int    `yaml:"http_port" validate:"required,min=1,max=65535"`
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	DefaultPageLimit int `yaml:"default_page_limit" validate:"required,min=1"`
	MaxPageLimit     int `yaml:"max_page_limit" validate:"required,gtefield=DefaultPageLimit"`

	EnableReset        bool          `yaml:"enable_reset"` // exposes POST /api/admin/reset, never enable in production
	AutoMigrate        bool          `yaml:"auto_migrate"`
	CorsAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	SecureHeadersHTTPS bool          `yaml:"secure_headers_https"`
	StoreTimeout       time.Duration `yaml:"store_timeout"`

	CreateUserRPS   float64 `yaml:"create_user_rps" validate:"gte=0"`
	CreateUserBurst int     `yaml:"create_user_burst" validate:"gte=0"`
	CreatePostRPS   float64 `yaml:"create_post_rps" validate:"gte=0"`
	CreatePostBurst int     `yaml:"create_post_burst" validate:"gte=0"`
}

type Private struct {
	Pg    Pg    `yaml:"pg"`
	Redis Redis `yaml:"redis"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (p Pg) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Dbname)
}

// StoreTimeoutOrDefault bounds every store call made on behalf of a request.
func (c *Config) StoreTimeoutOrDefault() time.Duration {
	if c.Public.StoreTimeout <= 0 {
		return 5 * time.Second
	}
	return c.Public.StoreTimeout
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c.Public); err != nil {
		return err
	}
	switch c.Public.Store {
	case StorePostgres:
		if c.Private.Pg.Host == "" || c.Private.Pg.Dbname == "" {
			return fmt.Errorf("pg host and dbname are required for store %q", c.Public.Store)
		}
	case StoreRedis:
		if c.Private.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for store %q", c.Public.Store)
		}
	}
	return nil
}
