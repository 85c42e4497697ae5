package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"prod"`
	HTTPServer HttpServer `yaml:"http_server"`
	Database   Database   `yaml:"database"`
	Migrations Migrations `yaml:"migrations"`
	Auth       Auth       `yaml:"auth"`
}

type HttpServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Database.Driver is either "postgres" or "sqlite".
type Database struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"postgres"`
	DSN    string `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
}

type Migrations struct {
	AutoMigrate bool `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"false"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"24h"`
	Admins    []string      `yaml:"admins" env:"ADMINS" env-separator:","`
}

// MustLoad panics if config can not be found.
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is required")
	}

	return MustLoadPath(configPath)
}

// MustLoadPath panics if the config at configPath can not be read.
func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); err != nil {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from cmd flag or environment variable.
// flag > env > default.
// default = "".
func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "Path to the configuration file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	return path
}
