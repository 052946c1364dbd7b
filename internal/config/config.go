package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvDevelopment relaxes secret validation and exposes internal error messages.
	EnvDevelopment = "development"
	// EnvProduction is the default environment.
	EnvProduction = "production"

	placeholderSecret = "change-me"
)

// Config holds application level configuration.
type Config struct {
	App struct {
		Env string `mapstructure:"env"`
	} `mapstructure:"app"`

	Server struct {
		Port            string        `mapstructure:"port"`
		BodyLimit       string        `mapstructure:"body_limit"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	DB struct {
		Driver      string `mapstructure:"driver"` // mysql | postgres
		DSN         string `mapstructure:"dsn"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"db"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret    string        `mapstructure:"secret"`
		ExpiresIn time.Duration `mapstructure:"expires_in"`
	} `mapstructure:"jwt"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // text | json
	} `mapstructure:"log"`

	Login struct {
		RateLimit float64 `mapstructure:"rate_limit"` // requests per second per client IP
	} `mapstructure:"login"`

	Sandbox struct {
		APIKey string        `mapstructure:"api_key"`
		OTPTTL time.Duration `mapstructure:"otp_ttl"`
	} `mapstructure:"sandbox"`

	Admin struct {
		Email     string `mapstructure:"email"`
		Password  string `mapstructure:"password"`
		FirstName string `mapstructure:"first_name"`
		LastName  string `mapstructure:"last_name"`
	} `mapstructure:"admin"`
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

// Load builds the server Config from defaults, an optional YAML file and the
// environment. Environment keys are the upper-cased config keys with dots
// replaced by underscores, e.g. JWT_SECRET or DB_DSN.
func Load() (*Config, error) {
	return load(validateServer)
}

// LoadSeed is Load for the admin seeder. It never signs tokens or serves
// HTTP, so only the database settings are checked.
func LoadSeed() (*Config, error) {
	return load(validateDB)
}

func load(validate func(*Config) error) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", EnvProduction)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.body_limit", "10kb")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.dsn", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", placeholderSecret)
	v.SetDefault("jwt.expires_in", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("login.rate_limit", 5.0)
	v.SetDefault("sandbox.api_key", "your_api_key_here")
	v.SetDefault("sandbox.otp_ttl", 5*time.Minute)
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.first_name", "Michael")
	v.SetDefault("admin.last_name", "Johnson")

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func validateServer(c *Config) error {
	secret := strings.TrimSpace(c.JWT.Secret)
	if secret == "" {
		return errors.New("jwt.secret must be set")
	}
	if secret == placeholderSecret && !c.IsDevelopment() {
		return errors.New("jwt.secret must not be the placeholder outside development")
	}
	if c.JWT.ExpiresIn <= 0 {
		return errors.New("jwt.expires_in must be positive")
	}
	if c.Login.RateLimit <= 0 {
		return errors.New("login.rate_limit must be positive")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port must not be empty")
	}
	return validateDB(c)
}

func validateDB(c *Config) error {
	switch c.DB.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	return nil
}
