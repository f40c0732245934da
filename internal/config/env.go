package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LIBRARY"

type Env struct {
	App  AppConfig  `mapstructure:"app"`
	DB   DBConfig   `mapstructure:"db"`
	JWT  JWTConfig  `mapstructure:"jwt"`
	AMQP AMQPConfig `mapstructure:"amqp"`
	Log  LogConfig  `mapstructure:"log"`
	CORS CORSConfig `mapstructure:"cors"`
}

type AppConfig struct {
	Addr         string `mapstructure:"addr"`
	GinMode      string `mapstructure:"gin_mode"`
	AllowDBReset bool   `mapstructure:"allow_db_reset"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.addr", ":8080")
	v.SetDefault("app.gin_mode", "")
	v.SetDefault("app.allow_db_reset", false)

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", "file:library.db?_pragma=foreign_keys(1)")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 25)
	v.SetDefault("db.conn_max_lifetime", 10*time.Minute)
	v.SetDefault("db.conn_max_idle_time", 5*time.Minute)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.ttl", 24*time.Hour)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "library.orders")
	v.SetDefault("amqp.queue", "library.orders.log")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	})
}

// LoadEnv reads defaults, an optional config file, then LIBRARY_* env vars
// (e.g. LIBRARY_DB_DSN overrides db.dsn).
func LoadEnv(configFile string) (Env, error) {
	v := viper.New()
	setDefaults(v)

	if configFile = strings.TrimSpace(configFile); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Env{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return Env{}, fmt.Errorf("decode config: %w", err)
	}
	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e Env) Validate() error {
	switch e.DB.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("db.driver must be %q or %q, got %q", DriverMySQL, DriverSQLite, e.DB.Driver)
	}
	if strings.TrimSpace(e.DB.DSN) == "" {
		return fmt.Errorf("db.dsn is required")
	}
	if strings.TrimSpace(e.JWT.Secret) == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if e.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive")
	}
	return nil
}
