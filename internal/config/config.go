// Package config loads config.yaml and CLUBSPHERE_* environment overrides into a typed Config.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "CLUBSPHERE"

type Config struct {
	Server   Server
	Settings Settings
	Store    Store
	Auth     Auth
	Redis    Redis
	Kafka    Kafka
	SMTP     SMTP
	Payments Payments
}

type Server struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Mode              string
}

type Settings struct {
	Debug     bool
	LogToFile bool
	LogsDir   string
}

type Store struct {
	Driver   string
	DSN      string
	Database string
}

type Auth struct {
	Provider          string
	FirebaseProjectID string
	JWKSURL           string
	LocalSecret       string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Payments struct {
	StripeSecretKey string
	Currency        string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read-header-timeout", 5*time.Second)
	v.SetDefault("server.shutdown-timeout", 10*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("settings.debug", false)
	v.SetDefault("settings.log-to-file", false)
	v.SetDefault("settings.logs-dir", "logs")

	v.SetDefault("store.driver", "mongo")
	v.SetDefault("store.dsn", "mongodb://localhost:27017")
	v.SetDefault("store.database", "clubsphere")

	v.SetDefault("auth.provider", "firebase")
	v.SetDefault("auth.firebase-project-id", "")
	v.SetDefault("auth.jwks-url", "")
	v.SetDefault("auth.local-secret", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock-ttl", 10*time.Second)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "clubsphere.events")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")

	v.SetDefault("payments.stripe-secret-key", "")
	v.SetDefault("payments.currency", "usd")
}

// Load reads path when given, otherwise ./config.yaml if it exists. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Server: Server{
			Addr:              v.GetString("server.addr"),
			ReadHeaderTimeout: v.GetDuration("server.read-header-timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown-timeout"),
			Mode:              v.GetString("server.mode"),
		},
		Settings: Settings{
			Debug:     v.GetBool("settings.debug"),
			LogToFile: v.GetBool("settings.log-to-file"),
			LogsDir:   v.GetString("settings.logs-dir"),
		},
		Store: Store{
			Driver:   strings.ToLower(v.GetString("store.driver")),
			DSN:      v.GetString("store.dsn"),
			Database: v.GetString("store.database"),
		},
		Auth: Auth{
			Provider:          strings.ToLower(v.GetString("auth.provider")),
			FirebaseProjectID: v.GetString("auth.firebase-project-id"),
			JWKSURL:           v.GetString("auth.jwks-url"),
			LocalSecret:       v.GetString("auth.local-secret"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			LockTTL:  v.GetDuration("redis.lock-ttl"),
		},
		Kafka: Kafka{
			Brokers: splitList(v.GetStringSlice("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
		SMTP: SMTP{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
		},
		Payments: Payments{
			StripeSecretKey: v.GetString("payments.stripe-secret-key"),
			Currency:        strings.ToLower(v.GetString("payments.currency")),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList also accepts "a,b" from an environment variable.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "mongo":
		if c.Store.Database == "" {
			return errors.New("store.database is required for the mongo driver")
		}
	case "mysql", "postgres":
	default:
		return fmt.Errorf("store.driver %q is not one of mongo, mysql, postgres", c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return errors.New("store.dsn is required")
	}

	switch c.Auth.Provider {
	case "firebase":
		if c.Auth.FirebaseProjectID == "" {
			return errors.New("auth.firebase-project-id is required for the firebase provider")
		}
	case "local":
		if c.Auth.LocalSecret == "" {
			return errors.New("auth.local-secret is required for the local provider")
		}
	default:
		return fmt.Errorf("auth.provider %q is not one of firebase, local", c.Auth.Provider)
	}
	return nil
}
