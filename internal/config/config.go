package config

import (
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Port     string
	Env      string
	SeedDemo bool
}

type StoreConfig struct {
	Driver        string
	DSN           string // sqlite file or postgres DSN
	MongoURI      string
	MongoDatabase string
	Timeout       time.Duration // deadline applied to every store call
}

type RabbitMQConfig struct {
	URL string // empty disables catalog events
}

type RedisConfig struct {
	Addr     string // empty disables the list cache
	Password string
	DB       int
	TTL      time.Duration
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "stockdesk.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "stockdesk")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			SeedDemo: v.GetBool("SEED_DEMO_DATA"),
		},
		Store: StoreConfig{
			Driver:        v.GetString("STORE_DRIVER"),
			DSN:           v.GetString("DATABASE_DSN"),
			MongoURI:      v.GetString("MONGO_URI"),
			MongoDatabase: v.GetString("MONGO_DATABASE"),
			Timeout:       v.GetDuration("STORE_TIMEOUT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: v.GetString("RABBITMQ_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
	}, nil
}
