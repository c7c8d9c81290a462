package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

type Config struct {
	RunAddress         string        `env:"RUN_ADDRESS"`
	StorageDriver      string        `env:"STORAGE_DRIVER"`
	DatabaseDSN        string        `env:"DATABASE_URI"`
	MigrationsDir      string        `env:"MIGRATIONS_DIR"`
	MongoURI           string        `env:"MONGO_URI"`
	MongoDB            string        `env:"MONGO_DB"`
	MongoTransactions  bool          `env:"MONGO_TRANSACTIONS"`
	JWTSecret          string        `env:"JWT_SECRET"`
	JWTTTL             time.Duration `env:"JWT_TTL"`
	CardExpiryInterval time.Duration `env:"CARD_EXPIRY_INTERVAL"`
	CardExpiryBatch    uint          `env:"CARD_EXPIRY_BATCH"`
}

const (
	fRunAddress         = "address"
	fStorage            = "storage"
	fDatabaseDSN        = "database-uri"
	fMigrationsDir      = "migrations"
	fMongoURI           = "mongo-uri"
	fMongoDB            = "mongo-db"
	fMongoTransactions  = "mongo-tx"
	fJWTSecret          = "jwt-secret"
	fJWTTTL             = "jwt-ttl"
	fCardExpiryInterval = "card-expiry-interval"
	fCardExpiryBatch    = "card-expiry-batch"
)

// Flags флаги командной строки. Значения флагов используются, только если соответствующая переменная
// окружения пуста.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: fRunAddress, Aliases: []string{"a"}, Value: "localhost:8080", Usage: "Run address in format host:port"},
		&cli.StringFlag{Name: fStorage, Value: StoragePostgres, Usage: "Storage driver: postgres or mongo"},
		&cli.StringFlag{Name: fDatabaseDSN, Aliases: []string{"d"}, Usage: "Database DSN"},
		&cli.StringFlag{Name: fMigrationsDir, Aliases: []string{"m"}, Value: "internal/db/migrations", Usage: "Database migrations directory"},
		&cli.StringFlag{Name: fMongoURI, Usage: "MongoDB connection URI"},
		&cli.StringFlag{Name: fMongoDB, Value: "bank", Usage: "MongoDB database name"},
		&cli.BoolFlag{Name: fMongoTransactions, Usage: "Use MongoDB session transactions (replica set required)"},
		&cli.StringFlag{Name: fJWTSecret, Usage: "JWT signing secret"},
		&cli.DurationFlag{Name: fJWTTTL, Value: time.Hour, Usage: "JWT lifetime"},
		&cli.DurationFlag{Name: fCardExpiryInterval, Value: time.Hour, Usage: "Card expiry worker interval"},
		&cli.UintFlag{Name: fCardExpiryBatch, Value: 100, Usage: "Cards expired per worker iteration"}, //nolint:mnd
	}
}

// FromCLI собирает конфигурацию из флагов команды.
func FromCLI(c *cli.Context) Config {
	return Config{
		RunAddress:         c.String(fRunAddress),
		StorageDriver:      c.String(fStorage),
		DatabaseDSN:        c.String(fDatabaseDSN),
		MigrationsDir:      c.String(fMigrationsDir),
		MongoURI:           c.String(fMongoURI),
		MongoDB:            c.String(fMongoDB),
		MongoTransactions:  c.Bool(fMongoTransactions),
		JWTSecret:          c.String(fJWTSecret),
		JWTTTL:             c.Duration(fJWTTTL),
		CardExpiryInterval: c.Duration(fCardExpiryInterval),
		CardExpiryBatch:    c.Uint(fCardExpiryBatch),
	}
}

// LoadConfig читает .env (если есть), переменные окружения и дополняет их значениями флагов.
func LoadConfig(flagsConfig Config) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", err.Error())
	}

	var envConfig Config
	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate проверяет обязательные для выбранного хранилища параметры.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("database DSN is not set")
		}
	case StorageMongo:
		if c.MongoURI == "" {
			return errors.New("mongo URI is not set")
		}
		if c.MongoDB == "" {
			return errors.New("mongo database is not set")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("jwt secret is not set")
	}
	if c.JWTTTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	if c.CardExpiryInterval <= 0 {
		return errors.New("card expiry interval must be positive")
	}
	if c.CardExpiryBatch == 0 {
		return errors.New("card expiry batch must be positive")
	}
	return nil
}

// String маскирует секреты для логов.
func (c Config) String() string {
	masked := c
	if masked.JWTSecret != "" {
		masked.JWTSecret = "***"
	}
	masked.DatabaseDSN = maskIfSet(masked.DatabaseDSN)
	masked.MongoURI = maskIfSet(masked.MongoURI)

	type plain Config
	return fmt.Sprintf("%+v", plain(masked))
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:         defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		StorageDriver:      defaultIfBlank(envConfig.StorageDriver, flagsConfig.StorageDriver),
		DatabaseDSN:        defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:      defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		MongoURI:           defaultIfBlank(envConfig.MongoURI, flagsConfig.MongoURI),
		MongoDB:            defaultIfBlank(envConfig.MongoDB, flagsConfig.MongoDB),
		MongoTransactions:  envConfig.MongoTransactions || flagsConfig.MongoTransactions,
		JWTSecret:          defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		JWTTTL:             defaultIfBlank(envConfig.JWTTTL, flagsConfig.JWTTTL),
		CardExpiryInterval: defaultIfBlank(envConfig.CardExpiryInterval, flagsConfig.CardExpiryInterval),
		CardExpiryBatch:    defaultIfBlank(envConfig.CardExpiryBatch, flagsConfig.CardExpiryBatch),
	}
}

func defaultIfBlank[T comparable](value T, defaultValue T) T {
	var blank T
	if value == blank {
		return defaultValue
	}
	return value
}

func maskIfSet(value string) string {
	if value == "" {
		return ""
	}
	return "***"
}
