package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Session   SessionConfig
	Clearance ClearanceConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	StorageDriver string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	FlightsTTL time.Duration
}

type KafkaConfig struct {
	Brokers        []string
	TicketTopic    string
	ClearanceTopic string
}

type SessionConfig struct {
	ExpiryHours int
}

// ClearanceConfig holds the destination tables consulted by the border check.
// Entries are upper-case city or country names.
type ClearanceConfig struct {
	VisaRequired []string
	Restricted   []string
}

type AdminConfig struct {
	Username string
	Password string
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "airport-ops")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FLIGHTS_CACHE_TTL_SECONDS", 30)
	v.SetDefault("KAFKA_TICKET_TOPIC", "airport.tickets")
	v.SetDefault("KAFKA_CLEARANCE_TOPIC", "airport.clearances")
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("VISA_REQUIRED_DESTINATIONS", "USA,CANADA,UK,AUSTRALIA,JAPAN,CHINA")
	v.SetDefault("RESTRICTED_DESTINATIONS", "NORTH_KOREA,SYRIA,IRAN")

	// a missing .env is fine, the environment alone can configure the service
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:          v.GetString("APP_NAME"),
			Port:          v.GetString("PORT"),
			Debug:         v.GetBool("DEBUG"),
			LogPath:       v.GetString("LOG_PATH"),
			StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			FlightsTTL: time.Duration(v.GetInt("FLIGHTS_CACHE_TTL_SECONDS")) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:        SplitList(v.GetString("KAFKA_BROKERS")),
			TicketTopic:    v.GetString("KAFKA_TICKET_TOPIC"),
			ClearanceTopic: v.GetString("KAFKA_CLEARANCE_TOPIC"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Clearance: ClearanceConfig{
			VisaRequired: upperAll(SplitList(v.GetString("VISA_REQUIRED_DESTINATIONS"))),
			Restricted:   upperAll(SplitList(v.GetString("RESTRICTED_DESTINATIONS"))),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	return config, nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func upperAll(values []string) []string {
	for i, v := range values {
		values[i] = strings.ToUpper(v)
	}
	return values
}
