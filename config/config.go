package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Payment PaymentConfig `yaml:"payment"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	HTTPAddr               string   `yaml:"http_addr"`
	Port                   int      `yaml:"port"`
	SwaggerPath            string   `yaml:"swagger_path"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	CORSAllowedOrigins     []string `yaml:"cors_allowed_origins"`
}

type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres DatabaseConfig `yaml:"postgres"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	DBName   string `yaml:"name"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type PaymentConfig struct {
	SecretKey                string `yaml:"secret_key"`
	BaseURL                  string `yaml:"base_url"`
	IntentRateLimitPerMinute int    `yaml:"intent_rate_limit_per_minute"`
}

type RedisConfig struct {
	Addr                      string `yaml:"addr"`
	Host                      string `yaml:"host"`
	Port                      int    `yaml:"port"`
	TrackingHistoryTTLSeconds int    `yaml:"tracking_history_ttl_seconds"`
}

type KafkaConfig struct {
	Brokers               []string `yaml:"brokers"`
	Host                  string   `yaml:"host"`
	Port                  int      `yaml:"port"`
	ConsumerGroup         string   `yaml:"consumer_group"`
	TrackingIngestTopic   string   `yaml:"tracking_ingest_topic"`
	TrackingAppendedTopic string   `yaml:"tracking_appended_topic"`
	ParcelPaidTopic       string   `yaml:"parcel_paid_topic"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

// LoadFromEnv reads the YAML file at path when path is non-empty, then applies
// environment overrides and defaults. A .env file in the working directory is
// loaded first if present.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMongo:
		m := c.Store.Mongo
		if m.URI == "" && m.Host == "" && (m.Username != "" || m.Password != "") {
			return fmt.Errorf("mongo credentials are set but no host (DB_HOST) or uri (MONGODB_URI) is configured")
		}
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
		c.Server.HTTPAddr = ""
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Store.Mongo.URI = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Store.Mongo.Username = v
	}
	if v := os.Getenv("DB_PASS"); v != "" {
		c.Store.Mongo.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Store.Mongo.Host = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Store.Mongo.DBName = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Store.Postgres.DSN = v
	}
	if v := os.Getenv("PAYMENT_GATEWAY_SECRET"); v != "" {
		c.Payment.SecretKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("SWAGGER_PATH"); v != "" {
		c.Server.SwaggerPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

func (c *Config) withDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		c.Server.ShutdownTimeoutSeconds = 5
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreDriverMongo
	}
	if c.Store.Mongo.DBName == "" {
		c.Store.Mongo.DBName = "parcelDB"
	}
	if c.Store.Postgres.SSLMode == "" {
		c.Store.Postgres.SSLMode = "disable"
	}
	if c.Payment.IntentRateLimitPerMinute == 0 {
		c.Payment.IntentRateLimitPerMinute = 30
	}
	if c.Redis.TrackingHistoryTTLSeconds == 0 {
		c.Redis.TrackingHistoryTTLSeconds = 600
	}
	if c.Kafka.ConsumerGroup == "" {
		c.Kafka.ConsumerGroup = "zapshift-api"
	}
	if c.Kafka.TrackingIngestTopic == "" {
		c.Kafka.TrackingIngestTopic = "tracking.ingest"
	}
	if c.Kafka.TrackingAppendedTopic == "" {
		c.Kafka.TrackingAppendedTopic = "tracking.appended"
	}
	if c.Kafka.ParcelPaidTopic == "" {
		c.Kafka.ParcelPaidTopic = "parcel.paid"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c ServerConfig) Addr() string {
	if c.HTTPAddr != "" {
		return c.HTTPAddr
	}
	return ":" + strconv.Itoa(c.Port)
}

func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// ConnString returns URI when set. Otherwise credentials and host are combined
// into an Atlas-style SRV string. With neither host nor credentials it points
// at a local server; credentials without a host are rejected by LoadFromEnv.
func (c MongoConfig) ConnString() string {
	if c.URI != "" {
		return c.URI
	}
	if c.Host == "" {
		return "mongodb://localhost:27017"
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     c.Host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}

func (c DatabaseConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	host := c.Host
	if c.Port != 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     host,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	if c.Username != "" || c.Password != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}

// Address returns "" when Redis is not configured.
func (c RedisConfig) Address() string {
	if c.Addr != "" {
		return c.Addr
	}
	if c.Host == "" {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c RedisConfig) TrackingHistoryTTL() time.Duration {
	return time.Duration(c.TrackingHistoryTTLSeconds) * time.Second
}

// BrokerList returns nil when Kafka is not configured.
func (c KafkaConfig) BrokerList() []string {
	if len(c.Brokers) > 0 {
		return c.Brokers
	}
	if c.Host == "" {
		return nil
	}
	return []string{net.JoinHostPort(c.Host, strconv.Itoa(c.Port))}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
