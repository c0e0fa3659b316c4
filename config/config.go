package config

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	ListenAddr    string
	PublicBaseURL string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisAddr   string
	KafkaBroker string

	JWTSecret string
	TokenTTL  time.Duration
	DraftTTL  time.Duration

	ScanTrimSchedule string

	MenuSvcURL      string
	IdentitySvcURL  string
	SupportSvcURL   string
	AnalyticsSvcURL string

	LogLevel string
	LogFile  string
}

// Load reads the environment, seeding it from a .env file when one exists.
// defaultAddr is the listen address used when LISTEN_ADDR is unset.
// ErrNoJWTSecret is returned by RequireJWTSecret when JWT_SECRET is unset.
var ErrNoJWTSecret = errors.New("JWT_SECRET not set")

func Load(defaultAddr string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", defaultAddr),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBName:           getEnv("DB_NAME", "qrmenu"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		RedisAddr:        getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		KafkaBroker:      getEnv("KAFKA_BROKER", "localhost:9092"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		DraftTTL:         time.Duration(getEnvInt("DRAFT_TTL_HOURS", 24)) * time.Hour,
		ScanTrimSchedule: getEnv("SCAN_TRIM_SCHEDULE", "@daily"),
		MenuSvcURL:       getEnv("MENU_SVC_URL", "http://localhost:8081"),
		IdentitySvcURL:   getEnv("IDENTITY_SVC_URL", "http://localhost:8082"),
		SupportSvcURL:    getEnv("SUPPORT_SVC_URL", "http://localhost:8083"),
		AnalyticsSvcURL:  getEnv("ANALYTICS_SVC_URL", "http://localhost:8084"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
	}
}

func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

func MustInitPostgres(cfg *Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

// RequireJWTSecret fails for services that sign or verify tokens but have no
// secret configured.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}

// MustJWTSecret stops the process when RequireJWTSecret fails.
func (c *Config) MustJWTSecret() {
	if err := c.RequireJWTSecret(); err != nil {
		log.Fatal("Invalid auth config:", err)
	}
}

func NewKafkaReader(cfg *Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg *Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		WriteTimeout:           2 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
