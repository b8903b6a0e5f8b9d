package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisHost string
	RedisPort string

	KafkaBroker string

	HTTPAddr   string
	VenueFile  string
	AdminEmail string
	DeviceID   string
	LogLevel   string
}

// Load reads the process environment. A .env file in the working directory,
// if present, fills in variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env: %v", err)
	}

	return Config{
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBName:      getenv("DB_NAME", "ordering"),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		RedisHost:   getenv("REDIS_HOST", "localhost"),
		RedisPort:   getenv("REDIS_PORT", "6379"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8081"),
		VenueFile:   getenv("VENUE_FILE", "venue.yaml"),
		AdminEmail:  os.Getenv("ADMIN_EMAIL"),
		DeviceID:    getenv("DEVICE_ID", "default"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// OpenPostgres opens the pool. A failed ping is logged only: the gateway
// falls back to the local cache while the database is unreachable.
func OpenPostgres(ctx context.Context, c Config, logger *slog.Logger) *sql.DB {
	db, err := sql.Open("postgres", c.PostgresDSN())
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		logger.Warn("database unreachable, starting with local fallback", slog.Any("error", err))
	}

	return db
}

// MustInitRedis connects to the local cache. The cache backs the offline
// fallback, so the process does not start without it.
func MustInitRedis(ctx context.Context, c Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(c Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{c.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(c Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
