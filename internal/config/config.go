package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/markimagemTv/botrailway/internal/recurrence"
)

type Config struct {
	BotToken    string
	DatabaseURL string
	RedisURL    string // optional; enables the Redis session store

	SessionTTL  time.Duration
	AdminChatID int64 // optional; enables /stats for that chat

	RecurrencePolicy recurrence.Policy
	RecurrenceCount  int // rows pre-generated under fixed-count
}

func MustLoad() Config {
	// local .env is a convenience; real deployments set the environment
	_ = godotenv.Load()

	bt := os.Getenv("BOT_TOKEN")
	if bt == "" {
		log.Fatal("BOT_TOKEN is required")
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ttl := 30 * time.Minute
	if v := os.Getenv("SESSION_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			log.Fatalf("invalid SESSION_TTL %q", v)
		}
		ttl = parsed
	}

	var adminID int64
	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("invalid ADMIN_CHAT_ID %q", v)
		}
		adminID = parsed
	}

	policy := recurrence.PolicyPerpetual
	if v := os.Getenv("RECURRENCE_POLICY"); v != "" {
		policy = recurrence.Policy(v)
		if !policy.Valid() {
			log.Fatalf("invalid RECURRENCE_POLICY %q (use perpetual or fixed-count)", v)
		}
	}

	count := 12
	if v := os.Getenv("RECURRENCE_COUNT"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			log.Fatalf("invalid RECURRENCE_COUNT %q (use 1..100)", v)
		}
		count = parsed
	}

	return Config{
		BotToken:         bt,
		DatabaseURL:      dsn,
		RedisURL:         os.Getenv("REDIS_URL"),
		SessionTTL:       ttl,
		AdminChatID:      adminID,
		RecurrencePolicy: policy,
		RecurrenceCount:  count,
	}
}
