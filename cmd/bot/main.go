package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/markimagemTv/botrailway/internal/bot"
	"github.com/markimagemTv/botrailway/internal/config"
	"github.com/markimagemTv/botrailway/internal/db"
	"github.com/markimagemTv/botrailway/internal/dialog"
	"github.com/markimagemTv/botrailway/internal/report"
	"github.com/markimagemTv/botrailway/internal/repo"
	"github.com/markimagemTv/botrailway/internal/session"
)

func main() {
	cfg := config.MustLoad()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("bot init: %v", err)
	}
	botAPI.Debug = false

	var sessions session.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		defer client.Close()
		sessions = session.NewRedis(client, cfg.SessionTTL)
	} else {
		mem := session.NewMemory(cfg.SessionTTL)
		go mem.Sweep(ctx, cfg.SessionTTL/2)
		sessions = mem
	}

	contas := repo.NewContas(pool)
	reports := report.NewGenerator(contas)
	d := dialog.New(sessions, contas, reports, cfg.RecurrencePolicy, cfg.RecurrenceCount)
	h := bot.NewHandler(botAPI, cfg, d)

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.Printf("contas bot started as @%s", botAPI.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			log.Println("shutdown")
			return
		case upd := <-updates:
			go h.HandleUpdate(ctx, upd)
		}
	}
}
