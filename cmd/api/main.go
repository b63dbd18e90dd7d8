package main

import (
	"context"
	"github.com/ariefcatur/go-kot-pos/internal/config"
	"github.com/ariefcatur/go-kot-pos/internal/httpx"
	kafkax "github.com/ariefcatur/go-kot-pos/internal/kafka"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/menu"
	"github.com/ariefcatur/go-kot-pos/internal/postgres"
	"github.com/ariefcatur/go-kot-pos/internal/printing"
	"github.com/ariefcatur/go-kot-pos/internal/redisx"
	"github.com/ariefcatur/go-kot-pos/internal/session"
	"github.com/joho/godotenv"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer feeding the print station
	prod := kafkax.NewProducer(cfg.KafkaBrokers, kot.TopicKotCommitted, 1024)
	prod.Start(ctx)

	tickets := &kot.Repo{DB: db}
	h := &httpx.Handler{
		Sessions: session.NewRegistry(),
		Menu:     &menu.Repo{DB: db},
		Committer: &kot.Committer{
			Sequencer: &kot.Sequencer{
				Store:    tickets,
				Mode:     cfg.SequenceMode,
				Location: cfg.Location,
			},
			Store:       tickets,
			Printer:     &printing.KafkaPrinter{Producer: prod, Service: cfg.ServiceName},
			MaxAttempts: cfg.CommitAttempts,
		},
		Tickets:  tickets,
		Redis:    rdb,
		Location: cfg.Location,
	}
	router := httpx.NewRouter()
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s (sequence mode %s)", cfg.HTTPAddr, cfg.SequenceMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	prod.WaitClosed()
}
