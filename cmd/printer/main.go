package main

import (
	"context"
	"github.com/ariefcatur/go-kot-pos/internal/config"
	kafkax "github.com/ariefcatur/go-kot-pos/internal/kafka"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/printing"
	"github.com/ariefcatur/go-kot-pos/internal/redisx"
	"github.com/joho/godotenv"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	out := os.Stdout
	if path := os.Getenv("PRINTER_DEVICE"); path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			log.Fatalf("printer device: %v", err)
		}
		defer f.Close()
		out = f
	}

	station := &printing.Station{
		Redis:       rdb,
		Out:         printing.WriterPrinter{W: out},
		ServiceName: cfg.ServiceName + "-printer",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.PrinterGroup, kot.TopicKotCommitted, cfg.PrinterWorkers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Printf("print station started: group=%s topic=%s workers=%d", cfg.PrinterGroup, kot.TopicKotCommitted, cfg.PrinterWorkers)
		if err := cons.Start(ctx, station.HandleKotCommitted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down print station...")
	cancel()
	<-done
}
