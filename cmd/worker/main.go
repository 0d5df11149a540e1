package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/stockmarket-dev/config"
	"github.com/joripage/stockmarket-dev/pkg/exchange/repo"
	"github.com/joripage/stockmarket-dev/pkg/exchange/worker"
	postgres_wrapper "github.com/joripage/stockmarket-dev/pkg/infra/postgres"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)
	defer logger.Sync() // nolint

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx := context.Background()

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		panic(err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		panic(err)
	}

	_, _ = js.AddStream(&nats.StreamConfig{
		Name:     cfg.Nats.Stream,
		Subjects: []string{cfg.Nats.Subject},
	})

	db := postgres_wrapper.InitPostgresWithBackoff(cfg.MarketDB)

	w := worker.NewWorker(repo.NewRepo(db))
	if err := w.StartConsumer(ctx, js, cfg.Nats.Subject, cfg.Nats.Durable); err != nil {
		zap.S().Fatalf("consumer stopped: %v", err)
	}
}
