package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/stockmarket-dev/config"
	"github.com/joripage/stockmarket-dev/pkg/exchange"
	fixgateway "github.com/joripage/stockmarket-dev/pkg/exchange/fix"
	redis_wrapper "github.com/joripage/stockmarket-dev/pkg/infra/redis"
	kafkawrapper "github.com/joripage/stockmarket-dev/pkg/kafka_wrapper"
	"github.com/joripage/stockmarket-dev/pkg/market"
)

func main() {
	go func() {
		http.ListenAndServe("localhost:6060", nil)
	}()

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	mkt := market.NewMarket()
	for _, s := range cfg.Stocks {
		mkt.AddStock(s.Symbol, s.Name, s.Price)
	}

	history := market.NewPriceHistory()
	mkt.AttachSink(history)

	if cfg.Redis != nil {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			panic(err)
		}
		mkt.AttachSink(market.NewRedisPriceCache(redisClient, "price", 0))
	}

	if cfg.Kafka != nil {
		producer := kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
		})
		defer producer.Close() // nolint
		mkt.AttachSink(market.NewKafkaPriceFeed(producer, cfg.Kafka.PriceTopic))
	}

	ex := exchange.New(mkt)

	if cfg.Nats != nil {
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			panic(err)
		}
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			panic(err)
		}
		feed, err := exchange.NewNatsSettlementFeed(js, cfg.Nats.Stream, cfg.Nats.Subject)
		if err != nil {
			panic(err)
		}
		ex.SetPublisher(feed)
	}

	if cfg.Fix != nil {
		gw := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
			ConfigFilepath: cfg.Fix.ConfigFilepath,
		})
		gw.AttachPlacer(ex)
		ex.SetGateway(gw)
		defer gw.Stop()
	}

	if err := ex.Start(ctx); err != nil {
		panic(err)
	}
	fmt.Println("Exchange started. Press Ctrl+C to exit.")

	interval := time.Duration(cfg.CycleIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ex.RunCycle(ctx)
		case <-sigs:
			fmt.Println("Shutting down...")
			cancel()
			fmt.Println("Exited cleanly.")
			return
		}
	}
}
